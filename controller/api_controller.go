package controller

import (
	"bytes"
	"net/http"
	"net/url"
	"strings"

	"github.com/Scalingo/projects-widget/config"
	"github.com/Scalingo/projects-widget/model"
	"github.com/Scalingo/projects-widget/service"
	"github.com/Scalingo/projects-widget/store"
	"github.com/Scalingo/projects-widget/view"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const colorSchemeHint = "Sec-CH-Prefers-Color-Scheme"

type APIController interface {
	GetPage(ctx *gin.Context)
	ToggleTheme(ctx *gin.Context)
	GetRepositories(ctx *gin.Context)
	Health(ctx *gin.Context)
}

type apiController struct {
	githubService service.GithubService
	config        config.Config
	page          *view.Document
}

// NewAPIController serves the widget. page is the skeleton every request
// starts from, each request works on its own copy.
func NewAPIController(config config.Config, service service.GithubService, page *view.Document) APIController {
	return apiController{
		githubService: service,
		config:        config,
		page:          page,
	}
}

// newWidget builds the widget of a single request, the theme lives in cookies
func (s apiController) newWidget(c *gin.Context) (*view.Document, *WidgetController, error) {
	doc := s.page.Clone()
	themes := service.NewThemeStore(doc, store.NewCookieStore(c, s.config.Theme.SecureCookie), func() bool {
		return prefersDark(c)
	})

	widget, err := NewWidgetController(doc, themes, s.githubService)
	return doc, widget, err
}

func (s apiController) GetPage(c *gin.Context) {
	doc, widget, err := s.newWidget(c)
	if err != nil {
		log.WithError(err).Error("unable to build the widget page")
		c.String(http.StatusInternalServerError, "internal server error")
		return
	}

	doc.SelectSort(sortKeyFromQuery(c))

	// fetch errors are displayed in the page itself
	if err := widget.Load(c); err != nil {
		log.WithError(err).Debug("projects could not be loaded")
	}

	var page bytes.Buffer
	if err := widget.Render(&page); err != nil {
		log.WithError(err).Error("unable to render the widget page")
		c.String(http.StatusInternalServerError, "internal server error")
		return
	}

	c.Header("Accept-CH", colorSchemeHint)
	c.Header("Vary", colorSchemeHint)
	c.Data(http.StatusOK, "text/html; charset=utf-8", page.Bytes())
}

func (s apiController) ToggleTheme(c *gin.Context) {
	_, widget, err := s.newWidget(c)
	if err != nil {
		log.WithError(err).Error("unable to build the widget page")
		c.String(http.StatusInternalServerError, "internal server error")
		return
	}

	widget.InitTheme()
	pref := widget.ToggleTheme()

	log.WithField("theme", pref).Debug("theme toggled")
	c.Redirect(http.StatusSeeOther, redirectTarget(c.GetHeader("Referer")))
}

func (s apiController) GetRepositories(c *gin.Context) {
	sortKey := model.DefaultSortKey

	if value := c.Query("sort"); value != "" {
		k, err := model.ParseSortKey(value)
		if err != nil {
			c.JSON(http.StatusBadRequest, model.APIError{Code: "INVALID_SORT_KEY", Message: err.Error()})
			return
		}
		sortKey = k
	}

	// execute the request
	repos, err := s.githubService.FetchProjects(c, sortKey)
	if err != nil {
		status, apiErr := model.NewAPIError(err)
		c.JSON(status, apiErr)
		return
	}

	c.JSON(http.StatusOK, repos)
}

func (s apiController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// sortKeyFromQuery falls back to the default key when sort is missing or unknown
func sortKeyFromQuery(c *gin.Context) model.SortKey {
	value := c.Query("sort")
	if value == "" {
		return model.DefaultSortKey
	}

	k, err := model.ParseSortKey(value)
	if err != nil {
		log.WithField("sort", value).Debug("unknown sort key, using default")
		return model.DefaultSortKey
	}

	return k
}

func prefersDark(c *gin.Context) bool {
	return strings.Trim(c.GetHeader(colorSchemeHint), `"`) == "dark"
}

// redirectTarget keeps only the path and query of the referer so the toggle
// never redirects to another site
func redirectTarget(referer string) string {
	u, err := url.Parse(referer)
	if err != nil || u.Path == "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return "/"
	}

	target := &url.URL{Path: u.Path, RawQuery: u.RawQuery}
	return target.String()
}
