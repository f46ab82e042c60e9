package controller

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/Scalingo/projects-widget/model"
	"github.com/Scalingo/projects-widget/service"
	"github.com/Scalingo/projects-widget/view"
	log "github.com/sirupsen/logrus"
)

type ProjectFetcher interface {
	FetchProjects(ctx context.Context, sortKey model.SortKey) ([]model.RepositoryRecord, error)
}

// WidgetController wires user interactions to the theme store, the fetcher and
// the document. Fetches may overlap, the most recently issued one owns the view.
type WidgetController struct {
	mu        sync.Mutex
	doc       *view.Document
	themes    *service.ThemeStore
	fetcher   ProjectFetcher
	requestID uint64
}

// NewWidgetController fails when the document lacks an element the controller binds to
func NewWidgetController(doc *view.Document, themes *service.ThemeStore, fetcher ProjectFetcher) (*WidgetController, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return &WidgetController{
		doc:     doc,
		themes:  themes,
		fetcher: fetcher,
	}, nil
}

// Load initializes the theme then fetches with the key the sort control holds
func (c *WidgetController) Load(ctx context.Context) error {
	c.InitTheme()

	c.mu.Lock()
	sortKey := c.doc.SelectedSort()
	c.mu.Unlock()

	return c.Refresh(ctx, sortKey)
}

func (c *WidgetController) InitTheme() model.ThemePreference {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.themes.Init()
}

func (c *WidgetController) ToggleTheme() model.ThemePreference {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.themes.Toggle()
}

// SelectSort moves the sort control to sortKey and fetches again
func (c *WidgetController) SelectSort(ctx context.Context, sortKey model.SortKey) error {
	c.mu.Lock()
	c.doc.SelectSort(sortKey)
	c.mu.Unlock()

	return c.Refresh(ctx, sortKey)
}

// Refresh runs one fetch/render cycle. The returned error is the fetch
// failure already displayed in the error region; a response superseded by a
// newer request is dropped and reported as nil.
func (c *WidgetController) Refresh(ctx context.Context, sortKey model.SortKey) error {
	c.mu.Lock()
	c.requestID++
	requestID := c.requestID
	view.ClearError(c.doc)
	view.ShowLoading(c.doc)
	c.mu.Unlock()

	records, err := c.fetcher.FetchProjects(ctx, sortKey)

	c.mu.Lock()
	defer c.mu.Unlock()

	// the newer request replaced the loading indicator and will clear it
	if requestID != c.requestID {
		log.WithFields(log.Fields{
			"requestID": requestID,
			"latestID":  c.requestID,
			"sort":      sortKey,
		}).Debug("stale projects response discarded")

		return nil
	}

	view.HideLoading(c.doc)

	if err != nil {
		view.ShowError(c.doc, errorMessage(err))
		return err
	}

	view.RenderProjects(c.doc, records)
	return nil
}

func (c *WidgetController) Render(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.doc.Render(w)
}

func errorMessage(err error) string {
	var fetchErr *model.FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Message
	}

	return err.Error()
}
