package view

import (
	"net/url"
	"strconv"

	"github.com/Scalingo/projects-widget/model"
	"golang.org/x/net/html"
)

const (
	EmptyNotice    = "No repositories found."
	LoadingMessage = "Loading projects..."
)

// RenderProjects replaces the card list with one card per record, keeping the
// order the API returned them in
func RenderProjects(doc *Document, records []model.RepositoryRecord) {
	if len(records) == 0 {
		doc.replaceChildren(ProjectsID, appendChildren(element("p", "class", "empty-notice"), text(EmptyNotice)))
		return
	}

	cards := make([]*html.Node, 0, len(records))
	for _, r := range records {
		cards = append(cards, NewProjectCard(r))
	}

	doc.replaceChildren(ProjectsID, cards...)
}

// NewProjectCard builds the card fragment of a single repository. Text and
// attribute values are escaped when the document is rendered.
func NewProjectCard(r model.RepositoryRecord) *html.Node {
	return appendChildren(element("div", "class", "project-card"),
		appendChildren(element("h3", "class", "project-name"), text(r.Name)),
		appendChildren(element("p", "class", "project-description"), text(r.DescriptionOrDefault())),
		appendChildren(element("div", "class", "project-meta"),
			appendChildren(element("span", "class", "language-badge"), text(r.LanguageOrDefault())),
			appendChildren(element("span", "class", "stars", "title", "Stars"), text("★ "+strconv.Itoa(r.StargazersCount))),
			appendChildren(element("span", "class", "forks", "title", "Forks"), text("⑂ "+strconv.Itoa(r.ForksCount))),
		),
		appendChildren(
			element("a", "class", "project-link", "href", safeURL(r.HTMLURL), "target", "_blank", "rel", "noopener noreferrer"),
			text("View on GitHub"),
		),
	)
}

// safeURL only lets absolute http(s) links through
func safeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "#"
	}

	return u.String()
}

// ShowLoading puts the loading indicator in place of the card list
func ShowLoading(doc *Document) {
	doc.replaceChildren(ProjectsID, appendChildren(element("p", "id", LoadingID, "class", "loading"), text(LoadingMessage)))
}

// HideLoading removes the loading indicator, it reports whether one was shown
func HideLoading(doc *Document) bool {
	loading := loadingIndicator(doc)
	if loading == nil || loading.Parent == nil {
		return false
	}

	loading.Parent.RemoveChild(loading)
	return true
}

// IsLoading reports whether the loading indicator is displayed
func IsLoading(doc *Document) bool {
	return loadingIndicator(doc) != nil
}

// the indicator only ever lives in the card container
func loadingIndicator(doc *Document) *html.Node {
	projects := doc.ElementByID(ProjectsID)
	if projects == nil {
		return nil
	}

	for c := projects.FirstChild; c != nil; c = c.NextSibling {
		if id, _ := Attr(c, "id"); c.Type == html.ElementNode && id == LoadingID {
			return c
		}
	}

	return nil
}
