package view

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/Scalingo/projects-widget/model"
	"golang.org/x/net/html"
)

// stable identifiers the controller binds to
const (
	ProjectsID    = "projects"
	ErrorID       = "error"
	ThemeToggleID = "theme-toggle"
	SortSelectID  = "sort-select"
	LoadingID     = "loading"
)

var requiredIDs = []string{ProjectsID, ErrorID, ThemeToggleID, SortSelectID}

type PageOptions struct {
	Username     string
	ToggleAction string // form target of the theme toggle
	SortAction   string // form target of the sort control
}

// Document is the page the widget renders into. It is not safe for concurrent
// use, callers serialize access.
type Document struct {
	root *html.Node
	html *html.Node
}

// NewDocument builds the page skeleton with an empty card list. The sort
// control starts on the default sort key and the theme on light.
func NewDocument(opts PageOptions) *Document {
	if opts.ToggleAction == "" {
		opts.ToggleAction = "/theme/toggle"
	}

	if opts.SortAction == "" {
		opts.SortAction = "/"
	}

	title := opts.Username + "'s projects"

	sortSelect := element("select", "id", SortSelectID, "name", "sort", "onchange", "this.form.submit()")
	for _, k := range model.SortKeys {
		option := appendChildren(element("option", "value", string(k)), text(k.Label()))
		if k == model.DefaultSortKey {
			setAttr(option, "selected", "")
		}
		sortSelect.AppendChild(option)
	}

	head := appendChildren(element("head"),
		element("meta", "charset", "utf-8"),
		element("meta", "name", "viewport", "content", "width=device-width, initial-scale=1"),
		appendChildren(element("title"), text(title)),
	)

	body := appendChildren(element("body"),
		appendChildren(element("header", "class", "widget-header"),
			appendChildren(element("h1"), text(title)),
			appendChildren(element("form", "method", "post", "action", opts.ToggleAction, "class", "theme-form"),
				appendChildren(
					element("button", "type", "submit", "id", ThemeToggleID, "class", "theme-toggle", "aria-label", model.ThemeLight.ToggleLabel()),
					text("◐"),
				),
			),
		),
		appendChildren(element("form", "method", "get", "action", opts.SortAction, "class", "sort-form"),
			appendChildren(element("label", "for", SortSelectID), text("Sort by")),
			sortSelect,
			appendChildren(element("button", "type", "submit", "class", "sort-apply"), text("Apply")),
		),
		element("div", "id", ErrorID, "class", "error-message", "role", "alert"),
		element("div", "id", ProjectsID, "class", "projects-grid"),
	)

	htmlNode := appendChildren(element("html", "lang", "en", "data-theme", string(model.ThemeLight)), head, body)

	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	root.AppendChild(htmlNode)

	return &Document{root: root, html: htmlNode}
}

// ParseDocument reads a custom page. It must carry the data-theme root and
// every element listed by Validate, which callers are expected to check.
func ParseDocument(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	htmlNode := findElement(root, "html")
	if htmlNode == nil {
		return nil, fmt.Errorf("page has no html element")
	}

	return &Document{root: root, html: htmlNode}, nil
}

// Root exposes the node tree for queries
func (d *Document) Root() *html.Node {
	return d.root
}

func (d *Document) ElementByID(id string) *html.Node {
	return FindByID(d.root, id)
}

// Validate checks every attachment point the controller binds to is present
func (d *Document) Validate() error {
	var missing []string

	for _, id := range requiredIDs {
		if d.ElementByID(id) == nil {
			missing = append(missing, "#"+id)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("document is missing required elements: %s", strings.Join(missing, ", "))
	}

	return nil
}

// Theme returns the theme currently applied to the document, light when unset
func (d *Document) Theme() model.ThemePreference {
	value, _ := Attr(d.html, "data-theme")

	pref, err := model.ParseThemePreference(value)
	if err != nil {
		return model.ThemeLight
	}

	return pref
}

func (d *Document) SetTheme(pref model.ThemePreference) {
	setAttr(d.html, "data-theme", string(pref))
}

func (d *Document) ToggleLabel() string {
	if toggle := d.ElementByID(ThemeToggleID); toggle != nil {
		value, _ := Attr(toggle, "aria-label")
		return value
	}

	return ""
}

func (d *Document) SetToggleLabel(label string) {
	if toggle := d.ElementByID(ThemeToggleID); toggle != nil {
		setAttr(toggle, "aria-label", label)
	}
}

// SelectedSort returns the key the sort control currently holds
func (d *Document) SelectedSort() model.SortKey {
	sortSelect := d.ElementByID(SortSelectID)
	if sortSelect == nil {
		return model.DefaultSortKey
	}

	for option := sortSelect.FirstChild; option != nil; option = option.NextSibling {
		if _, selected := Attr(option, "selected"); !selected {
			continue
		}

		value, _ := Attr(option, "value")
		if k, err := model.ParseSortKey(value); err == nil {
			return k
		}
	}

	return model.DefaultSortKey
}

func (d *Document) SelectSort(key model.SortKey) {
	sortSelect := d.ElementByID(SortSelectID)
	if sortSelect == nil {
		return
	}

	for option := sortSelect.FirstChild; option != nil; option = option.NextSibling {
		if value, _ := Attr(option, "value"); value == string(key) {
			setAttr(option, "selected", "")
		} else {
			removeAttr(option, "selected")
		}
	}
}

// replaceChildren swaps the content of the element id, it is a no-op when the
// element does not exist
func (d *Document) replaceChildren(id string, children ...*html.Node) {
	n := d.ElementByID(id)
	if n == nil {
		return
	}

	removeChildren(n)
	appendChildren(n, children...)
}

func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

func (d *Document) String() string {
	var b bytes.Buffer
	if err := d.Render(&b); err != nil {
		return ""
	}

	return b.String()
}

// Clone returns an independent deep copy of the document
func (d *Document) Clone() *Document {
	root := cloneNode(d.root)
	return &Document{root: root, html: findElement(root, "html")}
}

func cloneNode(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(cloneNode(child))
	}

	return c
}

func findElement(root *html.Node, tag string) *html.Node {
	var found *html.Node

	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == tag {
			found = n
			return false
		}
		return true
	})

	return found
}
