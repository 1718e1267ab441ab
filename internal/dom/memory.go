package dom

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// UploadedFile is a file attached to a file input on a MemoryPage.
type UploadedFile struct {
	Name string
	Data []byte
}

// MemoryPage is an in-memory document backed by a parsed HTML snapshot. It
// implements Page for the test suites and for dry runs, and records every
// mutation (values, clicks, dispatched events, uploads) so callers can assert
// on exactly what a fill did.
type MemoryPage struct {
	doc     *goquery.Document
	url     string
	values  map[*html.Node]string
	checked map[*html.Node]bool
	events  map[*html.Node][]string
	clicks  map[*html.Node]int
	uploads map[*html.Node]UploadedFile
}

// NewMemoryPage parses an HTML snapshot into a page reporting the given URL.
func NewMemoryPage(src, url string) (*MemoryPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("cannot parse document snapshot: %w", err)
	}
	return &MemoryPage{
		doc:     doc,
		url:     url,
		values:  make(map[*html.Node]string),
		checked: make(map[*html.Node]bool),
		events:  make(map[*html.Node][]string),
		clicks:  make(map[*html.Node]int),
		uploads: make(map[*html.Node]UploadedFile),
	}, nil
}

func (p *MemoryPage) URL() string { return p.url }

// Title returns the <title> text.
func (p *MemoryPage) Title() (string, error) {
	return strings.TrimSpace(p.doc.Find("title").Text()), nil
}

// HTML returns the parsed document re-serialized.
func (p *MemoryPage) HTML() (string, error) {
	return goquery.OuterHtml(p.doc.Selection)
}

func (p *MemoryPage) root() *html.Node {
	return p.doc.Selection.Nodes[0]
}

func (p *MemoryPage) Query(selector string) (Element, error) {
	return p.queryNode(p.root(), selector)
}

func (p *MemoryPage) QueryAll(selector string) ([]Element, error) {
	return p.queryNodes(p.root(), selector)
}

func (p *MemoryPage) queryNode(root *html.Node, selector string) (Element, error) {
	sel, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil, &SelectorError{Selector: selector, Cause: err}
	}
	n := cascadia.Query(root, sel)
	if n == nil {
		return nil, nil
	}
	return &memoryElement{page: p, node: n}, nil
}

func (p *MemoryPage) queryNodes(root *html.Node, selector string) ([]Element, error) {
	sel, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil, &SelectorError{Selector: selector, Cause: err}
	}
	nodes := cascadia.QueryAll(root, sel)
	els := make([]Element, len(nodes))
	for i, n := range nodes {
		els[i] = &memoryElement{page: p, node: n}
	}
	return els, nil
}

// Events returns the events dispatched on el, in dispatch order.
func (p *MemoryPage) Events(el Element) []string {
	if me, ok := el.(*memoryElement); ok {
		return p.events[me.node]
	}
	return nil
}

// ClickCount returns how many times el was clicked.
func (p *MemoryPage) ClickCount(el Element) int {
	if me, ok := el.(*memoryElement); ok {
		return p.clicks[me.node]
	}
	return 0
}

// Uploaded returns the file attached to el, if any.
func (p *MemoryPage) Uploaded(el Element) (UploadedFile, bool) {
	if me, ok := el.(*memoryElement); ok {
		f, ok := p.uploads[me.node]
		return f, ok
	}
	return UploadedFile{}, false
}

type memoryElement struct {
	page *MemoryPage
	node *html.Node
}

func (e *memoryElement) sel() *goquery.Selection {
	return goquery.NewDocumentFromNode(e.node).Selection
}

func (e *memoryElement) Handle() string {
	return fmt.Sprintf("%p", e.node)
}

func (e *memoryElement) Tag() (string, error) {
	return strings.ToLower(e.node.Data), nil
}

func (e *memoryElement) Attr(name string) (string, error) {
	for _, a := range e.node.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val, nil
		}
	}
	return "", nil
}

func (e *memoryElement) Text() (string, error) {
	return strings.TrimSpace(e.sel().Text()), nil
}

// Visible approximates rendered visibility for a static snapshot: hidden
// attribute, hidden input type, or inline display/visibility styles on the
// element or any ancestor hide it.
func (e *memoryElement) Visible() (bool, error) {
	for n := e.node; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		for _, a := range n.Attr {
			switch strings.ToLower(a.Key) {
			case "hidden":
				return false, nil
			case "type":
				if n == e.node && strings.EqualFold(a.Val, "hidden") {
					return false, nil
				}
			case "style":
				style := strings.ReplaceAll(strings.ToLower(a.Val), " ", "")
				if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
					return false, nil
				}
			}
		}
	}
	return true, nil
}

func (e *memoryElement) Value() (string, error) {
	if v, ok := e.page.values[e.node]; ok {
		return v, nil
	}
	switch strings.ToLower(e.node.Data) {
	case "textarea":
		return e.Text()
	case "select":
		sel := e.sel().Find("option[selected]")
		if sel.Length() > 0 {
			if v, ok := sel.First().Attr("value"); ok {
				return v, nil
			}
			return strings.TrimSpace(sel.First().Text()), nil
		}
		return "", nil
	default:
		return e.Attr("value")
	}
}

func (e *memoryElement) Checked() (bool, error) {
	if v, ok := e.page.checked[e.node]; ok {
		return v, nil
	}
	for _, a := range e.node.Attr {
		if strings.EqualFold(a.Key, "checked") {
			return true, nil
		}
	}
	return false, nil
}

func (e *memoryElement) dispatch(events ...string) {
	e.page.events[e.node] = append(e.page.events[e.node], events...)
}

func (e *memoryElement) SetValue(value string) error {
	e.page.values[e.node] = value
	e.dispatch("input", "change", "blur")
	return nil
}

func (e *memoryElement) Click() error {
	e.page.clicks[e.node]++
	e.dispatch("click")

	typ, _ := e.Attr("type")
	switch strings.ToLower(typ) {
	case "radio":
		name, _ := e.Attr("name")
		if name != "" {
			siblings, _ := e.page.QueryAll(fmt.Sprintf(`input[type="radio"][name=%q]`, name))
			for _, s := range siblings {
				if me, ok := s.(*memoryElement); ok {
					e.page.checked[me.node] = me.node == e.node
				}
			}
		} else {
			e.page.checked[e.node] = true
		}
		e.dispatch("change")
	case "checkbox":
		cur, _ := e.Checked()
		e.page.checked[e.node] = !cur
		e.dispatch("change")
	}
	return nil
}

func (e *memoryElement) Options() ([]SelectOpt, error) {
	var opts []SelectOpt
	e.sel().Find("option").Each(func(_ int, s *goquery.Selection) {
		value, ok := s.Attr("value")
		text := strings.TrimSpace(s.Text())
		if !ok {
			value = text
		}
		opts = append(opts, SelectOpt{Value: value, Text: text})
	})
	return opts, nil
}

func (e *memoryElement) SelectOption(value string) error {
	opts, _ := e.Options()
	for _, o := range opts {
		if o.Value == value {
			e.page.values[e.node] = value
			e.dispatch("change", "input")
			return nil
		}
	}
	// Browsers leave the select untouched for unknown values.
	return nil
}

func (e *memoryElement) SetFiles(name string, data []byte) error {
	tag := strings.ToLower(e.node.Data)
	typ, _ := e.Attr("type")
	if tag != "input" || !strings.EqualFold(typ, "file") {
		return &UploadMechanismError{Message: "element is not a file input"}
	}
	e.page.uploads[e.node] = UploadedFile{Name: name, Data: data}
	e.dispatch("change", "input")
	return nil
}

func (e *memoryElement) Query(selector string) (Element, error) {
	return e.page.queryNode(e.node, selector)
}

func (e *memoryElement) QueryAll(selector string) ([]Element, error) {
	return e.page.queryNodes(e.node, selector)
}
