// Package dom abstracts the live document a fill operates on. Adapters and
// fill strategies speak only to Page and Element; the chromedp-backed
// BrowserPage drives a real browser tab, the goquery-backed MemoryPage serves
// tests and dry runs against saved HTML.
package dom

// SelectOpt is one option of a native <select> control.
type SelectOpt struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

// Element is one resolved document element. Handles stay valid for the
// lifetime of the underlying document; a navigation invalidates them.
type Element interface {
	// Handle returns an identity stable within one document lifetime. It is
	// the key for the per-fill processed side table.
	Handle() string

	Tag() (string, error)
	Attr(name string) (string, error)
	Text() (string, error)
	Visible() (bool, error)

	Value() (string, error)
	Checked() (bool, error)

	// SetValue writes through the true underlying value setter and then
	// dispatches bubbling input, change and blur events in that order, so
	// reactive host frameworks observe the change.
	SetValue(value string) error

	Click() error

	// Options lists the options of a <select>; empty for other elements.
	Options() ([]SelectOpt, error)
	// SelectOption sets a <select> to the option with the given value and
	// dispatches change and input notifications.
	SelectOption(value string) error

	// SetFiles attaches a file to a file input via the host's file-transfer
	// mechanism and dispatches change and input notifications.
	SetFiles(name string, data []byte) error

	// Query and QueryAll search descendants of this element only.
	Query(selector string) (Element, error)
	QueryAll(selector string) ([]Element, error)
}

// Page is one live document.
type Page interface {
	URL() string
	Title() (string, error)

	// Query returns the first match or (nil, nil) when nothing matches.
	// A malformed selector returns a non-nil error.
	Query(selector string) (Element, error)
	QueryAll(selector string) ([]Element, error)

	HTML() (string, error)
}
