package dom

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	cdpdom "github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// NewExecAllocator builds a chromedp allocator context with the flags the
// engine needs for third-party application pages. Requires Chrome/Chromium
// on the system.
func NewExecAllocator(ctx context.Context, headless bool) (context.Context, context.CancelFunc) {
	return chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
}

// BrowserPage drives one browser tab over the Chrome DevTools Protocol.
// Resolved elements are parked in a page-side handle registry so later
// operations address the same node even when the page re-renders siblings.
type BrowserPage struct {
	ctx context.Context
	url string
}

// NewBrowserPage wraps an existing chromedp browser context. The context must
// stay alive for the lifetime of the page.
func NewBrowserPage(ctx context.Context) *BrowserPage {
	return &BrowserPage{ctx: ctx}
}

// Navigate loads the URL and waits for the body to be ready. JavaScript-driven
// content may still be loading afterwards; platform adapters own that wait.
func (p *BrowserPage) Navigate(url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()

	if err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Location(&p.url),
	); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// URL returns the location recorded at the last navigation.
func (p *BrowserPage) URL() string {
	if p.url == "" {
		_ = chromedp.Run(p.ctx, chromedp.Location(&p.url))
	}
	return p.url
}

// Title returns the current document title.
func (p *BrowserPage) Title() (string, error) {
	var title string
	if err := chromedp.Run(p.ctx, chromedp.Title(&title)); err != nil {
		return "", err
	}
	return title, nil
}

// HTML returns the serialized document.
func (p *BrowserPage) HTML() (string, error) {
	var html string
	if err := chromedp.Run(p.ctx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", err
	}
	return html, nil
}

// Query resolves the first match into the handle registry. A selector the
// host rejects surfaces as an error; no match returns (nil, nil).
func (p *BrowserPage) Query(selector string) (Element, error) {
	return p.queryFrom("document", selector)
}

// QueryAll resolves every match into the handle registry.
func (p *BrowserPage) QueryAll(selector string) ([]Element, error) {
	return p.queryAllFrom("document", selector)
}

// queryExpr resolves the first match into the registry. A node already parked
// keeps its slot, so Handle() stays stable across repeated queries for the
// whole document lifetime; processed markers depend on that.
func queryExpr(root, selector string) string {
	return fmt.Sprintf(`(function(){
		var r = (window.__ffh = window.__ffh || []);
		var el = (%s).querySelector(%s);
		if (!el) return -1;
		var i = r.indexOf(el);
		if (i >= 0) return i;
		r.push(el);
		return r.length - 1;
	})()`, root, strconv.Quote(selector))
}

func queryAllExpr(root, selector string) string {
	return fmt.Sprintf(`(function(){
		var r = (window.__ffh = window.__ffh || []);
		var out = [];
		(%s).querySelectorAll(%s).forEach(function(el){
			var i = r.indexOf(el);
			if (i < 0) { r.push(el); i = r.length - 1; }
			out.push(i);
		});
		return out;
	})()`, root, strconv.Quote(selector))
}

func (p *BrowserPage) queryFrom(root, selector string) (Element, error) {
	var handle int
	if err := p.eval(queryExpr(root, selector), &handle); err != nil {
		return nil, err
	}
	if handle < 0 {
		return nil, nil
	}
	return &browserElement{page: p, handle: handle}, nil
}

func (p *BrowserPage) queryAllFrom(root, selector string) ([]Element, error) {
	var handles []int
	if err := p.eval(queryAllExpr(root, selector), &handles); err != nil {
		return nil, err
	}
	els := make([]Element, len(handles))
	for i, h := range handles {
		els[i] = &browserElement{page: p, handle: h}
	}
	return els, nil
}

func (p *BrowserPage) eval(expr string, out interface{}) error {
	return chromedp.Run(p.ctx, chromedp.Evaluate(expr, out))
}

// browserElement addresses one node through the page-side handle registry.
type browserElement struct {
	page   *BrowserPage
	handle int
}

func (e *browserElement) ref() string {
	return fmt.Sprintf("window.__ffh[%d]", e.handle)
}

func (e *browserElement) Handle() string {
	return strconv.Itoa(e.handle)
}

func (e *browserElement) Tag() (string, error) {
	var tag string
	err := e.page.eval(fmt.Sprintf(`%s.tagName.toLowerCase()`, e.ref()), &tag)
	return tag, err
}

func (e *browserElement) Attr(name string) (string, error) {
	var v string
	err := e.page.eval(fmt.Sprintf(`%s.getAttribute(%s) || ""`, e.ref(), strconv.Quote(name)), &v)
	return v, err
}

func (e *browserElement) Text() (string, error) {
	var text string
	err := e.page.eval(fmt.Sprintf(`(%s.innerText || %s.textContent || "").trim()`, e.ref(), e.ref()), &text)
	return text, err
}

func (e *browserElement) Visible() (bool, error) {
	expr := fmt.Sprintf(`(function(el){
		if (!el) return false;
		if (el.type === "hidden") return false;
		var s = window.getComputedStyle(el);
		if (s.display === "none" || s.visibility === "hidden") return false;
		return el.offsetWidth > 0 || el.offsetHeight > 0 || el.getClientRects().length > 0;
	})(%s)`, e.ref())
	var visible bool
	err := e.page.eval(expr, &visible)
	return visible, err
}

func (e *browserElement) Value() (string, error) {
	var v string
	err := e.page.eval(fmt.Sprintf(`%s.value !== undefined ? String(%s.value) : ""`, e.ref(), e.ref()), &v)
	return v, err
}

func (e *browserElement) Checked() (bool, error) {
	var checked bool
	err := e.page.eval(fmt.Sprintf(`!!%s.checked`, e.ref()), &checked)
	return checked, err
}

// SetValue writes through the prototype's value setter before dispatching
// notifications. Reactive hosts replace the instance setter to observe
// writes; going through the prototype descriptor is what makes the change
// visible to their change detection.
func (e *browserElement) SetValue(value string) error {
	expr := fmt.Sprintf(`(function(el, value){
		var proto = el.tagName === "TEXTAREA" ? HTMLTextAreaElement.prototype
			: el.tagName === "SELECT" ? HTMLSelectElement.prototype
			: HTMLInputElement.prototype;
		var desc = Object.getOwnPropertyDescriptor(proto, "value");
		if (desc && desc.set) { desc.set.call(el, value); } else { el.value = value; }
		el.dispatchEvent(new Event("input",  {bubbles: true}));
		el.dispatchEvent(new Event("change", {bubbles: true}));
		el.dispatchEvent(new Event("blur",   {bubbles: true}));
		return true;
	})(%s, %s)`, e.ref(), strconv.Quote(value))
	var ok bool
	return e.page.eval(expr, &ok)
}

func (e *browserElement) Click() error {
	var ok bool
	return e.page.eval(fmt.Sprintf(`(function(el){ el.click(); return true; })(%s)`, e.ref()), &ok)
}

func (e *browserElement) Options() ([]SelectOpt, error) {
	expr := fmt.Sprintf(`Array.from(%s.options || []).map(function(o){
		return {value: o.value, text: (o.textContent || "").trim()};
	})`, e.ref())
	var opts []SelectOpt
	if err := e.page.eval(expr, &opts); err != nil {
		return nil, err
	}
	return opts, nil
}

func (e *browserElement) SelectOption(value string) error {
	expr := fmt.Sprintf(`(function(el, value){
		var desc = Object.getOwnPropertyDescriptor(HTMLSelectElement.prototype, "value");
		if (desc && desc.set) { desc.set.call(el, value); } else { el.value = value; }
		el.dispatchEvent(new Event("change", {bubbles: true}));
		el.dispatchEvent(new Event("input",  {bubbles: true}));
		return true;
	})(%s, %s)`, e.ref(), strconv.Quote(value))
	var ok bool
	return e.page.eval(expr, &ok)
}

// SetFiles stages the bytes in a temp file and attaches it through
// DOM.setFileInputFiles against the element's remote object, then fires the
// notifications a change handler expects.
func (e *browserElement) SetFiles(name string, data []byte) error {
	dir, err := os.MkdirTemp("", "formfill-upload-")
	if err != nil {
		return &UploadMechanismError{Message: "cannot stage upload file", Cause: err}
	}
	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return &UploadMechanismError{Message: "cannot write upload file", Cause: err}
	}

	err = chromedp.Run(e.page.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var obj *runtime.RemoteObject
		if err := chromedp.Evaluate(e.ref(), &obj).Do(ctx); err != nil {
			return err
		}
		if obj == nil || obj.ObjectID == "" {
			return fmt.Errorf("element handle %d did not resolve to a remote object", e.handle)
		}
		return cdpdom.SetFileInputFiles([]string{path}).WithObjectID(obj.ObjectID).Do(ctx)
	}))
	if err != nil {
		return &UploadMechanismError{Message: "file-transfer mechanism unavailable", Cause: err}
	}

	expr := fmt.Sprintf(`(function(el){
		el.dispatchEvent(new Event("change", {bubbles: true}));
		el.dispatchEvent(new Event("input",  {bubbles: true}));
		return true;
	})(%s)`, e.ref())
	var ok bool
	if err := e.page.eval(expr, &ok); err != nil {
		return &UploadMechanismError{Message: "upload notification dispatch failed", Cause: err}
	}
	return nil
}

func (e *browserElement) Query(selector string) (Element, error) {
	return e.page.queryFrom(e.ref(), selector)
}

func (e *browserElement) QueryAll(selector string) ([]Element, error) {
	return e.page.queryAllFrom(e.ref(), selector)
}
