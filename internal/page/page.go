// Package page models the server-rendered page the widgets attach to: a
// document of elements addressed by id, each with a value, classes and data
// attributes. Widgets look their host up by id and do nothing when it is
// missing.
package page

import (
	"sync"
)

// Element is one addressable node of a page.
type Element struct {
	ID   string
	Href string

	mu        sync.Mutex
	value     string
	classes   map[string]bool
	data      map[string]string
	listeners []func(value string)
}

// NewElement returns an element with the given id.
func NewElement(id string) *Element {
	return &Element{ID: id}
}

// Link returns an anchor element pointing at href.
func Link(id, href string) *Element {
	return &Element{ID: id, Href: href}
}

// Value returns the element's current value.
func (e *Element) Value() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value
}

// SetValue stores v and notifies every change listener.
func (e *Element) SetValue(v string) {
	e.mu.Lock()
	e.value = v
	listeners := append([]func(string){}, e.listeners...)
	e.mu.Unlock()

	for _, fn := range listeners {
		fn(v)
	}
}

// OnChange registers fn to run after every SetValue.
func (e *Element) OnChange(fn func(value string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

func (e *Element) AddClass(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.classes == nil {
		e.classes = make(map[string]bool)
	}
	e.classes[name] = true
}

func (e *Element) RemoveClass(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.classes, name)
}

func (e *Element) HasClass(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.classes[name]
}

// SetData sets the data attribute data-<key>.
func (e *Element) SetData(key, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.data == nil {
		e.data = make(map[string]string)
	}
	e.data[key] = value
}

// Data reads the data attribute data-<key>.
func (e *Element) Data(key string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.data[key]
	return v, ok
}

// Document is a page: its root attributes and its elements by id.
type Document struct {
	mu    sync.Mutex
	attrs map[string]string
	byID  map[string]*Element
}

func NewDocument() *Document {
	return &Document{
		attrs: make(map[string]string),
		byID:  make(map[string]*Element),
	}
}

// Add places elements on the page, replacing any with the same id.
func (d *Document) Add(elements ...*Element) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, e := range elements {
		d.byID[e.ID] = e
	}
}

// Remove takes the element with id off the page and reports whether it was
// there.
func (d *Document) Remove(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.byID[id]
	delete(d.byID, id)
	return ok
}

// ByID finds an element.
func (d *Document) ByID(id string) (*Element, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.byID[id]
	return e, ok
}

// Len is the number of elements on the page.
func (d *Document) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.byID)
}

// SetAttr sets an attribute on the document root.
func (d *Document) SetAttr(name, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.attrs[name] = value
}

// Attr reads a root attribute; absent attributes read as "".
func (d *Document) Attr(name string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.attrs[name]
}
