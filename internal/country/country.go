// Package country holds the country reference table and the search-as-you-type
// selector bound to a profile's country field.
package country

import (
	"strings"
	"sync"

	"demonlist/internal/page"
)

// MaxResults caps how many countries the overlay lists at once.
const MaxResults = 50

// Country is one selectable entry.
type Country struct {
	Code string
	Name string
	Flag string
}

// Label is how a chosen country is displayed in the search box.
func (c Country) Label() string {
	return c.Flag + " " + c.Name
}

// All returns a copy of the full table in code order.
func All() []Country {
	return append([]Country(nil), table...)
}

// Lookup finds a country by its two-letter code, ignoring case.
func Lookup(code string) (Country, bool) {
	code = strings.ToUpper(code)
	for _, c := range table {
		if c.Code == code {
			return c, true
		}
	}
	return Country{}, false
}

// Match returns every country whose name or code contains query, ignoring
// case. An empty query matches everything.
func Match(query string) []Country {
	q := strings.ToLower(query)
	var out []Country
	for _, c := range table {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Code), q) {
			out = append(out, c)
		}
	}
	return out
}

// Filter is Match truncated to MaxResults.
func Filter(query string) []Country {
	m := Match(query)
	if len(m) > MaxResults {
		m = m[:MaxResults]
	}
	return m
}

// Field is the form control a Selector writes the chosen code into. Setting
// its value must raise the control's change notification.
type Field interface {
	Value() string
	SetValue(v string)
}

// Selector is the overlay state of one country picker.
type Selector struct {
	field Field

	mu       sync.Mutex
	open     bool
	query    string
	rendered []Country
	display  string
	closed   bool
}

// NewSelector binds a selector to field, showing the country it already
// holds, if any.
func NewSelector(field Field) *Selector {
	s := &Selector{field: field}
	if c, ok := Lookup(field.Value()); ok {
		s.display = c.Label()
	}
	return s
}

// Attach binds a selector to the element hostID of doc. It returns false,
// and no selector, when the page has no such element.
func Attach(doc *page.Document, hostID string) (*Selector, bool) {
	host, ok := doc.ByID(hostID)
	if !ok {
		return nil, false
	}
	return NewSelector(host), true
}

// Open shows the overlay with the unfiltered list. Opening an already open
// overlay keeps its current results.
func (s *Selector) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.open {
		return
	}
	s.open = true
	s.query = ""
	s.rendered = Filter("")
}

// Filter recomputes the overlay for query. Typing opens the overlay.
func (s *Selector) Filter(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.open = true
	s.query = query
	s.rendered = Filter(query)
}

// Select writes c's code into the bound field and closes the overlay.
func (s *Selector) Select(c Country) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.open = false
	s.rendered = nil
	s.display = c.Label()
	s.mu.Unlock()

	// Outside the lock: change listeners may read the selector.
	s.field.SetValue(c.Code)
}

// Dismiss closes the overlay without changing the field.
func (s *Selector) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
	s.rendered = nil
}

// PointerDown handles a click anywhere on the page; clicks outside the
// widget dismiss it.
func (s *Selector) PointerDown(insideWidget bool) {
	if !insideWidget {
		s.Dismiss()
	}
}

// IsOpen reports whether the overlay is showing.
func (s *Selector) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Query is the current search text.
func (s *Selector) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Rendered returns the entries currently listed in the overlay; none when it
// is closed.
func (s *Selector) Rendered() []Country {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return nil
	}
	return append([]Country(nil), s.rendered...)
}

// Display is the text shown in the search box for the chosen country.
func (s *Selector) Display() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display
}

// Teardown closes the overlay and detaches the selector; later calls are
// no-ops.
func (s *Selector) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.open = false
	s.rendered = nil
}
