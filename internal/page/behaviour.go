package page

import (
	"net/url"
	"sync"
	"time"
)

// ActiveClass marks the navigation link of the current page.
const ActiveClass = "active"

// MarkActive flags every link whose href equals path and returns how many
// were flagged.
func MarkActive(links []*Element, path string) int {
	n := 0
	for _, l := range links {
		if l.Href == path {
			l.AddClass(ActiveClass)
			n++
		}
	}
	return n
}

// LevelHref is the detail page of a level.
func LevelHref(id string) string {
	return "/level/" + url.PathEscape(id)
}

// LevelTarget is where clicking a level row or card navigates: the detail
// page named by its data-level-id attribute. Rows without one go nowhere.
func LevelTarget(row *Element) (string, bool) {
	id, ok := row.Data("level-id")
	if !ok || id == "" {
		return "", false
	}
	return LevelHref(id), true
}

// Confirmer asks the user to affirm a prompt.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Confirm runs action only if c affirms prompt, and reports whether it ran.
func Confirm(prompt string, c Confirmer, action func()) bool {
	if !c.Confirm(prompt) {
		return false
	}
	action()
	return true
}

// Click activates el. An element carrying data-confirm only runs action once
// the prompt is affirmed; any other element runs it directly.
func Click(el *Element, c Confirmer, action func()) bool {
	prompt, ok := el.Data("confirm")
	if !ok {
		action()
		return true
	}
	return Confirm(prompt, c, action)
}

// FlashDelay is how long a flash message stays on the page.
const FlashDelay = 5 * time.Second

// Flashes removes flash messages from a document after a delay.
type Flashes struct {
	doc   *Document
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*flash
}

// flash is one scheduled dismissal. Showing a message again replaces it.
type flash struct {
	timer *time.Timer
}

// NewFlashes dismisses messages of doc after delay; zero means FlashDelay.
func NewFlashes(doc *Document, delay time.Duration) *Flashes {
	if delay <= 0 {
		delay = FlashDelay
	}
	return &Flashes{doc: doc, delay: delay, pending: make(map[string]*flash)}
}

// Show puts msg on the page and schedules its removal. Showing a message
// that is already up restarts its delay.
func (f *Flashes) Show(msg *Element) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := msg.ID
	if old, ok := f.pending[id]; ok {
		old.timer.Stop()
	}
	f.doc.Add(msg)
	fl := &flash{}
	fl.timer = time.AfterFunc(f.delay, func() { f.dismiss(id, fl) })
	f.pending[id] = fl
}

// dismiss removes the message if fl is still its scheduled dismissal. A
// timer that fired just as the message was shown again finds a newer entry
// and does nothing.
func (f *Flashes) dismiss(id string, fl *flash) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending[id] != fl {
		return
	}
	delete(f.pending, id)
	f.doc.Remove(id)
}

// Pending is the number of messages still waiting to be dismissed.
func (f *Flashes) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

// Teardown cancels every pending dismissal, leaving the messages in place.
func (f *Flashes) Teardown() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, fl := range f.pending {
		fl.timer.Stop()
		delete(f.pending, id)
	}
}
