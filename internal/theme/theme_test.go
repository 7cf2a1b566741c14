package theme

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"demonlist/internal/page"
	"demonlist/internal/particles"

	"github.com/go-chi/chi/v5"
)

// themeServer records every theme the page persists.
type themeServer struct {
	mu     sync.Mutex
	themes []string
	status int
}

func (s *themeServer) handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/set_theme", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.themes = append(s.themes, r.URL.Query().Get("theme"))
		if s.status != 0 {
			w.WriteHeader(s.status)
		}
	})
	return r
}

func (s *themeServer) seen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.themes...)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPage(t *testing.T, initial string, status int) (*Controller, *page.Document, *particles.Spawner, *themeServer) {
	t.Helper()
	ts := &themeServer{status: status}
	srv := httptest.NewServer(ts.handler())
	t.Cleanup(srv.Close)

	doc := page.NewDocument()
	c := NewController(doc, initial, NewHTTPPersister(srv.URL, quietLogger()), quietLogger())
	sp := particles.NewSpawner(particles.Config{
		Interval: time.Hour,
		Active:   c.IsDark,
		Logger:   quietLogger(),
	})
	c.Decorate(sp)
	t.Cleanup(c.Teardown)
	return c, doc, sp, ts
}

func TestInitial(t *testing.T) {
	tests := map[string]Theme{"": Light, "dark": Dark, "auto": Auto, "light": Light, "neon": Light}
	for in, want := range tests {
		if got := Initial(in); got != want {
			t.Errorf("Initial(%q) = %s, want %s", in, got, want)
		}
	}
	if _, err := Parse("neon"); err == nil {
		t.Error("Parse accepted an unknown theme")
	}
}

func TestSetAppliesAndPersists(t *testing.T) {
	c, doc, _, ts := newPage(t, "", 0)
	if doc.Attr(Attr) != "light" {
		t.Fatalf("initial attribute = %q", doc.Attr(Attr))
	}

	c.Set(Auto)
	if doc.Attr(Attr) != "auto" || c.Current() != Auto {
		t.Errorf("theme not applied synchronously: %q", doc.Attr(Attr))
	}
	c.Wait()
	if got := ts.seen(); len(got) != 1 || got[0] != "auto" {
		t.Errorf("server saw %v", got)
	}
}

func TestDarkStartsAndLightTearsDown(t *testing.T) {
	c, _, sp, _ := newPage(t, "light", 0)

	c.Set(Dark)
	if !sp.Running() {
		t.Fatal("dark theme did not start the particles")
	}
	c.Set(Light)

	if sp.Running() || sp.Live() != 0 || sp.Pending() != 0 {
		t.Errorf("particles left behind: running %v, live %d, pending %d", sp.Running(), sp.Live(), sp.Pending())
	}
	c.Wait()
}

func TestInitialDarkStartsParticles(t *testing.T) {
	_, doc, sp, _ := newPage(t, "dark", 0)
	if doc.Attr(Attr) != "dark" || !sp.Running() {
		t.Error("server-rendered dark theme did not start the particles")
	}
}

func TestPersistFailureKeepsTheme(t *testing.T) {
	c, doc, _, ts := newPage(t, "light", http.StatusInternalServerError)

	c.Set(Dark)
	c.Wait()
	if c.Current() != Dark || doc.Attr(Attr) != "dark" {
		t.Error("failed persist rolled the theme back")
	}
	if len(ts.seen()) != 1 {
		t.Errorf("server saw %v", ts.seen())
	}
}

func TestSetRejectsUnknownTheme(t *testing.T) {
	c, doc, _, ts := newPage(t, "dark", 0)

	if err := c.Set("neon"); err == nil {
		t.Fatal("Set accepted an unknown theme")
	}
	if err := c.SetAcknowledged(context.Background(), "neon"); err == nil {
		t.Fatal("SetAcknowledged accepted an unknown theme")
	}
	c.Wait()
	if c.Current() != Dark || doc.Attr(Attr) != "dark" {
		t.Errorf("theme changed to %q", doc.Attr(Attr))
	}
	if got := ts.seen(); len(got) != 0 {
		t.Errorf("server saw %v", got)
	}
}

func TestSetAcknowledged(t *testing.T) {
	c, doc, _, _ := newPage(t, "light", http.StatusServiceUnavailable)
	if err := c.SetAcknowledged(context.Background(), Dark); err == nil {
		t.Fatal("expected an error from a failing server")
	}
	if c.Current() != Light || doc.Attr(Attr) != "light" {
		t.Error("unacknowledged theme was applied")
	}

	ok, doc2, _, _ := newPage(t, "light", 0)
	if err := ok.SetAcknowledged(context.Background(), Auto); err != nil {
		t.Fatalf("SetAcknowledged: %v", err)
	}
	if doc2.Attr(Attr) != "auto" {
		t.Error("acknowledged theme not applied")
	}
}

func TestPersistURL(t *testing.T) {
	var got string
	r := chi.NewRouter()
	r.Get("/site/set_theme", func(w http.ResponseWriter, r *http.Request) { got = r.URL.RawQuery })
	srv := httptest.NewServer(r)
	defer srv.Close()

	p := &HTTPPersister{SiteURL: srv.URL + "/site"}
	if err := p.Persist(context.Background(), Dark); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if got != "theme=dark" {
		t.Errorf("query = %q", got)
	}
}
