package page

import (
	"testing"
	"time"
)

func TestMarkActive(t *testing.T) {
	home := Link("home", "/")
	levels := Link("levels", "/levels")
	legacy := Link("legacy", "/legacy")

	if n := MarkActive([]*Element{home, levels, legacy}, "/levels"); n != 1 {
		t.Fatalf("MarkActive flagged %d links, want 1", n)
	}
	if !levels.HasClass(ActiveClass) {
		t.Error("current link not flagged")
	}
	if home.HasClass(ActiveClass) || legacy.HasClass(ActiveClass) {
		t.Error("other links flagged")
	}
}

func TestLevelTarget(t *testing.T) {
	row := NewElement("row")
	if _, ok := LevelTarget(row); ok {
		t.Error("row without level id should not navigate")
	}
	row.SetData("level-id", "abc")
	href, ok := LevelTarget(row)
	if !ok || href != "/level/abc" {
		t.Errorf("LevelTarget = %q, %v", href, ok)
	}
}

func TestClickConfirmation(t *testing.T) {
	del := NewElement("delete")
	del.SetData("confirm", "Delete this level?")

	var asked string
	deny := ConfirmFunc(func(p string) bool { asked = p; return false })
	allow := ConfirmFunc(func(string) bool { return true })

	ran := 0
	if Click(del, deny, func() { ran++ }) {
		t.Error("denied click reported as run")
	}
	if asked != "Delete this level?" {
		t.Errorf("prompt = %q", asked)
	}
	if !Click(del, allow, func() { ran++ }) {
		t.Error("affirmed click did not run")
	}
	if !Click(NewElement("plain"), deny, func() { ran++ }) {
		t.Error("element without data-confirm should run directly")
	}
	if ran != 2 {
		t.Errorf("action ran %d times, want 2", ran)
	}
}

func TestChangeNotification(t *testing.T) {
	el := NewElement("country")
	var got []string
	el.OnChange(func(v string) { got = append(got, v) })
	el.SetValue("DE")
	el.SetValue("FR")
	if len(got) != 2 || got[1] != "FR" || el.Value() != "FR" {
		t.Errorf("listener saw %v, value %q", got, el.Value())
	}
}

func TestFlashesDismissAfterDelay(t *testing.T) {
	doc := NewDocument()
	f := NewFlashes(doc, 10*time.Millisecond)
	f.Show(NewElement("flash-1"))
	f.Show(NewElement("flash-2"))

	if f.Pending() != 2 || doc.Len() != 2 {
		t.Fatalf("pending %d, elements %d", f.Pending(), doc.Len())
	}

	deadline := time.Now().Add(time.Second)
	for doc.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if doc.Len() != 0 || f.Pending() != 0 {
		t.Errorf("flashes not dismissed: pending %d, elements %d", f.Pending(), doc.Len())
	}
}

func TestFlashesTeardown(t *testing.T) {
	doc := NewDocument()
	f := NewFlashes(doc, 20*time.Millisecond)
	f.Show(NewElement("flash"))
	f.Teardown()

	time.Sleep(50 * time.Millisecond)
	if _, ok := doc.ByID("flash"); !ok {
		t.Error("message removed after teardown")
	}
	if f.Pending() != 0 {
		t.Errorf("pending = %d after teardown", f.Pending())
	}
}

func TestFlashShownAgainOutlivesStaleTimer(t *testing.T) {
	doc := NewDocument()
	f := NewFlashes(doc, time.Hour)
	defer f.Teardown()

	f.Show(NewElement("flash"))
	f.mu.Lock()
	stale := f.pending["flash"]
	f.mu.Unlock()

	f.Show(NewElement("flash"))

	// The first timer fires late, after the message was shown again.
	f.dismiss("flash", stale)

	if _, ok := doc.ByID("flash"); !ok {
		t.Fatal("message shown again was removed by the earlier timer")
	}
	if f.Pending() != 1 {
		t.Errorf("pending = %d, want 1", f.Pending())
	}
}
