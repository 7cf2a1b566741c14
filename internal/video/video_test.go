package video

import "testing"

func TestID(t *testing.T) {
	tests := []struct {
		link string
		id   string
		ok   bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ?t=10", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/channel/abc", "", false},
		{"https://youtu.be/", "", false},
		{"https://streamable.com/abc", "", false},
	}
	for _, tt := range tests {
		id, ok := ID(tt.link)
		if id != tt.id || ok != tt.ok {
			t.Errorf("ID(%q) = %q, %v; want %q, %v", tt.link, id, ok, tt.id, tt.ok)
		}
	}
}

func TestPreviewAndThumbnail(t *testing.T) {
	got, ok := Preview("https://youtu.be/abc123")
	if !ok || got != "https://img.youtube.com/vi/abc123/mqdefault.jpg" {
		t.Errorf("Preview = %q, %v", got, ok)
	}

	got, ok = Thumbnail("https://www.youtube.com/watch?v=abc123")
	if !ok || got != "https://img.youtube.com/vi/abc123/hqdefault.jpg" {
		t.Errorf("Thumbnail = %q, %v", got, ok)
	}

	if _, ok := Preview("https://vimeo.com/1"); ok {
		t.Error("Preview accepted a non-YouTube link")
	}
}

func TestIsYouTube(t *testing.T) {
	if !IsYouTube("https://m.youtube.com/watch?v=x") || !IsYouTube("youtu.be/x") {
		t.Error("YouTube links not recognised")
	}
	if IsYouTube("https://example.com/video") {
		t.Error("non-YouTube link recognised")
	}
}
