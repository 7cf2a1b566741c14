package submission

import (
	"errors"
	"net/url"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		progress int
		video    string
		field    string
	}{
		{"below minimum", 45, "https://youtu.be/abc", "progress"},
		{"non-YouTube link", 50, "https://vimeo.com/1", "video_url"},
		{"minimum with YouTube", 50, "https://youtu.be/abc", ""},
		{"full with watch link", 100, "https://www.youtube.com/watch?v=abc", ""},
		{"both wrong reports progress", 10, "nope", "progress"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.progress, tt.video)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected rejection: %v", err)
				}
				return
			}
			var r *Rejection
			if !errors.As(err, &r) {
				t.Fatalf("expected *Rejection, got %v", err)
			}
			if r.Field != tt.field {
				t.Errorf("field = %s, want %s", r.Field, tt.field)
			}
		})
	}
}

func TestValidateForm(t *testing.T) {
	err := ValidateForm(url.Values{"progress": {"45"}, "video_url": {"https://youtu.be/x"}})
	if err == nil || err.Error() != MsgProgress {
		t.Errorf("progress 45: got %v", err)
	}

	err = ValidateForm(url.Values{"progress": {"abc"}, "video_url": {"https://youtu.be/x"}})
	if err == nil || err.Error() != MsgProgress {
		t.Errorf("non-numeric progress: got %v", err)
	}

	err = ValidateForm(url.Values{"progress": {"50"}, "video_url": {"https://example.com"}})
	if err == nil || err.Error() != MsgVideo {
		t.Errorf("bad link: got %v", err)
	}

	if err := ValidateForm(url.Values{"progress": {" 75 "}, "video_url": {"https://youtu.be/x"}}); err != nil {
		t.Errorf("valid form rejected: %v", err)
	}
	if err := ValidateForm(url.Values{"progress": {"10"}}); err != nil {
		t.Errorf("form without video field should pass through: %v", err)
	}
}
