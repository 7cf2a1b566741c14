// Package submission checks a record submission before it is sent. The
// server remains the authority; these checks only spare a round trip.
package submission

import (
	"net/url"
	"strconv"
	"strings"

	"demonlist/internal/video"
)

// MinProgress is the lowest progress the form accepts.
const MinProgress = 50

const (
	MsgProgress = "Progress must be at least 50%"
	MsgVideo    = "Please provide a valid YouTube URL"
)

// Rejection is a blocked submission and the message shown to the user.
type Rejection struct {
	Field   string
	Message string
}

func (r *Rejection) Error() string { return r.Message }

// Validate blocks progress below MinProgress and evidence that is not a
// YouTube link, in that order.
func Validate(progress int, videoURL string) error {
	if progress < MinProgress {
		return &Rejection{Field: "progress", Message: MsgProgress}
	}
	if !video.IsYouTube(videoURL) {
		return &Rejection{Field: "video_url", Message: MsgVideo}
	}
	return nil
}

// ValidateForm validates the progress and video_url fields of a submitted
// form. When either field is missing the form is let through. Progress that
// is not a number is blocked.
func ValidateForm(form url.Values) error {
	if !form.Has("progress") || !form.Has("video_url") {
		return nil
	}
	progress, err := strconv.Atoi(strings.TrimSpace(form.Get("progress")))
	if err != nil {
		return &Rejection{Field: "progress", Message: MsgProgress}
	}
	return Validate(progress, form.Get("video_url"))
}
