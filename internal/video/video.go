// Package video recognises YouTube links and derives their thumbnails.
package video

import "strings"

var hosts = []string{"youtube.com", "youtu.be"}

// Quality names a YouTube thumbnail variant.
type Quality string

const (
	Medium Quality = "mqdefault"
	High   Quality = "hqdefault"
)

// IsYouTube reports whether link mentions one of the YouTube hosts. It is a
// substring check, matching what the submission form accepts.
func IsYouTube(link string) bool {
	for _, h := range hosts {
		if strings.Contains(link, h) {
			return true
		}
	}
	return false
}

// ID extracts the video id from a youtube.com watch link (the v parameter)
// or a youtu.be short link (the last path segment).
func ID(link string) (string, bool) {
	var id string
	switch {
	case strings.Contains(link, "youtube.com"):
		_, after, ok := strings.Cut(link, "v=")
		if !ok {
			return "", false
		}
		id, _, _ = strings.Cut(after, "&")
	case strings.Contains(link, "youtu.be"):
		id = link[strings.LastIndex(link, "/")+1:]
		id, _, _ = strings.Cut(id, "?")
	default:
		return "", false
	}
	id, _, _ = strings.Cut(id, "#")
	return id, id != ""
}

// ThumbnailURL is the image YouTube serves for id at quality q.
func ThumbnailURL(id string, q Quality) string {
	return "https://img.youtube.com/vi/" + id + "/" + string(q) + ".jpg"
}

// Preview returns the hover preview image for a link, if it is a YouTube
// video.
func Preview(link string) (string, bool) {
	id, ok := ID(link)
	if !ok {
		return "", false
	}
	return ThumbnailURL(id, Medium), true
}

// Thumbnail returns the list thumbnail for a level's video, if it is a
// YouTube video.
func Thumbnail(link string) (string, bool) {
	id, ok := ID(link)
	if !ok {
		return "", false
	}
	return ThumbnailURL(id, High), true
}
