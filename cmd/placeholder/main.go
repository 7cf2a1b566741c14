// Command placeholder renders the generated stand-in image for a level name.
package main

import (
	"flag"
	"fmt"
	"html"
	"log"
	"os"

	"demonlist/internal/placeholder"
	"demonlist/internal/video"
)

func main() {
	label := flag.String("label", placeholder.DefaultLabel, "level name to draw")
	width := flag.Int("width", placeholder.DefaultWidth, "image width in pixels")
	height := flag.Int("height", placeholder.DefaultHeight, "image height in pixels")
	format := flag.String("format", "svg", "output format: svg, datauri or img")
	thumb := flag.String("thumbnail", "", "thumbnail URL loaded after the placeholder (img format)")
	videoURL := flag.String("video", "", "YouTube link to take the thumbnail from when -thumbnail is empty (img format)")
	flag.Parse()

	p := placeholder.For(*label, *width, *height)

	switch *format {
	case "svg":
		fmt.Println(p.SVG())
	case "datauri":
		fmt.Println(p.DataURI())
	case "img":
		src := *thumb
		if src == "" && *videoURL != "" {
			var ok bool
			if src, ok = video.Thumbnail(*videoURL); !ok {
				log.Printf("%s is not a YouTube link, using the placeholder only", *videoURL)
			}
		}
		fmt.Println(imgTag(placeholder.Lazy(*label, src, *width, *height)))
	default:
		log.Printf("unknown format %q", *format)
		os.Exit(2)
	}
}

func imgTag(img placeholder.Image) string {
	tag := fmt.Sprintf(`<img src="%s" alt="%s" width="%d" height="%d"`,
		img.Src, html.EscapeString(img.Alt), img.Width, img.Height)
	if img.Lazy {
		tag += fmt.Sprintf(` data-src="%s" class="lazy"`, html.EscapeString(img.DataSrc))
	}
	return tag + ">"
}
