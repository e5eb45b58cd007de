package appletv

import (
	"fmt"
	"regexp"
	"strings"
)

// Reference identifies a catalog item extracted from a tv.apple.com URL.
type Reference struct {
	Country   string
	MediaType string
	MediaID   string
}

var atvURLRe = regexp.MustCompile(
	`(?i)https?://tv\.apple\.com/` +
		`(?:([a-z]{2})/)?` +
		`(movie|episode|season|show)/` +
		`(?:[^/]+/)?` +
		`(umc\.cmc\.[a-z\d]{20,34})`,
)

// ParseReference extracts the media reference from a title page URL.
// Only movie references are accepted.
func ParseReference(rawURL string) (Reference, error) {
	match := atvURLRe.FindStringSubmatch(strings.TrimSpace(rawURL))
	if match == nil {
		return Reference{}, fmt.Errorf("not a recognized title url: %s", rawURL)
	}
	ref := Reference{
		Country:   strings.ToLower(match[1]),
		MediaType: strings.ToLower(match[2]),
		MediaID:   match[3],
	}
	if ref.MediaType != "movie" {
		return Reference{}, fmt.Errorf("unsupported media type %q (movies only)", ref.MediaType)
	}
	return ref, nil
}
