package appletv

import (
	"bufio"
	"bytes"
	"net/url"
	"strings"
)

// SubtitleTrack is one subtitle rendition advertised by a master playlist.
type SubtitleTrack struct {
	URL      string
	Language string
	Name     string
	Forced   bool
	SDH      bool
}

// ParseMasterPlaylist scans an HLS master playlist for subtitle renditions
// (EXT-X-MEDIA entries with TYPE=SUBTITLES) and for variant playlist URIs.
// Relative URIs are resolved against base.
func ParseMasterPlaylist(data []byte, base *url.URL) (tracks []SubtitleTrack, variants []string) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	expectVariantURI := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "#EXT-X-MEDIA:"):
			expectVariantURI = false
			attrs := parseAttributeList(strings.TrimPrefix(line, "#EXT-X-MEDIA:"))
			if attrs["TYPE"] != "SUBTITLES" || attrs["URI"] == "" {
				continue
			}
			language := attrs["LANGUAGE"]
			if language == "" {
				language = "unknown"
			}
			name := attrs["NAME"]
			if name == "" {
				name = "Unknown"
			}
			tracks = append(tracks, SubtitleTrack{
				URL:      resolveURI(base, attrs["URI"]),
				Language: language,
				Name:     name,
				Forced:   attrs["FORCED"] == "YES",
				SDH:      isSDHCharacteristics(attrs["CHARACTERISTICS"]),
			})
		case strings.HasPrefix(line, "#EXT-X-STREAM-INF:"):
			expectVariantURI = true
		case strings.HasPrefix(line, "#"):
			// Other tags never carry a following URI we care about.
		default:
			if expectVariantURI {
				variants = append(variants, resolveURI(base, line))
				expectVariantURI = false
			}
		}
	}
	return tracks, variants
}

// ParseSegmentPlaylist returns the media segment URIs of a subtitle playlist,
// resolved against base.
func ParseSegmentPlaylist(data []byte, base *url.URL) []string {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var segments []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		segments = append(segments, resolveURI(base, line))
	}
	return segments
}

// isSDHCharacteristics reports whether the CHARACTERISTICS attribute marks a
// track as closed captions for the deaf and hard of hearing.
func isSDHCharacteristics(characteristics string) bool {
	for _, token := range strings.Split(characteristics, ",") {
		if strings.Contains(strings.TrimSpace(token), "public.accessibility") {
			return true
		}
	}
	return false
}

// parseAttributeList splits an HLS attribute list into a key/value map,
// honoring quoted values that contain commas.
func parseAttributeList(list string) map[string]string {
	attrs := make(map[string]string)
	for len(list) > 0 {
		eq := strings.IndexByte(list, '=')
		if eq < 0 {
			break
		}
		key := strings.TrimSpace(list[:eq])
		rest := list[eq+1:]

		var value string
		if strings.HasPrefix(rest, `"`) {
			if end := strings.IndexByte(rest[1:], '"'); end >= 0 {
				value = rest[1 : end+1]
				rest = rest[end+2:]
			} else {
				value = rest[1:]
				rest = ""
			}
		} else if comma := strings.IndexByte(rest, ','); comma >= 0 {
			value = rest[:comma]
			rest = rest[comma:]
		} else {
			value = rest
			rest = ""
		}
		attrs[key] = value
		list = strings.TrimPrefix(rest, ",")
	}
	return attrs
}

func resolveURI(base *url.URL, uri string) string {
	if base == nil {
		return uri
	}
	parsed, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	return base.ResolveReference(parsed).String()
}
