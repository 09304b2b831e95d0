// Package media extracts embedded media URLs from serialized documents.
package media

import (
	"regexp"
	"strings"
)

// Type categorizes a matched URL by its file extension.
type Type string

// Media type categories.
const (
	TypeImage    Type = "image"
	TypeVideo    Type = "video"
	TypeAudio    Type = "audio"
	TypeDocument Type = "document"
)

// Ref is one extracted media URL with its category.
type Ref struct {
	URL  string
	Type Type
}

// One combined pattern per category; the URL body excludes whitespace,
// quotes, angle brackets and parentheses so matches stop at JSON delimiters.
var patterns = []struct {
	category Type
	re       *regexp.Regexp
}{
	{TypeImage, regexp.MustCompile(`(?i)https?://[^\s"'<>()]+\.(?:jpg|jpeg|png|gif|bmp|svg|webp)`)},
	{TypeVideo, regexp.MustCompile(`(?i)https?://[^\s"'<>()]+\.(?:mp4|avi|mov|wmv|flv|mkv|webm)`)},
	{TypeAudio, regexp.MustCompile(`(?i)https?://[^\s"'<>()]+\.(?:mp3|wav|ogg|aac|flac)`)},
	{TypeDocument, regexp.MustCompile(`(?i)https?://[^\s"'<>()]+\.(?:pdf|doc|docx|xls|xlsx|ppt|pptx|zip|rar)`)},
}

// placeholderSuffix is a stock placeholder image the upstream CMS injects
// everywhere; it carries no content and is never mirrored.
const placeholderSuffix = "upload_img.png"

// Extractor scans serialized documents for media URLs on a trusted domain.
type Extractor struct {
	marker string
}

// NewExtractor returns an Extractor that retains only URLs containing the
// given trusted-domain marker.
func NewExtractor(marker string) *Extractor {
	return &Extractor{marker: marker}
}

// Extract returns the deduplicated media URLs found in doc, in first-match
// order. URLs missing the trusted-domain marker and the known placeholder
// image are dropped.
func (e *Extractor) Extract(doc []byte) []Ref {
	text := string(doc)
	seen := make(map[string]struct{})
	var refs []Ref

	for _, p := range patterns {
		for _, match := range p.re.FindAllString(text, -1) {
			if e.marker != "" && !strings.Contains(match, e.marker) {
				continue
			}
			if strings.HasSuffix(match, placeholderSuffix) {
				continue
			}
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = struct{}{}
			refs = append(refs, Ref{URL: match, Type: p.category})
		}
	}
	return refs
}
