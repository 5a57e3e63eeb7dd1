package util

import (
	"errors"
	"regexp"
	"strings"
)

var errInvalidFileName = errors.New("invalid file name")

// SanitizeFileName removes path separators and rejects traversal patterns
// and control characters.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errInvalidFileName
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return "", errInvalidFileName
		}
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", errInvalidFileName
	}
	return s, nil
}

var (
	scriptBlockRe = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	scriptTagRe   = regexp.MustCompile(`(?i)</?script\b[^>]*>`)
	styleBlockRe  = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style\s*>`)
	eventAttrRe   = regexp.MustCompile(`(?i)\s+on[a-z]+\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`)
	schemeRe      = regexp.MustCompile(`(?i)(javascript|vbscript)\s*:`)
	dataHTMLRe    = regexp.MustCompile(`(?i)data\s*:\s*text/html[^,"'\s>]*`)
)

// SanitizeHTML strips script/style blocks, inline event-handler attributes
// and dangerous URL schemes from user-entered text. Applied to every
// free-text field before it is stored.
func SanitizeHTML(s string) string {
	s = scriptBlockRe.ReplaceAllString(s, "")
	s = styleBlockRe.ReplaceAllString(s, "")
	s = scriptTagRe.ReplaceAllString(s, "")
	s = eventAttrRe.ReplaceAllString(s, "")
	s = schemeRe.ReplaceAllString(s, "")
	s = dataHTMLRe.ReplaceAllString(s, "")
	return s
}

// SanitizeText trims whitespace and applies SanitizeHTML.
func SanitizeText(s string) string {
	return strings.TrimSpace(SanitizeHTML(s))
}
