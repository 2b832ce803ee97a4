package utils

import "regexp"

var (
	scriptRe = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>|<script\b[^>]*/?>`)
	iframeRe = regexp.MustCompile(`(?is)<iframe\b[^>]*>.*?</iframe>|<iframe\b[^>]*/?>`)
	jsURIRe  = regexp.MustCompile(`(?i)javascript\s*:`)
	eventRe  = regexp.MustCompile(`(?i)\son\w+\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`)
	anyTagRe = regexp.MustCompile(`(?s)<[^>]*>`)
)

// SanitizeString strips dangerous HTML constructs (script/iframe tags,
// javascript: URIs, inline event handlers) from free-text input. Harmless
// markup is left alone.
func SanitizeString(s string) string {
	s = scriptRe.ReplaceAllString(s, "")
	s = iframeRe.ReplaceAllString(s, "")
	s = jsURIRe.ReplaceAllString(s, "")
	s = eventRe.ReplaceAllString(s, "")
	return s
}

// SanitizeTextOnly strips every HTML tag, then applies SanitizeString.
// Strictly more restrictive than SanitizeString: used for titles.
func SanitizeTextOnly(s string) string {
	s = anyTagRe.ReplaceAllString(s, "")
	return SanitizeString(s)
}
