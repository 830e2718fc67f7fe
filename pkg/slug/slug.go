package slug

import (
	"fmt"
	"regexp"
	"strings"
)

const CopyPrefix = "copy-of-"

var (
	invalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	dashRuns     = regexp.MustCompile(`-{2,}`)
)

// Make normalizes the input into a lowercase dash-separated slug.
// Arabic and other non-ASCII characters are dropped, so callers should
// fall back to an identifier-based slug when the result is empty.
func Make(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")
	s = invalidChars.ReplaceAllString(s, "")
	s = dashRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Copy returns the slug used for a duplicated record: "copy-of-<slug>".
func Copy(original string) string {
	return CopyPrefix + original
}

// WithSuffix appends a numeric collision suffix, e.g. "copy-of-feeder-2".
func WithSuffix(base string, n int) string {
	if n < 2 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}
