// Package sanitize strips unsafe HTML from user-supplied fields before
// they are stored.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// strictPolicy removes every tag and attribute. Used for plain-text
	// fields such as names and locations.
	strictPolicy = bluemonday.StrictPolicy()

	// ugcPolicy keeps basic formatting (p, b, i, em, strong, a, lists)
	// and drops scripts, iframes, and event handlers. Used for
	// descriptions.
	ugcPolicy = bluemonday.UGCPolicy()
)

// Text strips all HTML and trims surrounding whitespace.
func Text(input string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(input))
}

// HTML sanitizes user-generated content, allowing safe formatting tags.
func HTML(input string) string {
	return strings.TrimSpace(ugcPolicy.Sanitize(input))
}
