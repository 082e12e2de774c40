// Package htmlsanitize strips dangerous markup from user-entered text
// before it is stored.
//
// Citizen descriptions, admin notes, and worker notes are free text typed
// into the apps; they are persisted and later rendered by the web consoles,
// so everything passes through here on the way in.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var (
	// strict keeps nothing but text. Used for single-line fields.
	strict = bluemonday.StrictPolicy()

	// ugc allows basic formatting (bold, lists, links with safe hrefs) for
	// longer free-text fields.
	ugc = bluemonday.UGCPolicy()
)

// Sanitize cleans a block of user-generated content, allowing basic
// formatting but removing scripts, event handlers, and unsafe URLs.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// Text strips all markup, returning plain text only.
func Text(s string) string {
	return strict.Sanitize(s)
}
