// Package htmlsanitize strips unsafe markup from user-authored HTML
// before it is stored. Blog bodies and listing descriptions pass
// through Sanitize on every write.
package htmlsanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

var policy = buildPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	// Rich editors emit tables; UGC allows them but not their layout attributes.
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	return p
}

// Sanitize returns html with scripts, event handlers, and other unsafe
// constructs removed. Safe formatting tags, links, and tables survive.
func Sanitize(html string) string {
	return policy.Sanitize(html)
}
