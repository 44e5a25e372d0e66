// Package slug derives URL-safe identifiers from display names.
package slug

import (
	"strings"

	gosimple "github.com/gosimple/slug"
	"golang.org/x/text/unicode/norm"
)

// symbols spells out connectives as separate words so they never fuse with
// their neighbours.
var symbols = strings.NewReplacer("&", " and ", "@", " at ")

// Make lower-cases name, transliterates every script to ASCII and joins the
// remaining alphanumeric runs with single hyphens. Make(Make(s)) == Make(s).
func Make(name string) string {
	folded := gosimple.MakeLang(symbols.Replace(norm.NFKC.String(name)), "en")

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// Valid reports whether s is already in canonical slug form.
func Valid(s string) bool {
	return s != "" && Make(s) == s
}
