// Package slug builds URL-safe identifiers from titles.
package slug

import (
	"fmt"
	"math/rand"
	"strings"
	"unicode"
)

// Make lowercases the title, replaces runs of non-alphanumerics with a
// single hyphen, and trims leading/trailing hyphens.
func Make(title string) string {
	var b strings.Builder
	lastHyphen := true // swallow leading separators

	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// WithSuffix appends a short random suffix, used when a slug collides
func WithSuffix(base string) string {
	return fmt.Sprintf("%s-%04d", base, rand.Intn(10000))
}
