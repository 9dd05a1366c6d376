// Package normalize provides Unicode normalization for poem text and signatures.
//
// Poem lines arrive from browsers and mobile IMEs in a mix of composed and
// decomposed forms, with ideographic spaces (U+3000) used interchangeably
// with ASCII spaces. Everything is normalized once at the service boundary
// so storage, comparison, and search indexing all see a single form.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Line normalizes a single poem line: NFC composition and trimming of
// surrounding whitespace, including the ideographic space. The body of the
// line is left untouched — full-width kana and punctuation are part of the
// poem.
func Line(s string) string {
	return strings.Trim(norm.NFC.String(s), " \t　")
}

// Signature normalizes a display signature. Unlike poem lines, signatures
// are compared against each other (per-poem author vs. local fallback), so
// width variants are folded in addition to NFC composition.
func Signature(s string) string {
	return strings.Trim(width.Fold.String(norm.NFC.String(s)), " \t　")
}

// ForSearch normalizes text for the search index: NFC, width folding, and
// lowercasing, so queries match regardless of input method.
func ForSearch(s string) string {
	return strings.ToLower(width.Fold.String(norm.NFC.String(s)))
}
