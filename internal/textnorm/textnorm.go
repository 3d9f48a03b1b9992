// Package textnorm provides the pure text utilities shared by the sync
// pipeline: name normalization for identity matching, scalar sanitization
// for YAML-safe serialization, and slug generation for filenames.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SlugMaxLen bounds the length of generated filename slugs.
const SlugMaxLen = 80

// stripMarks decomposes to NFKD and drops combining marks, so that
// accented letters fold to their base form (e.g. "é" -> "e").
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// NormalizeName normalizes a person name for matching: eszett expanded to
// "ss", accents stripped, lowercased, whitespace collapsed. Two display
// strings that normalize identically are treated as the same identity.
func NormalizeName(s string) string {
	s = strings.ReplaceAll(s, "ß", "ss")
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}
	return collapseWhitespace(strings.ToLower(s))
}

// SanitizeScalar makes a string safe for YAML front matter: NBSP and
// line/tab whitespace become plain spaces, control/format runes (ZWSP,
// bidi marks, etc.) are dropped, and whitespace runs collapse to single
// spaces.
func SanitizeScalar(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\r', '\n', '\t':
			return ' '
		}
		return r
	}, s)
	s = strings.Map(func(r rune) rune {
		if unicode.In(r, unicode.C) {
			return -1
		}
		return r
	}, s)
	return collapseWhitespace(s)
}

// Slugify derives an ASCII-ish filename slug: sanitized, normalized,
// non-alphanumeric runs replaced by single hyphens, trimmed, truncated
// to SlugMaxLen. Returns "paper" when nothing survives.
func Slugify(s string) string {
	s = NormalizeName(SanitizeScalar(s))

	var b strings.Builder
	pendingDash := false
	for _, r := range s {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if isAlnum {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}

	slug := b.String()
	if len(slug) > SlugMaxLen {
		slug = strings.Trim(slug[:SlugMaxLen], "-")
	}
	if slug == "" {
		return "paper"
	}
	return slug
}

// TitleKeyLower derives the case-insensitive title key used for weak
// deduplication: sanitized, whitespace-collapsed, lowercased.
func TitleKeyLower(s string) string {
	return strings.ToLower(SanitizeScalar(s))
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
