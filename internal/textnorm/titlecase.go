package textnorm

import (
	"strings"
	"unicode"
)

// smallWords are filler words kept lowercase in title case unless forced.
var smallWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true,
	"but": true, "by": true, "for": true, "from": true, "if": true,
	"in": true, "into": true, "nor": true, "of": true, "on": true,
	"onto": true, "or": true, "over": true, "per": true, "the": true,
	"to": true, "up": true, "via": true, "vs": true, "with": true,
	"within": true, "without": true,
}

// TitleCase applies title casing to a paper title: major words
// capitalized, small words lowercased unless first/last or following a
// colon or dash, acronyms and mixed-case tokens (CNN, NeRF, eDNA, U.S.,
// 3D) preserved as written. Hyphen- and slash-joined compounds are cased
// per sub-part. Deterministic and idempotent.
func TitleCase(title string) string {
	title = SanitizeScalar(title)

	tokens := splitKeepingSpaces(title)

	firstPos, lastPos := -1, -1
	for i, tok := range tokens {
		if isWordToken(tok) {
			if firstPos < 0 {
				firstPos = i
			}
			lastPos = i
		}
	}
	if firstPos < 0 {
		return title
	}

	capNext := true
	var out strings.Builder

	for i, tok := range tokens {
		if !isWordToken(tok) {
			out.WriteString(tok)
			if endsWithBreak(strings.TrimSpace(tok)) {
				capNext = true
			}
			continue
		}

		lead, core, trail := splitAffixes(tok)

		forceWord := capNext || i == firstPos || i == lastPos

		out.WriteString(lead)
		out.WriteString(caseCompound(core, forceWord))
		out.WriteString(trail)

		capNext = endsWithBreak(strings.TrimRightFunc(tok, unicode.IsSpace))
	}

	return out.String()
}

// caseCompound title-cases a token core, treating hyphen/dash/slash
// separated sub-parts independently; first and last sub-parts are always
// force-capitalized.
func caseCompound(core string, force bool) string {
	parts := splitCompound(core)

	firstWP, lastWP := -1, -1
	for j, p := range parts {
		if p != "" && !isCompoundSep(p) {
			if firstWP < 0 {
				firstWP = j
			}
			lastWP = j
		}
	}

	var b strings.Builder
	for j, p := range parts {
		if p == "" || isCompoundSep(p) {
			b.WriteString(p)
			continue
		}
		b.WriteString(caseWord(p, force || j == firstWP || j == lastWP))
	}
	return b.String()
}

// caseWord title-cases a single word, leaving it untouched when its
// original casing looks intentional.
func caseWord(word string, force bool) string {
	if word == "" || preserveCase(word) {
		return word
	}

	lower := strings.ToLower(word)
	if !force && smallWords[lower] {
		return lower
	}

	r := []rune(lower)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// preserveCase reports whether a token's original capitalization should
// survive title casing: digits, dotted abbreviations (U.S.), all-caps
// acronyms (CNN), and internal mixed case (OpenAI, NeRF, eDNA).
func preserveCase(s string) bool {
	if s == "" {
		return false
	}
	if strings.ContainsAny(s, "0123456789") {
		return true
	}
	if strings.Contains(s, ".") {
		return true
	}

	var upper, lower int
	prevLower := false
	lowerThenUpper := false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper++
			if prevLower {
				lowerThenUpper = true
			}
			prevLower = false
		case unicode.IsLower(r):
			lower++
			prevLower = true
		default:
			prevLower = false
		}
	}

	if upper > 0 && lower == 0 {
		return true // all caps
	}
	if upper >= 2 {
		return true // internal caps: NeRF, OpenAI
	}
	return lowerThenUpper // camelCase, eDNA
}

// splitKeepingSpaces splits into alternating non-space and space runs,
// preserving the separators.
func splitKeepingSpaces(s string) []string {
	var tokens []string
	var cur strings.Builder
	curSpace := false

	for _, r := range s {
		isSpace := unicode.IsSpace(r)
		if cur.Len() > 0 && isSpace != curSpace {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
		curSpace = isSpace
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

// isWordToken reports whether a token carries at least one alphanumeric
// rune (as opposed to bare punctuation or whitespace).
func isWordToken(tok string) bool {
	for _, r := range tok {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// splitAffixes separates leading and trailing punctuation from a token
// core, e.g. "(deep)," -> "(", "deep", ",".
func splitAffixes(tok string) (lead, core, trail string) {
	start := 0
	runes := []rune(tok)
	for start < len(runes) && !isWordRune(runes[start]) {
		start++
	}
	end := len(runes)
	for end > start && !isWordRune(runes[end-1]) {
		end--
	}
	return string(runes[:start]), string(runes[start:end]), string(runes[end:])
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isCompoundSep(s string) bool {
	return s == "-" || s == "–" || s == "—" || s == "/"
}

// splitCompound splits on hyphen/en-dash/em-dash/slash, keeping the
// separators as their own elements.
func splitCompound(s string) []string {
	var parts []string
	var cur strings.Builder
	for _, r := range s {
		if r == '-' || r == '–' || r == '—' || r == '/' {
			parts = append(parts, cur.String())
			cur.Reset()
			parts = append(parts, string(r))
			continue
		}
		cur.WriteRune(r)
	}
	parts = append(parts, cur.String())
	return parts
}

// endsWithBreak reports whether a token ends with a capitalization break
// (colon or dash), forcing the following word to be capitalized.
func endsWithBreak(s string) bool {
	return strings.HasSuffix(s, ":") || strings.HasSuffix(s, "—") || strings.HasSuffix(s, "–")
}
