// Package fuzzy is the bundled text matcher. The ranking engine only
// depends on the session.Matcher interface, so editors with their own
// matcher can drop this package entirely; it exists so the server and the
// debug CLI work out of the box.
package fuzzy

import (
	"unicode"

	"github.com/bastiangx/rankserve/internal/utils"
)

// Scoring constants
const (
	firstCharMatchBonus            = 15
	adjacentMatchBonus             = 10
	separatorMatchBonus            = 12
	camelCaseMatchBonus            = 12
	unmatchedLeadingCharPenalty    = -3
	maxUnmatchedLeadingCharPenalty = -9
)

// Matcher scores typed prefixes against candidate filter texts. It is
// stateless and safe for concurrent use.
type Matcher struct{}

// New returns the default matcher.
func New() Matcher { return Matcher{} }

// Match reports whether pattern matches text as a case-folded subsequence
// and how well. Higher is better; the second return is false when the
// candidate should be excluded. An empty pattern matches everything with a
// neutral score, which is what the initial no-prefix display wants.
func (Matcher) Match(text, pattern string) (float64, bool) {
	if pattern == "" {
		return 0, true
	}
	if text == "" {
		return 0, false
	}

	textRunes := []rune(text)
	score, matched, matchedCount := runMatch([]rune(pattern), textRunes)
	if !matched {
		return 0, false
	}

	// Penalize unmatched candidate length so short candidates beat long
	// ones at equal match quality.
	score += matchedCount - len(textRunes)
	return float64(score), true
}

// runMatch consumes pattern runes greedily left to right, scoring each
// committed position: bonuses for the first character, camelCase humps,
// matches after separators, and compounding adjacency runs; a capped
// penalty for unmatched leading characters.
func runMatch(pattern, text []rune) (score int, matched bool, matchedCount int) {
	var last rune
	patternIndex := 0
	lastCommitted := -1
	adjacentRun := 0

	for i, curr := range text {
		if patternIndex >= len(pattern) {
			break
		}
		if utils.EqualFold(curr, pattern[patternIndex]) {
			s := 0
			if i == 0 {
				s += firstCharMatchBonus
			}
			// Camel case bonus (lowercase to uppercase transition)
			if i > 0 && unicode.IsLower(last) && unicode.IsUpper(curr) {
				s += camelCaseMatchBonus
			}
			// Separator bonus (match right after '_', '.', etc.)
			if i > 0 && utils.IsSeparator(last) {
				s += separatorMatchBonus
			}
			// Adjacency compounds over unbroken runs
			if matchedCount > 0 && lastCommitted == i-1 {
				adjacentRun = adjacentRun*2 + adjacentMatchBonus
				s += adjacentRun
			} else {
				adjacentRun = 0
			}
			if matchedCount == 0 {
				penalty := i * unmatchedLeadingCharPenalty
				if penalty < maxUnmatchedLeadingCharPenalty {
					penalty = maxUnmatchedLeadingCharPenalty
				}
				s += penalty
			}

			score += s
			matchedCount++
			lastCommitted = i
			patternIndex++
		}
		last = curr
	}

	return score, patternIndex >= len(pattern), matchedCount
}
