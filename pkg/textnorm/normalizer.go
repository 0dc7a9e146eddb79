// Package textnorm canonicalizes free text for fuzzy catalog matching:
// casing, diacritics, and volumetric units ("2L", "2 litros" and "2000ml"
// must all compare equal).
package textnorm

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// capacityPattern matches an integer or decimal magnitude followed by a
// liter or milliliter unit word, with or without a space, singular or
// plural ("2L", "2 litros", "2.5l", "500 ml").
var capacityPattern = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(mililitros?|ml|litros?|lt|l)\b`)

// Normalize lower-cases text, strips diacritics and collapses whitespace.
// Empty input yields an empty string, never an error.
func Normalize(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	stripped, _, err := transform.String(diacriticStripper, lowered)
	if err != nil {
		stripped = lowered
	}
	return strings.Join(strings.Fields(stripped), " ")
}

// CapacityTokens returns the canonical capacity tokens detected in text,
// with liter magnitudes converted to whole milliliters ("2L" -> "2000ml").
// The plain normalized text is always included as a fallback token so that
// non-volumetric phrases still match literally.
func CapacityTokens(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}

	tokens := []string{normalized}
	seen := map[string]struct{}{normalized: {}}

	for _, match := range capacityPattern.FindAllStringSubmatch(normalized, -1) {
		magnitude, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", "."), 64)
		if err != nil {
			continue
		}

		ml := magnitude
		if strings.HasPrefix(match[2], "l") {
			ml = magnitude * 1000
		}

		token := fmt.Sprintf("%dml", int(math.Round(ml)))
		if _, ok := seen[token]; !ok {
			seen[token] = struct{}{}
			tokens = append(tokens, token)
		}
	}

	return tokens
}
