package services

import (
	"fmt"
	"strings"

	"github.com/keaype/bodega-backend/internal/domain/entities"
	"github.com/keaype/bodega-backend/pkg/textnorm"
)

// Scoring constants. Raw name hits pass the threshold alone; synonym-only
// hits need at least one corroborating constraint or preference, which
// suppresses noisy synonym collisions.
const (
	scoreNameHit     = 10
	scoreSynonymHit  = 8
	scoreMustContain = 5
	scorePreferred   = 3
	acceptThreshold  = 8

	// relaxedScore is assigned by the fallback pass so the user still sees
	// "closest available" options for an otherwise unmatched item.
	relaxedScore = 5
)

// MatchScorer computes the match score between one shopping-intent item and
// one catalog product using additive scoring with hard gates.
type MatchScorer struct{}

// NewMatchScorer creates a new match scorer
func NewMatchScorer() *MatchScorer {
	return &MatchScorer{}
}

// productText is the precomputed searchable text of a product.
type productText struct {
	nameCategory string
	synonyms     []string
	full         string
	capacity     map[string]struct{}
}

// BuildProductText assembles the product's full searchable text: normalized
// name, category, humanized attributes, synonyms, and the canonical
// capacity tokens of the name and of every attribute value.
func (s *MatchScorer) BuildProductText(product *entities.CatalogProduct) productText {
	name := textnorm.Normalize(product.Name)
	category := textnorm.Normalize(product.Category)

	pt := productText{
		nameCategory: strings.TrimSpace(name + " " + category),
		capacity:     make(map[string]struct{}),
	}

	parts := []string{pt.nameCategory}
	addCapacity := func(text string) {
		for _, token := range textnorm.CapacityTokens(text) {
			pt.capacity[token] = struct{}{}
		}
	}
	addCapacity(product.Name)

	for key, value := range product.Attributes {
		keyText := textnorm.Normalize(strings.ReplaceAll(key, "_", " "))
		switch v := value.(type) {
		case bool:
			// Booleans expand to the bare key plus a "con/sin" phrase so
			// "sin gas" style constraints match attribute-encoded variants.
			if v {
				parts = append(parts, keyText, "con "+keyText)
			} else {
				parts = append(parts, "sin "+keyText)
			}
		case string:
			valueText := textnorm.Normalize(v)
			parts = append(parts, keyText, valueText)
			addCapacity(v)
		default:
			parts = append(parts, keyText, textnorm.Normalize(fmt.Sprintf("%v", v)))
		}
	}

	for _, synonym := range product.Synonyms {
		normalized := textnorm.Normalize(synonym)
		if normalized == "" {
			continue
		}
		pt.synonyms = append(pt.synonyms, normalized)
		parts = append(parts, normalized)
	}

	for token := range pt.capacity {
		parts = append(parts, token)
	}

	pt.full = strings.Join(parts, " | ")
	return pt
}

// Score evaluates one (intent item, product) pair. It returns the score and
// true when the candidate is accepted, or 0 and false otherwise.
func (s *MatchScorer) Score(item *entities.ShoppingIntentItem, product *entities.CatalogProduct) (int, bool) {
	if item.IsDegenerate() {
		return 0, false
	}

	wanted := textnorm.Normalize(item.ProductName)
	if wanted == "" {
		return 0, false
	}

	pt := s.BuildProductText(product)

	score := 0
	if strings.Contains(pt.nameCategory, wanted) {
		score += scoreNameHit
	}
	for _, synonym := range pt.synonyms {
		if strings.Contains(synonym, wanted) {
			score += scoreSynonymHit
			break
		}
	}
	if score == 0 {
		return 0, false
	}

	for _, token := range item.MustContain {
		normalized := textnorm.Normalize(token)
		if normalized == "" {
			continue
		}
		if !strings.Contains(pt.full, normalized) {
			return 0, false
		}
		score += scoreMustContain
	}

	for _, token := range item.MustNotContain {
		normalized := textnorm.Normalize(token)
		if normalized != "" && strings.Contains(pt.full, normalized) {
			return 0, false
		}
	}

	for _, token := range item.PreferredAttributes {
		if s.preferredMatches(token, pt) {
			score += scorePreferred
		}
	}

	if score < acceptThreshold {
		return 0, false
	}
	return score, true
}

// preferredMatches checks a soft-preference token against the searchable
// text, trying both its literal normalized form and its capacity form so
// "2 litros" matches a product named "Inca Kola 2L".
func (s *MatchScorer) preferredMatches(token string, pt productText) bool {
	for _, form := range textnorm.CapacityTokens(token) {
		if strings.Contains(pt.full, form) {
			return true
		}
		if _, ok := pt.capacity[form]; ok {
			return true
		}
	}
	return false
}

// RelaxedMatch is the fallback pass for intent items that scored zero
// accepted matches everywhere: a plain name/category/synonym substring
// check with no attribute gating, accepted at a fixed low score.
func (s *MatchScorer) RelaxedMatch(item *entities.ShoppingIntentItem, product *entities.CatalogProduct) (int, bool) {
	wanted := textnorm.Normalize(item.ProductName)
	if wanted == "" {
		return 0, false
	}

	pt := s.BuildProductText(product)
	if strings.Contains(pt.nameCategory, wanted) {
		return relaxedScore, true
	}
	for _, synonym := range pt.synonyms {
		if strings.Contains(synonym, wanted) {
			return relaxedScore, true
		}
	}
	return 0, false
}
