package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/keaype/bodega-backend/internal/domain/entities"
)

func TestScoreRespectsMustContainGate(t *testing.T) {
	scorer := NewMatchScorer()
	item := &entities.ShoppingIntentItem{
		ProductName: "agua",
		Quantity:    1,
		MustContain: []string{"con gas"},
	}

	conGas := &entities.CatalogProduct{Name: "Agua San Luis con gas", Category: "Bebidas"}
	sinGas := &entities.CatalogProduct{Name: "Agua San Luis sin gas", Category: "Bebidas"}

	score, ok := scorer.Score(item, conGas)
	assert.True(t, ok)
	assert.Equal(t, 15, score, "name hit plus satisfied must_contain")

	_, ok = scorer.Score(item, sinGas)
	assert.False(t, ok, "must_contain token absent disqualifies the product")
}

func TestScoreMustNotContainRejects(t *testing.T) {
	scorer := NewMatchScorer()
	item := &entities.ShoppingIntentItem{
		ProductName:    "agua",
		MustNotContain: []string{"sin gas"},
	}

	_, ok := scorer.Score(item, &entities.CatalogProduct{Name: "Agua San Luis sin gas", Category: "Bebidas"})
	assert.False(t, ok)

	score, ok := scorer.Score(item, &entities.CatalogProduct{Name: "Agua San Luis con gas", Category: "Bebidas"})
	assert.True(t, ok)
	assert.Equal(t, 10, score)
}

func TestScorePreferredCapacityForms(t *testing.T) {
	scorer := NewMatchScorer()
	product := &entities.CatalogProduct{Name: "Inca Kola 2L", Category: "Bebidas"}

	for _, preferred := range []string{"2 litros", "2L", "2000ml", "2lt"} {
		item := &entities.ShoppingIntentItem{
			ProductName:         "inca kola",
			PreferredAttributes: []string{preferred},
		}
		score, ok := scorer.Score(item, product)
		assert.True(t, ok, preferred)
		assert.Equal(t, 13, score, "every surface form of two liters should earn the preference bonus")
	}
}

func TestScorePreferredMissOnlyLosesBonus(t *testing.T) {
	scorer := NewMatchScorer()
	item := &entities.ShoppingIntentItem{
		ProductName:         "inca kola",
		PreferredAttributes: []string{"3 litros"},
	}

	score, ok := scorer.Score(item, &entities.CatalogProduct{Name: "Inca Kola 2L", Category: "Bebidas"})
	assert.True(t, ok, "a missed preference never disqualifies")
	assert.Equal(t, 10, score)
}

func TestScoreSynonymHitMeetsThreshold(t *testing.T) {
	scorer := NewMatchScorer()
	item := &entities.ShoppingIntentItem{ProductName: "chela"}
	product := &entities.CatalogProduct{
		Name:     "Cerveza Pilsen 630ml",
		Category: "Bebidas",
		Synonyms: []string{"chela", "pilsen"},
	}

	score, ok := scorer.Score(item, product)
	assert.True(t, ok, "a synonym-only hit sits exactly on the accept threshold")
	assert.Equal(t, 8, score)
}

func TestScoreNameAndSynonymHitsAreAdditive(t *testing.T) {
	scorer := NewMatchScorer()
	item := &entities.ShoppingIntentItem{ProductName: "cerveza"}
	product := &entities.CatalogProduct{
		Name:     "Cerveza Cristal",
		Category: "Bebidas",
		Synonyms: []string{"cerveza helada"},
	}

	score, ok := scorer.Score(item, product)
	assert.True(t, ok)
	assert.Equal(t, 18, score)
}

func TestScoreNoBaseHitRejectsEvenWithAttributes(t *testing.T) {
	scorer := NewMatchScorer()
	item := &entities.ShoppingIntentItem{
		ProductName: "detergente",
		MustContain: []string{"bebidas"},
	}

	_, ok := scorer.Score(item, &entities.CatalogProduct{Name: "Inca Kola 2L", Category: "Bebidas"})
	assert.False(t, ok, "attribute hits alone never qualify a product")
}

func TestScoreDegenerateItemNeverMatches(t *testing.T) {
	scorer := NewMatchScorer()
	item := &entities.ShoppingIntentItem{
		ProductName:    "agua",
		MustContain:    []string{"con gas"},
		MustNotContain: []string{"con gas"},
	}

	_, ok := scorer.Score(item, &entities.CatalogProduct{Name: "Agua San Luis con gas", Category: "Bebidas"})
	assert.False(t, ok)
}

func TestScoreBooleanAttributesExpandToConSinPhrases(t *testing.T) {
	scorer := NewMatchScorer()
	product := &entities.CatalogProduct{
		Name:       "Agua San Luis 625ml",
		Category:   "Bebidas",
		Attributes: map[string]interface{}{"gas": false},
	}

	item := &entities.ShoppingIntentItem{ProductName: "agua", MustContain: []string{"sin gas"}}
	score, ok := scorer.Score(item, product)
	assert.True(t, ok, "a false boolean attribute satisfies the matching 'sin' phrase")
	assert.Equal(t, 15, score)

	item = &entities.ShoppingIntentItem{ProductName: "agua", MustContain: []string{"con gas"}}
	_, ok = scorer.Score(item, product)
	assert.False(t, ok)
}

func TestScoreNormalizesDiacriticsAndCase(t *testing.T) {
	scorer := NewMatchScorer()
	item := &entities.ShoppingIntentItem{ProductName: "Limón"}

	score, ok := scorer.Score(item, &entities.CatalogProduct{Name: "Galletas de limon", Category: "Snacks"})
	assert.True(t, ok)
	assert.Equal(t, 10, score)
}

func TestRelaxedMatchIgnoresAttributeGates(t *testing.T) {
	scorer := NewMatchScorer()
	item := &entities.ShoppingIntentItem{
		ProductName: "agua",
		MustContain: []string{"con gas"},
	}
	product := &entities.CatalogProduct{Name: "Agua San Luis sin gas", Category: "Bebidas"}

	score, ok := scorer.RelaxedMatch(item, product)
	assert.True(t, ok)
	assert.Equal(t, 5, score)

	_, ok = scorer.RelaxedMatch(&entities.ShoppingIntentItem{ProductName: "detergente"}, product)
	assert.False(t, ok, "relaxed pass still requires a name or synonym hit")
}
