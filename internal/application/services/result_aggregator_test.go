package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keaype/bodega-backend/internal/domain/entities"
	"github.com/keaype/bodega-backend/pkg/geo"
)

func matchCandidate(storeID string, intentIndex, score int, price float64) entities.MatchCandidate {
	return entities.MatchCandidate{
		Candidate: entities.Candidate{
			Offer: entities.StoreOffer{StoreID: storeID, Price: price},
			Store: entities.Store{ID: storeID, Location: entities.Location{Latitude: -8.08, Longitude: -79.11}},
		},
		IntentIndex: intentIndex,
		Score:       score,
	}
}

func TestAggregateRanksCompletenessOverPrice(t *testing.T) {
	intents := []entities.ShoppingIntentItem{
		{ProductName: "arroz", Quantity: 1},
		{ProductName: "aceite", Quantity: 1},
		{ProductName: "atun", Quantity: 1},
	}

	accepted := []entities.MatchCandidate{
		// Store A satisfies 2 of 3 for 10.00 total
		matchCandidate("store-a", 0, 10, 4.00),
		matchCandidate("store-a", 1, 10, 6.00),
		// Store B satisfies all 3 for 15.00 total
		matchCandidate("store-b", 0, 10, 5.00),
		matchCandidate("store-b", 1, 10, 5.00),
		matchCandidate("store-b", 2, 10, 5.00),
	}

	results := NewResultAggregator().Aggregate(accepted, intents, geo.Point{Latitude: -8.08, Longitude: -79.11})
	require.Len(t, results, 2)

	assert.Equal(t, "store-b", results[0].Store.ID, "full coverage outranks a cheaper partial basket")
	assert.Equal(t, 1.0, results[0].Completeness)
	assert.InDelta(t, 15.00, results[0].TotalPrice, 1e-9)

	assert.Equal(t, "store-a", results[1].Store.ID)
	assert.InDelta(t, 2.0/3.0, results[1].Completeness, 1e-9)
	assert.InDelta(t, 10.00, results[1].TotalPrice, 1e-9)
}

func TestAggregateKeepsOneWinnerPerIntentItem(t *testing.T) {
	intents := []entities.ShoppingIntentItem{{ProductName: "gaseosa", Quantity: 1}}

	first := matchCandidate("store-a", 0, 10, 3.00)
	better := matchCandidate("store-a", 0, 15, 4.00)
	tied := matchCandidate("store-a", 0, 15, 2.00)

	results := NewResultAggregator().Aggregate(
		[]entities.MatchCandidate{first, better, tied},
		intents,
		geo.Point{Latitude: -8.08, Longitude: -79.11},
	)
	require.Len(t, results, 1)

	winner := results[0].Winners[0]
	assert.Equal(t, 15, winner.Score)
	assert.InDelta(t, 4.00, winner.Candidate.Offer.Price, 1e-9, "equal scores keep the first-seen candidate")
	assert.Equal(t, 1.0, results[0].Completeness)
}

func TestAggregateMultipliesPriceByQuantity(t *testing.T) {
	intents := []entities.ShoppingIntentItem{{ProductName: "arroz", Quantity: 3}}

	results := NewResultAggregator().Aggregate(
		[]entities.MatchCandidate{matchCandidate("store-a", 0, 10, 4.50)},
		intents,
		geo.Point{Latitude: -8.08, Longitude: -79.11},
	)
	require.Len(t, results, 1)
	assert.InDelta(t, 13.50, results[0].TotalPrice, 1e-9)
}

func TestAggregateBreaksCompletenessTiesByPrice(t *testing.T) {
	intents := []entities.ShoppingIntentItem{{ProductName: "arroz", Quantity: 1}}

	results := NewResultAggregator().Aggregate(
		[]entities.MatchCandidate{
			matchCandidate("store-expensive", 0, 10, 6.00),
			matchCandidate("store-cheap", 0, 10, 4.00),
		},
		intents,
		geo.Point{Latitude: -8.08, Longitude: -79.11},
	)
	require.Len(t, results, 2)
	assert.Equal(t, "store-cheap", results[0].Store.ID)
	assert.Equal(t, "store-expensive", results[1].Store.ID)
}

func TestAggregateIsDeterministicForIdenticalStores(t *testing.T) {
	intents := []entities.ShoppingIntentItem{{ProductName: "arroz", Quantity: 1}}
	accepted := []entities.MatchCandidate{
		matchCandidate("store-1", 0, 10, 5.00),
		matchCandidate("store-2", 0, 10, 5.00),
	}
	origin := geo.Point{Latitude: -8.08, Longitude: -79.11}

	aggregator := NewResultAggregator()
	baseline := aggregator.Aggregate(accepted, intents, origin)
	for i := 0; i < 10; i++ {
		results := aggregator.Aggregate(accepted, intents, origin)
		require.Equal(t, len(baseline), len(results))
		for j := range results {
			assert.Equal(t, baseline[j].Store.ID, results[j].Store.ID, "stable sort must preserve first-seen order on full ties")
		}
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	results := NewResultAggregator().Aggregate(nil, nil, geo.Point{})
	assert.Empty(t, results)
}
