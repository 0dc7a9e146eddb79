package services

import (
	"sort"

	"github.com/keaype/bodega-backend/internal/domain/entities"
	"github.com/keaype/bodega-backend/pkg/geo"
)

// ResultAggregator groups accepted match candidates per store, keeps one
// winner per requested intent item, and ranks the stores.
type ResultAggregator struct{}

// NewResultAggregator creates a new result aggregator
func NewResultAggregator() *ResultAggregator {
	return &ResultAggregator{}
}

// Aggregate builds the ranked per-store results. For each store and intent
// item only the highest-scoring candidate survives (ties broken by first
// seen). Stores sort by completeness descending, then total price
// ascending; the sort is stable so identical inputs always rank
// identically.
func (a *ResultAggregator) Aggregate(accepted []entities.MatchCandidate, intents []entities.ShoppingIntentItem, origin geo.Point) []entities.StoreResult {
	byStore := make(map[string]*entities.StoreResult)
	order := make([]string, 0)

	for _, candidate := range accepted {
		storeID := candidate.Candidate.Store.ID
		result, ok := byStore[storeID]
		if !ok {
			result = &entities.StoreResult{
				Store:   candidate.Candidate.Store,
				Winners: make(map[int]entities.MatchCandidate),
			}
			byStore[storeID] = result
			order = append(order, storeID)
		}

		current, exists := result.Winners[candidate.IntentIndex]
		if !exists || candidate.Score > current.Score {
			result.Winners[candidate.IntentIndex] = candidate
		}
	}

	totalIntents := len(intents)
	results := make([]entities.StoreResult, 0, len(order))
	for _, storeID := range order {
		result := byStore[storeID]

		if totalIntents > 0 {
			result.Completeness = float64(len(result.Winners)) / float64(totalIntents)
		}

		for index, winner := range result.Winners {
			quantity := 1
			if index < totalIntents {
				quantity = intents[index].EffectiveQuantity()
			}
			result.TotalPrice += winner.Candidate.Offer.Price * float64(quantity)
		}

		result.DistanceKm = geo.DistanceKm(origin, geo.Point{
			Latitude:  result.Store.Location.Latitude,
			Longitude: result.Store.Location.Longitude,
		})

		results = append(results, *result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Completeness != results[j].Completeness {
			return results[i].Completeness > results[j].Completeness
		}
		return results[i].TotalPrice < results[j].TotalPrice
	})

	return results
}
