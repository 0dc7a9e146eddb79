package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/keaype/bodega-backend/internal/domain/entities"
	"github.com/keaype/bodega-backend/internal/domain/providers"
	"github.com/keaype/bodega-backend/internal/domain/repositories"
	"github.com/keaype/bodega-backend/pkg/geo"
	"github.com/keaype/bodega-backend/pkg/textnorm"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// genericReply is returned when the response composer is exhausted; search
// is advisory and must still answer something.
const genericReply = "Aquí tienes los resultados de las bodegas cercanas, vecino."

// historyWindow is how many transcript entries are replayed to the
// interpreter for conversational context.
const historyWindow = 6

var (
	searchMetricsOnce     sync.Once
	unmatchedItemCounter  metric.Int64Counter
	oracleFallbackCounter metric.Int64Counter
)

func initSearchMetrics() {
	meter := otel.Meter("github.com/keaype/bodega-backend/search")
	if counter, err := meter.Int64Counter(
		"search.intent_item_unmatched.count",
		metric.WithDescription("Intent items that required the relaxed fallback pass"),
	); err == nil {
		unmatchedItemCounter = counter
	}
	if counter, err := meter.Int64Counter(
		"search.oracle_fallback.count",
		metric.WithDescription("Turns answered with the prior state or generic reply after oracle exhaustion"),
	); err == nil {
		oracleFallbackCounter = counter
	}
}

// SearchRequest is one smart-search turn.
type SearchRequest struct {
	Query   string
	Origin  geo.Point
	UserID  string
	History []entities.ChatMessage
}

// SearchService orchestrates a conversational search turn: state load,
// intent interpretation, candidate retrieval, scoring, aggregation, reply
// composition, and state persistence.
type SearchService struct {
	catalog       repositories.CatalogRepository
	conversations repositories.ConversationRepository
	interpreter   providers.IntentInterpreter
	composer      providers.ResponseComposer
	cache         providers.CacheProvider
	scorer        *MatchScorer
	aggregator    *ResultAggregator
	radiusKm      float64
	now           func() time.Time
}

// NewSearchService creates a new search service. cache may be nil; radiusKm
// of zero falls back to the default search radius.
func NewSearchService(
	catalog repositories.CatalogRepository,
	conversations repositories.ConversationRepository,
	interpreter providers.IntentInterpreter,
	composer providers.ResponseComposer,
	cache providers.CacheProvider,
	radiusKm float64,
) *SearchService {
	if radiusKm <= 0 {
		radiusKm = geo.DefaultRadiusKm
	}
	return &SearchService{
		catalog:       catalog,
		conversations: conversations,
		interpreter:   interpreter,
		composer:      composer,
		cache:         cache,
		scorer:        NewMatchScorer(),
		aggregator:    NewResultAggregator(),
		radiusKm:      radiusKm,
		now:           time.Now,
	}
}

// Search runs one turn. It never fails on oracle degradation: interpreter
// exhaustion keeps the prior intent list, composer exhaustion yields a
// generic reply.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*entities.SmartSearchResponse, error) {
	stateful := req.UserID != "" && s.conversations != nil

	var priorItems []entities.ShoppingIntentItem
	history := req.History
	if stateful {
		state, err := s.conversations.Get(ctx, req.UserID)
		if err == nil && state != nil {
			priorItems = state.IntentList
			history = state.Transcript
		}
		// A missing state is the first turn, not an error.
	}
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	items, interpreted := s.interpret(ctx, req.Query, priorItems, history)

	if len(items) == 0 {
		message := s.compose(ctx, req.Query,
			"El cliente solo está conversando, no hay intención de compra clara aún.")
		s.persistTurn(ctx, stateful, req.UserID, req.Query, message, items, interpreted)
		return &entities.SmartSearchResponse{Message: message, Results: []entities.StoreSearchResult{}}, nil
	}

	candidates, err := s.catalog.SearchCandidates(ctx, repositories.CandidateSearchParams{
		Keywords: intentKeywords(items),
		Origin:   req.Origin,
		MaxKm:    s.radiusKm,
		Now:      s.now(),
	})
	if err != nil {
		return nil, err
	}

	accepted := s.scoreAll(ctx, items, candidates)
	ranked := s.aggregator.Aggregate(accepted, items, req.Origin)
	results := s.buildResults(ranked, items, req.Origin)

	message := s.compose(ctx, req.Query, summarize(results))
	s.persistTurn(ctx, stateful, req.UserID, req.Query, message, items, interpreted)

	return &entities.SmartSearchResponse{Message: message, Results: results}, nil
}

// interpret calls the intent oracle with memoization. The second return
// value is false when the oracle was exhausted and the prior list was kept.
func (s *SearchService) interpret(ctx context.Context, utterance string, prior []entities.ShoppingIntentItem, history []entities.ChatMessage) ([]entities.ShoppingIntentItem, bool) {
	cacheKey := interpretationKey(utterance, prior)

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var cached []entities.ShoppingIntentItem
			if json.Unmarshal(data, &cached) == nil {
				return cached, true
			}
		}
	}

	items, err := s.interpreter.InterpretIntent(ctx, utterance, prior, history)
	if err != nil {
		log.Warn().Err(err).Msg("intent oracle exhausted, keeping prior state")
		recordOracleFallback(ctx)
		return prior, false
	}
	if items == nil {
		items = []entities.ShoppingIntentItem{}
	}

	if s.cache != nil {
		if data, err := json.Marshal(items); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 86400) // 24 hours
		}
	}

	return items, true
}

// scoreAll scores every (intent item, candidate) pair, then runs the
// relaxed fallback pass for items that found nothing anywhere.
func (s *SearchService) scoreAll(ctx context.Context, items []entities.ShoppingIntentItem, candidates []entities.Candidate) []entities.MatchCandidate {
	accepted := make([]entities.MatchCandidate, 0, len(candidates))
	matchedItems := make(map[int]bool)

	for index := range items {
		for _, candidate := range candidates {
			if score, ok := s.scorer.Score(&items[index], &candidate.Product); ok {
				accepted = append(accepted, entities.MatchCandidate{
					Candidate:   candidate,
					IntentIndex: index,
					Score:       score,
				})
				matchedItems[index] = true
			}
		}
	}

	for index := range items {
		if matchedItems[index] {
			continue
		}
		recordUnmatchedItem(ctx)
		for _, candidate := range candidates {
			if score, ok := s.scorer.RelaxedMatch(&items[index], &candidate.Product); ok {
				accepted = append(accepted, entities.MatchCandidate{
					Candidate:   candidate,
					IntentIndex: index,
					Score:       score,
				})
			}
		}
	}

	return accepted
}

// buildResults converts ranked store results to the response payload.
// Candidates already passed the open-store filter, so is_open is true.
func (s *SearchService) buildResults(ranked []entities.StoreResult, items []entities.ShoppingIntentItem, origin geo.Point) []entities.StoreSearchResult {
	results := make([]entities.StoreSearchResult, 0, len(ranked))
	for _, store := range ranked {
		indexes := make([]int, 0, len(store.Winners))
		for index := range store.Winners {
			indexes = append(indexes, index)
		}
		sort.Ints(indexes)

		found := make([]entities.FoundItem, 0, len(indexes))
		for _, index := range indexes {
			winner := store.Winners[index]
			quantity := 1
			if index < len(items) {
				quantity = items[index].EffectiveQuantity()
			}
			found = append(found, entities.FoundItem{
				ProductID:         winner.Candidate.Product.ID,
				Name:              winner.Candidate.Product.Name,
				Price:             winner.Candidate.Offer.Price,
				Stock:             winner.Candidate.Offer.StockQuantity,
				Unit:              winner.Candidate.Product.Unit(),
				Attributes:        winner.Candidate.Product.Attributes,
				RequestedQuantity: quantity,
			})
		}

		location := geo.Point{
			Latitude:  store.Store.Location.Latitude,
			Longitude: store.Store.Location.Longitude,
		}
		results = append(results, entities.StoreSearchResult{
			StoreID:           store.Store.ID,
			Name:              store.Store.Name,
			Latitude:          store.Store.Location.Latitude,
			Longitude:         store.Store.Location.Longitude,
			DistanceMeters:    geo.DistanceMeters(origin, location),
			IsOpen:            true,
			CompletenessScore: store.Completeness * 100,
			TotalPrice:        store.TotalPrice,
			FoundItems:        found,
			MissingItems:      []string{},
		})
	}
	return results
}

// compose asks the reply oracle for a message, falling back to the fixed
// generic reply on terminal failure.
func (s *SearchService) compose(ctx context.Context, utterance, summary string) string {
	message, err := s.composer.ComposeReply(ctx, utterance, summary)
	if err != nil || strings.TrimSpace(message) == "" {
		if err != nil {
			log.Warn().Err(err).Msg("reply oracle exhausted, using generic reply")
			recordOracleFallback(ctx)
		}
		return genericReply
	}
	return message
}

// persistTurn appends the turn to the transcript and, when the interpreter
// produced a fresh list, overwrites the stored intent list. State writes
// happen only after every dependent step completed.
func (s *SearchService) persistTurn(ctx context.Context, stateful bool, userID, utterance, reply string, items []entities.ShoppingIntentItem, interpreted bool) {
	if !stateful {
		return
	}

	now := s.now()
	messages := []entities.ChatMessage{
		{Role: entities.RoleTurnUser, Content: utterance, Timestamp: now},
		{Role: entities.RoleTurnAssistant, Content: reply, Timestamp: now},
	}
	if err := s.conversations.AppendMessages(ctx, userID, messages); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to append transcript")
	}

	if interpreted {
		if err := s.conversations.SaveIntentList(ctx, userID, items); err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("failed to save intent list")
		}
	}
}

// intentKeywords extracts the normalized product names used for the coarse
// catalog pre-filter.
func intentKeywords(items []entities.ShoppingIntentItem) []string {
	seen := make(map[string]struct{}, len(items))
	keywords := make([]string, 0, len(items))
	for _, item := range items {
		keyword := textnorm.Normalize(item.ProductName)
		if keyword == "" {
			continue
		}
		if _, ok := seen[keyword]; ok {
			continue
		}
		seen[keyword] = struct{}{}
		keywords = append(keywords, keyword)
	}
	return keywords
}

// interpretationKey hashes (utterance, prior list) so identical replayed
// turns resolve to the same interpretation.
func interpretationKey(utterance string, prior []entities.ShoppingIntentItem) string {
	payload, _ := json.Marshal(prior)
	sum := sha256.Sum256(append([]byte(textnorm.Normalize(utterance)+"\x00"), payload...))
	return "intent_interp:" + hex.EncodeToString(sum[:])
}

// summarize renders the aggregated outcome as the short context string
// handed to the reply oracle.
func summarize(results []entities.StoreSearchResult) string {
	if len(results) == 0 {
		return "No se encontraron bodegas con stock para esos productos exactos."
	}

	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, store := range results {
		for _, item := range store.FoundItems {
			if _, ok := seen[item.Name]; !ok {
				seen[item.Name] = struct{}{}
				names = append(names, item.Name)
			}
		}
	}

	return fmt.Sprintf("Se encontraron resultados en %d bodegas. Productos hallados: %s.",
		len(results), strings.Join(names, ", "))
}

func recordUnmatchedItem(ctx context.Context) {
	searchMetricsOnce.Do(initSearchMetrics)
	if unmatchedItemCounter != nil {
		unmatchedItemCounter.Add(ctx, 1)
	}
}

func recordOracleFallback(ctx context.Context) {
	searchMetricsOnce.Do(initSearchMetrics)
	if oracleFallbackCounter != nil {
		oracleFallbackCounter.Add(ctx, 1)
	}
}
