package entities

// Candidate is one raw (inventory row, product, store) triple returned by
// the catalog query, before any scoring.
type Candidate struct {
	Offer   StoreOffer
	Product CatalogProduct
	Store   Store
}

// MatchCandidate is an accepted (intent item, candidate) pair with its
// score. Ephemeral, never persisted.
type MatchCandidate struct {
	Candidate   Candidate
	IntentIndex int
	Score       int
}

// StoreResult is the per-store aggregation: the winning candidate for each
// intent item the store can satisfy, plus the derived ranking keys.
type StoreResult struct {
	Store        Store
	Winners      map[int]MatchCandidate
	Completeness float64
	TotalPrice   float64
	DistanceKm   float64
}

// FoundItem is the per-product payload inside a search response.
type FoundItem struct {
	ProductID         int                    `json:"product_id"`
	Name              string                 `json:"name"`
	Price             float64                `json:"price"`
	Stock             float64                `json:"stock"`
	Unit              string                 `json:"unit"`
	Attributes        map[string]interface{} `json:"attributes,omitempty"`
	RequestedQuantity int                    `json:"requested_quantity"`
}

// StoreSearchResult is the enriched per-store payload returned to the UI.
type StoreSearchResult struct {
	StoreID           string      `json:"bodega_id"`
	Name              string      `json:"name"`
	Latitude          float64     `json:"latitude"`
	Longitude         float64     `json:"longitude"`
	DistanceMeters    int         `json:"distance_meters"`
	IsOpen            bool        `json:"is_open"`
	CompletenessScore float64     `json:"completeness_score"`
	TotalPrice        float64     `json:"total_price"`
	FoundItems        []FoundItem `json:"found_items"`
	MissingItems      []string    `json:"missing_items"`
}

// SmartSearchResponse is the full smart-search payload: a conversational
// reply plus ranked per-store results.
type SmartSearchResponse struct {
	Message string              `json:"message"`
	Results []StoreSearchResult `json:"results"`
}
