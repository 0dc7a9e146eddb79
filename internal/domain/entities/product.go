package entities

// CatalogProduct is one entry of the shared master catalog. Synonyms carry
// slang and alternate spellings ("chela" for beer); Attributes is a free
// key/value map where values may be booleans ("retornable": true) or strings
// ("tamano": "2L").
type CatalogProduct struct {
	ID          int                    `json:"id" db:"id"`
	Name        string                 `json:"name" db:"name"`
	Category    string                 `json:"category" db:"category"`
	Synonyms    []string               `json:"synonyms" db:"-"`
	Attributes  map[string]interface{} `json:"attributes,omitempty" db:"-"`
	ImageURL    string                 `json:"image_url,omitempty" db:"image_url"`
	DefaultUnit string                 `json:"default_unit" db:"default_unit"`
}

// Unit returns the product's unit of sale, defaulting to "UND".
func (p *CatalogProduct) Unit() string {
	if p.DefaultUnit == "" {
		return "UND"
	}
	return p.DefaultUnit
}

// StoreOffer links a store to a catalog product with its local price and
// stock.
type StoreOffer struct {
	StoreID       string  `json:"store_id" db:"store_id"`
	ProductID     int     `json:"product_id" db:"product_id"`
	Price         float64 `json:"price" db:"price"`
	StockQuantity float64 `json:"stock_quantity" db:"stock_quantity"`
	IsAvailable   bool    `json:"is_available" db:"is_available"`
}
