package entities

import "time"

// Reservation status transitions: PENDING until the storekeeper settles it.
const (
	ReservationPending   = "PENDING"
	ReservationPaid      = "PAID"
	ReservationCredit    = "CREDIT"
	ReservationCancelled = "CANCELLED"
)

// Reservation is a client's pick-up order against a single store.
type Reservation struct {
	ID          string            `json:"id" db:"id"`
	UserID      string            `json:"user_id" db:"user_id"`
	StoreID     string            `json:"bodega_id" db:"bodega_id"`
	TotalAmount float64           `json:"total_amount" db:"total_amount"`
	Status      string            `json:"status" db:"status"`
	QRCodeData  string            `json:"qr_code_data" db:"qr_code_data"`
	ClientName  string            `json:"client_name,omitempty" db:"-"`
	Items       []ReservationItem `json:"items" db:"-"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
}

// ReservationItem is one line of a reservation. Product names are copied at
// reservation time so later catalog edits don't rewrite history.
type ReservationItem struct {
	ID            int     `json:"id" db:"id"`
	ReservationID string  `json:"reservation_id" db:"reservation_id"`
	ProductName   string  `json:"product_name" db:"product_name"`
	Quantity      int     `json:"quantity" db:"quantity"`
	UnitPrice     float64 `json:"unit_price" db:"unit_price"`
	TotalPrice    float64 `json:"total_price" db:"total_price"`
}

// IsValidReservationStatus reports whether s is a known reservation status.
func IsValidReservationStatus(s string) bool {
	switch s {
	case ReservationPending, ReservationPaid, ReservationCredit, ReservationCancelled:
		return true
	}
	return false
}
