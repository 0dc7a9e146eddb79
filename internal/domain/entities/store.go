package entities

import "time"

// Manual override values for a store's open state. A nil override means the
// weekly schedule decides.
const (
	OverrideOpen   = "OPEN"
	OverrideClosed = "CLOSED"
)

// Store represents a bodega: a small neighborhood shop offering a subset of
// the shared product catalog.
type Store struct {
	ID             string    `json:"id" db:"id"`
	OwnerID        string    `json:"owner_id" db:"owner_id"`
	Name           string    `json:"name" db:"name"`
	Address        string    `json:"address" db:"address"`
	Location       Location  `json:"location" db:"-"`
	ManualOverride *string   `json:"manual_override,omitempty" db:"manual_override"`
	Rating         float64   `json:"rating" db:"rating"`
	PhotoURL       string    `json:"photo_url,omitempty" db:"photo_url"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// StoreSchedule is one weekly opening window. DayOfWeek runs 0 (Monday)
// through 6 (Sunday), matching time.Weekday shifted by one.
type StoreSchedule struct {
	ID        int    `json:"id" db:"id"`
	StoreID   string `json:"store_id" db:"store_id"`
	DayOfWeek int    `json:"day_of_week" db:"day_of_week"`
	OpenTime  string `json:"open_time" db:"open_time"`
	CloseTime string `json:"close_time" db:"close_time"`
}

// ScheduleWeekday converts a time.Weekday to the 0=Monday convention used
// by StoreSchedule rows.
func ScheduleWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// IsOpenAt reports whether the store is open at the given instant: an
// explicit OPEN override wins, CLOSED always loses, and otherwise at least
// one schedule window for the current weekday must contain the time.
func (s *Store) IsOpenAt(now time.Time, schedules []StoreSchedule) bool {
	if s.ManualOverride != nil {
		return *s.ManualOverride == OverrideOpen
	}

	day := ScheduleWeekday(now)
	clock := now.Format("15:04:05")
	for _, window := range schedules {
		if window.DayOfWeek != day {
			continue
		}
		if window.OpenTime <= clock && clock <= window.CloseTime {
			return true
		}
	}
	return false
}
