package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduleWeekday(t *testing.T) {
	monday := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	sunday := time.Date(2024, 1, 7, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, ScheduleWeekday(monday))
	assert.Equal(t, 6, ScheduleWeekday(sunday))
}

func TestIsOpenAt(t *testing.T) {
	// Monday at noon.
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	mondayWindow := []StoreSchedule{
		{DayOfWeek: 0, OpenTime: "07:00:00", CloseTime: "22:00:00"},
	}

	open := OverrideOpen
	closed := OverrideClosed

	tests := []struct {
		name      string
		store     Store
		schedules []StoreSchedule
		at        time.Time
		want      bool
	}{
		{"override OPEN wins without schedules", Store{ManualOverride: &open}, nil, now, true},
		{"override CLOSED wins inside a window", Store{ManualOverride: &closed}, mondayWindow, now, false},
		{"inside the weekday window", Store{}, mondayWindow, now, true},
		{"before opening", Store{}, mondayWindow, time.Date(2024, 1, 1, 6, 59, 0, 0, time.UTC), false},
		{"after closing", Store{}, mondayWindow, time.Date(2024, 1, 1, 22, 1, 0, 0, time.UTC), false},
		{"wrong weekday", Store{}, mondayWindow, time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC), false},
		{"no schedules at all", Store{}, nil, now, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.store.IsOpenAt(tc.at, tc.schedules))
		})
	}
}
