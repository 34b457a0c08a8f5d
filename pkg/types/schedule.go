package types

import (
	"fmt"
	"strings"
	"time"
)

// Slot is a calendar date plus wall-clock time as the collections store
// them: "2006-01-02" and "15:04".
type Slot struct {
	Date string
	Time string
}

// NewSlot trims both parts; it performs no validation.
func NewSlot(date, clock string) Slot {
	return Slot{Date: strings.TrimSpace(date), Time: strings.TrimSpace(clock)}
}

// At resolves the slot in the given location.
func (s Slot) At(loc *time.Location) (time.Time, error) {
	if s.Date == "" || s.Time == "" {
		return time.Time{}, fmt.Errorf("slot requires both date and time")
	}
	if loc == nil {
		loc = time.Local
	}
	parsed, err := time.ParseInLocation("2006-01-02 15:04", s.Date+" "+s.Time, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse slot: %w", err)
	}
	return parsed, nil
}

// FutureOrNow reports whether the slot is at or after now. Unparseable
// slots are never future.
func (s Slot) FutureOrNow(now time.Time) bool {
	parsed, err := s.At(now.Location())
	if err != nil {
		return false
	}
	return !parsed.Before(now)
}
