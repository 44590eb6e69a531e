package domain

import "time"

// Slot represents a computed bookable time interval with remaining capacity
// Slots are never persisted - they are recomputed on every read
type Slot struct {
	Start    time.Time
	End      time.Time
	Capacity int // remaining spots after blocking bookings are subtracted
}

// IsFull returns true if the slot has no remaining capacity
func (s *Slot) IsFull() bool {
	return s.Capacity <= 0
}

// Duration возвращает длительность слота
func (s *Slot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}
