package stats

import (
	"time"

	"github.com/itskdhere/together-we/pkg/types"
)

type EventStatus string

const (
	EventStatusActive    EventStatus = "active"
	EventStatusFull      EventStatus = "full"
	EventStatusCompleted EventStatus = "completed"
)

// StatusAt classifies an event at the given instant. Status is never
// stored; it is derived from capacity and the clock on every read.
// Fullness is checked before completion, so a full event that has already
// ended still reports full.
func StatusAt(event *types.Event, now time.Time) EventStatus {
	if len(event.JoinedVolunteers) >= event.VolunteerCap {
		return EventStatusFull
	}
	if event.EndTime.Before(now) {
		return EventStatusCompleted
	}
	return EventStatusActive
}
