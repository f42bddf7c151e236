package stats

import (
	"github.com/itskdhere/together-we/pkg/types"
)

// EstimateHours is the single hours policy for every surface that reports
// volunteer hours. An event is worth its scheduled duration, per joiner.
func EstimateHours(event *types.Event) float64 {
	return event.EndTime.Sub(event.StartTime).Hours()
}
