package services

import (
	"time"

	"github.com/flowgenius/scheduler/internal/scheduling/domain"
)

// slotPriority scores a candidate start time for a classification on a
// 0-100 scale. Business slots favor mid-morning and mid-afternoon on
// weekdays; hobby and personal slots favor evenings and weekends.
func slotPriority(eventType domain.EventType, start time.Time) float64 {
	hour := start.Hour()
	weekend := isWeekend(start.Weekday())

	priority := 50.0
	if eventType == domain.EventTypeBusiness {
		if hour >= 9 && hour <= 11 {
			priority += 30
		}
		if hour >= 14 && hour <= 16 {
			priority += 20
		}
		if hour >= 12 && hour <= 13 {
			priority -= 10
		}
		if weekend {
			priority -= 40
		}
	} else {
		if weekend {
			priority += 30
		}
		if hour >= 18 && hour <= 20 {
			priority += 25
		}
		if !weekend && hour >= 9 && hour <= 17 {
			priority -= 20
		}
	}

	return clampScore(priority)
}

func isWeekend(day time.Weekday) bool {
	return day == time.Saturday || day == time.Sunday
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
