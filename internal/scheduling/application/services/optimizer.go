package services

import (
	"sort"
	"time"

	"github.com/flowgenius/scheduler/internal/scheduling/domain"
)

const (
	// finalTopK is the maximum number of ranked slots returned to callers.
	finalTopK = 5

	// proximityWindowMinutes is how close an existing event must be to a
	// candidate boundary before it contributes a conflict penalty.
	proximityWindowMinutes = 30.0

	weightPriority   = 0.4
	weightConflict   = 0.3
	weightOptimality = 0.3
)

// Optimizer scores and re-ranks candidates. It never adds candidates, so
// the generator's no-conflict guarantee carries through unchanged.
type Optimizer struct{}

// NewOptimizer creates a candidate optimizer.
func NewOptimizer() *Optimizer {
	return &Optimizer{}
}

// Optimize computes conflict and optimality scores for each candidate,
// combines them with the generation priority, and returns the top slots
// by combined score. The input slice is not modified.
func (o *Optimizer) Optimize(candidates []domain.TimeSlotCandidate, classification domain.EventClassification, existing []domain.CalendarEvent) []domain.TimeSlotCandidate {
	scored := make([]domain.TimeSlotCandidate, len(candidates))
	combined := make([]float64, len(candidates))
	for i, candidate := range candidates {
		candidate.ConflictScore = conflictScore(candidate, existing)
		candidate.OptimalityScore = optimalityScore(classification.Type, candidate.Start)
		scored[i] = candidate
		combined[i] = candidate.Priority*weightPriority +
			(100-candidate.ConflictScore)*weightConflict +
			candidate.OptimalityScore*weightOptimality
	}

	order := make([]int, len(scored))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		i, j := order[a], order[b]
		if combined[i] != combined[j] {
			return combined[i] > combined[j]
		}
		return scored[i].Start.Before(scored[j].Start)
	})

	ranked := make([]domain.TimeSlotCandidate, 0, finalTopK)
	for _, idx := range order {
		ranked = append(ranked, scored[idx])
		if len(ranked) == finalTopK {
			break
		}
	}
	return ranked
}

// conflictScore sums proximity penalties over the existing events: an
// event starting within 30 minutes after the candidate's end, or ending
// within 30 minutes before its start, contributes (30-gap)/30*10.
func conflictScore(candidate domain.TimeSlotCandidate, existing []domain.CalendarEvent) float64 {
	score := 0.0
	for _, ev := range existing {
		var gap float64
		switch {
		case !ev.Start.Before(candidate.End):
			gap = ev.Start.Sub(candidate.End).Minutes()
		case !ev.End.After(candidate.Start):
			gap = candidate.Start.Sub(ev.End).Minutes()
		default:
			continue
		}
		if gap < proximityWindowMinutes {
			score += (proximityWindowMinutes - gap) / proximityWindowMinutes * 10
		}
	}
	return score
}

// optimalityScore is a table-driven desirability score for a candidate's
// time of day and weekday given its classification: business mornings
// rank highest, hobby evenings and weekends rank highest, personal events
// favor late afternoons and weekends.
func optimalityScore(eventType domain.EventType, start time.Time) float64 {
	hour := start.Hour()
	weekend := isWeekend(start.Weekday())

	switch eventType {
	case domain.EventTypeBusiness:
		switch {
		case weekend:
			return 30
		case hour >= 9 && hour <= 11:
			return 95
		case hour >= 14 && hour <= 16:
			return 85
		case hour >= 12 && hour <= 13:
			return 55
		default:
			return 70
		}
	case domain.EventTypeHobby:
		switch {
		case weekend && hour >= 9 && hour <= 20:
			return 95
		case weekend:
			return 80
		case hour >= 18 && hour <= 20:
			return 90
		case hour >= 21:
			return 75
		default:
			return 50
		}
	default: // personal
		switch {
		case weekend:
			return 90
		case hour >= 16 && hour <= 19:
			return 85
		case hour >= 20 && hour <= 21:
			return 70
		default:
			return 55
		}
	}
}
