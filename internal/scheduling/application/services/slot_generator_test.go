package services_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgenius/scheduler/internal/scheduling/application/services"
	"github.com/flowgenius/scheduler/internal/scheduling/domain"
)

// Monday, so the first days of the horizon are workdays.
var generatorAnchor = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func fixedClock() time.Time {
	return generatorAnchor.Add(8 * time.Hour)
}

func businessClassification() domain.EventClassification {
	return domain.EventClassification{Type: domain.EventTypeBusiness, Confidence: 0.9}
}

func newRequest(title string, existing []domain.CalendarEvent) domain.SchedulingRequest {
	preferred := generatorAnchor
	return domain.SchedulingRequest{
		Title:          title,
		PreferredDate:  &preferred,
		ExistingEvents: existing,
		Preferences:    domain.DefaultPreferences(),
	}
}

func TestSlotGenerator_Generate_BusinessSlots(t *testing.T) {
	generator := services.NewSlotGeneratorAt(fixedClock)
	request := newRequest("Team meeting", nil)

	candidates, err := generator.Generate(request, businessClassification(), 60)
	require.NoError(t, err)
	require.NotEmpty(t, candidates)
	assert.LessOrEqual(t, len(candidates), 10)

	prefs := request.Preferences
	horizonEnd := generatorAnchor.AddDate(0, 0, services.HorizonDays)
	for _, c := range candidates {
		assert.True(t, prefs.WorkDays[c.Start.Weekday()], "business slot on %s", c.Start.Weekday())

		startMinute := c.Start.Hour()*60 + c.Start.Minute()
		assert.GreaterOrEqual(t, startMinute, prefs.BusinessHours.StartMinute)
		assert.LessOrEqual(t, startMinute+60, prefs.BusinessHours.EndMinute)

		assert.Equal(t, time.Hour, c.End.Sub(c.Start))
		assert.False(t, c.Start.Before(generatorAnchor))
		assert.True(t, c.Start.Before(horizonEnd))
		assert.NotEmpty(t, c.Reasoning)
		assert.Greater(t, c.Priority, 0.0)
	}
}

func TestSlotGenerator_Generate_SkipsPastStartTimes(t *testing.T) {
	// Mid-afternoon on the anchor day; the morning has already passed.
	lateClock := func() time.Time { return generatorAnchor.Add(15*time.Hour + 10*time.Minute) }
	generator := services.NewSlotGeneratorAt(lateClock)
	request := newRequest("Team meeting", nil)
	request.PreferredDate = nil

	candidates, err := generator.Generate(request, businessClassification(), 60)
	require.NoError(t, err)
	require.NotEmpty(t, candidates)

	for _, c := range candidates {
		assert.False(t, c.Start.Before(lateClock()),
			"candidate %s starts before the current time", c.Start.Format(time.RFC3339))
	}
}

func TestSlotGenerator_Generate_SortedByPriority(t *testing.T) {
	generator := services.NewSlotGeneratorAt(fixedClock)
	request := newRequest("Team meeting", nil)

	candidates, err := generator.Generate(request, businessClassification(), 60)
	require.NoError(t, err)

	for i := 1; i < len(candidates); i++ {
		assert.GreaterOrEqual(t, candidates[i-1].Priority, candidates[i].Priority)
	}
}

func TestSlotGenerator_Generate_SkipsConflicts(t *testing.T) {
	generator := services.NewSlotGeneratorAt(fixedClock)
	existing := []domain.CalendarEvent{
		domain.NewCalendarEvent("Standup",
			generatorAnchor.Add(10*time.Hour),
			generatorAnchor.Add(11*time.Hour)),
	}
	request := newRequest("Team meeting", existing)

	candidates, err := generator.Generate(request, businessClassification(), 60)
	require.NoError(t, err)

	buffer := time.Duration(request.Preferences.BufferMinutes) * time.Minute
	for _, c := range candidates {
		assert.False(t, c.ConflictsWith(existing, buffer),
			"candidate %s overlaps an existing event", c.Start.Format(time.RFC3339))
	}
}

func TestSlotGenerator_Generate_RespectsPerDayCap(t *testing.T) {
	generator := services.NewSlotGeneratorAt(fixedClock)
	request := newRequest("Team meeting", nil)
	request.Preferences = domain.Merge(request.Preferences, &domain.PreferenceOverride{
		MaxSuggestionsPerDay: intPtr(1),
	})

	candidates, err := generator.Generate(request, businessClassification(), 60)
	require.NoError(t, err)

	perDay := make(map[string]int)
	for _, c := range candidates {
		perDay[c.Start.Format("2006-01-02")]++
	}
	for day, count := range perDay {
		assert.LessOrEqual(t, count, 1, "too many slots on %s", day)
	}
}

func TestSlotGenerator_Generate_HobbySlotsOutsideWorkHours(t *testing.T) {
	generator := services.NewSlotGeneratorAt(fixedClock)
	request := newRequest("Guitar", nil)
	classification := domain.EventClassification{Type: domain.EventTypeHobby, Confidence: 0.9}

	candidates, err := generator.Generate(request, classification, 90)
	require.NoError(t, err)
	require.NotEmpty(t, candidates)

	for _, c := range candidates {
		weekend := c.Start.Weekday() == time.Saturday || c.Start.Weekday() == time.Sunday
		if !weekend {
			assert.GreaterOrEqual(t, c.Start.Hour(), 18,
				"weekday hobby slot at %s should be in the evening", c.Start.Format("15:04"))
		}
	}
}

func TestSlotGenerator_Generate_MealWindowOverride(t *testing.T) {
	generator := services.NewSlotGeneratorAt(fixedClock)
	request := newRequest("Lunch with Sarah", nil)
	classification := domain.EventClassification{Type: domain.EventTypePersonal, Confidence: 0.9}

	candidates, err := generator.Generate(request, classification, 60)
	require.NoError(t, err)
	require.NotEmpty(t, candidates)

	for _, c := range candidates {
		startMinute := c.Start.Hour()*60 + c.Start.Minute()
		assert.GreaterOrEqual(t, startMinute, 11*60+30,
			"lunch slot at %s starts before the lunch window", c.Start.Format("15:04"))
		assert.LessOrEqual(t, startMinute+60, 15*60,
			"lunch slot at %s ends after the lunch window", c.Start.Format("15:04"))
	}
}

func TestSlotGenerator_Generate_InvalidInputs(t *testing.T) {
	generator := services.NewSlotGeneratorAt(fixedClock)

	t.Run("non-positive duration", func(t *testing.T) {
		_, err := generator.Generate(newRequest("Team meeting", nil), businessClassification(), 0)
		assert.Error(t, err)
	})

	t.Run("inverted business hours", func(t *testing.T) {
		request := newRequest("Team meeting", nil)
		request.Preferences.BusinessHours = domain.BusinessHours{StartMinute: 18 * 60, EndMinute: 9 * 60}

		_, err := generator.Generate(request, businessClassification(), 60)
		assert.Error(t, err)
	})
}

func TestSlotGenerator_Generate_FullyBookedHorizon(t *testing.T) {
	generator := services.NewSlotGeneratorAt(fixedClock)

	// Block every day of the horizon end to end.
	var existing []domain.CalendarEvent
	for offset := 0; offset < services.HorizonDays; offset++ {
		day := generatorAnchor.AddDate(0, 0, offset)
		existing = append(existing, domain.NewCalendarEvent(
			fmt.Sprintf("Blocked day %d", offset),
			day, day.Add(24*time.Hour)))
	}
	request := newRequest("Team meeting", existing)

	candidates, err := generator.Generate(request, businessClassification(), 60)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestSlotGenerator_DefaultSlot(t *testing.T) {
	generator := services.NewSlotGeneratorAt(fixedClock)

	slot := generator.DefaultSlot(45)

	assert.Equal(t, time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC), slot.Start)
	assert.Equal(t, 45*time.Minute, slot.End.Sub(slot.Start))
	assert.NotEmpty(t, slot.Reasoning)

	t.Run("non-positive duration uses the personal default", func(t *testing.T) {
		slot := generator.DefaultSlot(0)
		assert.Equal(t, 60*time.Minute, slot.End.Sub(slot.Start))
	})
}
