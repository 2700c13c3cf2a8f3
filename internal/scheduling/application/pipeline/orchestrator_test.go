package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgenius/scheduler/internal/scheduling/application/pipeline"
	"github.com/flowgenius/scheduler/internal/scheduling/application/services"
	"github.com/flowgenius/scheduler/internal/scheduling/domain"
)

// Monday.
var testAnchor = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func testClock() time.Time {
	return testAnchor.Add(8 * time.Hour)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newOrchestrator(classifier services.Classifier) *pipeline.Orchestrator {
	return pipeline.NewOrchestrator(classifier, services.NewSlotGeneratorAt(testClock), quietLogger())
}

func testRequest(title string, existing []domain.CalendarEvent) domain.SchedulingRequest {
	preferred := testAnchor
	return domain.SchedulingRequest{
		Title:          title,
		PreferredDate:  &preferred,
		ExistingEvents: existing,
		Preferences:    domain.DefaultPreferences(),
	}
}

type erroringClassifier struct{}

func (erroringClassifier) Classify(context.Context, string, string) (domain.EventClassification, error) {
	return domain.EventClassification{}, errors.New("classifier unavailable")
}

type panickingClassifier struct{}

func (panickingClassifier) Classify(context.Context, string, string) (domain.EventClassification, error) {
	panic("classifier blew up")
}

func TestOrchestrator_Run_BusinessMeeting(t *testing.T) {
	orchestrator := newOrchestrator(services.NewLocalClassifier())

	result := orchestrator.Run(context.Background(), testRequest("Team meeting", nil))

	assert.Equal(t, domain.EventTypeBusiness, result.Classification.Type)
	assert.GreaterOrEqual(t, result.Classification.Confidence, 0.8)
	assert.Equal(t, 60, result.DurationMinutes)

	require.NotEmpty(t, result.Slots)
	assert.LessOrEqual(t, len(result.Slots), 5)
	for _, slot := range result.Slots {
		assert.NotEqual(t, time.Saturday, slot.Start.Weekday())
		assert.NotEqual(t, time.Sunday, slot.Start.Weekday())
	}

	assert.Equal(t, []string{
		pipeline.StepClassify,
		pipeline.StepValidate,
		pipeline.StepEstimate,
		pipeline.StepGenerate,
		pipeline.StepOptimize,
	}, result.Metadata.StepsExecuted)
	assert.False(t, result.Metadata.RefinementApplied)
	assert.Empty(t, result.Errors)
	assert.NotEmpty(t, result.ReasoningTrail)
	assert.Greater(t, result.Metadata.TotalProcessingTime, time.Duration(0))
}

func TestOrchestrator_Run_LowConfidenceTriggersRefinement(t *testing.T) {
	orchestrator := newOrchestrator(services.NewLocalClassifier())

	t.Run("similar history raises confidence", func(t *testing.T) {
		historyStart := testAnchor.AddDate(0, 0, -7).Add(10 * time.Hour)
		existing := []domain.CalendarEvent{
			domain.NewCalendarEvent("Zorp gathering", historyStart, historyStart.Add(time.Hour)),
		}

		result := orchestrator.Run(context.Background(), testRequest("Zorp catchup", existing))

		assert.Contains(t, result.Metadata.StepsExecuted, pipeline.StepRefine)
		assert.True(t, result.Metadata.RefinementApplied)
		assert.Equal(t, []float64{0.5, 0.6}, result.Metadata.ConfidenceEvolution)
	})

	t.Run("no similar history leaves confidence alone", func(t *testing.T) {
		result := orchestrator.Run(context.Background(), testRequest("Zorp catchup", nil))

		assert.Contains(t, result.Metadata.StepsExecuted, pipeline.StepRefine)
		assert.False(t, result.Metadata.RefinementApplied)
		assert.Equal(t, []float64{0.5, 0.5}, result.Metadata.ConfidenceEvolution)
	})
}

func TestOrchestrator_Run_ExplicitDurationWins(t *testing.T) {
	orchestrator := newOrchestrator(services.NewLocalClassifier())

	result := orchestrator.Run(context.Background(), testRequest("Team meeting for 45 minutes", nil))

	assert.Equal(t, 45, result.DurationMinutes)
	for _, slot := range result.Slots {
		assert.Equal(t, 45*time.Minute, slot.End.Sub(slot.Start))
	}
}

func TestOrchestrator_Run_MealCueSelectsMealWindow(t *testing.T) {
	orchestrator := newOrchestrator(services.NewLocalClassifier())

	result := orchestrator.Run(context.Background(), testRequest("Lunch with Sarah", nil))

	require.NotEmpty(t, result.Slots)
	for _, slot := range result.Slots {
		startMinute := slot.Start.Hour()*60 + slot.Start.Minute()
		assert.GreaterOrEqual(t, startMinute, 11*60+30)
		assert.LessOrEqual(t, startMinute, 15*60)
	}
}

func TestOrchestrator_Run_SlotsAvoidExistingEvents(t *testing.T) {
	orchestrator := newOrchestrator(services.NewLocalClassifier())

	existing := []domain.CalendarEvent{
		domain.NewCalendarEvent("Standup",
			testAnchor.Add(9*time.Hour),
			testAnchor.Add(12*time.Hour)),
		domain.NewCalendarEvent("Review",
			testAnchor.Add(13*time.Hour),
			testAnchor.Add(17*time.Hour)),
	}

	result := orchestrator.Run(context.Background(), testRequest("Client demo", existing))

	buffer := 15 * time.Minute
	for _, slot := range result.Slots {
		assert.False(t, slot.ConflictsWith(existing, buffer),
			"slot %s overlaps an existing event", slot.Start.Format(time.RFC3339))
	}
}

func TestOrchestrator_Run_ClassifierErrorDegradesToNeutral(t *testing.T) {
	orchestrator := newOrchestrator(erroringClassifier{})

	result := orchestrator.Run(context.Background(), testRequest("Team meeting", nil))

	assert.Equal(t, domain.EventTypePersonal, result.Classification.Type)
	assert.Equal(t, 0.5, result.Classification.Confidence)
	assert.NotEmpty(t, result.Errors)
	// The rest of the pipeline still produces suggestions.
	assert.NotEmpty(t, result.Slots)
	assert.Contains(t, result.Metadata.StepsExecuted, pipeline.StepOptimize)
}

func TestOrchestrator_Run_PanicYieldsFallbackResult(t *testing.T) {
	orchestrator := newOrchestrator(panickingClassifier{})

	result := orchestrator.Run(context.Background(), testRequest("Team meeting", nil))

	assert.Equal(t, []string{pipeline.StepFallback}, result.Metadata.StepsExecuted)
	require.Len(t, result.Slots, 1)
	assert.Equal(t, time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC), result.Slots[0].Start)
	assert.Equal(t, domain.EventTypePersonal, result.Classification.Type)
	assert.NotEmpty(t, result.Errors)
}

func TestOrchestrator_Run_Deterministic(t *testing.T) {
	orchestrator := newOrchestrator(services.NewLocalClassifier())
	request := testRequest("Sprint planning", nil)

	first := orchestrator.Run(context.Background(), request)
	second := orchestrator.Run(context.Background(), request)

	assert.Equal(t, first.Classification, second.Classification)
	assert.Equal(t, first.Slots, second.Slots)
	assert.Equal(t, first.DurationMinutes, second.DurationMinutes)
}
