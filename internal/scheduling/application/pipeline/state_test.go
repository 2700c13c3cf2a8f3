package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgenius/scheduler/internal/scheduling/application/pipeline"
	"github.com/flowgenius/scheduler/internal/scheduling/domain"
)

func boolPtr(v bool) *bool { return &v }
func intPtr(v int) *int    { return &v }

func TestNewState(t *testing.T) {
	request := domain.SchedulingRequest{Title: "Team meeting"}

	state := pipeline.NewState(request)

	assert.Equal(t, request, state.Request)
	assert.True(t, state.ValidationPassed)
	assert.Nil(t, state.Classification)
	assert.Empty(t, state.StepsExecuted)
}

func TestState_Apply_RecordsStep(t *testing.T) {
	state := pipeline.NewState(domain.SchedulingRequest{Title: "Team meeting"})

	classification := domain.EventClassification{Type: domain.EventTypeBusiness, Confidence: 0.9}
	next := state.Apply(pipeline.StepClassify, pipeline.Update{
		Classification: &classification,
		Reasoning:      "classified as business",
	})

	require.NotNil(t, next.Classification)
	assert.Equal(t, domain.EventTypeBusiness, next.Classification.Type)
	assert.Equal(t, []string{pipeline.StepClassify}, next.StepsExecuted)
	assert.Equal(t, []float64{0.9}, next.ConfidenceEvolution)
	assert.Equal(t, []string{"classify: classified as business"}, next.ReasoningTrail)
	assert.Empty(t, next.Errors)
}

func TestState_Apply_DoesNotMutatePrior(t *testing.T) {
	base := pipeline.NewState(domain.SchedulingRequest{Title: "Team meeting"})

	classification := domain.EventClassification{Type: domain.EventTypeBusiness, Confidence: 0.9}
	first := base.Apply(pipeline.StepClassify, pipeline.Update{Classification: &classification})
	second := first.Apply(pipeline.StepValidate, pipeline.Update{
		ValidationPassed: boolPtr(true),
		Reasoning:        "classification accepted",
	})

	// Earlier states must not observe later steps.
	assert.Empty(t, base.StepsExecuted)
	assert.Equal(t, []string{pipeline.StepClassify}, first.StepsExecuted)
	assert.Equal(t, []string{pipeline.StepClassify, pipeline.StepValidate}, second.StepsExecuted)
	assert.Empty(t, first.ReasoningTrail)
}

func TestState_Apply_BranchesShareNoBacking(t *testing.T) {
	base := pipeline.NewState(domain.SchedulingRequest{Title: "Team meeting"})
	stepped := base.Apply(pipeline.StepClassify, pipeline.Update{})

	// Two updates branched from the same state stay independent.
	left := stepped.Apply(pipeline.StepValidate, pipeline.Update{})
	right := stepped.Apply(pipeline.StepEstimate, pipeline.Update{})

	assert.Equal(t, []string{pipeline.StepClassify, pipeline.StepValidate}, left.StepsExecuted)
	assert.Equal(t, []string{pipeline.StepClassify, pipeline.StepEstimate}, right.StepsExecuted)
}

func TestState_Apply_NilFieldsLeaveStateUntouched(t *testing.T) {
	classification := domain.EventClassification{Type: domain.EventTypeHobby, Confidence: 0.8}
	state := pipeline.NewState(domain.SchedulingRequest{}).
		Apply(pipeline.StepClassify, pipeline.Update{Classification: &classification}).
		Apply(pipeline.StepEstimate, pipeline.Update{DurationMinutes: intPtr(90)})

	next := state.Apply(pipeline.StepGenerate, pipeline.Update{})

	require.NotNil(t, next.Classification)
	assert.Equal(t, domain.EventTypeHobby, next.Classification.Type)
	assert.Equal(t, 90, next.DurationMinutes)
	assert.Len(t, next.StepsExecuted, 3)
	// Confidence evolution only grows when a classification is applied.
	assert.Equal(t, []float64{0.8}, next.ConfidenceEvolution)
}

func TestState_Apply_RecordsErrors(t *testing.T) {
	state := pipeline.NewState(domain.SchedulingRequest{})

	next := state.Apply(pipeline.StepGenerate, pipeline.Update{
		Candidates: []domain.TimeSlotCandidate{},
		Error:      "invalid duration 0 minutes",
	})

	assert.Equal(t, []string{"generate_slots: invalid duration 0 minutes"}, next.Errors)
}

func TestState_Apply_CopiesClassification(t *testing.T) {
	state := pipeline.NewState(domain.SchedulingRequest{})

	classification := domain.EventClassification{Type: domain.EventTypeBusiness, Confidence: 0.9}
	next := state.Apply(pipeline.StepClassify, pipeline.Update{Classification: &classification})

	classification.Confidence = 0.1

	assert.Equal(t, 0.9, next.Classification.Confidence)
}
