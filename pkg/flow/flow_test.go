package flow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_AllStepsInOrder(t *testing.T) {
	var ran []string

	steps := []Step{
		{Status: "uploading", Percent: 10, Message: "Uploading image...", Run: func(ctx context.Context) error {
			ran = append(ran, "uploading")
			return nil
		}},
		{Status: "signing", Percent: 40, Message: "Confirm in wallet...", Run: func(ctx context.Context) error {
			ran = append(ran, "signing")
			return nil
		}},
		{Status: "complete", Percent: 100, Message: "Done"},
	}

	err := Run(context.Background(), steps, nil)
	assert.NoError(t, err)
	assert.Equal(t, []string{"uploading", "signing"}, ran)
}

func TestRun_ReportsProgressCheckpoints(t *testing.T) {
	var reports []Progress

	steps := []Step{
		{Status: "uploading", Percent: 10, Message: "Uploading...", Run: func(ctx context.Context) error { return nil }},
		{Status: "complete", Percent: 100, Message: "Done"},
	}

	err := Run(context.Background(), steps, func(p Progress) {
		reports = append(reports, p)
	})

	assert.NoError(t, err)
	assert.Len(t, reports, 2)
	assert.Equal(t, Status("uploading"), reports[0].Status)
	assert.Equal(t, 10, reports[0].Percent)
	assert.Equal(t, Status("complete"), reports[1].Status)
	assert.Equal(t, 100, reports[1].Percent)
}

func TestRun_StopsOnFirstError(t *testing.T) {
	stepErr := errors.New("upstream rejected")
	var laterRan bool

	steps := []Step{
		{Status: "signing", Percent: 40, Run: func(ctx context.Context) error { return stepErr }},
		{Status: "confirming", Percent: 70, Run: func(ctx context.Context) error {
			laterRan = true
			return nil
		}},
	}

	err := Run(context.Background(), steps, nil)
	assert.ErrorIs(t, err, stepErr)
	assert.False(t, laterRan)
}

func TestRun_ErrorSurfacesUpstreamMessageVerbatim(t *testing.T) {
	var reports []Progress

	steps := []Step{
		{Status: "signing", Percent: 40, Message: "Confirm in wallet...", Run: func(ctx context.Context) error {
			return errors.New("user rejected the request")
		}},
	}

	err := Run(context.Background(), steps, func(p Progress) {
		reports = append(reports, p)
	})

	assert.Error(t, err)
	last := reports[len(reports)-1]
	assert.Equal(t, StatusError, last.Status)
	assert.Equal(t, "user rejected the request", last.Message)
}

func TestRun_NilRunStepIsCheckpointOnly(t *testing.T) {
	steps := []Step{
		{Status: "complete", Percent: 100, Message: "Done"},
	}

	err := Run(context.Background(), steps, nil)
	assert.NoError(t, err)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran bool
	steps := []Step{
		{Status: "signing", Percent: 40, Run: func(ctx context.Context) error {
			ran = true
			return nil
		}},
	}

	err := Run(ctx, steps, nil)
	assert.Error(t, err)
	assert.False(t, ran)
}
