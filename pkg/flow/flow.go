package flow

import (
	"context"
)

// Status is the coarse state of a multi-step flow. Each flow declares its own
// step statuses (uploading, signing, confirming, ...); StatusError is the
// shared escape every flow can fall into.
type Status string

const StatusError Status = "error"

// Progress is one checkpoint report: a fixed percentage, the coarse status
// and a human-readable message.
type Progress struct {
	Percent int    `json:"progress"`
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// Step is one stage of a flow. Run may be nil for purely informational steps
// (e.g. a terminal "complete" checkpoint).
type Step struct {
	Status  Status
	Percent int
	Message string
	Run     func(ctx context.Context) error
}

type ProgressFunc func(Progress)

// Run executes steps strictly in order. A step's progress is reported before
// its side effect starts; no step begins before the prior one's side effect
// is acknowledged. The first failing step reports StatusError with the
// upstream message verbatim and terminates the flow - there are no retries,
// the caller restarts from the beginning.
func Run(ctx context.Context, steps []Step, onProgress ProgressFunc) error {
	for _, step := range steps {
		report(onProgress, Progress{Percent: step.Percent, Status: step.Status, Message: step.Message})

		if step.Run == nil {
			continue
		}

		if err := ctx.Err(); err != nil {
			report(onProgress, Progress{Percent: step.Percent, Status: StatusError, Message: err.Error()})
			return err
		}

		if err := step.Run(ctx); err != nil {
			report(onProgress, Progress{Percent: step.Percent, Status: StatusError, Message: err.Error()})
			return err
		}
	}
	return nil
}

func report(onProgress ProgressFunc, p Progress) {
	if onProgress != nil {
		onProgress(p)
	}
}
