package worker

import (
	"context"

	"namehaus/pkg/events"
)

// Worker consumes registry events from a channel and appends them to a log.
// It keeps background processing testable without wiring broker implementations.
type Worker struct {
	log   events.Log
	inbox <-chan events.Event
}

func New(log events.Log, inbox <-chan events.Event) *Worker {
	return &Worker{log: log, inbox: inbox}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.log.Append(ctx, event); err != nil {
				return err
			}
		}
	}
}
