package events

import (
	"context"
	"log/slog"

	"namehaus/pkg/domain"
)

// Appender is the sink side of the log, implemented by external publishers.
type Appender interface {
	Append(ctx context.Context, event Event) error
}

// Fanout wraps a primary log with best-effort sinks. Reads and the success of
// Append are backed by the primary; sink failures are logged and never fail
// the originating operation.
type Fanout struct {
	primary Log
	sinks   []Appender
	logger  *slog.Logger
}

// NewFanout builds a fan-out log over the primary.
func NewFanout(primary Log, logger *slog.Logger, sinks ...Appender) *Fanout {
	return &Fanout{primary: primary, sinks: sinks, logger: logger}
}

func (f *Fanout) Append(ctx context.Context, event Event) error {
	if err := f.primary.Append(ctx, event); err != nil {
		return err
	}
	for _, sink := range f.sinks {
		if err := sink.Append(ctx, event); err != nil {
			f.logger.WarnContext(ctx, "event sink append failed",
				"event", event.Name,
				"record_id", event.RecordID,
				"error", err,
			)
		}
	}
	return nil
}

func (f *Fanout) List(ctx context.Context) ([]Event, error) {
	return f.primary.List(ctx)
}

func (f *Fanout) ListByRecord(ctx context.Context, id domain.RecordID) ([]Event, error) {
	return f.primary.ListByRecord(ctx, id)
}
