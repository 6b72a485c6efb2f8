package engine

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// ReplyEvent captures lightweight telemetry for one handled message.
type ReplyEvent struct {
	SessionID string
	Tag       string
	Duration  time.Duration
	StartedAt time.Time
}

// Observer receives reply events.
type Observer interface {
	ObserveReply(ctx context.Context, event ReplyEvent)
}

// NoopObserver ignores all events.
type NoopObserver struct{}

func (NoopObserver) ObserveReply(context.Context, ReplyEvent) {}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver writes reply events to the provided writer.
func NewLogObserver(w io.Writer) Observer {
	if w == nil {
		return NoopObserver{}
	}
	return &logObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logObserver) ObserveReply(ctx context.Context, event ReplyEvent) {
	o.logger.InfoContext(ctx, "engine_reply",
		"session", event.SessionID,
		"tag", event.Tag,
		"duration_ms", event.Duration.Milliseconds(),
	)
}

func observerOrNoop(observers []Observer) Observer {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopObserver{}
}
