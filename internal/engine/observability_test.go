package engine

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/asanchezr/consultor/internal/intents"
	"github.com/asanchezr/consultor/internal/session"
)

type captureObserver struct {
	events []ReplyEvent
}

func (c *captureObserver) ObserveReply(_ context.Context, e ReplyEvent) {
	c.events = append(c.events, e)
}

func TestEngineEmitsReplyEvents(t *testing.T) {
	obs := &captureObserver{}
	eng := NewEngine(session.NewMemoryStore(), intents.NewRuleClassifier(), nil, nil, obs)

	_, tag := eng.GenerateReply(context.Background(), "s1", "hola")

	assert.Len(t, obs.events, 1)
	assert.Equal(t, "s1", obs.events[0].SessionID)
	assert.Equal(t, tag, obs.events[0].Tag)
	assert.False(t, obs.events[0].StartedAt.IsZero())
}

func TestLogObserverWritesEvent(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogObserver(&buf)

	obs.ObserveReply(context.Background(), ReplyEvent{
		SessionID: "s1",
		Tag:       TagIntentGreet,
		Duration:  5 * time.Millisecond,
		StartedAt: time.Now(),
	})

	out := buf.String()
	assert.Contains(t, out, "engine_reply")
	assert.Contains(t, out, TagIntentGreet)
}

func TestNilObserverFallsBackToNoop(t *testing.T) {
	assert.Equal(t, NoopObserver{}, NewLogObserver(nil))
	assert.Equal(t, NoopObserver{}, observerOrNoop([]Observer{nil}))
}
