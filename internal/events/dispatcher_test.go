package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestDispatcherContinuesAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher(zaptest.NewLogger(t))
	var seen []string
	d.Subscribe(EventFeedbackSubmitted, func(context.Context, Event) error {
		seen = append(seen, "first")
		return errors.New("boom")
	})
	d.Subscribe(EventFeedbackSubmitted, func(_ context.Context, e Event) error {
		seen = append(seen, "second:"+e.RecordingID)
		return nil
	})
	d.Subscribe(EventTranscriptionRequested, func(context.Context, Event) error {
		seen = append(seen, "other")
		return nil
	})

	ev := New(EventFeedbackSubmitted, "rec-1", "acc-1", time.Now(), FeedbackSubmittedPayload{FeedbackID: "fb-1"})
	require.NoError(t, d.Publish(context.Background(), ev))

	assert.Equal(t, []string{"first", "second:rec-1"}, seen)
	assert.NotEmpty(t, ev.ID)
}
