package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/field-insights/internal/domain"
	"github.com/spec-kit/field-insights/internal/events"
	"github.com/spec-kit/field-insights/internal/repository/memory"
	"github.com/spec-kit/field-insights/internal/service"
)

type fakeQueue struct {
	jobs []TranscriptionJob
	err  error
}

func (q *fakeQueue) Enqueue(_ context.Context, job TranscriptionJob) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func publish(t *testing.T, d events.Dispatcher) {
	t.Helper()
	ev := events.New(events.EventTranscriptionRequested, "rec-1", "a1", time.Now(), events.TranscriptionRequestedPayload{
		FileURL:         "s3://bucket/rec-1.mp3",
		DurationSeconds: 600,
	})
	require.NoError(t, d.Publish(context.Background(), ev))
}

func TestTranscriptionWorkerEnqueues(t *testing.T) {
	logger := zaptest.NewLogger(t)
	d := events.NewInMemoryDispatcher(logger)
	queue := &fakeQueue{}
	NewTranscriptionWorker(queue, nil, logger).Start(d)

	publish(t, d)

	require.Len(t, queue.jobs, 1)
	assert.Equal(t, "rec-1", queue.jobs[0].RecordingID)
	assert.Equal(t, "s3://bucket/rec-1.mp3", queue.jobs[0].FileURL)
	assert.Equal(t, "a1", queue.jobs[0].RequestedBy)
}

func TestTranscriptionWorkerMarksFailure(t *testing.T) {
	logger := zaptest.NewLogger(t)
	d := events.NewInMemoryDispatcher(logger)
	recs := memory.NewRecordings(domain.Recording{ID: "rec-1", TranscriptionStatus: domain.TranscriptionInProgress})
	NewTranscriptionWorker(&fakeQueue{err: errors.New("redis down")}, recs, logger).Start(d)

	publish(t, d)

	rec, err := recs.GetByID(context.Background(), "rec-1")
	require.NoError(t, err)
	assert.Equal(t, domain.TranscriptionFailed, rec.TranscriptionStatus)
}

func TestStartWiresSubscribers(t *testing.T) {
	logger := zaptest.NewLogger(t)
	d := events.NewInMemoryDispatcher(logger)
	queue := &fakeQueue{}

	assert.NotPanics(t, func() { Start(nil, nil, nil) })
	Start(d, service.NewNotificationService(d, logger), NewTranscriptionWorker(queue, nil, logger))

	publish(t, d)
	assert.Len(t, queue.jobs, 1)
}
