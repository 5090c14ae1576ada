package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/field-insights/internal/domain"
	"github.com/spec-kit/field-insights/internal/events"
)

// TranscriptionJob is the message pushed for the external transcriber.
type TranscriptionJob struct {
	RecordingID     string    `json:"recording_id"`
	FileURL         string    `json:"file_url"`
	DurationSeconds float64   `json:"duration_seconds"`
	RequestedBy     string    `json:"requested_by"`
	RequestedAt     time.Time `json:"requested_at"`
}

// Queue accepts transcription jobs.
type Queue interface {
	Enqueue(ctx context.Context, job TranscriptionJob) error
}

// RedisQueue pushes jobs onto a Redis list consumed by the transcriber.
type RedisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue builds a queue on key.
func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	return &RedisQueue{client: client, key: key}
}

// Enqueue LPUSHes the JSON-encoded job.
func (q *RedisQueue) Enqueue(ctx context.Context, job TranscriptionJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, body).Err()
}

// StatusUpdater records transcription progress on a recording.
type StatusUpdater interface {
	UpdateTranscriptionStatus(ctx context.Context, id string, status domain.TranscriptionStatus) error
}

// TranscriptionWorker forwards TranscriptionRequested events to the queue.
// It does not wait for the transcriber; a failed hand-off marks the
// recording failed so it can be requested again.
type TranscriptionWorker struct {
	queue      Queue
	recordings StatusUpdater
	timeout    time.Duration
	logger     *zap.Logger
}

// NewTranscriptionWorker builds the worker.
func NewTranscriptionWorker(queue Queue, recordings StatusUpdater, logger *zap.Logger) *TranscriptionWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TranscriptionWorker{queue: queue, recordings: recordings, timeout: 5 * time.Second, logger: logger}
}

// Start subscribes the worker to the dispatcher.
func (w *TranscriptionWorker) Start(dispatcher events.Dispatcher) {
	if dispatcher == nil || w.queue == nil {
		return
	}
	dispatcher.Subscribe(events.EventTranscriptionRequested, w.handle)
}

func (w *TranscriptionWorker) handle(ctx context.Context, event events.Event) error {
	job := TranscriptionJob{
		RecordingID: event.RecordingID,
		RequestedBy: event.ActorID,
		RequestedAt: event.Timestamp,
	}
	if payload, ok := event.Payload.(events.TranscriptionRequestedPayload); ok {
		job.FileURL = payload.FileURL
		job.DurationSeconds = payload.DurationSeconds
	}

	// The request context may end with the HTTP call; the hand-off should not.
	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.timeout)
	defer cancel()

	if err := w.queue.Enqueue(pushCtx, job); err != nil {
		w.logger.Error("enqueue transcription failed", zap.String("recording_id", job.RecordingID), zap.Error(err))
		if w.recordings != nil {
			if uerr := w.recordings.UpdateTranscriptionStatus(pushCtx, job.RecordingID, domain.TranscriptionFailed); uerr != nil {
				w.logger.Warn("mark transcription failed", zap.String("recording_id", job.RecordingID), zap.Error(uerr))
			}
		}
		return err
	}
	w.logger.Info("transcription enqueued", zap.String("recording_id", job.RecordingID))
	return nil
}
