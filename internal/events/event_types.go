package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventFeedbackSubmitted      EventType = "feedback_submitted"
	EventListeningTimeUpdated   EventType = "listening_time_updated"
	EventTranscriptionRequested EventType = "transcription_requested"
)

// Event is a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	RecordingID string      `json:"recording_id"`
	ActorID     string      `json:"actor_id"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// New stamps an event with a fresh id.
func New(eventType EventType, recordingID, actorID string, at time.Time, payload interface{}) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		RecordingID: recordingID,
		ActorID:     actorID,
		Timestamp:   at,
		Payload:     payload,
	}
}

// FeedbackSubmittedPayload payload.
type FeedbackSubmittedPayload struct {
	FeedbackID string `json:"feedback_id"`
	CallRating string `json:"call_rating,omitempty"`
}

// ListeningTimeUpdatedPayload payload.
type ListeningTimeUpdatedPayload struct {
	PreviousSeconds *float64 `json:"previous_seconds,omitempty"`
	Seconds         float64  `json:"seconds"`
}

// TranscriptionRequestedPayload payload.
type TranscriptionRequestedPayload struct {
	FileURL         string  `json:"file_url"`
	DurationSeconds float64 `json:"duration_seconds"`
	Automatic       bool    `json:"automatic"`
}
