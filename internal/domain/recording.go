package domain

import "time"

// TranscriptionStatus tracks the external transcription of a recording.
type TranscriptionStatus int

const (
	TranscriptionFailed     TranscriptionStatus = -1
	TranscriptionPending    TranscriptionStatus = 0
	TranscriptionInProgress TranscriptionStatus = 1
	TranscriptionCompleted  TranscriptionStatus = 2
)

// Recording is a captured customer conversation.
type Recording struct {
	ID                  string
	OwnerAccountID      string
	StoreID             *string
	FileURL             string
	StartTime           time.Time
	EndTime             time.Time
	DurationSeconds     float64
	AudioSizeMB         float64
	ListeningSeconds    *float64
	LastListenedAt      *time.Time
	TranscriptionStatus TranscriptionStatus
	CreatedAt           time.Time
	ModifiedAt          time.Time
}
