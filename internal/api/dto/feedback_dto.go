package dto

import (
	"time"

	"github.com/spec-kit/field-insights/internal/domain"
)

// SubmitFeedbackRequest payload.
type SubmitFeedbackRequest struct {
	RecordingID   string                 `json:"recording_id"`
	ContactNumber string                 `json:"contact_number"`
	Billed        string                 `json:"billed"`
	Feedback      domain.FeedbackPayload `json:"feedback"`
}

// FeedbackResponse is one feedback row.
type FeedbackResponse struct {
	ID              string                 `json:"id"`
	RecordingID     string                 `json:"recording_id"`
	SubmittedBy     string                 `json:"submitted_by"`
	SubmittedByName string                 `json:"submitted_by_name,omitempty"`
	ContactNumber   string                 `json:"contact_number"`
	Billed          string                 `json:"billed"`
	Feedback        domain.FeedbackPayload `json:"feedback"`
	CreatedAt       time.Time              `json:"created_at"`
}

// RatingResponse counts call ratings.
type RatingResponse struct {
	Total   int `json:"total"`
	Good    int `json:"good"`
	Average int `json:"average"`
	Bad     int `json:"bad"`
}
