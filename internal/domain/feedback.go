package domain

import "time"

// CallRating values accepted in feedback payloads.
const (
	CallRatingGood    = "good"
	CallRatingAverage = "average"
	CallRatingBad     = "bad"
)

// FeedbackPayload is the structured body of a feedback submission.
type FeedbackPayload struct {
	CallRating        string   `json:"call_rating,omitempty"`
	ContactReasons    []string `json:"contact_reasons,omitempty"`
	CustomerInterests []string `json:"customer_interests,omitempty"`
	ProductMentions   []string `json:"product_mentions,omitempty"`
	Complaints        []string `json:"complaints,omitempty"`
	Remarks           string   `json:"remarks,omitempty"`
}

// Feedback is a field operative's assessment of one recording.
type Feedback struct {
	ID            string
	RecordingID   string
	SubmittedBy   string
	ContactNumber string
	Billed        string
	Payload       FeedbackPayload
	CreatedAt     time.Time
	ModifiedAt    time.Time
}
