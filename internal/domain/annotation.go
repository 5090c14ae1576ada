package domain

import "time"

// TranscriptAnnotation holds tags an external analyzer derived from a recording.
type TranscriptAnnotation struct {
	ID                string    `bson:"_id,omitempty"`
	RecordingID       string    `bson:"recording_id"`
	Gender            string    `bson:"gender"`
	Language          string    `bson:"language"`
	Emotions          []string  `bson:"emotional_state"`
	ProductMentions   []string  `bson:"product_mentions"`
	Complaints        []string  `bson:"complaints"`
	PositiveKeywords  []string  `bson:"positive_keywords"`
	NegativeKeywords  []string  `bson:"negative_keywords"`
	ContactReasons    []string  `bson:"contact_reason"`
	CustomerInterests []string  `bson:"customer_interest"`
	CreatedAt         time.Time `bson:"created_at"`
}
