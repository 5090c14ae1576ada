package dto

import (
	"time"

	"github.com/spec-kit/field-insights/internal/insights"
)

// WindowResponse echoes the resolved time window.
type WindowResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// RecordingResponse is an enriched recording.
type RecordingResponse struct {
	ID                  string     `json:"id"`
	OwnerAccountID      string     `json:"owner_account_id"`
	OwnerName           string     `json:"owner_name"`
	StoreID             *string    `json:"store_id"`
	StoreName           string     `json:"store_name"`
	StoreCode           string     `json:"store_code"`
	StoreAddress        string     `json:"store_address"`
	FileURL             string     `json:"file_url"`
	StartTime           time.Time  `json:"start_time"`
	EndTime             time.Time  `json:"end_time"`
	DurationSeconds     float64    `json:"duration_seconds"`
	ListeningSeconds    *float64   `json:"listening_seconds"`
	LastListenedAt      *time.Time `json:"last_listened_at"`
	TranscriptionStatus int        `json:"transcription_status"`
	Annotated           bool       `json:"annotated"`
	CreatedAt           time.Time  `json:"created_at"`
}

// ListeningTimeRequest payload.
type ListeningTimeRequest struct {
	ListeningTime *float64 `json:"listening_time"`
}

// RecordingStateResponse reports listening and transcription state after a write.
type RecordingStateResponse struct {
	ID                  string     `json:"id"`
	ListeningSeconds    *float64   `json:"listening_seconds"`
	LastListenedAt      *time.Time `json:"last_listened_at"`
	TranscriptionStatus int        `json:"transcription_status"`
}

// DailyHoursResponse is one day of the daily recording series.
type DailyHoursResponse struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

// InsightsResponse is the recording insights view.
type InsightsResponse struct {
	AccountID               string                        `json:"account_id"`
	Window                  WindowResponse                `json:"window"`
	TotalRecordings         int                           `json:"total_recordings"`
	TotalRecordingHours     float64                       `json:"total_recording_hours"`
	AverageRecordingMinutes float64                       `json:"average_recording_minutes"`
	PeakHours               []insights.HourCount          `json:"peak_hours"`
	TotalListeningHours     float64                       `json:"total_listening_hours"`
	AverageListeningMinutes float64                       `json:"average_listening_minutes"`
	LastListeningTime       *time.Time                    `json:"last_listening_time"`
	Tags                    map[string]insights.Breakdown `json:"tags"`
}
