package handlers

import (
	"github.com/spec-kit/field-insights/internal/api/dto"
	"github.com/spec-kit/field-insights/internal/domain"
	"github.com/spec-kit/field-insights/internal/insights"
	"github.com/spec-kit/field-insights/internal/service"
)

func accountResponse(acc *domain.Account) dto.AccountResponse {
	return dto.AccountResponse{
		ID:          acc.ID,
		Name:        acc.Name,
		ContactID:   acc.ContactID,
		Role:        acc.Role.String(),
		Status:      acc.Status.String(),
		LastLoginAt: acc.LastLoginAt,
	}
}

func windowResponse(w domain.TimeWindow) dto.WindowResponse {
	return dto.WindowResponse{Start: w.Start, End: w.End}
}

func recordingResponse(rec insights.EnrichedRecording) dto.RecordingResponse {
	return dto.RecordingResponse{
		ID:                  rec.ID,
		OwnerAccountID:      rec.OwnerAccountID,
		OwnerName:           rec.OwnerName,
		StoreID:             rec.StoreID,
		StoreName:           rec.StoreName,
		StoreCode:           rec.StoreCode,
		StoreAddress:        rec.StoreAddress,
		FileURL:             rec.FileURL,
		StartTime:           rec.StartTime,
		EndTime:             rec.EndTime,
		DurationSeconds:     rec.DurationSeconds,
		ListeningSeconds:    rec.ListeningSeconds,
		LastListenedAt:      rec.LastListenedAt,
		TranscriptionStatus: int(rec.TranscriptionStatus),
		Annotated:           rec.Annotated,
		CreatedAt:           rec.CreatedAt,
	}
}

func recordingStateResponse(rec *domain.Recording) dto.RecordingStateResponse {
	return dto.RecordingStateResponse{
		ID:                  rec.ID,
		ListeningSeconds:    rec.ListeningSeconds,
		LastListenedAt:      rec.LastListenedAt,
		TranscriptionStatus: int(rec.TranscriptionStatus),
	}
}

func insightsResponse(in *service.RecordingInsights) dto.InsightsResponse {
	tags := make(map[string]insights.Breakdown, len(in.Tags))
	for dim, breakdown := range in.Tags {
		tags[string(dim)] = breakdown
	}
	return dto.InsightsResponse{
		AccountID:               in.AccountID,
		Window:                  windowResponse(in.Window),
		TotalRecordings:         in.TotalRecordings,
		TotalRecordingHours:     in.TotalRecordingHours,
		AverageRecordingMinutes: in.AverageRecordingMinutes,
		PeakHours:               in.PeakHours,
		TotalListeningHours:     in.TotalListeningHours,
		AverageListeningMinutes: in.AverageListeningMinutes,
		LastListeningTime:       in.LastListeningTime,
		Tags:                    tags,
	}
}

func feedbackResponse(fb domain.Feedback, submitterName string) dto.FeedbackResponse {
	return dto.FeedbackResponse{
		ID:              fb.ID,
		RecordingID:     fb.RecordingID,
		SubmittedBy:     fb.SubmittedBy,
		SubmittedByName: submitterName,
		ContactNumber:   fb.ContactNumber,
		Billed:          fb.Billed,
		Feedback:        fb.Payload,
		CreatedAt:       fb.CreatedAt,
	}
}

func teamMemberResponse(m service.TeamMember) dto.TeamMemberResponse {
	return dto.TeamMemberResponse{
		ID:             m.ID,
		Name:           m.Name,
		ContactID:      m.ContactID,
		Role:           m.Role.String(),
		Status:         m.Status.String(),
		ManagerName:    m.ManagerName,
		StoreName:      m.StoreName,
		CityName:       m.CityName,
		RecordingCount: m.RecordingCount,
		RecordingHours: m.RecordingHours,
		ListeningHours: m.ListeningHours,
		LastLoginAt:    m.LastLoginAt,
	}
}
