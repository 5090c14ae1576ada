package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/field-insights/internal/api/dto"
	"github.com/spec-kit/field-insights/internal/auth"
	"github.com/spec-kit/field-insights/internal/service"
	apperrors "github.com/spec-kit/field-insights/pkg/util/errorutil"
)

// RecordingsHandler serves recording listings, insights and listening updates.
type RecordingsHandler struct {
	recordings *service.RecordingService
	insights   *service.InsightsService
}

// NewRecordingsHandler constructs handler.
func NewRecordingsHandler(recordings *service.RecordingService, insights *service.InsightsService) *RecordingsHandler {
	return &RecordingsHandler{recordings: recordings, insights: insights}
}

// List GET /recordings.
func (h *RecordingsHandler) List(c *fiber.Ctx) error {
	caller, err := auth.CallerFromContext(c)
	if err != nil {
		return err
	}
	recs, err := h.recordings.List(c.UserContext(), caller, parseScopeQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.RecordingResponse, 0, len(recs))
	for _, rec := range recs {
		items = append(items, recordingResponse(rec))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Last GET /recordings/last.
func (h *RecordingsHandler) Last(c *fiber.Ctx) error {
	caller, err := auth.CallerFromContext(c)
	if err != nil {
		return err
	}
	rec, err := h.recordings.Last(c.UserContext(), caller, parseScopeQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": recordingResponse(*rec)})
}

// DailyHours GET /recordings/daily-hours.
func (h *RecordingsHandler) DailyHours(c *fiber.Ctx) error {
	caller, err := auth.CallerFromContext(c)
	if err != nil {
		return err
	}
	days, window, err := h.recordings.DailyRecordingHours(c.UserContext(), caller, parseScopeQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.DailyHoursResponse, 0, len(days))
	for _, d := range days {
		items = append(items, dto.DailyHoursResponse{Date: d.Date, Hours: d.Hours})
	}
	return c.JSON(fiber.Map{"data": items, "window": windowResponse(window)})
}

// Insights GET /recordings/insights.
func (h *RecordingsHandler) Insights(c *fiber.Ctx) error {
	caller, err := auth.CallerFromContext(c)
	if err != nil {
		return err
	}
	result, err := h.insights.RecordingInsights(c.UserContext(), caller, parseScopeQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": insightsResponse(result)})
}

// UpdateListeningTime PUT /recordings/:id/listening-time.
func (h *RecordingsHandler) UpdateListeningTime(c *fiber.Ctx) error {
	caller, err := auth.CallerFromContext(c)
	if err != nil {
		return err
	}
	var req dto.ListeningTimeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ListeningTime == nil {
		return apperrors.NewValidationError("listening_time required", nil)
	}
	rec, err := h.recordings.UpdateListeningTime(c.UserContext(), caller, c.Params("id"), *req.ListeningTime)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": recordingStateResponse(rec)})
}

// RequestTranscription POST /recordings/:id/transcription.
func (h *RecordingsHandler) RequestTranscription(c *fiber.Ctx) error {
	caller, err := auth.CallerFromContext(c)
	if err != nil {
		return err
	}
	rec, err := h.recordings.RequestTranscription(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"data": recordingStateResponse(rec)})
}
