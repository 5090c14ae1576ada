package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/field-insights/internal/api/dto"
	"github.com/spec-kit/field-insights/internal/auth"
	"github.com/spec-kit/field-insights/internal/service"
	apperrors "github.com/spec-kit/field-insights/pkg/util/errorutil"
)

// FeedbackHandler manages feedback endpoints.
type FeedbackHandler struct {
	service *service.FeedbackService
}

// NewFeedbackHandler constructs handler.
func NewFeedbackHandler(feedbackService *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: feedbackService}
}

// Submit POST /feedback.
func (h *FeedbackHandler) Submit(c *fiber.Ctx) error {
	caller, err := auth.CallerFromContext(c)
	if err != nil {
		return err
	}
	var req dto.SubmitFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.RecordingID == "" {
		return apperrors.NewValidationError("recording_id required", nil)
	}

	fb, err := h.service.Submit(c.UserContext(), caller, service.SubmitFeedbackInput{
		RecordingID:   req.RecordingID,
		ContactNumber: req.ContactNumber,
		Billed:        req.Billed,
		Payload:       req.Feedback,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": feedbackResponse(*fb, "")})
}

// List GET /feedback.
func (h *FeedbackHandler) List(c *fiber.Ctx) error {
	caller, err := auth.CallerFromContext(c)
	if err != nil {
		return err
	}
	rows, err := h.service.List(c.UserContext(), caller, parseScopeQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.FeedbackResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, feedbackResponse(row.Feedback, row.SubmittedByName))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Rating GET /feedback/rating.
func (h *FeedbackHandler) Rating(c *fiber.Ctx) error {
	caller, err := auth.CallerFromContext(c)
	if err != nil {
		return err
	}
	summary, err := h.service.Rating(c.UserContext(), caller, parseScopeQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.RatingResponse{
		Total:   summary.Total,
		Good:    summary.Good,
		Average: summary.Average,
		Bad:     summary.Bad,
	}})
}
