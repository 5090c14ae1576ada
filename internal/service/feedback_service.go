package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/field-insights/internal/domain"
	"github.com/spec-kit/field-insights/internal/events"
	"github.com/spec-kit/field-insights/internal/repository"
	"github.com/spec-kit/field-insights/internal/scope"
	"github.com/spec-kit/field-insights/internal/timeline"
	apperrors "github.com/spec-kit/field-insights/pkg/util/errorutil"
)

// FeedbackService handles feedback submission and reporting.
type FeedbackService struct {
	feedback        repository.FeedbackRepository
	recordings      repository.RecordingRepository
	accounts        repository.AccountRepository
	filter          *scope.Filter
	windows         *timeline.Resolver
	dispatcher      events.Dispatcher
	duplicateWindow time.Duration
	now             func() time.Time
	logger          *zap.Logger
}

// FeedbackDependencies bundles collaborators for the feedback service.
type FeedbackDependencies struct {
	FeedbackRepo  repository.FeedbackRepository
	RecordingRepo repository.RecordingRepository
	AccountRepo   repository.AccountRepository
	Filter        *scope.Filter
	Windows       *timeline.Resolver
	Dispatcher    events.Dispatcher
	// DuplicateContactWindow bounds how recently a contact number counts as reused.
	DuplicateContactWindow time.Duration
	Now                    func() time.Time
	Logger                 *zap.Logger
}

// NewFeedbackService builds the service.
func NewFeedbackService(deps FeedbackDependencies) *FeedbackService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	window := deps.DuplicateContactWindow
	if window <= 0 {
		window = 48 * time.Hour
	}
	return &FeedbackService{
		feedback:        deps.FeedbackRepo,
		recordings:      deps.RecordingRepo,
		accounts:        deps.AccountRepo,
		filter:          deps.Filter,
		windows:         deps.Windows,
		dispatcher:      deps.Dispatcher,
		duplicateWindow: window,
		now:             now,
		logger:          logger,
	}
}

// SubmitFeedbackInput describes a feedback submission.
type SubmitFeedbackInput struct {
	RecordingID   string
	ContactNumber string
	Billed        string
	Payload       domain.FeedbackPayload
}

// FeedbackView is a feedback row with its submitter's display name.
type FeedbackView struct {
	domain.Feedback
	SubmittedByName string
}

// RatingSummary counts call ratings.
type RatingSummary struct {
	Total   int
	Good    int
	Average int
	Bad     int
}

var validRatings = map[string]struct{}{
	domain.CallRatingGood:    {},
	domain.CallRatingAverage: {},
	domain.CallRatingBad:     {},
}

// Submit records feedback for a recording visible to the caller. A second
// submission for the same recording, or a contact number the caller already
// used inside the duplicate window, is a Conflict.
func (s *FeedbackService) Submit(ctx context.Context, caller domain.Caller, in SubmitFeedbackInput) (*domain.Feedback, error) {
	in.RecordingID = strings.TrimSpace(in.RecordingID)
	in.ContactNumber = strings.TrimSpace(in.ContactNumber)
	in.Payload.CallRating = strings.ToLower(strings.TrimSpace(in.Payload.CallRating))
	if in.Payload.CallRating != "" {
		if _, ok := validRatings[in.Payload.CallRating]; !ok {
			return nil, apperrors.NewValidationError("call rating must be good, average or bad", map[string]any{"call_rating": in.Payload.CallRating})
		}
	}

	rec, err := visibleRecording(ctx, s.recordings, s.filter, caller, in.RecordingID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	fb := &domain.Feedback{
		RecordingID:   rec.ID,
		SubmittedBy:   caller.AccountID,
		ContactNumber: in.ContactNumber,
		Billed:        in.Billed,
		Payload:       in.Payload,
	}
	if err := s.feedback.InsertIfAbsent(ctx, fb, now.Add(-s.duplicateWindow)); err != nil {
		switch {
		case errors.Is(err, repository.ErrFeedbackExists):
			return nil, apperrors.NewConflict("feedback already submitted for this recording", map[string]any{"recording_id": rec.ID})
		case errors.Is(err, repository.ErrConcurrentSubmission):
			return nil, apperrors.NewConflict("feedback submission raced another submission", map[string]any{"recording_id": rec.ID})
		case errors.Is(err, repository.ErrRecentContact):
			return nil, apperrors.NewConflict("contact number already used recently", map[string]any{
				"window_hours": s.duplicateWindow.Hours(),
			})
		}
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("feedback submitted",
		zap.String("feedback_id", fb.ID),
		zap.String("recording_id", rec.ID),
		zap.String("submitted_by", caller.AccountID))

	s.publish(ctx, events.New(events.EventFeedbackSubmitted, rec.ID, caller.AccountID, now, events.FeedbackSubmittedPayload{
		FeedbackID: fb.ID,
		CallRating: fb.Payload.CallRating,
	}))
	return fb, nil
}

// List returns feedback on recordings in the caller's scope, newest first.
func (s *FeedbackService) List(ctx context.Context, caller domain.Caller, q ScopeQuery) ([]FeedbackView, error) {
	rows, err := s.load(ctx, caller, q)
	if err != nil {
		return nil, err
	}

	submitters := make([]string, 0, len(rows))
	seen := map[string]struct{}{}
	for _, fb := range rows {
		if _, ok := seen[fb.SubmittedBy]; !ok {
			seen[fb.SubmittedBy] = struct{}{}
			submitters = append(submitters, fb.SubmittedBy)
		}
	}
	names := map[string]string{}
	if len(submitters) > 0 {
		accounts, err := s.accounts.ListByIDs(ctx, submitters)
		if err != nil {
			s.logger.Warn("submitter names unavailable", zap.Error(err))
		}
		for _, acc := range accounts {
			names[acc.ID] = acc.Name
		}
	}

	views := make([]FeedbackView, 0, len(rows))
	for _, fb := range rows {
		name, ok := names[fb.SubmittedBy]
		if !ok || name == "" {
			name = "Unknown"
		}
		views = append(views, FeedbackView{Feedback: fb, SubmittedByName: name})
	}
	return views, nil
}

// Rating counts call ratings of feedback in the caller's scope.
func (s *FeedbackService) Rating(ctx context.Context, caller domain.Caller, q ScopeQuery) (*RatingSummary, error) {
	rows, err := s.load(ctx, caller, q)
	if err != nil {
		return nil, err
	}
	summary := &RatingSummary{Total: len(rows)}
	for _, fb := range rows {
		switch fb.Payload.CallRating {
		case domain.CallRatingGood:
			summary.Good++
		case domain.CallRatingAverage:
			summary.Average++
		case domain.CallRatingBad:
			summary.Bad++
		}
	}
	return summary, nil
}

func (s *FeedbackService) load(ctx context.Context, caller domain.Caller, q ScopeQuery) ([]domain.Feedback, error) {
	window, err := s.windows.Resolve(q.window())
	if err != nil {
		return nil, err
	}
	sc, err := q.narrow(ctx, s.filter, caller)
	if err != nil {
		return nil, err
	}
	ids, err := q.memberIDs(sc)
	if err != nil {
		return nil, err
	}
	rows, err := s.feedback.List(ctx, repository.FeedbackFilter{OwnerIDs: ids, Window: &window, StoreID: sc.StoreID})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return rows, nil
}

func (s *FeedbackService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event failed",
			zap.String("event_type", string(event.Type)),
			zap.String("recording_id", event.RecordingID),
			zap.Error(err))
	}
}
