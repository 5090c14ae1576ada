package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/field-insights/internal/config"
	"github.com/spec-kit/field-insights/internal/domain"
	"github.com/spec-kit/field-insights/internal/events"
	"github.com/spec-kit/field-insights/internal/insights"
	"github.com/spec-kit/field-insights/internal/repository"
	"github.com/spec-kit/field-insights/internal/scope"
	"github.com/spec-kit/field-insights/internal/timeline"
	apperrors "github.com/spec-kit/field-insights/pkg/util/errorutil"
)

// RecordingService lists recordings and records listening activity.
type RecordingService struct {
	recordings    repository.RecordingRepository
	filter        *scope.Filter
	windows       *timeline.Resolver
	aggregator    *insights.Aggregator
	dispatcher    events.Dispatcher
	transcription config.TranscriptionConfig
	now           func() time.Time
	logger        *zap.Logger
}

// RecordingDependencies bundles collaborators for the recording service.
type RecordingDependencies struct {
	RecordingRepo repository.RecordingRepository
	Filter        *scope.Filter
	Windows       *timeline.Resolver
	Aggregator    *insights.Aggregator
	Dispatcher    events.Dispatcher
	Transcription config.TranscriptionConfig
	Now           func() time.Time
	Logger        *zap.Logger
}

// NewRecordingService builds the service.
func NewRecordingService(deps RecordingDependencies) *RecordingService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordingService{
		recordings:    deps.RecordingRepo,
		filter:        deps.Filter,
		windows:       deps.Windows,
		aggregator:    deps.Aggregator,
		dispatcher:    deps.Dispatcher,
		transcription: deps.Transcription,
		now:           now,
		logger:        logger,
	}
}

// DailyHours is the recorded time of one calendar day.
type DailyHours struct {
	Date  string
	Hours float64
}

// List returns the caller's visible recordings, newest first, enriched with
// store and owner display data.
func (s *RecordingService) List(ctx context.Context, caller domain.Caller, q ScopeQuery) ([]insights.EnrichedRecording, error) {
	recs, _, err := s.load(ctx, caller, q, "", 0)
	if err != nil {
		return nil, err
	}
	return s.aggregator.Enrich(ctx, recs), nil
}

// Last returns the most recent visible recording. L0 callers are Forbidden.
func (s *RecordingService) Last(ctx context.Context, caller domain.Caller, q ScopeQuery) (*insights.EnrichedRecording, error) {
	if !caller.Role.AtLeast(domain.RoleL1) {
		return nil, apperrors.NewForbidden("requires L1 or above")
	}
	recs, _, err := s.load(ctx, caller, q, timeline.AllTime, 1)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, apperrors.NewNotFound("recording", nil)
	}
	enriched := s.aggregator.Enrich(ctx, recs)
	return &enriched[0], nil
}

// DailyRecordingHours sums recorded hours per calendar day of start time,
// defaulting to the last 7 days. Days without recordings are omitted; a
// window without any is NotFound.
func (s *RecordingService) DailyRecordingHours(ctx context.Context, caller domain.Caller, q ScopeQuery) ([]DailyHours, domain.TimeWindow, error) {
	recs, window, err := s.load(ctx, caller, q, timeline.Last7Days, 0)
	if err != nil {
		return nil, domain.TimeWindow{}, err
	}
	if len(recs) == 0 {
		return nil, window, apperrors.NewNotFound("recordings", map[string]any{"start": window.Start, "end": window.End})
	}

	loc := s.windows.Location()
	seconds := map[string]float64{}
	for _, rec := range recs {
		seconds[rec.StartTime.In(loc).Format("2006-01-02")] += rec.DurationSeconds
	}

	days := make([]DailyHours, 0, len(seconds))
	for day, total := range seconds {
		days = append(days, DailyHours{Date: day, Hours: insights.Round2(total / 3600)})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days, window, nil
}

// UpdateListeningTime stores how long the recording was listened to. The
// first listen of a long recording still pending transcription requests one.
func (s *RecordingService) UpdateListeningTime(ctx context.Context, caller domain.Caller, recordingID string, seconds float64) (*domain.Recording, error) {
	if seconds < 0 {
		return nil, apperrors.NewValidationError("listening time cannot be negative", map[string]any{"listening_time": seconds})
	}
	rec, err := s.visibleRecording(ctx, caller, recordingID)
	if err != nil {
		return nil, err
	}

	at := s.now().UTC()
	if err := s.recordings.UpdateListening(ctx, rec.ID, seconds, at); err != nil {
		return nil, apperrors.MapError(err)
	}

	previous := rec.ListeningSeconds
	rec.ListeningSeconds = &seconds
	rec.LastListenedAt = &at

	s.publish(ctx, events.New(events.EventListeningTimeUpdated, rec.ID, caller.AccountID, at, events.ListeningTimeUpdatedPayload{
		PreviousSeconds: previous,
		Seconds:         seconds,
	}))

	if previous == nil && rec.TranscriptionStatus == domain.TranscriptionPending &&
		s.transcription.MinDurationSeconds > 0 && rec.DurationSeconds > s.transcription.MinDurationSeconds {
		if err := s.requestTranscription(ctx, caller, rec, true); err != nil {
			s.logger.Warn("automatic transcription request failed", zap.String("recording_id", rec.ID), zap.Error(err))
		}
	}
	return rec, nil
}

// RequestTranscription hands the recording to the transcription queue.
// A recording already transcribed or in progress is a Conflict.
func (s *RecordingService) RequestTranscription(ctx context.Context, caller domain.Caller, recordingID string) (*domain.Recording, error) {
	rec, err := s.visibleRecording(ctx, caller, recordingID)
	if err != nil {
		return nil, err
	}
	switch rec.TranscriptionStatus {
	case domain.TranscriptionCompleted:
		return nil, apperrors.NewConflict("recording already transcribed", map[string]any{"recording_id": rec.ID})
	case domain.TranscriptionInProgress:
		return nil, apperrors.NewConflict("transcription already in progress", map[string]any{"recording_id": rec.ID})
	}
	if err := s.requestTranscription(ctx, caller, rec, false); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *RecordingService) requestTranscription(ctx context.Context, caller domain.Caller, rec *domain.Recording, automatic bool) error {
	if err := s.recordings.UpdateTranscriptionStatus(ctx, rec.ID, domain.TranscriptionInProgress); err != nil {
		return apperrors.MapError(err)
	}
	rec.TranscriptionStatus = domain.TranscriptionInProgress
	s.publish(ctx, events.New(events.EventTranscriptionRequested, rec.ID, caller.AccountID, s.now().UTC(), events.TranscriptionRequestedPayload{
		FileURL:         rec.FileURL,
		DurationSeconds: rec.DurationSeconds,
		Automatic:       automatic,
	}))
	return nil
}

// load narrows the scope, resolves the window (fallback keyword when the
// query names none) and lists matching recordings.
func (s *RecordingService) load(ctx context.Context, caller domain.Caller, q ScopeQuery, fallback string, limit int) ([]domain.Recording, domain.TimeWindow, error) {
	var (
		window domain.TimeWindow
		err    error
	)
	if fallback != "" {
		window, err = s.windows.ResolveOr(q.window(), fallback)
	} else {
		window, err = s.windows.Resolve(q.window())
	}
	if err != nil {
		return nil, domain.TimeWindow{}, err
	}

	sc, err := q.narrow(ctx, s.filter, caller)
	if err != nil {
		return nil, domain.TimeWindow{}, err
	}
	ids, err := q.memberIDs(sc)
	if err != nil {
		return nil, domain.TimeWindow{}, err
	}

	recs, err := s.recordings.List(ctx, repository.RecordingFilter{
		OwnerIDs: ids,
		Window:   &window,
		StoreID:  sc.StoreID,
		Limit:    limit,
	})
	if err != nil {
		return nil, domain.TimeWindow{}, apperrors.MapError(err)
	}
	return recs, window, nil
}

func (s *RecordingService) visibleRecording(ctx context.Context, caller domain.Caller, recordingID string) (*domain.Recording, error) {
	return visibleRecording(ctx, s.recordings, s.filter, caller, recordingID)
}

type recordingGetter interface {
	GetByID(ctx context.Context, id string) (*domain.Recording, error)
}

// visibleRecording loads a recording owned by the caller or their downline.
func visibleRecording(ctx context.Context, recordings recordingGetter, filter *scope.Filter, caller domain.Caller, recordingID string) (*domain.Recording, error) {
	if recordingID == "" {
		return nil, apperrors.NewValidationError("recording id is required", nil)
	}
	rec, err := recordings.GetByID(ctx, recordingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("recording", map[string]any{"id": recordingID})
		}
		return nil, apperrors.MapError(err)
	}
	sc, err := filter.Narrow(ctx, caller, nil)
	if err != nil {
		return nil, err
	}
	if !sc.Contains(rec.OwnerAccountID) {
		return nil, apperrors.NewForbidden("recording is outside your organization")
	}
	return rec, nil
}

func (s *RecordingService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
