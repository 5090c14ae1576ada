package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/field-insights/internal/domain"
	"github.com/spec-kit/field-insights/internal/events"
	"github.com/spec-kit/field-insights/internal/repository"
	apperrors "github.com/spec-kit/field-insights/pkg/util/errorutil"
)

func TestSubmitFeedbackTwiceIsConflict(t *testing.T) {
	h := newHarness(t)
	h.addRecording("rec-1", "o1", "store-1", 0, 9, 120)
	ctx := context.Background()

	fb, err := h.feedback.Submit(ctx, who("o1", domain.RoleL0), SubmitFeedbackInput{
		RecordingID:   "rec-1",
		ContactNumber: "9000000001",
		Payload:       domain.FeedbackPayload{CallRating: "Good", Complaints: []string{"delay"}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, fb.ID)
	assert.Equal(t, domain.CallRatingGood, fb.Payload.CallRating)
	assert.Len(t, h.events.ofType(events.EventFeedbackSubmitted), 1)

	_, err = h.feedback.Submit(ctx, who("o1", domain.RoleL0), SubmitFeedbackInput{RecordingID: "rec-1"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

type failingDispatcher struct {
	events.Dispatcher
}

func (failingDispatcher) Publish(context.Context, events.Event) error {
	return errors.New("broker unavailable")
}

func TestSubmitFeedbackPublishFailureIsLogged(t *testing.T) {
	h := newHarness(t)
	h.addRecording("rec-1", "o1", "", 0, 9, 120)
	core, logs := observer.New(zapcore.WarnLevel)
	h.feedback.logger = zap.New(core)
	h.feedback.dispatcher = failingDispatcher{}

	fb, err := h.feedback.Submit(context.Background(), who("o1", domain.RoleL0), SubmitFeedbackInput{RecordingID: "rec-1"})
	require.NoError(t, err, "a failed publish does not fail the submission")
	assert.NotEmpty(t, fb.ID)

	entries := logs.FilterMessage("publish event failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, string(events.EventFeedbackSubmitted), entries[0].ContextMap()["event_type"])
	assert.Equal(t, "rec-1", entries[0].ContextMap()["recording_id"])
}

type racingFeedback struct {
	repository.FeedbackRepository
}

func (racingFeedback) InsertIfAbsent(context.Context, *domain.Feedback, time.Time) error {
	return repository.ErrConcurrentSubmission
}

func TestSubmitFeedbackConcurrentSubmissionIsConflict(t *testing.T) {
	h := newHarness(t)
	h.addRecording("rec-1", "o1", "", 0, 9, 120)
	h.feedback.feedback = racingFeedback{FeedbackRepository: h.feedback.feedback}

	_, err := h.feedback.Submit(context.Background(), who("o1", domain.RoleL0), SubmitFeedbackInput{RecordingID: "rec-1", ContactNumber: "555"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Empty(t, h.events.ofType(events.EventFeedbackSubmitted))
}

func TestSubmitFeedbackRecentContactIsConflict(t *testing.T) {
	h := newHarness(t)
	h.addRecording("rec-1", "o1", "", 0, 9, 120)
	h.addRecording("rec-2", "o1", "", 0, 10, 120)
	h.addRecording("rec-3", "o2", "", 0, 10, 120)
	ctx := context.Background()

	_, err := h.feedback.Submit(ctx, who("o1", domain.RoleL0), SubmitFeedbackInput{RecordingID: "rec-1", ContactNumber: "555"})
	require.NoError(t, err)

	_, err = h.feedback.Submit(ctx, who("o1", domain.RoleL0), SubmitFeedbackInput{RecordingID: "rec-2", ContactNumber: " 555 "})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = h.feedback.Submit(ctx, who("o2", domain.RoleL0), SubmitFeedbackInput{RecordingID: "rec-3", ContactNumber: "555"})
	assert.NoError(t, err, "the duplicate check is per submitter")
}

func TestSubmitFeedbackAuthorization(t *testing.T) {
	h := newHarness(t)
	h.addRecording("rec-1", "o1", "", 0, 9, 120)
	ctx := context.Background()

	_, err := h.feedback.Submit(ctx, who("o2", domain.RoleL0), SubmitFeedbackInput{RecordingID: "rec-1"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = h.feedback.Submit(ctx, who("o1", domain.RoleL0), SubmitFeedbackInput{RecordingID: "missing"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = h.feedback.Submit(ctx, who("o1", domain.RoleL0), SubmitFeedbackInput{RecordingID: "rec-1", Payload: domain.FeedbackPayload{CallRating: "great"}})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = h.feedback.Submit(ctx, who("a1", domain.RoleL1), SubmitFeedbackInput{RecordingID: "rec-1"})
	assert.NoError(t, err, "managers may submit for their downline")
}

func TestFeedbackListAndRating(t *testing.T) {
	h := newHarness(t)
	h.addRecording("rec-1", "o1", "store-1", 1, 9, 120)
	h.addRecording("rec-2", "o2", "store-2", 1, 9, 120)
	h.addRecording("rec-3", "o4", "store-4", 1, 9, 120)
	ctx := context.Background()
	for _, in := range []struct {
		caller, rec, rating string
	}{
		{"o1", "rec-1", "good"},
		{"o2", "rec-2", "bad"},
		{"o4", "rec-3", "good"},
	} {
		_, err := h.feedback.Submit(ctx, who(in.caller, domain.RoleL0), SubmitFeedbackInput{
			RecordingID: in.rec,
			Payload:     domain.FeedbackPayload{CallRating: in.rating},
		})
		require.NoError(t, err)
	}

	views, err := h.feedback.List(ctx, who("a1", domain.RoleL1), ScopeQuery{})
	require.NoError(t, err)
	require.Len(t, views, 2)
	names := []string{views[0].SubmittedByName, views[1].SubmittedByName}
	assert.ElementsMatch(t, []string{"name-o1", "name-o2"}, names)

	rating, err := h.feedback.Rating(ctx, who("owner", domain.RoleL4), ScopeQuery{})
	require.NoError(t, err)
	assert.Equal(t, RatingSummary{Total: 3, Good: 2, Bad: 1}, *rating)

	rating, err = h.feedback.Rating(ctx, who("owner", domain.RoleL4), ScopeQuery{StoreID: "store-2"})
	require.NoError(t, err)
	assert.Equal(t, RatingSummary{Total: 1, Bad: 1}, *rating)
}
