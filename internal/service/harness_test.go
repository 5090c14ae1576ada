package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/field-insights/internal/config"
	"github.com/spec-kit/field-insights/internal/domain"
	"github.com/spec-kit/field-insights/internal/events"
	"github.com/spec-kit/field-insights/internal/hierarchy"
	"github.com/spec-kit/field-insights/internal/insights"
	"github.com/spec-kit/field-insights/internal/repository/memory"
	"github.com/spec-kit/field-insights/internal/scope"
	"github.com/spec-kit/field-insights/internal/timeline"
)

// now is "today" for every service test: 2024-03-15 10:00 UTC.
var now = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

type recordedEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordedEvents) handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordedEvents) ofType(t events.EventType) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type harness struct {
	org        *memory.Org
	events     *recordedEvents
	insights   *InsightsService
	recordings *RecordingService
	feedback   *FeedbackService
	accounts   *AccountService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := zaptest.NewLogger(t)
	org := memory.SampleOrg()
	clock := func() time.Time { return now }
	org.Feedback = memory.NewFeedback(org.Recordings, clock)

	resolver := hierarchy.NewResolver(org.Accounts, logger, nil)
	filter := scope.NewFilter(scope.FilterDependencies{
		Resolver: resolver,
		Units:    org.Units,
		Stores:   org.Stores,
		Logger:   logger,
	})
	windows := timeline.NewResolver(clock, time.UTC)
	aggregator := insights.NewAggregator(insights.AggregatorDependencies{
		Recordings:  org.Recordings,
		Stores:      org.Stores,
		Accounts:    org.Accounts,
		Feedback:    org.Feedback,
		Annotations: org.Annotations,
		Logger:      logger,
	})

	recorded := &recordedEvents{}
	dispatcher := events.NewInMemoryDispatcher(logger)
	for _, et := range []events.EventType{events.EventFeedbackSubmitted, events.EventListeningTimeUpdated, events.EventTranscriptionRequested} {
		dispatcher.Subscribe(et, recorded.handle)
	}

	return &harness{
		org:    org,
		events: recorded,
		insights: NewInsightsService(InsightsDependencies{
			Filter: filter, Windows: windows, Aggregator: aggregator, TopN: 3, Logger: logger,
		}),
		recordings: NewRecordingService(RecordingDependencies{
			RecordingRepo: org.Recordings,
			Filter:        filter,
			Windows:       windows,
			Aggregator:    aggregator,
			Dispatcher:    dispatcher,
			Transcription: config.TranscriptionConfig{MinDurationSeconds: 300},
			Now:           clock,
			Logger:        logger,
		}),
		feedback: NewFeedbackService(FeedbackDependencies{
			FeedbackRepo:           org.Feedback,
			RecordingRepo:          org.Recordings,
			AccountRepo:            org.Accounts,
			Filter:                 filter,
			Windows:                windows,
			Dispatcher:             dispatcher,
			DuplicateContactWindow: 48 * time.Hour,
			Now:                    clock,
			Logger:                 logger,
		}),
		accounts: NewAccountService(AccountDependencies{
			AccountRepo:   org.Accounts,
			StoreRepo:     org.Stores,
			UnitRepo:      org.Units,
			RecordingRepo: org.Recordings,
			Filter:        filter,
			Logger:        logger,
		}),
	}
}

// addRecording stores a recording created daysAgo days before now at hour.
func (h *harness) addRecording(id, owner string, store string, daysAgo, hour int, duration float64) domain.Recording {
	day := now.AddDate(0, 0, -daysAgo)
	start := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, time.UTC)
	rec := domain.Recording{
		ID:              id,
		OwnerAccountID:  owner,
		FileURL:         "s3://recordings/" + id + ".mp3",
		StartTime:       start,
		EndTime:         start.Add(time.Duration(duration) * time.Second),
		DurationSeconds: duration,
		CreatedAt:       start,
	}
	if store != "" {
		s := store
		rec.StoreID = &s
	}
	h.org.Recordings.Put(rec)
	return rec
}

func who(id string, role domain.RoleLevel) domain.Caller {
	return domain.Caller{AccountID: id, Role: role}
}
