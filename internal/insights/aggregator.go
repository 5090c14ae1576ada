// Package insights aggregates recordings, feedback and transcript
// annotations over a resolved scope and time window.
package insights

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/field-insights/internal/domain"
	"github.com/spec-kit/field-insights/internal/observability"
	"github.com/spec-kit/field-insights/internal/repository"
)

// Unknown labels enrichment data that could not be joined.
const Unknown = "Unknown"

// RecordingSource lists recordings.
type RecordingSource interface {
	List(ctx context.Context, filter repository.RecordingFilter) ([]domain.Recording, error)
}

// StoreSource batch-loads stores.
type StoreSource interface {
	ListByIDs(ctx context.Context, ids []string) ([]domain.Store, error)
}

// AccountSource batch-loads accounts.
type AccountSource interface {
	ListByIDs(ctx context.Context, ids []string) ([]domain.Account, error)
}

// FeedbackSource batch-loads feedback.
type FeedbackSource interface {
	ListByRecordingIDs(ctx context.Context, recordingIDs []string) ([]domain.Feedback, error)
}

// AnnotationSource batch-loads transcript annotations.
type AnnotationSource interface {
	ListByRecordingIDs(ctx context.Context, recordingIDs []string) ([]domain.TranscriptAnnotation, error)
}

// EnrichedRecording is a recording joined with its display attributes.
type EnrichedRecording struct {
	domain.Recording
	StoreName    string
	StoreCode    string
	StoreAddress string
	OwnerName    string
	Annotated    bool
}

// HourCount is one bucket of the hour-of-day histogram.
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// Summary holds the numeric aggregates of a recording set.
type Summary struct {
	TotalCount              int
	TotalDurationSeconds    float64
	AverageDurationSeconds  float64
	TotalListeningSeconds   float64
	AverageListeningSeconds float64
	PeakHours               []HourCount
	LastListenedAt          *time.Time
}

// TotalHours is the summed duration in hours, rounded to two decimals.
func (s Summary) TotalHours() float64 {
	return Round2(s.TotalDurationSeconds / 3600)
}

// AverageMinutes is the mean duration in minutes, rounded to two decimals.
func (s Summary) AverageMinutes() float64 {
	return Round2(s.AverageDurationSeconds / 60)
}

// ListeningHours is the summed listening time in hours, rounded to two decimals.
func (s Summary) ListeningHours() float64 {
	return Round2(s.TotalListeningSeconds / 3600)
}

// AggregateResult is the output of Aggregate.
type AggregateResult struct {
	Summary
	Window     domain.TimeWindow
	Recordings []EnrichedRecording
	Tags       TagCounts
}

// Breakdowns formats every tag dimension.
func (r *AggregateResult) Breakdowns(topN int) map[Dimension]Breakdown {
	return FormatAll(r.Tags, topN)
}

// Aggregator computes insights. It holds no per-request state.
type Aggregator struct {
	recordings  RecordingSource
	stores      StoreSource
	accounts    AccountSource
	feedback    FeedbackSource
	annotations AnnotationSource
	location    *time.Location
	logger      *zap.Logger
	metrics     *observability.Metrics
}

// AggregatorDependencies bundles collaborators for the aggregator.
type AggregatorDependencies struct {
	Recordings  RecordingSource
	Stores      StoreSource
	Accounts    AccountSource
	Feedback    FeedbackSource
	Annotations AnnotationSource
	// Location buckets start times into hours of day. Defaults to UTC.
	Location *time.Location
	Logger   *zap.Logger
	Metrics  *observability.Metrics
}

// NewAggregator constructs an Aggregator.
func NewAggregator(deps AggregatorDependencies) *Aggregator {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{
		recordings:  deps.Recordings,
		stores:      deps.Stores,
		accounts:    deps.Accounts,
		feedback:    deps.Feedback,
		annotations: deps.Annotations,
		location:    loc,
		logger:      logger,
		metrics:     deps.Metrics,
	}
}

// Aggregate loads the recordings of accountIDs created inside window, limited
// to storeID when set, and computes totals, the hour histogram and tag counts.
// Only the recording query can fail; missing display data and unavailable
// tag sources degrade to placeholders and empty counters.
func (a *Aggregator) Aggregate(ctx context.Context, accountIDs []string, window domain.TimeWindow, storeID *string) (*AggregateResult, error) {
	started := time.Now()
	defer func() { a.metrics.ObserveAggregate(time.Since(started)) }()

	w := window
	recs, err := a.recordings.List(ctx, repository.RecordingFilter{
		OwnerIDs: accountIDs,
		Window:   &w,
		StoreID:  storeID,
	})
	if err != nil {
		return nil, err
	}

	result := &AggregateResult{
		Summary: Summarize(recs, a.location),
		Window:  window,
	}

	j := a.load(ctx, recs, true)
	result.Recordings = j.enrich(recs)
	result.Tags = CountTags(j.feedback, j.annotations)
	return result, nil
}

// Summarize computes counts, sums, averages and the hour histogram of recs.
// Averages over an empty set are zero. Listening averages only consider
// recordings with a listening time.
func Summarize(recs []domain.Recording, loc *time.Location) Summary {
	if loc == nil {
		loc = time.UTC
	}
	s := Summary{TotalCount: len(recs), PeakHours: []HourCount{}}

	hours := map[int]int{}
	listened := 0
	for _, rec := range recs {
		s.TotalDurationSeconds += rec.DurationSeconds
		if rec.ListeningSeconds != nil {
			s.TotalListeningSeconds += *rec.ListeningSeconds
			listened++
		}
		if rec.LastListenedAt != nil && (s.LastListenedAt == nil || rec.LastListenedAt.After(*s.LastListenedAt)) {
			last := *rec.LastListenedAt
			s.LastListenedAt = &last
		}
		if !rec.StartTime.IsZero() {
			hours[rec.StartTime.In(loc).Hour()]++
		}
	}

	if s.TotalCount > 0 {
		s.AverageDurationSeconds = s.TotalDurationSeconds / float64(s.TotalCount)
	}
	if listened > 0 {
		s.AverageListeningSeconds = s.TotalListeningSeconds / float64(listened)
	}

	for hour, count := range hours {
		s.PeakHours = append(s.PeakHours, HourCount{Hour: hour, Count: count})
	}
	sort.Slice(s.PeakHours, func(i, j int) bool {
		if s.PeakHours[i].Count != s.PeakHours[j].Count {
			return s.PeakHours[i].Count > s.PeakHours[j].Count
		}
		return s.PeakHours[i].Hour < s.PeakHours[j].Hour
	})
	return s
}

// Enrich joins store and owner display attributes onto recs. Each distinct
// store id and owner id is fetched once. Lookups that fail or miss leave the
// Unknown placeholder.
func (a *Aggregator) Enrich(ctx context.Context, recs []domain.Recording) []EnrichedRecording {
	return a.load(ctx, recs, false).enrich(recs)
}

// joined holds the foreign rows of one recording set, keyed for in-memory joins.
type joined struct {
	stores      map[string]domain.Store
	owners      map[string]string
	feedback    []domain.Feedback
	annotations []domain.TranscriptAnnotation
}

// load issues one batched query per foreign table, concurrently.
func (a *Aggregator) load(ctx context.Context, recs []domain.Recording, withFeedback bool) *joined {
	j := &joined{stores: map[string]domain.Store{}, owners: map[string]string{}}
	if len(recs) == 0 {
		return j
	}

	storeIDs, ownerIDs := foreignIDs(recs)
	ids := recordingIDs(recs)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if len(storeIDs) == 0 || a.stores == nil {
			return nil
		}
		rows, err := a.stores.ListByIDs(gctx, storeIDs)
		if err != nil {
			a.logger.Warn("store enrichment unavailable", zap.Int("stores", len(storeIDs)), zap.Error(err))
			return nil
		}
		for _, st := range rows {
			j.stores[st.ID] = st
		}
		return nil
	})
	g.Go(func() error {
		if a.accounts == nil {
			return nil
		}
		rows, err := a.accounts.ListByIDs(gctx, ownerIDs)
		if err != nil {
			a.logger.Warn("owner enrichment unavailable", zap.Int("owners", len(ownerIDs)), zap.Error(err))
			return nil
		}
		for _, acc := range rows {
			j.owners[acc.ID] = acc.Name
		}
		return nil
	})
	g.Go(func() error {
		j.annotations = a.loadAnnotations(gctx, ids)
		return nil
	})
	if withFeedback {
		g.Go(func() error {
			j.feedback = a.loadFeedback(gctx, ids)
			return nil
		})
	}
	_ = g.Wait()
	return j
}

func (j *joined) enrich(recs []domain.Recording) []EnrichedRecording {
	annotated := make(map[string]struct{}, len(j.annotations))
	for _, row := range j.annotations {
		annotated[row.RecordingID] = struct{}{}
	}

	out := make([]EnrichedRecording, 0, len(recs))
	for _, rec := range recs {
		item := EnrichedRecording{
			Recording:    rec,
			StoreName:    Unknown,
			StoreCode:    Unknown,
			StoreAddress: Unknown,
			OwnerName:    Unknown,
		}
		if rec.StoreID != nil {
			if st, ok := j.stores[*rec.StoreID]; ok {
				item.StoreName = orUnknown(st.Name)
				item.StoreCode = orUnknown(st.Code)
				item.StoreAddress = orUnknown(st.Address)
			}
		}
		if name, ok := j.owners[rec.OwnerAccountID]; ok {
			item.OwnerName = orUnknown(name)
		}
		_, item.Annotated = annotated[rec.ID]
		out = append(out, item)
	}
	return out
}

// CollectTags counts tags from feedback and annotations of recordingIDs.
func (a *Aggregator) CollectTags(ctx context.Context, recordingIDs []string) TagCounts {
	if len(recordingIDs) == 0 {
		return NewTagCounts()
	}

	var (
		feedback    []domain.Feedback
		annotations []domain.TranscriptAnnotation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		feedback = a.loadFeedback(gctx, recordingIDs)
		return nil
	})
	g.Go(func() error {
		annotations = a.loadAnnotations(gctx, recordingIDs)
		return nil
	})
	_ = g.Wait()

	return CountTags(feedback, annotations)
}

func (a *Aggregator) loadFeedback(ctx context.Context, ids []string) []domain.Feedback {
	if a.feedback == nil {
		return nil
	}
	rows, err := a.feedback.ListByRecordingIDs(ctx, ids)
	if err != nil {
		a.logger.Warn("feedback tags unavailable", zap.Int("recordings", len(ids)), zap.Error(err))
		return nil
	}
	return rows
}

func (a *Aggregator) loadAnnotations(ctx context.Context, ids []string) []domain.TranscriptAnnotation {
	if a.annotations == nil {
		return nil
	}
	rows, err := a.annotations.ListByRecordingIDs(ctx, ids)
	if err != nil {
		a.logger.Warn("annotations unavailable", zap.Int("recordings", len(ids)), zap.Error(err))
		return nil
	}
	return rows
}

func foreignIDs(recs []domain.Recording) (storeIDs, ownerIDs []string) {
	seenStores := map[string]struct{}{}
	seenOwners := map[string]struct{}{}
	for _, rec := range recs {
		if rec.StoreID != nil {
			if _, ok := seenStores[*rec.StoreID]; !ok {
				seenStores[*rec.StoreID] = struct{}{}
				storeIDs = append(storeIDs, *rec.StoreID)
			}
		}
		if _, ok := seenOwners[rec.OwnerAccountID]; !ok {
			seenOwners[rec.OwnerAccountID] = struct{}{}
			ownerIDs = append(ownerIDs, rec.OwnerAccountID)
		}
	}
	return storeIDs, ownerIDs
}

func recordingIDs(recs []domain.Recording) []string {
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.ID)
	}
	return ids
}

func orUnknown(v string) string {
	if v == "" {
		return Unknown
	}
	return v
}

// Round2 rounds to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
