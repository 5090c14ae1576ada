package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/field-insights/internal/domain"
	"github.com/spec-kit/field-insights/internal/insights"
	"github.com/spec-kit/field-insights/internal/scope"
	"github.com/spec-kit/field-insights/internal/timeline"
	apperrors "github.com/spec-kit/field-insights/pkg/util/errorutil"
)

// InsightsService serves recording insights for managers.
type InsightsService struct {
	filter     *scope.Filter
	windows    *timeline.Resolver
	aggregator *insights.Aggregator
	topN       int
	logger     *zap.Logger
}

// InsightsDependencies bundles collaborators for the insights service.
type InsightsDependencies struct {
	Filter     *scope.Filter
	Windows    *timeline.Resolver
	Aggregator *insights.Aggregator
	TopN       int
	Logger     *zap.Logger
}

// NewInsightsService builds the service.
func NewInsightsService(deps InsightsDependencies) *InsightsService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	topN := deps.TopN
	if topN <= 0 {
		topN = 5
	}
	return &InsightsService{
		filter:     deps.Filter,
		windows:    deps.Windows,
		aggregator: deps.Aggregator,
		topN:       topN,
		logger:     logger,
	}
}

// RecordingInsights is the insights view of one scope and window.
type RecordingInsights struct {
	AccountID               string
	Window                  domain.TimeWindow
	TotalRecordings         int
	TotalRecordingHours     float64
	AverageRecordingMinutes float64
	PeakHours               []insights.HourCount
	TotalListeningHours     float64
	AverageListeningMinutes float64
	LastListeningTime       *time.Time
	Tags                    map[insights.Dimension]insights.Breakdown
}

// RecordingInsights aggregates the recordings visible to the caller. L0
// callers are Forbidden.
func (s *InsightsService) RecordingInsights(ctx context.Context, caller domain.Caller, q ScopeQuery) (*RecordingInsights, error) {
	if !caller.Role.AtLeast(domain.RoleL1) {
		return nil, apperrors.NewForbidden("insights require L1 or above")
	}

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

	result, err := s.aggregator.Aggregate(ctx, ids, window, sc.StoreID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	subject := caller.AccountID
	if q.AccountID != "" {
		subject = q.AccountID
	}

	s.logger.Debug("recording insights",
		zap.String("caller_id", caller.AccountID),
		zap.String("root_id", sc.Root),
		zap.Int("accounts", len(ids)),
		zap.Int("recordings", result.TotalCount))

	return &RecordingInsights{
		AccountID:               subject,
		Window:                  window,
		TotalRecordings:         result.TotalCount,
		TotalRecordingHours:     result.TotalHours(),
		AverageRecordingMinutes: result.AverageMinutes(),
		PeakHours:               result.PeakHours,
		TotalListeningHours:     result.ListeningHours(),
		AverageListeningMinutes: insights.Round2(result.AverageListeningSeconds / 60),
		LastListeningTime:       result.LastListenedAt,
		Tags:                    result.Breakdowns(s.topN),
	}, nil
}
