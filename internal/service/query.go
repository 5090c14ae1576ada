package service

import (
	"context"

	"github.com/spec-kit/field-insights/internal/domain"
	"github.com/spec-kit/field-insights/internal/scope"
	"github.com/spec-kit/field-insights/internal/timeline"
	apperrors "github.com/spec-kit/field-insights/pkg/util/errorutil"
)

// ScopeQuery carries the dimension, window and member filters shared by read
// operations.
type ScopeQuery struct {
	CityID   string
	StateID  string
	RegionID string
	StoreID  string
	// AccountID narrows the result to one member of the resolved scope.
	AccountID string

	Timeline  string
	StartDate string
	EndDate   string
}

func (q ScopeQuery) dimension() *scope.Dimension {
	return scope.Pick(q.CityID, q.StateID, q.RegionID)
}

// narrow resolves the caller's scope for q: re-rooted on the chosen unit,
// then restricted to StoreID when one is given.
func (q ScopeQuery) narrow(ctx context.Context, filter *scope.Filter, caller domain.Caller) (*scope.Scope, error) {
	sc, err := filter.Narrow(ctx, caller, q.dimension())
	if err != nil {
		return nil, err
	}
	return filter.RestrictToStore(ctx, sc, q.StoreID)
}

func (q ScopeQuery) window() timeline.Request {
	return timeline.Request{Start: q.StartDate, End: q.EndDate, Timeline: q.Timeline}
}

// memberIDs returns the root plus downline of s, or just AccountID when set.
// AccountID outside s is Forbidden.
func (q ScopeQuery) memberIDs(s *scope.Scope) ([]string, error) {
	if q.AccountID == "" {
		return s.WithRoot(), nil
	}
	if !s.Contains(q.AccountID) {
		return nil, apperrors.NewForbidden("account is outside your organization")
	}
	return []string{q.AccountID}, nil
}
