// Package scope decides which accounts a caller may read, optionally
// re-rooted on a city, state or region and restricted to one store.
package scope

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/field-insights/internal/domain"
	"github.com/spec-kit/field-insights/internal/hierarchy"
	apperrors "github.com/spec-kit/field-insights/pkg/util/errorutil"
)

// UnitStore looks up regions, states and cities.
type UnitStore interface {
	GetUnit(ctx context.Context, kind domain.UnitKind, id string) (*domain.OrgUnit, error)
}

// StoreLookup looks up stores.
type StoreLookup interface {
	GetByID(ctx context.Context, id string) (*domain.Store, error)
}

// Dimension re-roots a scope on one organizational unit.
type Dimension struct {
	Kind domain.UnitKind
	ID   string
}

// Pick chooses the most specific non-empty unit: city > state > region.
// It returns nil when all are empty. Stores are not dimensions; see
// Filter.RestrictToStore.
func Pick(cityID, stateID, regionID string) *Dimension {
	candidates := []Dimension{
		{Kind: domain.UnitCity, ID: cityID},
		{Kind: domain.UnitState, ID: stateID},
		{Kind: domain.UnitRegion, ID: regionID},
	}
	for _, c := range candidates {
		if id := strings.TrimSpace(c.ID); id != "" {
			return &Dimension{Kind: c.Kind, ID: id}
		}
	}
	return nil
}

// naturalRole is the level a unit's head acts at.
var naturalRole = map[domain.UnitKind]domain.RoleLevel{
	domain.UnitCity:   domain.RoleL1,
	domain.UnitRegion: domain.RoleL2,
	domain.UnitState:  domain.RoleL3,
}

// Scope is a resolved authorization scope.
type Scope struct {
	Root      string
	RootRole  domain.RoleLevel
	Downline  []string
	Dimension *Dimension
	// StoreID limits reads to one store owned inside the scope.
	StoreID *string
}

// WithRoot returns the root followed by its downline.
func (s *Scope) WithRoot() []string {
	ids := make([]string, 0, len(s.Downline)+1)
	ids = append(ids, s.Root)
	for _, id := range s.Downline {
		if id != s.Root {
			ids = append(ids, id)
		}
	}
	return ids
}

// Contains reports whether id is the root or part of its downline.
func (s *Scope) Contains(id string) bool {
	if id == s.Root {
		return true
	}
	for _, member := range s.Downline {
		if member == id {
			return true
		}
	}
	return false
}

// Filter validates and narrows authorization scopes.
type Filter struct {
	resolver *hierarchy.Resolver
	units    UnitStore
	stores   StoreLookup
	logger   *zap.Logger
}

// FilterDependencies bundles collaborators for the filter.
type FilterDependencies struct {
	Resolver *hierarchy.Resolver
	Units    UnitStore
	Stores   StoreLookup
	Logger   *zap.Logger
}

// NewFilter constructs a Filter.
func NewFilter(deps FilterDependencies) *Filter {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Filter{
		resolver: deps.Resolver,
		units:    deps.Units,
		stores:   deps.Stores,
		logger:   logger,
	}
}

// Narrow resolves the caller's scope. Without a dimension it is the caller's
// own downline. With one, the scope is re-rooted on the unit's head, which
// must be the caller or someone the caller manages.
func (f *Filter) Narrow(ctx context.Context, caller domain.Caller, dim *Dimension) (*Scope, error) {
	if caller.AccountID == "" {
		return nil, apperrors.NewUnauthenticated("caller identity required")
	}

	own, err := f.resolver.ResolveIDs(ctx, caller.AccountID, caller.Role)
	if err != nil {
		return nil, err
	}
	callerScope := &Scope{Root: caller.AccountID, RootRole: caller.Role, Downline: own}
	if dim == nil {
		return callerScope, nil
	}

	if dim.Kind == domain.UnitRegion && !caller.Role.AtLeast(domain.RoleL2) {
		return nil, apperrors.NewForbidden("L0 and L1 accounts cannot filter by region")
	}

	ownerID, ownerRole, err := f.unitHead(ctx, dim)
	if err != nil {
		return nil, err
	}

	if dim.Kind == domain.UnitRegion && caller.Role == domain.RoleL2 && ownerID != caller.AccountID {
		return nil, apperrors.NewForbidden("regional heads can only access their own region")
	}
	if !callerScope.Contains(ownerID) {
		f.logger.Info("dimension outside caller scope",
			zap.String("caller_id", caller.AccountID),
			zap.String("dimension", string(dim.Kind)),
			zap.String("dimension_id", dim.ID))
		return nil, apperrors.NewForbidden("dimension is outside your organization")
	}

	var downline []string
	if ownerID == caller.AccountID && ownerRole == caller.Role {
		downline = own
	} else {
		downline, err = f.resolver.ResolveIDs(ctx, ownerID, ownerRole)
		if err != nil {
			return nil, err
		}
	}

	return &Scope{Root: ownerID, RootRole: ownerRole, Downline: downline, Dimension: dim}, nil
}

// RestrictToStore limits sc to one store. The store's owner must be inside
// sc, so a store filter can only shrink a city, state or region scope. An
// empty storeID returns sc unchanged.
func (f *Filter) RestrictToStore(ctx context.Context, sc *Scope, storeID string) (*Scope, error) {
	storeID = strings.TrimSpace(storeID)
	if storeID == "" {
		return sc, nil
	}
	store, err := f.stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, notFoundOr(err, "store", storeID)
	}
	if !sc.Contains(store.OwnerAccountID) {
		f.logger.Info("store outside scope",
			zap.String("root_id", sc.Root),
			zap.String("store_id", storeID))
		return nil, apperrors.NewForbidden("store is outside the selected scope")
	}
	restricted := *sc
	restricted.StoreID = &storeID
	return &restricted, nil
}

func (f *Filter) unitHead(ctx context.Context, dim *Dimension) (string, domain.RoleLevel, error) {
	role, ok := naturalRole[dim.Kind]
	if !ok {
		return "", 0, apperrors.NewValidationError("unsupported dimension", map[string]any{"dimension": dim.Kind})
	}
	unit, err := f.units.GetUnit(ctx, dim.Kind, dim.ID)
	if err != nil {
		return "", 0, notFoundOr(err, string(dim.Kind), dim.ID)
	}
	return unit.OwnerAccountID, role, nil
}

func notFoundOr(err error, resource, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return apperrors.MapError(err)
}
