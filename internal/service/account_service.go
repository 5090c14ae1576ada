package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/field-insights/internal/domain"
	"github.com/spec-kit/field-insights/internal/insights"
	"github.com/spec-kit/field-insights/internal/repository"
	"github.com/spec-kit/field-insights/internal/scope"
	apperrors "github.com/spec-kit/field-insights/pkg/util/errorutil"
)

// AccountService serves team, region and store listings.
type AccountService struct {
	accounts   repository.AccountRepository
	stores     repository.StoreRepository
	units      repository.UnitRepository
	recordings repository.RecordingRepository
	filter     *scope.Filter
	logger     *zap.Logger
}

// AccountDependencies bundles collaborators for the account service.
type AccountDependencies struct {
	AccountRepo   repository.AccountRepository
	StoreRepo     repository.StoreRepository
	UnitRepo      repository.UnitRepository
	RecordingRepo repository.RecordingRepository
	Filter        *scope.Filter
	Logger        *zap.Logger
}

// NewAccountService builds the service.
func NewAccountService(deps AccountDependencies) *AccountService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		accounts:   deps.AccountRepo,
		stores:     deps.StoreRepo,
		units:      deps.UnitRepo,
		recordings: deps.RecordingRepo,
		filter:     deps.Filter,
		logger:     logger,
	}
}

// TeamMember is one downline account with its activity rollup.
type TeamMember struct {
	ID             string
	Name           string
	ContactID      string
	Role           domain.RoleLevel
	Status         domain.AccountStatus
	ManagerName    string
	StoreName      string
	CityName       string
	RecordingCount int
	RecordingHours float64
	ListeningHours float64
	LastLoginAt    *time.Time
}

// ListTeam returns the caller's downline. Managers, stores, cities and
// recording totals are each loaded with one batched query.
func (s *AccountService) ListTeam(ctx context.Context, caller domain.Caller) ([]TeamMember, error) {
	sc, err := s.filter.Narrow(ctx, caller, nil)
	if err != nil {
		return nil, err
	}
	if len(sc.Downline) == 0 {
		return []TeamMember{}, nil
	}

	members, err := s.accounts.ListByIDs(ctx, sc.Downline)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	// L0 operatives sit in the city of their L1 manager.
	cityOwners := make([]string, 0, len(members))
	managerRefs := make([]string, 0, len(members))
	businessID := ""
	for _, m := range members {
		businessID = m.BusinessID
		cityOwners = append(cityOwners, m.ID)
		if m.ManagerRef != nil {
			managerRefs = append(managerRefs, *m.ManagerRef)
		}
	}

	var (
		managers []domain.Account
		stores   []domain.Store
		cities   []domain.OrgUnit
		rollups  []repository.RecordingRollup
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		managers, err = s.accounts.ListByContactIDs(gctx, businessID, managerRefs)
		return err
	})
	g.Go(func() (err error) {
		stores, err = s.stores.ListByOwners(gctx, sc.Downline)
		return err
	})
	g.Go(func() (err error) {
		cities, err = s.units.ListByOwners(gctx, domain.UnitCity, append(cityOwners, caller.AccountID))
		return err
	})
	g.Go(func() (err error) {
		rollups, err = s.recordings.SummarizeByOwners(gctx, repository.RecordingFilter{OwnerIDs: sc.Downline})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.MapError(err)
	}

	managerByContact := map[string]domain.Account{}
	for _, m := range managers {
		managerByContact[m.ContactID] = m
	}
	storeByOwner := map[string]string{}
	for _, st := range stores {
		if _, ok := storeByOwner[st.OwnerAccountID]; !ok {
			storeByOwner[st.OwnerAccountID] = st.Name
		}
	}
	cityByOwner := map[string]string{}
	for _, c := range cities {
		if _, ok := cityByOwner[c.OwnerAccountID]; !ok {
			cityByOwner[c.OwnerAccountID] = c.Name
		}
	}
	rollupByOwner := map[string]repository.RecordingRollup{}
	for _, r := range rollups {
		rollupByOwner[r.OwnerID] = r
	}

	team := make([]TeamMember, 0, len(members))
	for _, m := range members {
		member := TeamMember{
			ID:          m.ID,
			Name:        m.Name,
			ContactID:   m.ContactID,
			Role:        m.Role,
			Status:      m.Status,
			ManagerName: insights.Unknown,
			StoreName:   insights.Unknown,
			CityName:    insights.Unknown,
			LastLoginAt: m.LastLoginAt,
		}
		var manager *domain.Account
		if m.ManagerRef != nil {
			if mgr, ok := managerByContact[*m.ManagerRef]; ok {
				manager = &mgr
				member.ManagerName = mgr.Name
			}
		}
		if name, ok := storeByOwner[m.ID]; ok {
			member.StoreName = name
		}
		if name, ok := cityByOwner[m.ID]; ok {
			member.CityName = name
		} else if m.Role == domain.RoleL0 && manager != nil {
			if name, ok := cityByOwner[manager.ID]; ok {
				member.CityName = name
			}
		}
		if r, ok := rollupByOwner[m.ID]; ok {
			member.RecordingCount = r.Count
			member.RecordingHours = insights.Round2(r.TotalDurationSeconds / 3600)
			member.ListeningHours = insights.Round2(r.TotalListeningSeconds / 3600)
		}
		team = append(team, member)
	}
	return team, nil
}

// ListRegions returns regions headed inside the caller's organization.
// Only L3 and L4 callers may list regions.
func (s *AccountService) ListRegions(ctx context.Context, caller domain.Caller) ([]domain.OrgUnit, error) {
	if !caller.Role.AtLeast(domain.RoleL3) {
		return nil, apperrors.NewForbidden("listing regions requires L3 or above")
	}
	sc, err := s.filter.Narrow(ctx, caller, nil)
	if err != nil {
		return nil, err
	}
	regions, err := s.units.ListByOwners(ctx, domain.UnitRegion, sc.WithRoot())
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return regions, nil
}

// ListStores returns stores operated by the caller or their downline.
func (s *AccountService) ListStores(ctx context.Context, caller domain.Caller) ([]domain.Store, error) {
	sc, err := s.filter.Narrow(ctx, caller, nil)
	if err != nil {
		return nil, err
	}
	stores, err := s.stores.ListByOwners(ctx, sc.WithRoot())
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return stores, nil
}
