package hierarchy

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/field-insights/internal/domain"
)

type fakeAccounts struct {
	byID          map[string]domain.Account
	order         []string
	managerCalls  int
	businessCalls int
}

func newFakeAccounts(accounts ...domain.Account) *fakeAccounts {
	f := &fakeAccounts{byID: map[string]domain.Account{}}
	for _, a := range accounts {
		f.add(a)
	}
	return f
}

func (f *fakeAccounts) add(a domain.Account) {
	if _, ok := f.byID[a.ID]; !ok {
		f.order = append(f.order, a.ID)
	}
	f.byID[a.ID] = a
}

func (f *fakeAccounts) GetByID(_ context.Context, id string) (*domain.Account, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &a, nil
}

func (f *fakeAccounts) ListByManagerRefs(_ context.Context, businessID string, refs []string) ([]domain.Account, error) {
	f.managerCalls++
	wanted := map[string]struct{}{}
	for _, ref := range refs {
		wanted[ref] = struct{}{}
	}
	var out []domain.Account
	for _, id := range f.order {
		a := f.byID[id]
		if a.BusinessID != businessID || a.ManagerRef == nil {
			continue
		}
		if _, ok := wanted[*a.ManagerRef]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAccounts) ListByBusiness(_ context.Context, businessID string) ([]domain.Account, error) {
	f.businessCalls++
	var out []domain.Account
	for _, id := range f.order {
		if a := f.byID[id]; a.BusinessID == businessID {
			out = append(out, a)
		}
	}
	return out, nil
}

func account(id string, role domain.RoleLevel, manager string) domain.Account {
	a := domain.Account{
		ID:         id,
		Name:       "name-" + id,
		ContactID:  id + "@example.com",
		Role:       role,
		BusinessID: "biz-1",
		Status:     domain.AccountStatusActive,
	}
	if manager != "" {
		ref := manager + "@example.com"
		a.ManagerRef = &ref
	}
	return a
}

// orgTree builds:
//
//	owner(L4)
//	├── s1(L3) ── r1(L2) ── a1(L1) ── o1,o2(L0)
//	│              └──────── a2(L1) ── o3(L0)
//	└── s2(L3) ── r2(L2) ── a3(L1) ── o4(L0)
func orgTree() *fakeAccounts {
	return newFakeAccounts(
		account("owner", domain.RoleL4, ""),
		account("s1", domain.RoleL3, "owner"),
		account("s2", domain.RoleL3, "owner"),
		account("r1", domain.RoleL2, "s1"),
		account("r2", domain.RoleL2, "s2"),
		account("a1", domain.RoleL1, "r1"),
		account("a2", domain.RoleL1, "r1"),
		account("a3", domain.RoleL1, "r2"),
		account("o1", domain.RoleL0, "a1"),
		account("o2", domain.RoleL0, "a1"),
		account("o3", domain.RoleL0, "a2"),
		account("o4", domain.RoleL0, "a3"),
	)
}

func sortedIDs(accounts []domain.Account) []string {
	ids := IDs(accounts)
	sort.Strings(ids)
	return ids
}
