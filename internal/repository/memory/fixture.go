package memory

import (
	"github.com/spec-kit/field-insights/internal/domain"
)

// BusinessID is the business every fixture account belongs to.
const BusinessID = "biz-1"

// Org bundles the repositories of a seeded organization.
type Org struct {
	Accounts    *Accounts
	Stores      *Stores
	Units       *Units
	Recordings  *Recordings
	Feedback    *Feedback
	Annotations *Annotations
}

// NewAccount builds an active fixture account whose contact id is derived
// from its id. manager is the manager's account id, empty for roots.
func NewAccount(id string, role domain.RoleLevel, manager string) domain.Account {
	acc := domain.Account{
		ID:         id,
		Name:       "name-" + id,
		ContactID:  id + "@example.com",
		Role:       role,
		BusinessID: BusinessID,
		Status:     domain.AccountStatusActive,
	}
	if manager != "" {
		ref := manager + "@example.com"
		acc.ManagerRef = &ref
	}
	return acc
}

// SampleOrg seeds:
//
//	owner(L4)
//	├── s1(L3) state-1 ── r1(L2) region-1 ── a1(L1) city-1 ── o1 store-1, o2 store-2
//	│                                   └─── a2(L1) city-2 ── o3 store-3
//	└── s2(L3) state-2 ── r2(L2) region-2 ── a3(L1) city-3 ── o4 store-4
//
// plus an unrelated business "biz-2" with owner x4 and operative x0.
func SampleOrg() *Org {
	other := func(acc domain.Account) domain.Account {
		acc.BusinessID = "biz-2"
		return acc
	}
	accounts := NewAccounts(
		NewAccount("owner", domain.RoleL4, ""),
		NewAccount("s1", domain.RoleL3, "owner"),
		NewAccount("s2", domain.RoleL3, "owner"),
		NewAccount("r1", domain.RoleL2, "s1"),
		NewAccount("r2", domain.RoleL2, "s2"),
		NewAccount("a1", domain.RoleL1, "r1"),
		NewAccount("a2", domain.RoleL1, "r1"),
		NewAccount("a3", domain.RoleL1, "r2"),
		NewAccount("o1", domain.RoleL0, "a1"),
		NewAccount("o2", domain.RoleL0, "a1"),
		NewAccount("o3", domain.RoleL0, "a2"),
		NewAccount("o4", domain.RoleL0, "a3"),
		other(NewAccount("x4", domain.RoleL4, "")),
		other(NewAccount("x0", domain.RoleL0, "x4")),
	)

	store := func(id, owner string) domain.Store {
		return domain.Store{ID: id, Name: "Store " + id, Code: id, OwnerAccountID: owner, BusinessID: BusinessID, Status: domain.AccountStatusActive}
	}
	unit := func(kind domain.UnitKind, id, owner string) domain.OrgUnit {
		return domain.OrgUnit{ID: id, Kind: kind, Name: string(kind) + " " + id, OwnerAccountID: owner, Status: domain.AccountStatusActive}
	}

	recordings := NewRecordings()
	return &Org{
		Accounts: accounts,
		Stores: NewStores(
			store("store-1", "o1"),
			store("store-2", "o2"),
			store("store-3", "o3"),
			store("store-4", "o4"),
			domain.Store{ID: "store-x", Name: "Store x", OwnerAccountID: "x0", BusinessID: "biz-2"},
		),
		Units: NewUnits(
			unit(domain.UnitState, "state-1", "s1"),
			unit(domain.UnitState, "state-2", "s2"),
			unit(domain.UnitRegion, "region-1", "r1"),
			unit(domain.UnitRegion, "region-2", "r2"),
			unit(domain.UnitCity, "city-1", "a1"),
			unit(domain.UnitCity, "city-2", "a2"),
			unit(domain.UnitCity, "city-3", "a3"),
		),
		Recordings:  recordings,
		Feedback:    NewFeedback(recordings, nil),
		Annotations: NewAnnotations(),
	}
}
