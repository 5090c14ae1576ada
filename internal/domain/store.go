package domain

import "time"

// Store is a point of sale operated by a field operative.
type Store struct {
	ID             string
	Name           string
	Code           string
	Address        string
	OwnerAccountID string
	BusinessID     string
	Status         AccountStatus
	CreatedAt      time.Time
	ModifiedAt     time.Time
}

// UnitKind names the organizational units a scope can be re-rooted on.
type UnitKind string

const (
	UnitCity   UnitKind = "city"
	UnitRegion UnitKind = "region"
	UnitState  UnitKind = "state"
)

// OrgUnit is a region, state or city headed by a single account.
type OrgUnit struct {
	ID             string
	Kind           UnitKind
	Name           string
	OwnerAccountID string
	Status         AccountStatus
	CreatedAt      time.Time
}
