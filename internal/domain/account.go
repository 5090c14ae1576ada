package domain

import "time"

// AccountStatus enumerates account lifecycle states.
type AccountStatus int

const (
	AccountStatusFailed   AccountStatus = -2
	AccountStatusPending  AccountStatus = -1
	AccountStatusInactive AccountStatus = 0
	AccountStatusActive   AccountStatus = 1
)

func (s AccountStatus) String() string {
	switch s {
	case AccountStatusActive:
		return "active"
	case AccountStatusInactive:
		return "inactive"
	case AccountStatusPending:
		return "pending"
	case AccountStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Account is a member of a business hierarchy.
//
// ContactID is the stable key other accounts reference through ManagerRef.
// ManagerRef is nil only for L4 accounts.
type Account struct {
	ID           string
	Name         string
	ContactID    string
	Code         *string
	Phone        *string
	PasswordHash string
	Role         RoleLevel
	ManagerRef   *string
	BusinessID   string
	Status       AccountStatus
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	ModifiedAt   time.Time
}

// Caller is the authenticated identity attached to a request.
type Caller struct {
	AccountID string
	Role      RoleLevel
}
