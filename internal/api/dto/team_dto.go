package dto

import "time"

// TeamMemberResponse is one downline account.
type TeamMemberResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	ContactID      string     `json:"contact_id"`
	Role           string     `json:"role"`
	Status         string     `json:"status"`
	ManagerName    string     `json:"manager_name"`
	StoreName      string     `json:"store_name"`
	CityName       string     `json:"city_name"`
	RecordingCount int        `json:"recording_count"`
	RecordingHours float64    `json:"recording_hours"`
	ListeningHours float64    `json:"listening_hours"`
	LastLoginAt    *time.Time `json:"last_login_at"`
}

// UnitResponse is a region, state or city.
type UnitResponse struct {
	ID             string `json:"id"`
	Kind           string `json:"kind"`
	Name           string `json:"name"`
	OwnerAccountID string `json:"owner_account_id"`
}

// StoreResponse is a store.
type StoreResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Code           string `json:"code"`
	Address        string `json:"address"`
	OwnerAccountID string `json:"owner_account_id"`
}
