package dto

import "time"

// LoginRequest payload.
type LoginRequest struct {
	ContactID string `json:"contact_id"`
	Password  string `json:"password"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	ExpiresAt   time.Time       `json:"expires_at"`
	Account     AccountResponse `json:"account"`
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	ContactID   string     `json:"contact_id"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}
