package domain

import "time"

// UserProfile is the full profile returned by the identity endpoint.
type UserProfile struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email,omitempty"`
	FullName    string     `json:"full_name,omitempty"`
	Role        UserRole   `json:"role"`
	BadgeNumber string     `json:"badge_number,omitempty"`
	Department  string     `json:"department,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}

// Clone returns a deep copy so callers cannot mutate store-owned state.
func (u *UserProfile) Clone() *UserProfile {
	if u == nil {
		return nil
	}
	c := *u
	if u.CreatedAt != nil {
		t := *u.CreatedAt
		c.CreatedAt = &t
	}
	if u.LastLogin != nil {
		t := *u.LastLogin
		c.LastLogin = &t
	}
	return &c
}
