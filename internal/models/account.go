package models

import "time"

// Account roles. An account holds exactly one role at a time; the rider role
// requires a linked DeliveryPartner profile.
const (
	RoleCustomer = "customer"
	RoleRider    = "rider"
	RoleAdmin    = "admin"
)

// Account is the persisted user record, including the confirmation, lock and
// failed-login accounting fields owned by the auth service.
type Account struct {
	ID            string     `json:"id" example:"6f1b0cb2-05d4-4f6a-9c3a-0d2b9a9e8f10"`
	Avatar        string     `json:"avatar" example:"https://www.gravatar.com/avatar/abc?s=200"`
	FirstName     string     `json:"firstName" example:"Jane"`
	SurName       string     `json:"surName" example:"Doe"`
	Email         string     `json:"email" example:"jane@example.com"`
	Address       string     `json:"address,omitempty" example:"1 Marina Rd"`
	City          string     `json:"city,omitempty" example:"Lagos"`
	PhoneNumber   string     `json:"phoneNumber,omitempty" example:"+2348012345678"`
	PasswordHash  string     `json:"-"`
	Role          string     `json:"role" example:"customer"`
	IsConfirmed   bool       `json:"isConfirmed" example:"false"`
	IsLocked      bool       `json:"-"`
	LoginAttempts int        `json:"-"`
	LockOTPHash   string     `json:"-"`
	ResetPending  bool       `json:"-"`
	GoogleID      string     `json:"-"`
	LastLogin     *time.Time `json:"lastLogin,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// DisplayName is the name used in transactional mail.
func (a *Account) DisplayName() string {
	return a.FirstName + " " + a.SurName
}

// Summary is the account shape returned to API clients.
type Summary struct {
	ID          string `json:"id"`
	Avatar      string `json:"avatar"`
	FirstName   string `json:"firstName"`
	SurName     string `json:"surName"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	IsConfirmed bool   `json:"isConfirmed"`
}

// Summarize strips credential and security fields from an account.
func (a *Account) Summarize() Summary {
	return Summary{
		ID:          a.ID,
		Avatar:      a.Avatar,
		FirstName:   a.FirstName,
		SurName:     a.SurName,
		Email:       a.Email,
		Role:        a.Role,
		IsConfirmed: a.IsConfirmed,
	}
}
