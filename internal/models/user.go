package models

import (
	"time"
)

// Role is a staff member's access level
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleStaff Role = "Staff"
)

// Status marks whether a staff account may sign in
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// User represents a staff account of the dashboard
type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Status    Status    `json:"status"`
	Plan      Plan      `json:"plan"`
	LastLogin time.Time `json:"lastLogin"`
}

// NewUser is the payload for creating a staff account.
// Plan is optional and defaults to Free; a zero LastLogin is stamped on create.
type NewUser struct {
	Name      string    `json:"name" validate:"required"`
	Email     string    `json:"email" validate:"required"`
	Role      Role      `json:"role" validate:"required,oneof=Admin Staff"`
	Status    Status    `json:"status" validate:"required,oneof=active inactive"`
	Plan      Plan      `json:"plan,omitempty" validate:"omitempty,oneof=Free Pro Business"`
	LastLogin time.Time `json:"lastLogin"`
}

// UserPatch is a partial update; nil fields are left untouched
type UserPatch struct {
	Name      *string    `json:"name,omitempty"`
	Email     *string    `json:"email,omitempty"`
	Role      *Role      `json:"role,omitempty" validate:"omitempty,oneof=Admin Staff"`
	Status    *Status    `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	Plan      *Plan      `json:"plan,omitempty" validate:"omitempty,oneof=Free Pro Business"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// Apply merges the patch over u
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Status != nil {
		u.Status = *p.Status
	}
	if p.Plan != nil {
		u.Plan = *p.Plan
	}
	if p.LastLogin != nil {
		u.LastLogin = *p.LastLogin
	}
}

// StatusPatch returns a patch that only changes the account status
func StatusPatch(s Status) UserPatch {
	return UserPatch{Status: &s}
}
