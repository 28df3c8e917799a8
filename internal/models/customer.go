package models

import (
	"time"
)

// Plan is a subscription tier
type Plan string

const (
	PlanFree     Plan = "Free"
	PlanPro      Plan = "Pro"
	PlanBusiness Plan = "Business"
)

// Plans lists every tier in catalog order
var Plans = []Plan{PlanFree, PlanPro, PlanBusiness}

// Customer represents a paying (or free) organisation
type Customer struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Plan       Plan      `json:"plan"`
	Seats      int       `json:"seats"`
	LastActive time.Time `json:"lastActive"`
}

// CustomerPatch is a partial update; nil fields are left untouched.
// Seats is not range-checked once a customer exists.
type CustomerPatch struct {
	Name       *string    `json:"name,omitempty"`
	Email      *string    `json:"email,omitempty"`
	Plan       *Plan      `json:"plan,omitempty" validate:"omitempty,oneof=Free Pro Business"`
	Seats      *int       `json:"seats,omitempty"`
	LastActive *time.Time `json:"lastActive,omitempty"`
}

// Apply merges the patch over c
func (p CustomerPatch) Apply(c *Customer) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Plan != nil {
		c.Plan = *p.Plan
	}
	if p.Seats != nil {
		c.Seats = *p.Seats
	}
	if p.LastActive != nil {
		c.LastActive = *p.LastActive
	}
}
