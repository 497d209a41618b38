/* models.go
 * This file contain the request and result structs that are used by api consumers
 * Authors: knockout-pool contributors
 */

package api

import (
	"knockout-pool/api/logic"
	"knockout-pool/api/shared"
	"knockout-pool/api/store"
)

// Credentials is the body of register and login
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is returned by a successful login
type Session struct {
	Token string     `json:"token"`
	User  store.User `json:"user"`
}

// Availability is the eligibility result for one user and day
type Availability struct {
	Day           shared.Day     `json:"day"`
	RequiredPicks int            `json:"requiredPicks"`
	Teams         []store.Team   `json:"teams"`
	Fallback      logic.Fallback `json:"fallback,omitempty"`
}

// SubmitRequest creates a pick. Day defaults to the current day when empty
type SubmitRequest struct {
	Day   string                `json:"day"`
	Teams []logic.TeamSelection `json:"teams"`
}

// UpdateRequest replaces the teams on an existing pick
type UpdateRequest struct {
	PickID string                `json:"pickId"`
	Teams  []logic.TeamSelection `json:"teams"`
}

// SettingsRequest appends a settings record. Omitted fields keep their current value
type SettingsRequest struct {
	CurrentDay    string `json:"currentDay"`
	RequiredPicks *int   `json:"requiredPicks"`
}

// AvailabilityRequest maps day labels to the ids of the teams playing that day
type AvailabilityRequest struct {
	Availability map[string][]int `json:"availability"`
}

// RoleRequest sets a user's role
type RoleRequest struct {
	Role string `json:"role"`
}

// StatusRequest sets a user's elimination state and buyback count. Omitted fields keep their current value
type StatusRequest struct {
	Eliminated *bool `json:"eliminated"`
	Buybacks   *int  `json:"buybacks"`
}
