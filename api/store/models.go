/* models.go
 * This file contain the structs and helper functions that relate to DB objects
 * Authors: knockout-pool contributors
 */

package store

import (
	"slices"
	"time"

	"knockout-pool/api/shared"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a registered pool entrant. PasswordHash is never serialised to clients
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	Role         string             `bson:"role" json:"role"`
	Buybacks     int                `bson:"buybacks" json:"buybacks"`
	Eliminated   bool               `bson:"eliminated" json:"eliminated"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// IsAdmin reports whether the stored role grants admin access
func (u User) IsAdmin() bool {
	return u.Role == shared.RoleAdmin
}

// Team is a catalog entry. AvailableDays lists the days the team can be picked on
type Team struct {
	ID            int          `bson:"_id" json:"id" yaml:"id"`
	Name          string       `bson:"name" json:"name" yaml:"name"`
	Seed          int          `bson:"seed" json:"seed" yaml:"seed"`
	Region        string       `bson:"region" json:"region" yaml:"region"`
	AvailableDays []shared.Day `bson:"availableDays" json:"availableDays" yaml:"availableDays"`
}

// AvailableOn reports whether the team is selectable on day
func (t Team) AvailableOn(day shared.Day) bool {
	return slices.Contains(t.AvailableDays, day)
}

// Ref returns the snapshot of the team that is stored on a pick
func (t Team) Ref() TeamRef {
	return TeamRef{ID: t.ID, Name: t.Name, Seed: t.Seed, Region: t.Region}
}

// TeamRef is a team as recorded on a pick. Only ID is authoritative, the rest is kept for display
type TeamRef struct {
	ID     int    `bson:"id" json:"id"`
	Name   string `bson:"name" json:"name"`
	Seed   int    `bson:"seed" json:"seed"`
	Region string `bson:"region" json:"region"`
}

// Pick is one user's submission for one day
type Pick struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      string             `bson:"userId" json:"userId"`
	UserEmail   string             `bson:"userEmail" json:"userEmail"`
	Day         shared.Day         `bson:"day" json:"day"`
	Teams       []TeamRef          `bson:"teams" json:"teams"`
	SubmittedAt time.Time          `bson:"submittedAt" json:"submittedAt"`
	Outcome     shared.Outcome     `bson:"outcome" json:"outcome"`
}

// TeamIDs returns the identifiers of the teams on the pick in submission order
func (p Pick) TeamIDs() []int {
	ids := make([]int, 0, len(p.Teams))
	for _, team := range p.Teams {
		ids = append(ids, team.ID)
	}
	return ids
}

// PoolSettings is one entry of the append-only settings log. The entry with the highest Version is authoritative
// CatalogState is the single marker document recording that team availability has been set by an admin
type CatalogState struct {
	ID                    string    `bson:"_id"`
	AvailabilityUpdatedAt time.Time `bson:"availabilityUpdatedAt"`
}

// availabilityStateID is the _id of the CatalogState document
const availabilityStateID = "availability"

type PoolSettings struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Version       int64              `bson:"version" json:"version"`
	CurrentDay    shared.Day         `bson:"currentDay" json:"currentDay"`
	RequiredPicks int                `bson:"requiredPicks" json:"requiredPicks"`
	UpdatedBy     string             `bson:"updatedBy" json:"updatedBy"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DefaultPoolSettings is returned when no settings have been stored yet
func DefaultPoolSettings() PoolSettings {
	return PoolSettings{
		CurrentDay:    shared.Thursday,
		RequiredPicks: 2,
		UpdatedBy:     "system",
	}
}
