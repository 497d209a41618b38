/* store_interface.go
 * Contains the Store interface for dependency injection and testing
 * Authors: knockout-pool contributors
 */

package store

import (
	"context"
	"time"

	"knockout-pool/api/shared"
)

// Interface defines the methods that Store implements.
// This allows for mocking in tests.
type Interface interface {
	EnsureIndexes(ctx context.Context) error

	// users
	CreateUser(ctx context.Context, user User) (User, error)
	GetUserByID(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetAllUsers(ctx context.Context) ([]User, error)
	SetUserRole(ctx context.Context, id string, role string) error
	SetUserStatus(ctx context.Context, id string, eliminated bool, buybacks int) error

	// teams
	GetTeams(ctx context.Context) ([]Team, error)
	GetTeamsForDay(ctx context.Context, day shared.Day) ([]Team, error)
	SeedTeams(ctx context.Context, teams []Team) (int, error)
	ReplaceTeamAvailability(ctx context.Context, availability map[int][]shared.Day, at time.Time) error
	AvailabilityRecorded(ctx context.Context) (bool, error)

	// picks
	InsertPick(ctx context.Context, pick Pick) (Pick, error)
	GetPickByID(ctx context.Context, id string) (Pick, error)
	GetPickForDay(ctx context.Context, userID string, day shared.Day) (Pick, error)
	GetUserPicks(ctx context.Context, userID string) ([]Pick, error)
	GetAllPicks(ctx context.Context) ([]Pick, error)
	ReplacePickTeams(ctx context.Context, id string, teams []TeamRef, submittedAt time.Time) error
	DeletePick(ctx context.Context, id string) error

	// pool settings
	AppendPoolSettings(ctx context.Context, settings PoolSettings) (PoolSettings, error)
	GetLatestPoolSettings(ctx context.Context) (PoolSettings, error)
	GetPoolSettingsAsOf(ctx context.Context, at time.Time) (PoolSettings, error)
	GetPoolSettingsHistory(ctx context.Context) ([]PoolSettings, error)

	GetClient() interface{ Disconnect(context.Context) error }
}

// Ensure Store implements Interface
var _ Interface = (*Store)(nil)

// GetClient returns the MongoDB client
func (s *Store) GetClient() interface{ Disconnect(context.Context) error } {
	return s.Client
}
