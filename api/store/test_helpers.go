/* test_helpers.go
 * Contains test helper functions and sample data for store package tests
 * Authors: knockout-pool contributors
 */

package store

import (
	"context"
	"time"

	"knockout-pool/api/shared"
)

// CreateTestStore creates a Store connected to a throwaway test database.
// Returns the store and a cleanup function that drops the database and disconnects.
func CreateTestStore(ctx context.Context, mongoURI string) (*Store, func(), error) {
	store, err := NewStore(ctx, "test_knockout_pool", mongoURI)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if store.Client != nil {
			store.Database.Drop(context.Background())
			store.Client.Disconnect(context.Background())
		}
	}

	return store, cleanup, nil
}

// CreateSampleTeams returns four teams, the first three available on Thursday
func CreateSampleTeams() []Team {
	return []Team{
		{ID: 1, Name: "Team A", Seed: 1, Region: "East", AvailableDays: []shared.Day{shared.Thursday}},
		{ID: 2, Name: "Team B", Seed: 2, Region: "East", AvailableDays: []shared.Day{shared.Thursday}},
		{ID: 3, Name: "Team C", Seed: 1, Region: "West", AvailableDays: []shared.Day{shared.Thursday, shared.Friday}},
		{ID: 4, Name: "Team D", Seed: 2, Region: "West", AvailableDays: []shared.Day{shared.Friday}},
	}
}

// CreateSamplePick creates a pending pick for userID on day with the given teams
func CreateSamplePick(userID string, day shared.Day, teams ...Team) Pick {
	refs := make([]TeamRef, 0, len(teams))
	for _, team := range teams {
		refs = append(refs, team.Ref())
	}
	return Pick{
		UserID:      userID,
		UserEmail:   userID + "@example.com",
		Day:         day,
		Teams:       refs,
		SubmittedAt: time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC),
		Outcome:     shared.OutcomePending,
	}
}
