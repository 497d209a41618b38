/* helpers_test.go
 * Contains shared fixtures for the api tests
 * Authors: knockout-pool contributors
 */

package api

import (
	"context"
	"testing"
	"time"

	"knockout-pool/api/auth"
	"knockout-pool/api/logic"
	"knockout-pool/api/shared"
	"knockout-pool/api/store"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail = "admin@example.com"
	password   = "hunter22"
)

// testCatalog: 1-4 play Thursday, 3 plays again Saturday, 5-6 play Friday
func testCatalog() []store.Team {
	return []store.Team{
		{ID: 1, Name: "Duke", Seed: 1, Region: "East", AvailableDays: []shared.Day{shared.Thursday}},
		{ID: 2, Name: "Alabama", Seed: 2, Region: "West", AvailableDays: []shared.Day{shared.Thursday}},
		{ID: 3, Name: "Houston", Seed: 1, Region: "Midwest", AvailableDays: []shared.Day{shared.Thursday, shared.Saturday}},
		{ID: 4, Name: "Florida", Seed: 1, Region: "West", AvailableDays: []shared.Day{shared.Thursday}},
		{ID: 5, Name: "Auburn", Seed: 1, Region: "South", AvailableDays: []shared.Day{shared.Friday}},
		{ID: 6, Name: "Michigan", Seed: 5, Region: "South", AvailableDays: []shared.Day{shared.Friday}},
	}
}

func newTestAPI(t *testing.T, teams []store.Team) (*API, *MockStore, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC))
	authenticator, err := auth.NewAuthenticator("test-secret", 24*time.Hour, clock)
	require.NoError(t, err)

	ms := NewMockStore(teams)
	a, err := NewAPI(Config{
		Store:       ms,
		Auth:        authenticator,
		Clock:       clock,
		Policy:      logic.Policy{FailOpen: true},
		AdminEmails: []string{" Admin@Example.com "},
	})
	require.NoError(t, err)
	return a, ms, clock
}

func register(t *testing.T, a *API, email string) string {
	t.Helper()
	user, err := a.Register(context.Background(), Credentials{Email: email, Password: password})
	require.NoError(t, err)
	return user.ID.Hex()
}

func byID(ids ...int) []logic.TeamSelection {
	sel := make([]logic.TeamSelection, 0, len(ids))
	for _, id := range ids {
		sel = append(sel, logic.TeamSelection{ID: id})
	}
	return sel
}

func teamIDs(teams []store.Team) []int {
	ids := make([]int, 0, len(teams))
	for _, team := range teams {
		ids = append(ids, team.ID)
	}
	return ids
}

func intPtr(i int) *int {
	return &i
}

func boolPtr(b bool) *bool {
	return &b
}
