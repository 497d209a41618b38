/* picks_test.go
 * Contains unit tests for picks.go
 * Authors: knockout-pool contributors
 */

package api

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"knockout-pool/api/logic"
	"knockout-pool/api/shared"
	"knockout-pool/api/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// region scenario

func TestPickLifecycle_Scenario(t *testing.T) {
	ctx := context.Background()
	a, _, _ := newTestAPI(t, testCatalog())
	userA := register(t, a, "a@example.com")

	avail, err := a.AvailableTeams(ctx, userA, "Thursday", "")
	require.NoError(t, err)
	assert.Equal(t, shared.Thursday, avail.Day)
	assert.Equal(t, 2, avail.RequiredPicks)
	assert.Equal(t, []int{1, 2, 3, 4}, teamIDs(avail.Teams))
	assert.Equal(t, logic.FallbackNone, avail.Fallback)

	pick, err := a.SubmitPicks(ctx, userA, SubmitRequest{Day: "Thursday", Teams: byID(1, 2)})
	require.NoError(t, err)
	assert.False(t, pick.ID.IsZero())
	assert.Equal(t, shared.OutcomePending, pick.Outcome)
	assert.Equal(t, []int{1, 2}, pick.TeamIDs())

	avail, err = a.AvailableTeams(ctx, userA, "Thursday", "")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, teamIDs(avail.Teams))

	_, err = a.SubmitPicks(ctx, userA, SubmitRequest{Day: "Thursday", Teams: byID(3, 4)})
	assert.ErrorIs(t, err, ErrConflict)

	updated, err := a.UpdatePicks(ctx, userA, UpdateRequest{PickID: pick.ID.Hex(), Teams: byID(3, 4)})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, updated.TeamIDs())

	picks, err := a.ListPicks(ctx, userA)
	require.NoError(t, err)
	require.Len(t, picks, 1)
	assert.Equal(t, []int{3, 4}, picks[0].TeamIDs())
}

// endregion

// region AvailableTeams tests

func TestAvailableTeams_UsedTeamsExcludedOnLaterDays(t *testing.T) {
	ctx := context.Background()
	a, _, _ := newTestAPI(t, testCatalog())
	user := register(t, a, "a@example.com")

	_, err := a.SubmitPicks(ctx, user, SubmitRequest{Day: "Thursday", Teams: byID(3, 4)})
	require.NoError(t, err)

	// Houston plays again Saturday but is used up; fail-open widens to every unused team
	avail, err := a.AvailableTeams(ctx, user, "Saturday", "")
	require.NoError(t, err)
	assert.NotContains(t, teamIDs(avail.Teams), 3)
	assert.NotContains(t, teamIDs(avail.Teams), 4)
	assert.Equal(t, logic.FallbackWidened, avail.Fallback)
}

func TestAvailableTeams_DefaultsToCurrentDay(t *testing.T) {
	ctx := context.Background()
	a, ms, _ := newTestAPI(t, testCatalog())
	user := register(t, a, "a@example.com")
	ms.Settings = []store.PoolSettings{{Version: 1, CurrentDay: shared.Friday, RequiredPicks: 2}}

	avail, err := a.AvailableTeams(ctx, user, "", "")
	require.NoError(t, err)
	assert.Equal(t, shared.Friday, avail.Day)
	assert.Equal(t, []int{5, 6}, teamIDs(avail.Teams))
}

func TestAvailableTeams_NoAvailabilityRecorded(t *testing.T) {
	a, _, _ := newTestAPI(t, store.DefaultTeamCatalog())
	user := register(t, a, "a@example.com")

	avail, err := a.AvailableTeams(context.Background(), user, "Thursday", "")
	require.NoError(t, err)
	assert.Len(t, avail.Teams, 16)
	assert.Equal(t, logic.FallbackCatalog, avail.Fallback)
}

func TestAvailableTeams_EditContext(t *testing.T) {
	ctx := context.Background()
	a, _, _ := newTestAPI(t, testCatalog())
	user := register(t, a, "a@example.com")
	other := register(t, a, "b@example.com")

	pick, err := a.SubmitPicks(ctx, user, SubmitRequest{Day: "Thursday", Teams: byID(1, 2)})
	require.NoError(t, err)

	avail, err := a.AvailableTeams(ctx, user, "", pick.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, shared.Thursday, avail.Day)
	assert.Equal(t, []int{1, 2, 3, 4}, teamIDs(avail.Teams))

	_, err = a.AvailableTeams(ctx, other, "", pick.ID.Hex())
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = a.AvailableTeams(ctx, user, "Friday", pick.ID.Hex())
	assert.ErrorIs(t, err, ErrValidation)

	_, err = a.AvailableTeams(ctx, user, "", "64b000000000000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAvailableTeams_UnknownDay(t *testing.T) {
	a, _, _ := newTestAPI(t, testCatalog())
	user := register(t, a, "a@example.com")

	_, err := a.AvailableTeams(context.Background(), user, "Someday", "")
	assert.ErrorIs(t, err, ErrValidation)
}

// endregion

// region ListTeams tests

func TestListTeams(t *testing.T) {
	a, _, _ := newTestAPI(t, testCatalog())

	all, err := a.ListTeams(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 6)

	saturday, err := a.ListTeams(context.Background(), "saturday")
	require.NoError(t, err)
	assert.Equal(t, []int{3}, teamIDs(saturday))

	_, err = a.ListTeams(context.Background(), "Someday")
	assert.ErrorIs(t, err, ErrValidation)
}

// endregion

// region SubmitPicks tests

func TestSubmitPicks_WrongCountAlwaysRejected(t *testing.T) {
	ctx := context.Background()
	for _, required := range []int{1, 2, 3} {
		a, ms, _ := newTestAPI(t, testCatalog())
		user := register(t, a, "a@example.com")
		ms.Settings = []store.PoolSettings{{Version: 1, CurrentDay: shared.Thursday, RequiredPicks: required}}

		for _, n := range []int{0, required - 1, required + 1} {
			ids := []int{1, 2, 3, 4}[:n]
			_, err := a.SubmitPicks(ctx, user, SubmitRequest{Teams: byID(ids...)})
			assert.ErrorIs(t, err, ErrValidation, "required %d, submitted %d", required, n)
		}

		_, err := a.SubmitPicks(ctx, user, SubmitRequest{Teams: byID([]int{1, 2, 3, 4}[:required]...)})
		assert.NoError(t, err, "required %d", required)
	}
}

func TestSubmitPicks_RequiredPicksReadAtSubmission(t *testing.T) {
	ctx := context.Background()
	a, _, _ := newTestAPI(t, testCatalog())
	admin := register(t, a, adminEmail)
	user := register(t, a, "a@example.com")

	avail, err := a.AvailableTeams(ctx, user, "Thursday", "")
	require.NoError(t, err)
	require.Equal(t, 2, avail.RequiredPicks)

	_, err = a.UpdateSettings(ctx, admin, SettingsRequest{RequiredPicks: intPtr(3)})
	require.NoError(t, err)

	_, err = a.SubmitPicks(ctx, user, SubmitRequest{Teams: byID(1, 2)})
	assert.ErrorIs(t, err, ErrValidation)

	pick, err := a.SubmitPicks(ctx, user, SubmitRequest{Teams: byID(1, 2, 3)})
	require.NoError(t, err)

	_, err = a.UpdateSettings(ctx, admin, SettingsRequest{RequiredPicks: intPtr(1)})
	require.NoError(t, err)

	_, err = a.UpdatePicks(ctx, user, UpdateRequest{PickID: pick.ID.Hex(), Teams: byID(1, 2, 3)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = a.UpdatePicks(ctx, user, UpdateRequest{PickID: pick.ID.Hex(), Teams: byID(4)})
	assert.NoError(t, err)
}

func TestSubmitPicks_ByName(t *testing.T) {
	a, _, _ := newTestAPI(t, testCatalog())
	user := register(t, a, "a@example.com")

	pick, err := a.SubmitPicks(context.Background(), user, SubmitRequest{
		Day:   "Friday",
		Teams: []logic.TeamSelection{{Name: "auburn"}, {Name: "Michigan"}},
	})
	require.NoError(t, err)
	assert.Equal(t, shared.Friday, pick.Day)
	assert.Equal(t, []int{5, 6}, pick.TeamIDs())
	assert.Equal(t, "Auburn", pick.Teams[0].Name)
	assert.Equal(t, "a@example.com", pick.UserEmail)
}

func TestSubmitPicks_IneligibleTeams(t *testing.T) {
	ctx := context.Background()
	a, _, _ := newTestAPI(t, testCatalog())
	user := register(t, a, "a@example.com")

	// Auburn does not play Thursday
	_, err := a.SubmitPicks(ctx, user, SubmitRequest{Day: "Thursday", Teams: byID(1, 5)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = a.SubmitPicks(ctx, user, SubmitRequest{Day: "Thursday", Teams: byID(1, 1)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = a.SubmitPicks(ctx, user, SubmitRequest{Day: "Thursday", Teams: byID(1, 99)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = a.SubmitPicks(ctx, user, SubmitRequest{Day: "Thursday", Teams: byID(1, 2)})
	require.NoError(t, err)

	// Duke is used up for good
	_, err = a.SubmitPicks(ctx, user, SubmitRequest{Day: "Friday", Teams: byID(1, 5)})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubmitPicks_ConcurrentSameDay(t *testing.T) {
	ctx := context.Background()
	a, ms, _ := newTestAPI(t, testCatalog())
	user := register(t, a, "a@example.com")

	// both submissions pass the existence check before either inserts
	var arrived sync.WaitGroup
	arrived.Add(2)
	ms.BeforeInsertPick = func() {
		arrived.Done()
		arrived.Wait()
	}

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, ids := range [][]int{{1, 2}, {3, 4}} {
		wg.Add(1)
		go func(i int, ids []int) {
			defer wg.Done()
			_, errs[i] = a.SubmitPicks(ctx, user, SubmitRequest{Day: "Thursday", Teams: byID(ids...)})
		}(i, ids)
	}
	wg.Wait()

	succeeded, conflicted := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrConflict):
			conflicted++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)
	assert.Len(t, ms.Picks, 1)
}

func TestSubmitPicks_StoreErrors(t *testing.T) {
	ctx := context.Background()
	a, ms, _ := newTestAPI(t, testCatalog())
	user := register(t, a, "a@example.com")

	ms.GetPoolSettingsError = errors.New("settings unavailable")
	_, err := a.SubmitPicks(ctx, user, SubmitRequest{Teams: byID(1, 2)})
	assert.EqualError(t, err, "settings unavailable")
	ms.GetPoolSettingsError = nil

	ms.InsertPickError = errors.New("write failed")
	_, err = a.SubmitPicks(ctx, user, SubmitRequest{Teams: byID(1, 2)})
	assert.EqualError(t, err, "write failed")
}

func TestSubmitPicks_UnknownUser(t *testing.T) {
	a, _, _ := newTestAPI(t, testCatalog())

	_, err := a.SubmitPicks(context.Background(), "64b000000000000000000000", SubmitRequest{Teams: byID(1, 2)})
	assert.ErrorIs(t, err, ErrNotFound)
}

// endregion

// region UpdatePicks tests

func TestUpdatePicks_OwnerOnly(t *testing.T) {
	ctx := context.Background()
	a, _, _ := newTestAPI(t, testCatalog())
	admin := register(t, a, adminEmail)
	owner := register(t, a, "a@example.com")
	other := register(t, a, "b@example.com")

	pick, err := a.SubmitPicks(ctx, owner, SubmitRequest{Teams: byID(1, 2)})
	require.NoError(t, err)

	_, err = a.UpdatePicks(ctx, other, UpdateRequest{PickID: pick.ID.Hex(), Teams: byID(3, 4)})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = a.UpdatePicks(ctx, admin, UpdateRequest{PickID: pick.ID.Hex(), Teams: byID(3, 4)})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = a.UpdatePicks(ctx, owner, UpdateRequest{PickID: pick.ID.Hex(), Teams: byID(2, 3)})
	assert.NoError(t, err)
}

func TestUpdatePicks_RefreshesTimestampAndOverwrites(t *testing.T) {
	ctx := context.Background()
	a, ms, clock := newTestAPI(t, testCatalog())
	user := register(t, a, "a@example.com")

	pick, err := a.SubmitPicks(ctx, user, SubmitRequest{Teams: byID(1, 2)})
	require.NoError(t, err)

	clock.Advance(time.Hour)
	updated, err := a.UpdatePicks(ctx, user, UpdateRequest{PickID: pick.ID.Hex(), Teams: byID(2, 4)})
	require.NoError(t, err)

	assert.Equal(t, pick.SubmittedAt.Add(time.Hour), updated.SubmittedAt)
	stored := ms.Picks[pick.ID.Hex()]
	assert.Equal(t, []int{2, 4}, stored.TeamIDs())
	assert.Equal(t, updated.SubmittedAt, stored.SubmittedAt)
}

func TestUpdatePicks_KeepsTeamNoLongerAvailable(t *testing.T) {
	ctx := context.Background()
	a, ms, _ := newTestAPI(t, testCatalog())
	user := register(t, a, "a@example.com")

	pick, err := a.SubmitPicks(ctx, user, SubmitRequest{Teams: byID(1, 2)})
	require.NoError(t, err)

	// Duke is removed from Thursday after the pick was made
	ms.Teams[0].AvailableDays = nil

	_, err = a.UpdatePicks(ctx, user, UpdateRequest{PickID: pick.ID.Hex(), Teams: byID(1, 3)})
	assert.NoError(t, err)
}

func TestUpdatePicks_Errors(t *testing.T) {
	ctx := context.Background()
	a, _, _ := newTestAPI(t, testCatalog())
	user := register(t, a, "a@example.com")

	_, err := a.UpdatePicks(ctx, user, UpdateRequest{Teams: byID(1, 2)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = a.UpdatePicks(ctx, user, UpdateRequest{PickID: "64b000000000000000000000", Teams: byID(1, 2)})
	assert.ErrorIs(t, err, ErrNotFound)
}

// endregion

// region DeletePick tests

func TestDeletePick_OwnerOrAdmin(t *testing.T) {
	ctx := context.Background()
	a, ms, _ := newTestAPI(t, testCatalog())
	admin := register(t, a, adminEmail)
	owner := register(t, a, "a@example.com")
	other := register(t, a, "b@example.com")

	first, err := a.SubmitPicks(ctx, owner, SubmitRequest{Day: "Thursday", Teams: byID(1, 2)})
	require.NoError(t, err)
	second, err := a.SubmitPicks(ctx, owner, SubmitRequest{Day: "Friday", Teams: byID(5, 6)})
	require.NoError(t, err)

	err = a.DeletePick(ctx, other, first.ID.Hex())
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, a.DeletePick(ctx, owner, first.ID.Hex()))
	require.NoError(t, a.DeletePick(ctx, admin, second.ID.Hex()))
	assert.Empty(t, ms.Picks)

	err = a.DeletePick(ctx, owner, first.ID.Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePick_DemotedAdminRejected(t *testing.T) {
	ctx := context.Background()
	a, ms, _ := newTestAPI(t, testCatalog())
	admin := register(t, a, adminEmail)
	owner := register(t, a, "a@example.com")

	pick, err := a.SubmitPicks(ctx, owner, SubmitRequest{Teams: byID(1, 2)})
	require.NoError(t, err)

	// the role is re-read from the store, not taken from the token
	require.NoError(t, ms.SetUserRole(ctx, admin, shared.RoleUser))

	err = a.DeletePick(ctx, admin, pick.ID.Hex())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeletePick_FreesDayAndTeams(t *testing.T) {
	ctx := context.Background()
	a, _, _ := newTestAPI(t, testCatalog())
	user := register(t, a, "a@example.com")

	pick, err := a.SubmitPicks(ctx, user, SubmitRequest{Teams: byID(1, 2)})
	require.NoError(t, err)
	require.NoError(t, a.DeletePick(ctx, user, pick.ID.Hex()))

	_, err = a.SubmitPicks(ctx, user, SubmitRequest{Teams: byID(1, 2)})
	assert.NoError(t, err)
}

// endregion

// region AdminPicks tests

func TestAdminPicks(t *testing.T) {
	ctx := context.Background()
	a, _, clock := newTestAPI(t, testCatalog())
	admin := register(t, a, adminEmail)
	u1 := register(t, a, "a@example.com")
	u2 := register(t, a, "b@example.com")

	_, err := a.SubmitPicks(ctx, u1, SubmitRequest{Teams: byID(1, 2)})
	require.NoError(t, err)
	clock.Advance(time.Minute)
	_, err = a.SubmitPicks(ctx, u2, SubmitRequest{Teams: byID(1, 2)})
	require.NoError(t, err)

	picks, err := a.AdminPicks(ctx, admin)
	require.NoError(t, err)
	require.Len(t, picks, 2)
	assert.Equal(t, u1, picks[0].UserID)
	assert.Equal(t, u2, picks[1].UserID)

	_, err = a.AdminPicks(ctx, u1)
	assert.ErrorIs(t, err, ErrForbidden)
}

// endregion
