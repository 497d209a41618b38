/* picks.go
 * Contains the team listing, eligibility, and pick submission use-cases
 * Authors: knockout-pool contributors
 */

package api

import (
	"context"
	"errors"

	"knockout-pool/api/logic"
	"knockout-pool/api/shared"
	"knockout-pool/api/store"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
)

// ListTeams returns the catalog, or only the teams available on day when day is set
func (a *API) ListTeams(ctx context.Context, day string) ([]store.Team, error) {
	if day == "" {
		return a.Store.GetTeams(ctx)
	}
	d, err := shared.ParseDay(day)
	if err != nil {
		return nil, newError(ErrValidation, "%s", err.Error())
	}
	return a.Store.GetTeamsForDay(ctx, d)
}

// AvailableTeams runs the eligibility engine for the user.
// Preconditions: Receives the user id, an optional day (defaults to the current day) and an optional pick id naming
// a pick of the user that is being edited
// Postconditions: Returns the teams the user may choose, or an error if the input is invalid
func (a *API) AvailableTeams(ctx context.Context, userID string, day string, pickID string) (Availability, error) {
	settings, err := a.currentSettings(ctx)
	if err != nil {
		return Availability{}, err
	}

	var editing *store.Pick
	if pickID != "" {
		pick, err := a.ownPick(ctx, userID, pickID)
		if err != nil {
			return Availability{}, err
		}
		editing = &pick
		if day == "" {
			day = string(pick.Day)
		}
	}

	d, err := resolveDay(day, settings)
	if err != nil {
		return Availability{}, err
	}
	if editing != nil && editing.Day != d {
		return Availability{}, newError(ErrValidation, "pick %s is for %s, not %s", pickID, editing.Day, d)
	}

	eligible, _, err := a.eligibility(ctx, userID, d, editing, settings.RequiredPicks)
	if err != nil {
		return Availability{}, err
	}

	return Availability{
		Day:           d,
		RequiredPicks: settings.RequiredPicks,
		Teams:         eligible.Teams,
		Fallback:      eligible.Fallback,
	}, nil
}

// ListPicks returns every pick of the user
func (a *API) ListPicks(ctx context.Context, userID string) ([]store.Pick, error) {
	return a.Store.GetUserPicks(ctx, userID)
}

// SubmitPicks creates the user's pick for a day.
// Preconditions: Receives the user id and the submitted teams. The team count must match the required picks read now
// Postconditions: Returns the stored pick, or an error if the submission is invalid or a pick for the day exists
func (a *API) SubmitPicks(ctx context.Context, userID string, req SubmitRequest) (store.Pick, error) {
	user, err := a.GetUser(ctx, userID)
	if err != nil {
		return store.Pick{}, err
	}

	settings, err := a.currentSettings(ctx)
	if err != nil {
		return store.Pick{}, err
	}
	day, err := resolveDay(req.Day, settings)
	if err != nil {
		return store.Pick{}, err
	}
	if err := logic.CheckPickCount(req.Teams, settings.RequiredPicks); err != nil {
		return store.Pick{}, newError(ErrValidation, "%s", err.Error())
	}

	_, err = a.Store.GetPickForDay(ctx, userID, day)
	if err == nil {
		return store.Pick{}, newError(ErrConflict, "picks for %s already submitted, update the existing pick instead", day)
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return store.Pick{}, err
	}

	teams, err := a.resolveTeams(ctx, userID, day, nil, req.Teams, settings.RequiredPicks)
	if err != nil {
		return store.Pick{}, err
	}

	pick, err := a.Store.InsertPick(ctx, store.Pick{
		UserID:      userID,
		UserEmail:   user.Email,
		Day:         day,
		Teams:       teams,
		SubmittedAt: a.Clock.Now().UTC(),
		Outcome:     shared.OutcomePending,
	})
	if errors.Is(err, store.ErrDuplicatePick) {
		return store.Pick{}, newError(ErrConflict, "picks for %s already submitted, update the existing pick instead", day)
	}
	if err != nil {
		return store.Pick{}, err
	}
	return pick, nil
}

// UpdatePicks replaces the teams on one of the user's picks and refreshes its submission time
func (a *API) UpdatePicks(ctx context.Context, userID string, req UpdateRequest) (store.Pick, error) {
	if req.PickID == "" {
		return store.Pick{}, newError(ErrValidation, "pickId is required")
	}
	pick, err := a.ownPick(ctx, userID, req.PickID)
	if err != nil {
		return store.Pick{}, err
	}

	settings, err := a.currentSettings(ctx)
	if err != nil {
		return store.Pick{}, err
	}
	if err := logic.CheckPickCount(req.Teams, settings.RequiredPicks); err != nil {
		return store.Pick{}, newError(ErrValidation, "%s", err.Error())
	}

	teams, err := a.resolveTeams(ctx, userID, pick.Day, &pick, req.Teams, settings.RequiredPicks)
	if err != nil {
		return store.Pick{}, err
	}

	now := a.Clock.Now().UTC()
	err = a.Store.ReplacePickTeams(ctx, req.PickID, teams, now)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.Pick{}, newError(ErrNotFound, "pick %s not found", req.PickID)
	}
	if err != nil {
		return store.Pick{}, err
	}

	pick.Teams = teams
	pick.SubmittedAt = now
	return pick, nil
}

// DeletePick removes a pick. The owner or an admin may delete it
func (a *API) DeletePick(ctx context.Context, userID string, pickID string) error {
	pick, err := a.Store.GetPickByID(ctx, pickID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return newError(ErrNotFound, "pick %s not found", pickID)
	}
	if err != nil {
		return err
	}

	if pick.UserID != userID {
		if _, err := a.CheckAdmin(ctx, userID); err != nil {
			if errors.Is(err, ErrForbidden) {
				return newError(ErrForbidden, "only the owner or an admin can delete this pick")
			}
			return err
		}
		log.Info().Str("admin", userID).Str("pick", pickID).Str("owner", pick.UserID).Msg("admin deleted pick")
	}

	err = a.Store.DeletePick(ctx, pickID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return newError(ErrNotFound, "pick %s not found", pickID)
	}
	return err
}

// AdminPicks lists the picks of every user
func (a *API) AdminPicks(ctx context.Context, actorID string) ([]store.Pick, error) {
	if _, err := a.CheckAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return a.Store.GetAllPicks(ctx)
}

// ownPick fetches a pick and checks the user owns it
func (a *API) ownPick(ctx context.Context, userID string, pickID string) (store.Pick, error) {
	pick, err := a.Store.GetPickByID(ctx, pickID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.Pick{}, newError(ErrNotFound, "pick %s not found", pickID)
	}
	if err != nil {
		return store.Pick{}, err
	}
	if pick.UserID != userID {
		return store.Pick{}, newError(ErrForbidden, "pick %s belongs to another user", pickID)
	}
	return pick, nil
}

// eligibility loads the catalog and the user's picks and runs the engine. Fail-open results are logged
func (a *API) eligibility(ctx context.Context, userID string, day shared.Day, editing *store.Pick, required int) (logic.Eligibility, []store.Team, error) {
	catalog, err := a.Store.GetTeams(ctx)
	if err != nil {
		return logic.Eligibility{}, nil, err
	}
	recorded, err := a.Store.AvailabilityRecorded(ctx)
	if err != nil {
		return logic.Eligibility{}, nil, err
	}
	picks, err := a.Store.GetUserPicks(ctx, userID)
	if err != nil {
		return logic.Eligibility{}, nil, err
	}

	eligible := logic.AvailableTeams(logic.EligibilityRequest{
		Catalog:         catalog,
		Picks:           picks,
		Day:             day,
		Editing:         editing,
		RequiredPicks:   required,
		AvailabilitySet: recorded,
	}, a.Policy)

	if eligible.Fallback != logic.FallbackNone {
		log.Warn().
			Str("user", userID).
			Str("day", string(day)).
			Str("reason", string(eligible.Fallback)).
			Int("teams", len(eligible.Teams)).
			Msg("eligibility fail-open")
	}
	return eligible, catalog, nil
}

// resolveTeams validates the submitted teams against the eligibility result and returns their snapshots
func (a *API) resolveTeams(ctx context.Context, userID string, day shared.Day, editing *store.Pick, selections []logic.TeamSelection, required int) ([]store.TeamRef, error) {
	eligible, catalog, err := a.eligibility(ctx, userID, day, editing, required)
	if err != nil {
		return nil, err
	}

	teams, err := logic.ResolveSelection(selections, catalog, eligible)
	if err != nil {
		return nil, newError(ErrValidation, "%s", err.Error())
	}

	refs := make([]store.TeamRef, 0, len(teams))
	for _, team := range teams {
		refs = append(refs, team.Ref())
	}
	return refs, nil
}

func resolveDay(day string, settings store.PoolSettings) (shared.Day, error) {
	if day == "" {
		return settings.CurrentDay, nil
	}
	d, err := shared.ParseDay(day)
	if err != nil {
		return "", newError(ErrValidation, "%s", err.Error())
	}
	return d, nil
}
