/* settings.go
 * Contains the admin control surface: pool settings log and per-day team availability
 * Authors: knockout-pool contributors
 */

package api

import (
	"context"
	"errors"
	"time"

	"knockout-pool/api/logic"
	"knockout-pool/api/shared"
	"knockout-pool/api/store"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetSettings returns the authoritative settings, or the settings in force at asOf (RFC3339) when set.
// Defaults are returned when nothing has been stored
func (a *API) GetSettings(ctx context.Context, asOf string) (store.PoolSettings, error) {
	if asOf == "" {
		return a.currentSettings(ctx)
	}

	at, err := time.Parse(time.RFC3339, asOf)
	if err != nil {
		return store.PoolSettings{}, newError(ErrValidation, "asOf must be an RFC3339 timestamp, got '%s'", asOf)
	}
	settings, err := a.Store.GetPoolSettingsAsOf(ctx, at)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.DefaultPoolSettings(), nil
	}
	return settings, err
}

// UpdateSettings appends a new settings record. Omitted fields carry over from the current record
func (a *API) UpdateSettings(ctx context.Context, actorID string, req SettingsRequest) (store.PoolSettings, error) {
	actor, err := a.CheckAdmin(ctx, actorID)
	if err != nil {
		return store.PoolSettings{}, err
	}
	if req.CurrentDay == "" && req.RequiredPicks == nil {
		return store.PoolSettings{}, newError(ErrValidation, "currentDay or requiredPicks is required")
	}

	current, err := a.currentSettings(ctx)
	if err != nil {
		return store.PoolSettings{}, err
	}

	next := current
	if req.CurrentDay != "" {
		if next.CurrentDay, err = shared.ParseDay(req.CurrentDay); err != nil {
			return store.PoolSettings{}, newError(ErrValidation, "%s", err.Error())
		}
	}
	if req.RequiredPicks != nil {
		if *req.RequiredPicks < 1 {
			return store.PoolSettings{}, newError(ErrValidation, "requiredPicks must be at least 1, got %d", *req.RequiredPicks)
		}
		next.RequiredPicks = *req.RequiredPicks
	}

	return a.appendSettings(ctx, actor, next)
}

// AdvanceDay appends a settings record moving the pool to the next tournament day
func (a *API) AdvanceDay(ctx context.Context, actorID string) (store.PoolSettings, error) {
	actor, err := a.CheckAdmin(ctx, actorID)
	if err != nil {
		return store.PoolSettings{}, err
	}

	current, err := a.currentSettings(ctx)
	if err != nil {
		return store.PoolSettings{}, err
	}
	day, ok := current.CurrentDay.Next()
	if !ok {
		return store.PoolSettings{}, newError(ErrValidation, "%s is the last day of the tournament", current.CurrentDay)
	}

	next := current
	next.CurrentDay = day
	return a.appendSettings(ctx, actor, next)
}

// SettingsHistory returns the settings log, newest first
func (a *API) SettingsHistory(ctx context.Context, actorID string) ([]store.PoolSettings, error) {
	if _, err := a.CheckAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return a.Store.GetPoolSettingsHistory(ctx)
}

// SetTeamAvailability replaces the availability of every catalog team with the supplied day mapping.
// Teams not listed under any day become unavailable on every day
func (a *API) SetTeamAvailability(ctx context.Context, actorID string, req AvailabilityRequest) ([]store.Team, error) {
	actor, err := a.CheckAdmin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if req.Availability == nil {
		return nil, newError(ErrValidation, "availability is required")
	}

	mapping := make(map[shared.Day][]int, len(req.Availability))
	for label, ids := range req.Availability {
		day, err := shared.ParseDay(label)
		if err != nil {
			return nil, newError(ErrValidation, "%s", err.Error())
		}
		mapping[day] = append(mapping[day], ids...)
	}

	catalog, err := a.Store.GetTeams(ctx)
	if err != nil {
		return nil, err
	}
	availability, err := logic.BuildAvailability(mapping, catalog)
	if err != nil {
		return nil, newError(ErrValidation, "%s", err.Error())
	}

	if err := a.Store.ReplaceTeamAvailability(ctx, availability, a.Clock.Now().UTC()); err != nil {
		return nil, err
	}
	log.Info().Str("admin", actor.Email).Int("teams", len(availability)).Msg("team availability replaced")

	return a.Store.GetTeams(ctx)
}

func (a *API) currentSettings(ctx context.Context) (store.PoolSettings, error) {
	settings, err := a.Store.GetLatestPoolSettings(ctx)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.DefaultPoolSettings(), nil
	}
	return settings, err
}

func (a *API) appendSettings(ctx context.Context, actor store.User, next store.PoolSettings) (store.PoolSettings, error) {
	next.UpdatedBy = actor.Email
	next.UpdatedAt = a.Clock.Now().UTC()

	stored, err := a.Store.AppendPoolSettings(ctx, next)
	if errors.Is(err, store.ErrSettingsConflict) {
		return store.PoolSettings{}, newError(ErrConflict, "settings were changed concurrently, retry")
	}
	if err != nil {
		return store.PoolSettings{}, err
	}

	log.Info().
		Str("admin", actor.Email).
		Str("day", string(stored.CurrentDay)).
		Int("requiredPicks", stored.RequiredPicks).
		Int64("version", stored.Version).
		Msg("pool settings updated")
	return stored, nil
}
