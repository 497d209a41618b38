/* teams.go
 * Contains the methods for interacting with the teams collection (the team catalog) and its catalog state marker
 * Authors: knockout-pool contributors
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"knockout-pool/api/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetTeams returns the whole catalog ordered by team id
func (s *Store) GetTeams(ctx context.Context) ([]Team, error) {
	return s.findTeams(ctx, bson.D{})
}

// GetTeamsForDay returns the teams whose availability contains day
func (s *Store) GetTeamsForDay(ctx context.Context, day shared.Day) ([]Team, error) {
	return s.findTeams(ctx, bson.D{{Key: "availableDays", Value: day}})
}

func (s *Store) findTeams(ctx context.Context, filter bson.D) ([]Team, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.Collections.Teams.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching teams from db: %w", err)
	}

	teams := []Team{}
	if err = cursor.All(ctx, &teams); err != nil {
		return nil, fmt.Errorf("error unpacking cursor into slice of teams: %w", err)
	}
	return teams, nil
}

// SeedTeams populates the catalog if it is empty. An existing catalog is never overwritten
// Preconditions: Receives the teams to insert
// Postconditions: Returns the number of inserted teams (0 if the catalog already had data), or an error if it occurs
func (s *Store) SeedTeams(ctx context.Context, teams []Team) (int, error) {
	if len(teams) == 0 {
		return 0, fmt.Errorf("team catalog has length 0, requires at least 1")
	}

	count, err := s.Collections.Teams.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	docs := make([]interface{}, 0, len(teams))
	for _, team := range teams {
		if team.AvailableDays == nil {
			team.AvailableDays = []shared.Day{}
		}
		docs = append(docs, team)
	}

	res, err := s.Collections.Teams.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("failed to insert team catalog: %w", err)
	}
	return len(res.InsertedIDs), nil
}

// ReplaceTeamAvailability overwrites the availability of every team in the catalog inside a single transaction.
// Teams missing from availability end up available on no day. The catalog state marker is written in the same
// transaction, so an empty mapping is still recorded as set. Transactions require a replica set deployment
// Preconditions: Receives a map of team id to the full list of days that team is available on, and the update time
// Postconditions: Either every team and the marker are updated or nothing is; returns an error if it occurs
func (s *Store) ReplaceTeamAvailability(ctx context.Context, availability map[int][]shared.Day, at time.Time) error {
	session, err := s.Client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		teams, err := s.findTeams(sc, bson.D{})
		if err != nil {
			return nil, err
		}

		models := make([]mongo.WriteModel, 0, len(teams))
		for _, team := range teams {
			days := append([]shared.Day{}, availability[team.ID]...)
			sort.Slice(days, func(i, j int) bool { return days[i].Index() < days[j].Index() })
			models = append(models, mongo.NewUpdateOneModel().
				SetFilter(bson.M{"_id": team.ID}).
				SetUpdate(bson.M{"$set": bson.M{"availableDays": days}}))
		}
		if len(models) > 0 {
			if _, err := s.Collections.Teams.BulkWrite(sc, models); err != nil {
				return nil, fmt.Errorf("failed to update team availability: %w", err)
			}
		}

		_, err = s.Collections.CatalogState.UpdateOne(sc,
			bson.M{"_id": availabilityStateID},
			bson.M{"$set": bson.M{"availabilityUpdatedAt": at}},
			options.Update().SetUpsert(true))
		if err != nil {
			return nil, fmt.Errorf("failed to record availability update: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("team availability transaction failed: %w", err)
	}
	return nil
}

// AvailabilityRecorded reports whether ReplaceTeamAvailability has ever committed, including with an empty mapping
// Preconditions: Store is connected
// Postconditions: Returns true once the catalog state marker exists, or an error if it occurs
func (s *Store) AvailabilityRecorded(ctx context.Context) (bool, error) {
	var state CatalogState
	err := s.Collections.CatalogState.FindOne(ctx, bson.M{"_id": availabilityStateID}).Decode(&state)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read catalog state: %w", err)
	}
	return true, nil
}
