/* picks.go
 * Contains the methods for interacting with the picks collection (the pick ledger)
 * Authors: knockout-pool contributors
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"knockout-pool/api/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InsertPick stores a new pick. The unique (userId, day) index rejects a second pick for the same day even when two
// submissions race past the existence check
// Preconditions: Receives a Pick with UserID, Day and Teams set
// Postconditions: Returns the stored pick with its ID, ErrDuplicatePick if one exists for the day, or an error if it occurs
func (s *Store) InsertPick(ctx context.Context, pick Pick) (Pick, error) {
	pick.ID = primitive.NilObjectID
	res, err := s.Collections.Picks.InsertOne(ctx, pick)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Pick{}, ErrDuplicatePick
		}
		return Pick{}, fmt.Errorf("failed to insert new pick: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		pick.ID = id
	}
	return pick, nil
}

// GetPickByID looks up a pick by the hex form of its ObjectID
// Postconditions: Returns the pick, mongo.ErrNoDocuments if it doesn't exist or the id is malformed, or an error if it occurs
func (s *Store) GetPickByID(ctx context.Context, id string) (Pick, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Pick{}, mongo.ErrNoDocuments
	}
	return s.findPick(ctx, bson.M{"_id": oid})
}

// GetPickForDay returns the user's pick for day, or mongo.ErrNoDocuments
func (s *Store) GetPickForDay(ctx context.Context, userID string, day shared.Day) (Pick, error) {
	return s.findPick(ctx, bson.M{"userId": userID, "day": day})
}

func (s *Store) findPick(ctx context.Context, filter bson.M) (Pick, error) {
	var pick Pick
	err := s.Collections.Picks.FindOne(ctx, filter).Decode(&pick)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Pick{}, err
		}
		return Pick{}, fmt.Errorf("error fetching pick from db: %w", err)
	}
	return pick, nil
}

// GetUserPicks returns every pick of a user regardless of day, oldest first
func (s *Store) GetUserPicks(ctx context.Context, userID string) ([]Pick, error) {
	return s.findPicks(ctx, bson.D{{Key: "userId", Value: userID}})
}

// GetAllPicks returns every pick in the ledger. Used by the admin surface
func (s *Store) GetAllPicks(ctx context.Context) ([]Pick, error) {
	return s.findPicks(ctx, bson.D{})
}

func (s *Store) findPicks(ctx context.Context, filter bson.D) ([]Pick, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: 1}})
	cursor, err := s.Collections.Picks.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching picks from db: %w", err)
	}

	picks := []Pick{}
	if err = cursor.All(ctx, &picks); err != nil {
		return nil, fmt.Errorf("error unpacking cursor into slice of picks: %w", err)
	}
	return picks, nil
}

// ReplacePickTeams overwrites the team list of a pick and refreshes its submission time
// Preconditions: Receives pick id, the complete new team list and the submission time
// Postconditions: Returns nil, mongo.ErrNoDocuments if the pick doesn't exist, or an error if it occurs
func (s *Store) ReplacePickTeams(ctx context.Context, id string, teams []TeamRef, submittedAt time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	update := bson.M{"$set": bson.M{"teams": teams, "submittedAt": submittedAt}}
	res, err := s.Collections.Picks.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update existing pick: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeletePick permanently removes a pick
// Postconditions: Returns nil, mongo.ErrNoDocuments if the pick doesn't exist, or an error if it occurs
func (s *Store) DeletePick(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	res, err := s.Collections.Picks.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete pick: %w", err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
