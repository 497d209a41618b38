/* pool_settings.go
 * Contains the methods for interacting with the poolSettings collection. Settings are an append-only, version
 * ordered log; the entry with the highest version is the one in force
 * Authors: knockout-pool contributors
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AppendPoolSettings adds a new entry to the settings log. History is never modified
// Preconditions: Receives PoolSettings with CurrentDay, RequiredPicks, UpdatedBy and UpdatedAt set
// Postconditions: Returns the stored entry with its version, ErrSettingsConflict if another append won the version,
// or an error if it occurs
func (s *Store) AppendPoolSettings(ctx context.Context, settings PoolSettings) (PoolSettings, error) {
	latest, err := s.GetLatestPoolSettings(ctx)
	notFound := errors.Is(err, mongo.ErrNoDocuments)
	if err != nil && !notFound {
		return PoolSettings{}, fmt.Errorf("lookup for latest pool settings failed: %w", err)
	}

	settings.ID = primitive.NilObjectID
	settings.Version = 1
	if !notFound {
		settings.Version = latest.Version + 1
	}

	res, err := s.Collections.PoolSettings.InsertOne(ctx, settings)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return PoolSettings{}, ErrSettingsConflict
		}
		return PoolSettings{}, fmt.Errorf("failed to insert pool settings: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		settings.ID = id
	}
	return settings, nil
}

// GetLatestPoolSettings returns the settings in force, or mongo.ErrNoDocuments if none were ever stored
func (s *Store) GetLatestPoolSettings(ctx context.Context) (PoolSettings, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "version", Value: -1}})
	return s.findPoolSettings(ctx, bson.D{}, opts)
}

// GetPoolSettingsAsOf returns the entry that was in force at the given instant
func (s *Store) GetPoolSettingsAsOf(ctx context.Context, at time.Time) (PoolSettings, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "version", Value: -1}})
	filter := bson.D{{Key: "updatedAt", Value: bson.D{{Key: "$lte", Value: at}}}}
	return s.findPoolSettings(ctx, filter, opts)
}

func (s *Store) findPoolSettings(ctx context.Context, filter bson.D, opts *options.FindOneOptions) (PoolSettings, error) {
	var res PoolSettings
	err := s.Collections.PoolSettings.FindOne(ctx, filter, opts).Decode(&res)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return PoolSettings{}, err
		}
		return PoolSettings{}, fmt.Errorf("failed to fetch pool settings from database: %w", err)
	}
	return res, nil
}

// GetPoolSettingsHistory returns the full settings log, newest first
func (s *Store) GetPoolSettingsHistory(ctx context.Context) ([]PoolSettings, error) {
	opts := options.Find().SetSort(bson.D{{Key: "version", Value: -1}})
	cursor, err := s.Collections.PoolSettings.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching pool settings history: %w", err)
	}

	history := []PoolSettings{}
	if err = cursor.All(ctx, &history); err != nil {
		return nil, fmt.Errorf("error unpacking cursor into slice of pool settings: %w", err)
	}
	return history, nil
}
