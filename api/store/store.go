/* store.go
 * Contains the store struct and NewStore function. The methods for this package were split by collection:
 * users, teams, picks and pool_settings (teams.go also owns the catalog state marker). Each of these files contain methods for interacting with that
 * part of the database
 * Authors: knockout-pool contributors
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	UsersCollection        = "users"
	TeamsCollection        = "teams"
	PicksCollection        = "picks"
	PoolSettingsCollection = "poolSettings"
	CatalogStateCollection = "catalogState"
)

var (
	ErrDuplicateUser    = errors.New("a user with this email already exists")
	ErrDuplicatePick    = errors.New("a pick already exists for this user and day")
	ErrSettingsConflict = errors.New("pool settings were updated concurrently")
)

// Collections holds the handles for every collection used by the pool
type Collections struct {
	Users        *mongo.Collection
	Teams        *mongo.Collection
	Picks        *mongo.Collection
	PoolSettings *mongo.Collection
	CatalogState *mongo.Collection
}

type Store struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Collections Collections
}

// NewStore connects to Mongo and returns a Store for dbName
// Preconditions: Receives a context bounding the connection attempt, and strings containing dbName and mongoURI
// Postconditions: Returns pointer to the Store object once the server answered a ping, or error if it occurs
func NewStore(ctx context.Context, dbName string, mongoURI string) (*Store, error) {
	if dbName == "" || mongoURI == "" {
		return nil, fmt.Errorf("dbName and mongoURI cannot be empty")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return newStoreFromDatabase(client, client.Database(dbName)), nil
}

func newStoreFromDatabase(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		Client:   client,
		Database: db,
		Collections: Collections{
			Users:        db.Collection(UsersCollection),
			Teams:        db.Collection(TeamsCollection),
			Picks:        db.Collection(PicksCollection),
			PoolSettings: db.Collection(PoolSettingsCollection),
			CatalogState: db.Collection(CatalogStateCollection),
		},
	}
}

// EnsureIndexes creates the unique indexes the pool relies on: one account per email, one pick per (user, day)
// and one settings entry per version
// Preconditions: Store is connected
// Postconditions: Returns nil once every index exists, or an error if it occurs
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{s.Collections.Users, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		}},
		{s.Collections.Picks, mongo.IndexModel{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "day", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_user_day"),
		}},
		{s.Collections.PoolSettings, mongo.IndexModel{
			Keys:    bson.D{{Key: "version", Value: -1}},
			Options: options.Index().SetUnique(true).SetName("uniq_version"),
		}},
	}

	for _, idx := range indexes {
		if _, err := idx.coll.Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", idx.coll.Name(), err)
		}
	}
	return nil
}
