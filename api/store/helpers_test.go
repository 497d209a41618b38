/* helpers_test.go
 * Contains the mtest helpers shared by the store tests
 * Authors: knockout-pool contributors
 */

package store

import (
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// newMockedStore points every collection at the mock deployment's collection
func newMockedStore(mt *mtest.T) *Store {
	return &Store{
		Client:   mt.Client,
		Database: mt.DB,
		Collections: Collections{
			Users:        mt.Coll,
			Teams:        mt.Coll,
			Picks:        mt.Coll,
			PoolSettings: mt.Coll,
			CatalogState: mt.Coll,
		},
	}
}
