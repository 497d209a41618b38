/* availability_test.go
 * Contains unit tests for availability.go
 * Authors: knockout-pool contributors
 */

package logic

import (
	"testing"

	"knockout-pool/api/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAvailability_TotalReplace(t *testing.T) {
	mapping := map[shared.Day][]int{
		shared.Saturday: {3, 1},
		shared.Thursday: {1},
	}

	availability, err := BuildAvailability(mapping, catalog())
	require.NoError(t, err)

	assert.Len(t, availability, len(catalog()))
	assert.Equal(t, []shared.Day{shared.Thursday, shared.Saturday}, availability[1])
	assert.Equal(t, []shared.Day{shared.Saturday}, availability[3])
	// teams not listed anywhere lose all their days
	assert.Empty(t, availability[2])
	assert.Empty(t, availability[5])
	assert.NotNil(t, availability[5])
}

func TestBuildAvailability_DuplicateListing(t *testing.T) {
	availability, err := BuildAvailability(map[shared.Day][]int{shared.Friday: {5, 5}}, catalog())
	require.NoError(t, err)
	assert.Equal(t, []shared.Day{shared.Friday}, availability[5])
}

func TestBuildAvailability_UnknownTeam(t *testing.T) {
	_, err := BuildAvailability(map[shared.Day][]int{shared.Friday: {42}}, catalog())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "#42")
}

func TestBuildAvailability_UnknownDay(t *testing.T) {
	_, err := BuildAvailability(map[shared.Day][]int{"Monday": {1}}, catalog())
	assert.Error(t, err)
}

func TestBuildAvailability_EmptyMapping(t *testing.T) {
	availability, err := BuildAvailability(nil, catalog())
	require.NoError(t, err)
	for _, days := range availability {
		assert.Empty(t, days)
	}
}
