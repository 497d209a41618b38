/* availability.go
 * Contains the logic that turns an admin's day -> teams mapping into the full per-team availability of the catalog
 * Authors: knockout-pool contributors
 */

package logic

import (
	"fmt"
	"slices"
	"sort"

	"knockout-pool/api/shared"
	"knockout-pool/api/store"
)

// BuildAvailability converts a day -> team ids mapping into team id -> days for every team in the catalog.
// The mapping is total: a team not listed under any day gets an empty availability
// Preconditions: receives the mapping and the current catalog
// Postconditions: returns an entry for every catalog team with days in tournament order, or an error if the mapping
// names an unknown day or team
func BuildAvailability(mapping map[shared.Day][]int, catalog []store.Team) (map[int][]shared.Day, error) {
	availability := make(map[int][]shared.Day, len(catalog))
	for _, team := range catalog {
		availability[team.ID] = []shared.Day{}
	}

	for day, teamIDs := range mapping {
		if !day.Valid() {
			return nil, fmt.Errorf("unknown tournament day '%s'", day)
		}
		for _, id := range teamIDs {
			days, ok := availability[id]
			if !ok {
				return nil, fmt.Errorf("team #%d listed for %s is not in the catalog", id, day)
			}
			if slices.Contains(days, day) {
				continue
			}
			availability[id] = append(days, day)
		}
	}

	for id := range availability {
		days := availability[id]
		sort.Slice(days, func(i, j int) bool { return days[i].Index() < days[j].Index() })
	}
	return availability, nil
}
