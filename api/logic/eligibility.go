/* eligibility.go
 * Contains the eligibility engine: which teams a user may still choose on a given day
 * Authors: knockout-pool contributors
 */

package logic

import (
	"knockout-pool/api/shared"
	"knockout-pool/api/store"
)

// Fallback names the fail-open branch taken when computing eligibility, if any
type Fallback string

const (
	FallbackNone Fallback = ""
	// FallbackCatalog: availability has never been set, so under fail-open the whole catalog is used for the day
	FallbackCatalog Fallback = "catalog"
	// FallbackWidened: the day filter left fewer teams than required picks and was dropped
	FallbackWidened Fallback = "widened"
)

// Policy configures the eligibility engine
type Policy struct {
	// FailOpen drops the day filter when it leaves fewer teams than the required pick count, and uses the whole
	// catalog before availability has ever been set. Fail-closed always applies the day filter
	FailOpen bool
}

// EligibilityRequest carries everything the engine reads. Picks must hold every pick of the user, on any day.
// AvailabilitySet reports that an admin has replaced the availability mapping at least once, even with an empty one
type EligibilityRequest struct {
	Catalog         []store.Team
	Picks           []store.Pick
	Day             shared.Day
	Editing         *store.Pick
	RequiredPicks   int
	AvailabilitySet bool
}

// Eligibility is the engine result. Teams keep catalog order
type Eligibility struct {
	Teams    []store.Team
	Fallback Fallback
}

// TeamIDs returns the identifiers of the eligible teams
func (e Eligibility) TeamIDs() []int {
	ids := make([]int, 0, len(e.Teams))
	for _, team := range e.Teams {
		ids = append(ids, team.ID)
	}
	return ids
}

// Contains reports whether the team id is eligible
func (e Eligibility) Contains(teamID int) bool {
	for _, team := range e.Teams {
		if team.ID == teamID {
			return true
		}
	}
	return false
}

// AvailableTeams computes the teams a user may select on req.Day.
// A team picked on any day is used up for good. When req.Editing is set, the teams on that pick stay selectable so
// the user can keep or swap them. The function never fails; the result may be empty
func AvailableTeams(req EligibilityRequest, policy Policy) Eligibility {
	used := UsedTeamIDs(req.Picks)

	keep := make(map[int]bool)
	if req.Editing != nil {
		for _, id := range req.Editing.TeamIDs() {
			keep[id] = true
		}
	}

	selectable := func(team store.Team) bool {
		return keep[team.ID] || !used[team.ID]
	}

	fallback := FallbackNone
	dayFilter := req.AvailabilitySet || HasAvailabilityData(req.Catalog) || !policy.FailOpen
	if !dayFilter {
		fallback = FallbackCatalog
	}

	teams := filterTeams(req.Catalog, func(team store.Team) bool {
		if !selectable(team) {
			return false
		}
		return keep[team.ID] || !dayFilter || team.AvailableOn(req.Day)
	})

	if policy.FailOpen && dayFilter && len(teams) < req.RequiredPicks {
		widened := filterTeams(req.Catalog, selectable)
		if len(widened) > len(teams) {
			return Eligibility{Teams: widened, Fallback: FallbackWidened}
		}
	}

	return Eligibility{Teams: teams, Fallback: fallback}
}

// UsedTeamIDs returns the union of team ids across picks
func UsedTeamIDs(picks []store.Pick) map[int]bool {
	used := make(map[int]bool)
	for _, pick := range picks {
		for _, id := range pick.TeamIDs() {
			used[id] = true
		}
	}
	return used
}

// HasAvailabilityData reports whether any team in the catalog has at least one available day
func HasAvailabilityData(catalog []store.Team) bool {
	for _, team := range catalog {
		if len(team.AvailableDays) > 0 {
			return true
		}
	}
	return false
}

// TeamsForDay returns the catalog teams available on day, keeping catalog order
func TeamsForDay(catalog []store.Team, day shared.Day) []store.Team {
	return filterTeams(catalog, func(team store.Team) bool { return team.AvailableOn(day) })
}

func filterTeams(teams []store.Team, keep func(store.Team) bool) []store.Team {
	out := []store.Team{}
	for _, team := range teams {
		if keep(team) {
			out = append(out, team)
		}
	}
	return out
}
