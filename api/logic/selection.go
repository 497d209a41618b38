/* selection.go
 * Contains the logic for resolving the teams a user submitted and validating them against the eligibility result
 * Authors: knockout-pool contributors
 */

package logic

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"knockout-pool/api/store"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// minNameLength is the shortest input that may be fuzzy matched. Shorter input must name a team exactly
const minNameLength = 3

// TeamSelection is one submitted team. ID wins when set; otherwise Name is matched against the catalog
type TeamSelection struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CheckPickCount returns an error unless exactly required teams were submitted
func CheckPickCount(selections []TeamSelection, required int) error {
	if len(selections) != required {
		return fmt.Errorf("incorrect number of teams, expected %d but got %d", required, len(selections))
	}
	return nil
}

// ResolveSelection maps the submitted teams onto catalog teams and checks each of them is eligible.
// Names are matched against the eligible teams first; a name that only matches elsewhere in the catalog resolves to
// that team so it is reported as unavailable rather than invalid
// Preconditions: receives the submitted teams, the full catalog, and the eligibility result for the user and day
// Postconditions: returns the resolved teams in submission order, or an error naming the invalid, duplicated or
// unavailable teams
func ResolveSelection(selections []TeamSelection, catalog []store.Team, eligible Eligibility) ([]store.Team, error) {
	byID := make(map[int]store.Team, len(catalog))
	byName := make(map[string]store.Team, len(catalog))
	catalogNames := make([]string, 0, len(catalog))
	for _, team := range catalog {
		byID[team.ID] = team
		byName[team.Name] = team
		catalogNames = append(catalogNames, team.Name)
	}
	eligibleNames := make([]string, 0, len(eligible.Teams))
	for _, team := range eligible.Teams {
		eligibleNames = append(eligibleNames, team.Name)
	}

	var resolved []store.Team
	var invalid []string
	for _, sel := range selections {
		if sel.ID > 0 {
			team, ok := byID[sel.ID]
			if !ok {
				invalid = append(invalid, fmt.Sprintf("#%d", sel.ID))
				continue
			}
			resolved = append(resolved, team)
			continue
		}

		matched, _ := CheckTeamNames([]string{sel.Name}, eligibleNames)
		if len(matched) == 0 {
			matched, _ = CheckTeamNames([]string{sel.Name}, catalogNames)
		}
		team, ok := store.Team{}, false
		if len(matched) == 1 {
			team, ok = byName[matched[0]]
		}
		if !ok {
			invalid = append(invalid, sel.Name)
			continue
		}
		resolved = append(resolved, team)
	}

	if len(invalid) > 0 {
		return nil, fmt.Errorf("the following teams are invalid:%s", quoteAll(invalid))
	}

	seen := make(map[int]bool)
	for _, team := range resolved {
		if seen[team.ID] {
			return nil, fmt.Errorf("'%s' entered multiple times", team.Name)
		}
		seen[team.ID] = true
	}

	var unavailable []string
	for _, team := range resolved {
		if !eligible.Contains(team.ID) {
			unavailable = append(unavailable, team.Name)
		}
	}
	if len(unavailable) > 0 {
		return nil, fmt.Errorf("the following teams are not available:%s", quoteAll(unavailable))
	}

	return resolved, nil
}

// CheckTeamNames processes team names from user input and checks if they are valid.
// Preconditions: receives two string slices; one containing the submitted names and another that is a list of valid team names
// Postconditions: returns two string slices, a slice of correctly formatted team names and slice of strings containing the invalid team names
func CheckTeamNames(inputTeams []string, validTeams []string) ([]string, []string) {
	var formattedTeamNames []string
	var invalidTeams []string

	lookup := make(map[string]string)
	var validTeamsLower []string
	for _, name := range validTeams {
		lower := strings.ToLower(name)
		lookup[lower] = name
		validTeamsLower = append(validTeamsLower, lower)
	}

	for _, team := range inputTeams {
		lowerTeam := strings.ToLower(strings.TrimSpace(team))
		if lowerTeam == "" {
			invalidTeams = append(invalidTeams, team)
			continue
		}
		if _, exact := lookup[lowerTeam]; !exact && utf8.RuneCountInString(lowerTeam) < minNameLength {
			invalidTeams = append(invalidTeams, team)
			continue
		}

		fuzzyResults := fuzzy.RankFind(lowerTeam, validTeamsLower)
		if len(fuzzyResults) == 0 {
			invalidTeams = append(invalidTeams, team)
			continue
		}

		// An exact match beats the best ranked one ("Michigan" vs "Michigan State")
		best := ""
		for i := range fuzzyResults {
			if fuzzyResults[i].Target == lowerTeam {
				best = fuzzyResults[i].Target
			}
		}
		if best == "" {
			sort.Sort(fuzzyResults)
			best = fuzzyResults[0].Target
		}
		formattedTeamNames = append(formattedTeamNames, lookup[best])
	}
	return formattedTeamNames, invalidTeams
}

func quoteAll(items []string) string {
	var str strings.Builder
	for i := range items {
		str.WriteString(fmt.Sprintf(" '%s'", items[i]))
	}
	return str.String()
}
