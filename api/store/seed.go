/* seed.go
 * Contains the default team catalog and the loader for catalog files
 * Authors: knockout-pool contributors
 */

package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Teams []Team `yaml:"teams"`
}

// DefaultTeamCatalog returns the catalog used when no catalog file is given. No availability is recorded, so every
// team is selectable until an admin sets per-day availability
func DefaultTeamCatalog() []Team {
	return []Team{
		{ID: 1, Name: "Duke", Seed: 1, Region: "East"},
		{ID: 2, Name: "Alabama", Seed: 2, Region: "East"},
		{ID: 3, Name: "Wisconsin", Seed: 3, Region: "East"},
		{ID: 4, Name: "Houston", Seed: 1, Region: "South"},
		{ID: 5, Name: "Tennessee", Seed: 2, Region: "South"},
		{ID: 6, Name: "Florida", Seed: 1, Region: "West"},
		{ID: 7, Name: "St. John's", Seed: 2, Region: "West"},
		{ID: 8, Name: "Auburn", Seed: 1, Region: "Midwest"},
		{ID: 9, Name: "Michigan State", Seed: 2, Region: "Midwest"},
		{ID: 10, Name: "Iowa State", Seed: 3, Region: "Midwest"},
		{ID: 11, Name: "Texas A&M", Seed: 4, Region: "Midwest"},
		{ID: 12, Name: "Michigan", Seed: 5, Region: "Midwest"},
		{ID: 13, Name: "Ole Miss", Seed: 6, Region: "Midwest"},
		{ID: 14, Name: "Marquette", Seed: 7, Region: "Midwest"},
		{ID: 15, Name: "Louisville", Seed: 8, Region: "Midwest"},
		{ID: 16, Name: "Creighton", Seed: 9, Region: "Midwest"},
	}
}

// LoadTeamCatalog reads a YAML catalog of the form `teams: [{id, name, seed, region, availableDays}]`
// Preconditions: Receives path to a readable YAML file
// Postconditions: Returns the teams, or an error if the file is unreadable, malformed, or contains invalid entries
func LoadTeamCatalog(path string) ([]Team, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read team catalog: %w", err)
	}
	return ParseTeamCatalog(data)
}

// ParseTeamCatalog decodes and validates a YAML team catalog
func ParseTeamCatalog(data []byte) ([]Team, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse team catalog: %w", err)
	}
	if len(file.Teams) == 0 {
		return nil, fmt.Errorf("team catalog contains no teams")
	}

	seen := make(map[int]bool)
	for _, team := range file.Teams {
		if team.ID <= 0 || team.Name == "" {
			return nil, fmt.Errorf("team catalog entry needs a positive id and a name: %+v", team)
		}
		if seen[team.ID] {
			return nil, fmt.Errorf("team id %d appears more than once in the catalog", team.ID)
		}
		seen[team.ID] = true
		for _, day := range team.AvailableDays {
			if !day.Valid() {
				return nil, fmt.Errorf("team %s has unknown day '%s'", team.Name, day)
			}
		}
	}
	return file.Teams, nil
}
