/* models.go
 * This file contain the types and helper functions that are shared between sub packages: the tournament day
 * sequence, pick outcomes and user roles
 * Authors: knockout-pool contributors
 */

package shared

import (
	"fmt"
	"strings"
)

// Day is a tournament day label. Days are not stored on their own, they are referenced by teams, picks and settings
type Day string

const (
	Thursday     Day = "Thursday"
	Friday       Day = "Friday"
	Saturday     Day = "Saturday"
	Sunday       Day = "Sunday"
	Sweet16One   Day = "Sweet16-1"
	Sweet16Two   Day = "Sweet16-2"
	Elite8One    Day = "Elite8-1"
	Elite8Two    Day = "Elite8-2"
	FinalFour    Day = "FinalFour"
	Championship Day = "Championship"
)

// Days is the fixed, ordered day sequence of the tournament
var Days = []Day{
	Thursday, Friday, Saturday, Sunday,
	Sweet16One, Sweet16Two,
	Elite8One, Elite8Two,
	FinalFour, Championship,
}

// Index returns the position of the day in Days, or -1 if the day is not part of the sequence
func (d Day) Index() int {
	for i := range Days {
		if Days[i] == d {
			return i
		}
	}
	return -1
}

// Valid reports whether the day is one of the known tournament days
func (d Day) Valid() bool {
	return d.Index() >= 0
}

// Next returns the day following d. The second return value is false for the last day or an unknown day
func (d Day) Next() (Day, bool) {
	i := d.Index()
	if i < 0 || i == len(Days)-1 {
		return "", false
	}
	return Days[i+1], true
}

// ParseDay converts user input into a Day. Matching is case insensitive and ignores surrounding whitespace
func ParseDay(str string) (Day, error) {
	str = strings.TrimSpace(str)
	for _, day := range Days {
		if strings.EqualFold(string(day), str) {
			return day, nil
		}
	}
	return "", fmt.Errorf("unknown tournament day '%s'", str)
}

// Outcome is the grading state of a pick. Picks are created pending; won and lost are written by grading
type Outcome string

const (
	OutcomePending Outcome = "pending"
	OutcomeWon     Outcome = "won"
	OutcomeLost    Outcome = "lost"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRole reports whether role is one of the known roles
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
