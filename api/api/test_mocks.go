/* test_mocks.go
 * Contains mock structures and interfaces for testing the API package and its consumers
 * Authors: knockout-pool contributors
 */

package api

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"knockout-pool/api/shared"
	"knockout-pool/api/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MockStore implements the store Interface in memory. Uniqueness rules match the Mongo indexes:
// one user per email, one pick per user and day
type MockStore struct {
	mu sync.Mutex

	// Storage for mock data
	Users    map[string]store.User
	Teams    []store.Team
	Picks    map[string]store.Pick
	Settings []store.PoolSettings
	// AvailabilitySet mirrors the catalog state marker written by ReplaceTeamAvailability
	AvailabilitySet bool

	// Error injection for testing error paths
	CreateUserError              error
	GetUserError                 error
	GetTeamsError                error
	ReplaceTeamAvailabilityError error
	InsertPickError              error
	GetPicksError                error
	ReplacePickTeamsError        error
	DeletePickError              error
	AppendPoolSettingsError      error
	GetPoolSettingsError         error

	// BeforeInsertPick runs inside InsertPick before the uniqueness check, used to interleave concurrent submissions
	BeforeInsertPick func()
}

type mockClient struct{}

func (mockClient) Disconnect(context.Context) error { return nil }

// NewMockStore creates a new MockStore holding the given catalog
func NewMockStore(teams []store.Team) *MockStore {
	return &MockStore{
		Users: make(map[string]store.User),
		Teams: teams,
		Picks: make(map[string]store.Pick),
	}
}

var _ store.Interface = (*MockStore)(nil)

// EnsureIndexes mock implementation
func (m *MockStore) EnsureIndexes(context.Context) error {
	return nil
}

// region users

// CreateUser mock implementation
func (m *MockStore) CreateUser(_ context.Context, user store.User) (store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateUserError != nil {
		return store.User{}, m.CreateUserError
	}
	for _, existing := range m.Users {
		if existing.Email == user.Email {
			return store.User{}, store.ErrDuplicateUser
		}
	}
	user.ID = primitive.NewObjectID()
	m.Users[user.ID.Hex()] = user
	return user, nil
}

// GetUserByID mock implementation
func (m *MockStore) GetUserByID(_ context.Context, id string) (store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetUserError != nil {
		return store.User{}, m.GetUserError
	}
	user, ok := m.Users[id]
	if !ok {
		return store.User{}, mongo.ErrNoDocuments
	}
	return user, nil
}

// GetUserByEmail mock implementation
func (m *MockStore) GetUserByEmail(_ context.Context, email string) (store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetUserError != nil {
		return store.User{}, m.GetUserError
	}
	for _, user := range m.Users {
		if user.Email == email {
			return user, nil
		}
	}
	return store.User{}, mongo.ErrNoDocuments
}

// GetAllUsers mock implementation
func (m *MockStore) GetAllUsers(context.Context) ([]store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetUserError != nil {
		return nil, m.GetUserError
	}
	users := make([]store.User, 0, len(m.Users))
	for _, user := range m.Users {
		users = append(users, user)
	}
	slices.SortFunc(users, func(a, b store.User) int {
		return strings.Compare(a.ID.Hex(), b.ID.Hex())
	})
	return users, nil
}

// SetUserRole mock implementation
func (m *MockStore) SetUserRole(_ context.Context, id string, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.Users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	user.Role = role
	m.Users[id] = user
	return nil
}

// SetUserStatus mock implementation
func (m *MockStore) SetUserStatus(_ context.Context, id string, eliminated bool, buybacks int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.Users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	user.Eliminated = eliminated
	user.Buybacks = buybacks
	m.Users[id] = user
	return nil
}

// endregion

// region teams

// GetTeams mock implementation
func (m *MockStore) GetTeams(context.Context) ([]store.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetTeamsError != nil {
		return nil, m.GetTeamsError
	}
	return cloneTeams(m.Teams), nil
}

// GetTeamsForDay mock implementation
func (m *MockStore) GetTeamsForDay(_ context.Context, day shared.Day) ([]store.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetTeamsError != nil {
		return nil, m.GetTeamsError
	}
	teams := []store.Team{}
	for _, team := range m.Teams {
		if team.AvailableOn(day) {
			teams = append(teams, team)
		}
	}
	return cloneTeams(teams), nil
}

// SeedTeams mock implementation
func (m *MockStore) SeedTeams(_ context.Context, teams []store.Team) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Teams) > 0 {
		return 0, nil
	}
	m.Teams = cloneTeams(teams)
	return len(teams), nil
}

// ReplaceTeamAvailability mock implementation. All or nothing, like the transactional store
func (m *MockStore) ReplaceTeamAvailability(_ context.Context, availability map[int][]shared.Day, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReplaceTeamAvailabilityError != nil {
		return m.ReplaceTeamAvailabilityError
	}
	for i := range m.Teams {
		m.Teams[i].AvailableDays = append([]shared.Day{}, availability[m.Teams[i].ID]...)
	}
	m.AvailabilitySet = true
	return nil
}

// AvailabilityRecorded mock implementation
func (m *MockStore) AvailabilityRecorded(_ context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetTeamsError != nil {
		return false, m.GetTeamsError
	}
	return m.AvailabilitySet, nil
}

func cloneTeams(teams []store.Team) []store.Team {
	out := make([]store.Team, len(teams))
	for i, team := range teams {
		team.AvailableDays = append([]shared.Day{}, team.AvailableDays...)
		out[i] = team
	}
	return out
}

// endregion

// region picks

// InsertPick mock implementation
func (m *MockStore) InsertPick(_ context.Context, pick store.Pick) (store.Pick, error) {
	if m.BeforeInsertPick != nil {
		m.BeforeInsertPick()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertPickError != nil {
		return store.Pick{}, m.InsertPickError
	}
	for _, existing := range m.Picks {
		if existing.UserID == pick.UserID && existing.Day == pick.Day {
			return store.Pick{}, store.ErrDuplicatePick
		}
	}
	pick.ID = primitive.NewObjectID()
	m.Picks[pick.ID.Hex()] = pick
	return pick, nil
}

// GetPickByID mock implementation
func (m *MockStore) GetPickByID(_ context.Context, id string) (store.Pick, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPicksError != nil {
		return store.Pick{}, m.GetPicksError
	}
	pick, ok := m.Picks[id]
	if !ok {
		return store.Pick{}, mongo.ErrNoDocuments
	}
	return pick, nil
}

// GetPickForDay mock implementation
func (m *MockStore) GetPickForDay(_ context.Context, userID string, day shared.Day) (store.Pick, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPicksError != nil {
		return store.Pick{}, m.GetPicksError
	}
	for _, pick := range m.Picks {
		if pick.UserID == userID && pick.Day == day {
			return pick, nil
		}
	}
	return store.Pick{}, mongo.ErrNoDocuments
}

// GetUserPicks mock implementation
func (m *MockStore) GetUserPicks(_ context.Context, userID string) ([]store.Pick, error) {
	return m.filterPicks(func(p store.Pick) bool { return p.UserID == userID })
}

// GetAllPicks mock implementation
func (m *MockStore) GetAllPicks(context.Context) ([]store.Pick, error) {
	return m.filterPicks(func(store.Pick) bool { return true })
}

func (m *MockStore) filterPicks(keep func(store.Pick) bool) ([]store.Pick, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPicksError != nil {
		return nil, m.GetPicksError
	}
	picks := []store.Pick{}
	for _, pick := range m.Picks {
		if keep(pick) {
			picks = append(picks, pick)
		}
	}
	slices.SortFunc(picks, func(a, b store.Pick) int {
		if c := a.SubmittedAt.Compare(b.SubmittedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.Hex(), b.ID.Hex())
	})
	return picks, nil
}

// ReplacePickTeams mock implementation
func (m *MockStore) ReplacePickTeams(_ context.Context, id string, teams []store.TeamRef, submittedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReplacePickTeamsError != nil {
		return m.ReplacePickTeamsError
	}
	pick, ok := m.Picks[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	pick.Teams = teams
	pick.SubmittedAt = submittedAt
	m.Picks[id] = pick
	return nil
}

// DeletePick mock implementation
func (m *MockStore) DeletePick(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeletePickError != nil {
		return m.DeletePickError
	}
	if _, ok := m.Picks[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(m.Picks, id)
	return nil
}

// endregion

// region pool settings

// AppendPoolSettings mock implementation
func (m *MockStore) AppendPoolSettings(_ context.Context, settings store.PoolSettings) (store.PoolSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AppendPoolSettingsError != nil {
		return store.PoolSettings{}, m.AppendPoolSettingsError
	}
	settings.ID = primitive.NewObjectID()
	settings.Version = int64(len(m.Settings)) + 1
	m.Settings = append(m.Settings, settings)
	return settings, nil
}

// GetLatestPoolSettings mock implementation
func (m *MockStore) GetLatestPoolSettings(context.Context) (store.PoolSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPoolSettingsError != nil {
		return store.PoolSettings{}, m.GetPoolSettingsError
	}
	if len(m.Settings) == 0 {
		return store.PoolSettings{}, mongo.ErrNoDocuments
	}
	return m.Settings[len(m.Settings)-1], nil
}

// GetPoolSettingsAsOf mock implementation
func (m *MockStore) GetPoolSettingsAsOf(_ context.Context, at time.Time) (store.PoolSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPoolSettingsError != nil {
		return store.PoolSettings{}, m.GetPoolSettingsError
	}
	for i := len(m.Settings) - 1; i >= 0; i-- {
		if !m.Settings[i].UpdatedAt.After(at) {
			return m.Settings[i], nil
		}
	}
	return store.PoolSettings{}, mongo.ErrNoDocuments
}

// GetPoolSettingsHistory mock implementation, newest first
func (m *MockStore) GetPoolSettingsHistory(context.Context) ([]store.PoolSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPoolSettingsError != nil {
		return nil, m.GetPoolSettingsError
	}
	history := make([]store.PoolSettings, 0, len(m.Settings))
	for i := len(m.Settings) - 1; i >= 0; i-- {
		history = append(history, m.Settings[i])
	}
	return history, nil
}

// endregion

// GetClient mock implementation
func (m *MockStore) GetClient() interface{ Disconnect(context.Context) error } {
	return mockClient{}
}
