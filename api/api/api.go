/* api.go
 * This file contains the public methods for interacting with this package. Handlers should only call into the pool
 * through this file, not the store or logic sub packages directly
 * Authors: knockout-pool contributors
 */

package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"knockout-pool/api/auth"
	"knockout-pool/api/logic"
	"knockout-pool/api/store"

	"github.com/jonboulle/clockwork"
	"go.mongodb.org/mongo-driver/mongo"
)

// API provides methods for interacting with the pool data layer
type API struct {
	Store       store.Interface
	Auth        *auth.Authenticator
	Clock       clockwork.Clock
	Policy      logic.Policy
	adminEmails map[string]bool
}

// Config holds the collaborators of the API
type Config struct {
	Store       store.Interface
	Auth        *auth.Authenticator
	Clock       clockwork.Clock
	Policy      logic.Policy
	AdminEmails []string
}

// NewAPI creates a new API instance with the provided configuration
func NewAPI(cfg Config) (*API, error) {
	if cfg.Store == nil || cfg.Auth == nil {
		return nil, fmt.Errorf("store and authenticator are required")
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}

	admins := make(map[string]bool, len(cfg.AdminEmails))
	for _, email := range cfg.AdminEmails {
		if email = normaliseEmail(email); email != "" {
			admins[email] = true
		}
	}

	return &API{
		Store:       cfg.Store,
		Auth:        cfg.Auth,
		Clock:       cfg.Clock,
		Policy:      cfg.Policy,
		adminEmails: admins,
	}, nil
}

// CheckAdmin re-reads the user from the store and returns it if the stored role is admin
func (a *API) CheckAdmin(ctx context.Context, userID string) (store.User, error) {
	user, err := a.Store.GetUserByID(ctx, userID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.User{}, newError(ErrUnauthenticated, "user no longer exists")
	}
	if err != nil {
		return store.User{}, err
	}
	if !user.IsAdmin() {
		return store.User{}, newError(ErrForbidden, "admin access required")
	}
	return user, nil
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
