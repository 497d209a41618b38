/* users.go
 * Contains the account use-cases: registration, login, profile, and the admin user surface
 * Authors: knockout-pool contributors
 */

package api

import (
	"context"
	"errors"
	"strings"

	"knockout-pool/api/auth"
	"knockout-pool/api/shared"
	"knockout-pool/api/store"

	"go.mongodb.org/mongo-driver/mongo"
)

const minPasswordLength = 6

// Register creates a user with the given credentials.
// Preconditions: Receives an email and password
// Postconditions: Returns the created user, or an error if the input is invalid or the email is taken
func (a *API) Register(ctx context.Context, creds Credentials) (store.User, error) {
	email := normaliseEmail(creds.Email)
	if email == "" || creds.Password == "" {
		return store.User{}, newError(ErrValidation, "email and password are required")
	}
	if !strings.Contains(email, "@") {
		return store.User{}, newError(ErrValidation, "'%s' is not a valid email address", creds.Email)
	}
	if len(creds.Password) < minPasswordLength {
		return store.User{}, newError(ErrValidation, "password must be at least %d characters", minPasswordLength)
	}

	hash, err := auth.HashPassword(creds.Password)
	if err != nil {
		return store.User{}, err
	}

	role := shared.RoleUser
	if a.adminEmails[email] {
		role = shared.RoleAdmin
	}

	user, err := a.Store.CreateUser(ctx, store.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    a.Clock.Now().UTC(),
	})
	if errors.Is(err, store.ErrDuplicateUser) {
		return store.User{}, newError(ErrConflict, "a user with email '%s' already exists", email)
	}
	if err != nil {
		return store.User{}, err
	}
	return user, nil
}

// Login checks credentials and issues a token
func (a *API) Login(ctx context.Context, creds Credentials) (Session, error) {
	email := normaliseEmail(creds.Email)
	if email == "" || creds.Password == "" {
		return Session{}, newError(ErrValidation, "email and password are required")
	}

	user, err := a.Store.GetUserByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Session{}, newError(ErrUnauthenticated, "invalid email or password")
	}
	if err != nil {
		return Session{}, err
	}
	if !auth.CheckPassword(user.PasswordHash, creds.Password) {
		return Session{}, newError(ErrUnauthenticated, "invalid email or password")
	}

	token, err := a.Auth.Issue(user.ID.Hex(), user.Email, user.IsAdmin())
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, User: user}, nil
}

// GetUser returns the profile of the user
func (a *API) GetUser(ctx context.Context, userID string) (store.User, error) {
	user, err := a.Store.GetUserByID(ctx, userID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.User{}, newError(ErrNotFound, "user not found")
	}
	if err != nil {
		return store.User{}, err
	}
	return user, nil
}

// AdminUsers lists every registered user
func (a *API) AdminUsers(ctx context.Context, actorID string) ([]store.User, error) {
	if _, err := a.CheckAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return a.Store.GetAllUsers(ctx)
}

// SetUserRole promotes or demotes a user. Admins cannot demote themselves
func (a *API) SetUserRole(ctx context.Context, actorID string, targetID string, req RoleRequest) (store.User, error) {
	if _, err := a.CheckAdmin(ctx, actorID); err != nil {
		return store.User{}, err
	}
	if !shared.ValidRole(req.Role) {
		return store.User{}, newError(ErrValidation, "unknown role '%s'", req.Role)
	}
	if actorID == targetID && req.Role != shared.RoleAdmin {
		return store.User{}, newError(ErrValidation, "admins cannot remove their own admin role")
	}

	err := a.Store.SetUserRole(ctx, targetID, req.Role)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.User{}, newError(ErrNotFound, "user not found")
	}
	if err != nil {
		return store.User{}, err
	}
	return a.GetUser(ctx, targetID)
}

// SetUserStatus records elimination and buybacks for a user. Grading itself happens elsewhere
func (a *API) SetUserStatus(ctx context.Context, actorID string, targetID string, req StatusRequest) (store.User, error) {
	if _, err := a.CheckAdmin(ctx, actorID); err != nil {
		return store.User{}, err
	}
	if req.Eliminated == nil && req.Buybacks == nil {
		return store.User{}, newError(ErrValidation, "eliminated or buybacks is required")
	}
	if req.Buybacks != nil && *req.Buybacks < 0 {
		return store.User{}, newError(ErrValidation, "buybacks cannot be negative")
	}

	current, err := a.GetUser(ctx, targetID)
	if err != nil {
		return store.User{}, err
	}
	eliminated, buybacks := current.Eliminated, current.Buybacks
	if req.Eliminated != nil {
		eliminated = *req.Eliminated
	}
	if req.Buybacks != nil {
		buybacks = *req.Buybacks
	}

	err = a.Store.SetUserStatus(ctx, targetID, eliminated, buybacks)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.User{}, newError(ErrNotFound, "user not found")
	}
	if err != nil {
		return store.User{}, err
	}
	return a.GetUser(ctx, targetID)
}
