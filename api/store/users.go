/* users.go
 * Contains the methods for interacting with the users collection
 * Authors: knockout-pool contributors
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateUser inserts a new user document
// Preconditions: Receives a User with Email, PasswordHash and Role set
// Postconditions: Returns the stored user with its generated ID, ErrDuplicateUser if the email is taken, or an error if it occurs
func (s *Store) CreateUser(ctx context.Context, user User) (User, error) {
	user.ID = primitive.NilObjectID
	res, err := s.Collections.Users.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return User{}, ErrDuplicateUser
		}
		return User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	return user, nil
}

// GetUserByID looks up a user by the hex form of its ObjectID
// Preconditions: Receives string containing the user id
// Postconditions: Returns the user, mongo.ErrNoDocuments if it doesn't exist or the id is malformed, or an error if it occurs
func (s *Store) GetUserByID(ctx context.Context, id string) (User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return User{}, mongo.ErrNoDocuments
	}
	return s.findUser(ctx, bson.M{"_id": oid})
}

// GetUserByEmail looks up a user by email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (User, error) {
	var user User
	err := s.Collections.Users.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, err
		}
		return User{}, fmt.Errorf("error fetching user from db: %w", err)
	}
	return user, nil
}

// GetAllUsers returns every registered user ordered by registration time
func (s *Store) GetAllUsers(ctx context.Context) ([]User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := s.Collections.Users.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching users from db: %w", err)
	}

	users := []User{}
	if err = cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("error unpacking cursor into slice of users: %w", err)
	}
	return users, nil
}

// SetUserRole overwrites the stored role of a user
// Preconditions: Receives user id and a valid role
// Postconditions: Returns nil, mongo.ErrNoDocuments if the user doesn't exist, or an error if it occurs
func (s *Store) SetUserRole(ctx context.Context, id string, role string) error {
	return s.updateUser(ctx, id, bson.M{"role": role})
}

// SetUserStatus records elimination state and buyback count for a user
func (s *Store) SetUserStatus(ctx context.Context, id string, eliminated bool, buybacks int) error {
	return s.updateUser(ctx, id, bson.M{"eliminated": eliminated, "buybacks": buybacks})
}

func (s *Store) updateUser(ctx context.Context, id string, fields bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	res, err := s.Collections.Users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
