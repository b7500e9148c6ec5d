package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shoplane/auth-api/internal/core/domain"
)

const (
	userCollection = "users"
	opTimeout      = 5 * time.Second
)

// infraErr wraps a store failure so the API layer can answer 503 and
// callers never mistake an unreachable store for an auth denial.
func infraErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(domain.ErrInfrastructureUnavailable, err))
}

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(userCollection)}
}

type mongoUser struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Username        string             `bson:"username"`
	Email           string             `bson:"email,omitempty"`
	PasswordHash    string             `bson:"password_hash"`
	RoleID          string             `bson:"role_id"`
	Platform        string             `bson:"platform"`
	IsActive        bool               `bson:"is_active"`
	IsDeleted       bool               `bson:"is_deleted"`
	LoginRetryLimit int                `bson:"login_retry_limit"`
	LockedAt        *time.Time         `bson:"locked_at,omitempty"`
	CreatedAt       int64              `bson:"created_at"`
	UpdatedAt       int64              `bson:"updated_at"`
}

func toDomain(mu *mongoUser) *domain.User {
	return &domain.User{
		ID:              mu.ID.Hex(),
		Username:        mu.Username,
		Email:           mu.Email,
		PasswordHash:    mu.PasswordHash,
		RoleID:          mu.RoleID,
		Platform:        domain.Platform(mu.Platform),
		IsActive:        mu.IsActive,
		IsDeleted:       mu.IsDeleted,
		LoginRetryLimit: mu.LoginRetryLimit,
		LockedAt:        mu.LockedAt,
		CreatedAt:       unixToTime(mu.CreatedAt),
		UpdatedAt:       unixToTime(mu.UpdatedAt),
	}
}

// FindActiveByUsername looks up a live account by identity and platform.
// Tombstoned or deactivated accounts are indistinguishable from absent
// ones.
func (r *MongoUserRepository) FindActiveByUsername(ctx context.Context, username string, platform domain.Platform) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{
		"username":   username,
		"platform":   string(platform),
		"is_deleted": false,
		"is_active":  true,
	}
	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotExists
		}
		return nil, infraErr("find user", err)
	}
	return toDomain(&mu), nil
}

func (r *MongoUserRepository) FindActiveByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotExists
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"_id": oid, "is_deleted": false, "is_active": true}
	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotExists
		}
		return nil, infraErr("find user by id", err)
	}
	return toDomain(&mu), nil
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc := mongoUser{
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		RoleID:       user.RoleID,
		Platform:     string(user.Platform),
		IsActive:     user.IsActive,
		CreatedAt:    user.CreatedAt.Unix(),
		UpdatedAt:    user.UpdatedAt.Unix(),
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, infraErr("insert user", err)
	}

	created := *user
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

// IncrementLoginRetry bumps the failure counter with a single $inc and
// returns the post-increment value, so concurrent failures for one user
// serialize in the store rather than racing in application code.
func (r *MongoUserRepository) IncrementLoginRetry(ctx context.Context, id string) (int, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, domain.ErrUserNotExists
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{"login_retry_limit": 1},
		"$set": bson.M{"updated_at": time.Now().Unix()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mu mongoUser
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, domain.ErrUserNotExists
		}
		return 0, infraErr("increment login retry", err)
	}
	return mu.LoginRetryLimit, nil
}

// LockUser stamps the lockout time. Safe to call twice for the same
// lockout; the stamp is simply overwritten.
func (r *MongoUserRepository) LockUser(ctx context.Context, id string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotExists
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"locked_at": at, "updated_at": time.Now().Unix()}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update); err != nil {
		return infraErr("lock user", err)
	}
	return nil
}

// ResetLoginRetry zeroes the counter and clears the lockout stamp in one
// update.
func (r *MongoUserRepository) ResetLoginRetry(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotExists
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := bson.M{
		"$set":   bson.M{"login_retry_limit": 0, "updated_at": time.Now().Unix()},
		"$unset": bson.M{"locked_at": ""},
	}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update); err != nil {
		return infraErr("reset login retry", err)
	}
	return nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
