package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates the indexes the repositories rely on. Username
// uniqueness is scoped to a platform: the same identity may hold one
// account per surface. Connect runs this before handing the database out.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	userIdx := mongo.IndexModel{
		Keys: bson.D{
			{Key: "username", Value: 1},
			{Key: "platform", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection(userCollection).Indexes().CreateOne(ctx, userIdx); err != nil {
		return fmt.Errorf("create user index: %w", err)
	}

	policyIdx := mongo.IndexModel{
		Keys: bson.D{
			{Key: "role_id", Value: 1},
			{Key: "route", Value: 1},
		},
	}
	if _, err := db.Collection(routeRoleCollection).Indexes().CreateOne(ctx, policyIdx); err != nil {
		return fmt.Errorf("create route role index: %w", err)
	}
	return nil
}
