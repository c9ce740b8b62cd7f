package database

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	UsersCollection = "users"
	MenusCollection = "menus"
)

// EnsureUserIndexes makes email and username unique.
func EnsureUserIndexes(db *mongo.Database, logger zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection(UsersCollection).Indexes()

	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName("username_unique").SetUnique(true),
		},
	}

	names, err := indexes.CreateMany(ctx, models)
	if err != nil {
		logger.Error().Err(err).Msg("EnsureUserIndexes: create failed")
		return err
	}
	logger.Info().Strs("indexes", names).Msg("EnsureUserIndexes: indexes ready")
	return nil
}

// EnsureMenuIndexes makes assigned subdomains globally unique and speeds up
// owner lookups. Menus without a subdomain are left out of the unique index.
func EnsureMenuIndexes(db *mongo.Database, logger zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection(MenusCollection).Indexes()

	models := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "subdomain", Value: 1}},
			Options: options.Index().
				SetName("subdomain_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"subdomain": bson.M{"$type": "string"},
				}),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetName("userId_index"),
		},
	}

	names, err := indexes.CreateMany(ctx, models)
	if err != nil {
		logger.Error().Err(err).Msg("EnsureMenuIndexes: create failed")
		return err
	}
	logger.Info().Strs("indexes", names).Msg("EnsureMenuIndexes: indexes ready")
	return nil
}
