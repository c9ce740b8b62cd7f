package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"menuthenu/internal/database"
	"menuthenu/internal/models"
)

type mongoUserStore struct {
	coll *mongo.Collection
}

func NewUserStore(db *mongo.Database) UserStore {
	return &mongoUserStore{coll: db.Collection(database.UsersCollection)}
}

func (s *mongoUserStore) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if user.Menus == nil {
		user.Menus = []primitive.ObjectID{}
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	res, err := s.coll.InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("insert user: %w", translate(err))
	}
	user.ID, _ = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *mongoUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *mongoUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *mongoUserStore) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var user models.User
	if err := s.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return models.User{}, translate(err)
	}
	return user, nil
}

func (s *mongoUserStore) AddMenu(ctx context.Context, userID, menuID primitive.ObjectID) error {
	return s.update(ctx, userID, bson.M{
		"$addToSet": bson.M{"menus": menuID},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
}

func (s *mongoUserStore) RemoveMenu(ctx context.Context, userID, menuID primitive.ObjectID) error {
	return s.update(ctx, userID, bson.M{
		"$pull": bson.M{"menus": menuID},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
}

func (s *mongoUserStore) SetAvatar(ctx context.Context, userID primitive.ObjectID, url string) error {
	return s.update(ctx, userID, bson.M{
		"$set": bson.M{"avatar": url, "updatedAt": time.Now()},
	})
}

func (s *mongoUserStore) update(ctx context.Context, userID primitive.ObjectID, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.coll.UpdateByID(ctx, userID, update)
	if err != nil {
		return fmt.Errorf("update user %s: %w", userID.Hex(), translate(err))
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
