package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"menuthenu/internal/database"
	"menuthenu/internal/models"
)

type mongoMenuStore struct {
	coll *mongo.Collection
}

func NewMenuStore(db *mongo.Database) MenuStore {
	return &mongoMenuStore{coll: db.Collection(database.MenusCollection)}
}

func (s *mongoMenuStore) Create(ctx context.Context, menu *models.Menu) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now()
	menu.CreatedAt = now
	menu.UpdatedAt = now
	res, err := s.coll.InsertOne(ctx, menu)
	if err != nil {
		return fmt.Errorf("insert menu: %w", translate(err))
	}
	menu.ID, _ = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *mongoMenuStore) Get(ctx context.Context, id primitive.ObjectID) (models.Menu, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *mongoMenuStore) FindPublishedBySubdomain(ctx context.Context, subdomain string) (models.Menu, error) {
	return s.findOne(ctx, bson.M{"subdomain": subdomain, "isPublished": true})
}

func (s *mongoMenuStore) findOne(ctx context.Context, filter bson.M) (models.Menu, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var menu models.Menu
	if err := s.coll.FindOne(ctx, filter).Decode(&menu); err != nil {
		return models.Menu{}, translate(err)
	}
	return menu, nil
}

func (s *mongoMenuStore) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Menu, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find menus: %w", err)
	}
	defer cursor.Close(ctx)

	menus := make([]models.Menu, 0)
	if err := cursor.All(ctx, &menus); err != nil {
		return nil, fmt.Errorf("decode menus: %w", err)
	}
	return menus, nil
}

func (s *mongoMenuStore) Update(ctx context.Context, id primitive.ObjectID, patch MenuPatch) (models.Menu, error) {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Template != nil {
		set["template"] = *patch.Template
	}
	if patch.Customization != nil {
		set["customization"] = *patch.Customization
	}
	return s.apply(ctx, id, set)
}

func (s *mongoMenuStore) SetPublished(ctx context.Context, id primitive.ObjectID, published bool, subdomain string) (models.Menu, error) {
	set := bson.M{"isPublished": published}
	if subdomain != "" {
		set["subdomain"] = subdomain
	}
	return s.apply(ctx, id, set)
}

func (s *mongoMenuStore) SetSubdomain(ctx context.Context, id primitive.ObjectID, subdomain string) (models.Menu, error) {
	return s.apply(ctx, id, bson.M{"subdomain": subdomain})
}

func (s *mongoMenuStore) apply(ctx context.Context, id primitive.ObjectID, set bson.M) (models.Menu, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	set["updatedAt"] = time.Now()

	var updated models.Menu
	err := s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return models.Menu{}, translate(err)
	}
	return updated, nil
}

func (s *mongoMenuStore) SubdomainTaken(ctx context.Context, subdomain string, exclude primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"subdomain": subdomain}
	if !exclude.IsZero() {
		filter["_id"] = bson.M{"$ne": exclude}
	}
	count, err := s.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count subdomain: %w", err)
	}
	return count > 0, nil
}

func (s *mongoMenuStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete menu: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
