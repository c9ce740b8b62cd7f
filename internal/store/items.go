package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"menuthenu/internal/models"
)

type mongoItemStore struct {
	registry *ItemRegistry
}

func NewItemStore(registry *ItemRegistry) ItemStore {
	return &mongoItemStore{registry: registry}
}

// Insert numbers the batch from nextPosition without a lock or transaction,
// so concurrent batches for one menu may share positions.
func (s *mongoItemStore) Insert(ctx context.Context, collection string, menuID primitive.ObjectID, items []models.MenuItem) ([]models.MenuItem, error) {
	if len(items) == 0 {
		return []models.MenuItem{}, nil
	}

	coll, err := s.registry.Collection(ctx, collection)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	next, err := nextPosition(ctx, coll)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	docs := make([]interface{}, 0, len(items))
	inserted := make([]models.MenuItem, 0, len(items))
	for i, item := range items {
		item.ID = primitive.NewObjectID()
		item.MenuID = menuID
		item.Position = next + int64(i)
		item.CreatedAt = now
		docs = append(docs, item)
		inserted = append(inserted, item)
	}

	if _, err := coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return nil, fmt.Errorf("insert items into %s: %w", collection, translate(err))
	}
	return inserted, nil
}

func nextPosition(ctx context.Context, coll *mongo.Collection) (int64, error) {
	var last models.MenuItem
	err := coll.FindOne(ctx, bson.M{}, options.FindOne().
		SetSort(bson.D{{Key: "position", Value: -1}}).
		SetProjection(bson.M{"position": 1}),
	).Decode(&last)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read last position: %w", err)
	}
	return last.Position + 1, nil
}

func (s *mongoItemStore) List(ctx context.Context, collection string) ([]models.MenuItem, error) {
	coll, err := s.registry.Collection(ctx, collection)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find items in %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	items := make([]models.MenuItem, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return items, nil
}

func (s *mongoItemStore) Get(ctx context.Context, collection string, itemID primitive.ObjectID) (models.MenuItem, error) {
	coll, err := s.registry.Collection(ctx, collection)
	if err != nil {
		return models.MenuItem{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var item models.MenuItem
	if err := coll.FindOne(ctx, bson.M{"_id": itemID}).Decode(&item); err != nil {
		return models.MenuItem{}, translate(err)
	}
	return item, nil
}

func (s *mongoItemStore) Update(ctx context.Context, collection string, itemID primitive.ObjectID, patch ItemPatch) (models.MenuItem, error) {
	coll, err := s.registry.Collection(ctx, collection)
	if err != nil {
		return models.MenuItem{}, err
	}

	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.IsVegetarian != nil {
		set["isVegetarian"] = *patch.IsVegetarian
	}
	if patch.Image != nil {
		set["image"] = *patch.Image
	}
	if patch.Ingredients != nil {
		set["ingredients"] = *patch.Ingredients
	}
	if patch.Nutrition != nil {
		set["nutrition"] = *patch.Nutrition
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var updated models.MenuItem
	err = coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": itemID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return models.MenuItem{}, translate(err)
	}
	return updated, nil
}

func (s *mongoItemStore) DropCollection(ctx context.Context, collection string) error {
	return s.registry.Drop(ctx, collection)
}
