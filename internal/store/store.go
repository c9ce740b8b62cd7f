// Package store holds the MongoDB persistence for users, menus and the
// per-menu item collections.
package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"menuthenu/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

const opTimeout = 5 * time.Second

// UserStore persists menu owners.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	AddMenu(ctx context.Context, userID, menuID primitive.ObjectID) error
	RemoveMenu(ctx context.Context, userID, menuID primitive.ObjectID) error
	SetAvatar(ctx context.Context, userID primitive.ObjectID, url string) error
}

// MenuPatch lists the menu fields an owner may change directly.
type MenuPatch struct {
	Name          *string
	Description   *string
	Template      *string
	Customization *models.Customization
}

// MenuStore persists menu documents.
type MenuStore interface {
	Create(ctx context.Context, menu *models.Menu) error
	Get(ctx context.Context, id primitive.ObjectID) (models.Menu, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Menu, error)
	Update(ctx context.Context, id primitive.ObjectID, patch MenuPatch) (models.Menu, error)
	// SetPublished flips the published flag. A non-empty subdomain is
	// assigned in the same write.
	SetPublished(ctx context.Context, id primitive.ObjectID, published bool, subdomain string) (models.Menu, error)
	SetSubdomain(ctx context.Context, id primitive.ObjectID, subdomain string) (models.Menu, error)
	SubdomainTaken(ctx context.Context, subdomain string, exclude primitive.ObjectID) (bool, error)
	FindPublishedBySubdomain(ctx context.Context, subdomain string) (models.Menu, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ItemPatch lists the item fields that may be updated in place.
type ItemPatch struct {
	Name         *string
	Price        *float64
	Description  *string
	Category     *string
	IsVegetarian *bool
	Image        *string
	Ingredients  *models.StringList
	Nutrition    *models.Nutrition
}

// Empty reports whether the patch changes nothing.
func (p ItemPatch) Empty() bool {
	return p.Name == nil && p.Price == nil && p.Description == nil && p.Category == nil &&
		p.IsVegetarian == nil && p.Image == nil && p.Ingredients == nil && p.Nutrition == nil
}

// ItemStore reads and writes the items of one menu collection at a time.
// No method reads across collections.
type ItemStore interface {
	// Insert appends items after the current highest position. Concurrent
	// inserts into the same menu are not serialized: two batches can read the
	// same next position and end up interleaved.
	Insert(ctx context.Context, collection string, menuID primitive.ObjectID, items []models.MenuItem) ([]models.MenuItem, error)
	List(ctx context.Context, collection string) ([]models.MenuItem, error)
	Get(ctx context.Context, collection string, itemID primitive.ObjectID) (models.MenuItem, error)
	Update(ctx context.Context, collection string, itemID primitive.ObjectID, patch ItemPatch) (models.MenuItem, error)
	DropCollection(ctx context.Context, collection string) error
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}
