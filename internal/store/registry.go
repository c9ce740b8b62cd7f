package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	itemCollectionPrefix = "menu_items_"

	// codeNamespaceExists is returned by create when the collection is
	// already there, e.g. after a restart.
	codeNamespaceExists = 48
)

// NewCollectionName generates the dedicated item collection name for a new menu.
func NewCollectionName() string {
	return itemCollectionPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ValidCollectionName reports whether name was produced by NewCollectionName.
func ValidCollectionName(name string) bool {
	suffix, ok := strings.CutPrefix(name, itemCollectionPrefix)
	if !ok || len(suffix) != 32 {
		return false
	}
	for _, r := range suffix {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}

// ItemRegistry hands out one collection handle per menu. The first access
// creates the collection; later accesses reuse the cached handle for the
// lifetime of the process.
type ItemRegistry struct {
	db     *mongo.Database
	logger zerolog.Logger

	mu      sync.Mutex
	handles map[string]*mongo.Collection
}

func NewItemRegistry(db *mongo.Database, logger zerolog.Logger) *ItemRegistry {
	return &ItemRegistry{
		db:      db,
		logger:  logger.With().Str("component", "item-registry").Logger(),
		handles: make(map[string]*mongo.Collection),
	}
}

// Collection returns the handle for name, creating the collection on first use.
func (r *ItemRegistry) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	if !ValidCollectionName(name) {
		return nil, fmt.Errorf("invalid item collection name %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if coll, ok := r.handles[name]; ok {
		return coll, nil
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := r.db.CreateCollection(ctx, name); err != nil && !isNamespaceExists(err) {
		return nil, fmt.Errorf("create collection %s: %w", name, err)
	}

	coll := r.db.Collection(name)
	r.handles[name] = coll
	r.logger.Debug().Str("collection", name).Msg("item collection registered")
	return coll, nil
}

// Drop removes the collection and forgets its handle.
func (r *ItemRegistry) Drop(ctx context.Context, name string) error {
	if !ValidCollectionName(name) {
		return fmt.Errorf("invalid item collection name %q", name)
	}

	r.mu.Lock()
	delete(r.handles, name)
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := r.db.Collection(name).Drop(ctx); err != nil {
		return fmt.Errorf("drop collection %s: %w", name, err)
	}
	return nil
}

// Cached reports whether a handle for name is held.
func (r *ItemRegistry) Cached(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.handles[name]
	return ok
}

func isNamespaceExists(err error) bool {
	var cmdErr mongo.CommandError
	return errors.As(err, &cmdErr) && cmdErr.Code == codeNamespaceExists
}
