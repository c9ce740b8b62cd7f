// Package storetest provides in-memory stores for handler and router tests.
package storetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"menuthenu/internal/models"
	"menuthenu/internal/store"
)

type Users struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func NewUsers() *Users {
	return &Users{users: make(map[primitive.ObjectID]models.User)}
}

func (s *Users) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return store.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = *user
	return nil
}

func (s *Users) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (s *Users) FindByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return user, nil
}

func (s *Users) AddMenu(_ context.Context, userID, menuID primitive.ObjectID) error {
	return s.update(userID, func(u *models.User) {
		for _, id := range u.Menus {
			if id == menuID {
				return
			}
		}
		u.Menus = append(append([]primitive.ObjectID{}, u.Menus...), menuID)
	})
}

func (s *Users) RemoveMenu(_ context.Context, userID, menuID primitive.ObjectID) error {
	return s.update(userID, func(u *models.User) {
		kept := make([]primitive.ObjectID, 0, len(u.Menus))
		for _, id := range u.Menus {
			if id != menuID {
				kept = append(kept, id)
			}
		}
		u.Menus = kept
	})
}

func (s *Users) SetAvatar(_ context.Context, userID primitive.ObjectID, url string) error {
	return s.update(userID, func(u *models.User) { u.Avatar = url })
}

func (s *Users) update(id primitive.ObjectID, fn func(*models.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	fn(&user)
	user.UpdatedAt = time.Now()
	s.users[id] = user
	return nil
}

type Menus struct {
	mu    sync.Mutex
	menus map[primitive.ObjectID]models.Menu
}

func NewMenus() *Menus {
	return &Menus{menus: make(map[primitive.ObjectID]models.Menu)}
}

// Put stores menu as-is, assigning an id when missing.
func (s *Menus) Put(menu models.Menu) models.Menu {
	s.mu.Lock()
	defer s.mu.Unlock()

	if menu.ID.IsZero() {
		menu.ID = primitive.NewObjectID()
	}
	s.menus[menu.ID] = menu
	return menu
}

func (s *Menus) Create(_ context.Context, menu *models.Menu) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	menu.ID = primitive.NewObjectID()
	menu.CreatedAt = time.Now()
	menu.UpdatedAt = menu.CreatedAt
	s.menus[menu.ID] = *menu
	return nil
}

func (s *Menus) Get(_ context.Context, id primitive.ObjectID) (models.Menu, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	menu, ok := s.menus[id]
	if !ok {
		return models.Menu{}, store.ErrNotFound
	}
	return menu, nil
}

func (s *Menus) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Menu, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Menu, 0)
	for _, menu := range s.menus {
		if menu.OwnedBy(userID) {
			out = append(out, menu)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Menus) Update(_ context.Context, id primitive.ObjectID, patch store.MenuPatch) (models.Menu, error) {
	return s.apply(id, "", func(m *models.Menu) {
		if patch.Name != nil {
			m.Name = *patch.Name
		}
		if patch.Description != nil {
			m.Description = *patch.Description
		}
		if patch.Template != nil {
			m.Template = *patch.Template
		}
		if patch.Customization != nil {
			m.Customization = *patch.Customization
		}
	})
}

func (s *Menus) SetPublished(_ context.Context, id primitive.ObjectID, published bool, subdomain string) (models.Menu, error) {
	return s.apply(id, subdomain, func(m *models.Menu) {
		m.IsPublished = published
		if subdomain != "" {
			m.Subdomain = &subdomain
		}
	})
}

func (s *Menus) SetSubdomain(_ context.Context, id primitive.ObjectID, subdomain string) (models.Menu, error) {
	return s.apply(id, subdomain, func(m *models.Menu) { m.Subdomain = &subdomain })
}

// apply mimics the unique index on subdomain.
func (s *Menus) apply(id primitive.ObjectID, subdomain string, fn func(*models.Menu)) (models.Menu, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	menu, ok := s.menus[id]
	if !ok {
		return models.Menu{}, store.ErrNotFound
	}
	if subdomain != "" {
		for otherID, other := range s.menus {
			if otherID != id && other.SubdomainValue() == subdomain {
				return models.Menu{}, store.ErrDuplicate
			}
		}
	}
	fn(&menu)
	menu.UpdatedAt = time.Now()
	s.menus[id] = menu
	return menu, nil
}

func (s *Menus) SubdomainTaken(_ context.Context, subdomain string, exclude primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, menu := range s.menus {
		if id != exclude && menu.SubdomainValue() == subdomain {
			return true, nil
		}
	}
	return false, nil
}

func (s *Menus) FindPublishedBySubdomain(_ context.Context, subdomain string) (models.Menu, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, menu := range s.menus {
		if menu.IsPublished && menu.SubdomainValue() == subdomain {
			return menu, nil
		}
	}
	return models.Menu{}, store.ErrNotFound
}

func (s *Menus) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.menus[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.menus, id)
	return nil
}

type Items struct {
	mu          sync.Mutex
	collections map[string][]models.MenuItem
	dropped     []string
}

func NewItems() *Items {
	return &Items{collections: make(map[string][]models.MenuItem)}
}

func (s *Items) Insert(_ context.Context, collection string, menuID primitive.ObjectID, items []models.MenuItem) ([]models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.collections[collection]
	inserted := make([]models.MenuItem, 0, len(items))
	for i, item := range items {
		item.ID = primitive.NewObjectID()
		item.MenuID = menuID
		item.Position = int64(len(existing) + i)
		item.CreatedAt = time.Now()
		inserted = append(inserted, item)
	}
	s.collections[collection] = append(existing, inserted...)
	return inserted, nil
}

func (s *Items) List(_ context.Context, collection string) ([]models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]models.MenuItem{}, s.collections[collection]...), nil
}

func (s *Items) Get(_ context.Context, collection string, itemID primitive.ObjectID) (models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.collections[collection] {
		if item.ID == itemID {
			return item, nil
		}
	}
	return models.MenuItem{}, store.ErrNotFound
}

func (s *Items) Update(_ context.Context, collection string, itemID primitive.ObjectID, patch store.ItemPatch) (models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.collections[collection]
	for i := range items {
		if items[i].ID != itemID {
			continue
		}
		item := &items[i]
		if patch.Name != nil {
			item.Name = *patch.Name
		}
		if patch.Price != nil {
			item.Price = *patch.Price
		}
		if patch.Description != nil {
			item.Description = *patch.Description
		}
		if patch.Category != nil {
			item.Category = *patch.Category
		}
		if patch.IsVegetarian != nil {
			item.IsVegetarian = *patch.IsVegetarian
		}
		if patch.Image != nil {
			item.Image = *patch.Image
		}
		if patch.Ingredients != nil {
			item.Ingredients = *patch.Ingredients
		}
		if patch.Nutrition != nil {
			nutrition := *patch.Nutrition
			item.Nutrition = &nutrition
		}
		return *item, nil
	}
	return models.MenuItem{}, store.ErrNotFound
}

func (s *Items) DropCollection(_ context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.collections, collection)
	s.dropped = append(s.dropped, collection)
	return nil
}

// Dropped lists the collections dropped so far.
func (s *Items) Dropped() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string{}, s.dropped...)
}

var (
	_ store.UserStore = (*Users)(nil)
	_ store.MenuStore = (*Menus)(nil)
	_ store.ItemStore = (*Items)(nil)
)
