package products

import (
	"context"

	"github.com/angelmondragon/marketplace-backend/pkg/kvstore"
)

// StoreKey holds the shared product list.
const StoreKey = "products"

// Repository reads and writes the whole product list.
type Repository struct {
	store *kvstore.Store
}

// NewRepository binds the repository to the shared catalog namespace.
func NewRepository(store *kvstore.Store) *Repository {
	return &Repository{store: store}
}

// List returns every product, seeding the default catalog on first access.
func (r *Repository) List(ctx context.Context) ([]Product, error) {
	items, err := kvstore.Get(ctx, r.store, StoreKey, SeedProducts())
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Product{}
	}
	return items, nil
}

// Save replaces the stored product list.
func (r *Repository) Save(ctx context.Context, items []Product) error {
	if items == nil {
		items = []Product{}
	}
	return r.store.Set(ctx, StoreKey, items)
}
