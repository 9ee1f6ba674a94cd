// Package wishlist keeps the product ids a buyer has saved for later.
package wishlist

import (
	"context"
	"strings"
	"sync"

	"github.com/angelmondragon/marketplace-backend/pkg/kvstore"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

// StoreKey holds the wishlist in the workspace namespace.
const StoreKey = "wishlist"

// Service toggles product ids in a workspace wishlist.
type Service struct {
	store *kvstore.Store
	mu    sync.Mutex
}

func NewService(store *kvstore.Store) *Service {
	return &Service{store: store}
}

// List returns the saved product ids in the order they were added.
func (s *Service) List(ctx context.Context) ([]string, error) {
	ids, err := kvstore.Get(ctx, s.store, StoreKey, []string{})
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Toggle adds productID when absent and removes it when present. It reports whether the
// product is in the wishlist afterwards.
func (s *Service) Toggle(ctx context.Context, productID string) (bool, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	for i, id := range ids {
		if id == productID {
			ids = append(ids[:i], ids[i+1:]...)
			return false, s.store.Set(ctx, StoreKey, ids)
		}
	}
	ids = append(ids, productID)
	return true, s.store.Set(ctx, StoreKey, ids)
}

// Clear empties the wishlist.
func (s *Service) Clear(ctx context.Context) error {
	return s.store.Delete(ctx, StoreKey)
}
