package users

import (
	"context"

	"github.com/angelmondragon/marketplace-backend/pkg/kvstore"
)

// CurrentUserKey is the store key holding the signed-in user of a workspace.
const CurrentUserKey = "currentUser"

// Repository reads and writes the current user of one workspace namespace.
type Repository struct {
	store *kvstore.Store
}

func NewRepository(store *kvstore.Store) *Repository {
	return &Repository{store: store}
}

// Current returns the stored user, or nil when nobody is signed in.
func (r *Repository) Current(ctx context.Context) (*User, error) {
	return kvstore.Get[*User](ctx, r.store, CurrentUserKey, nil)
}

// SetCurrent replaces the stored user.
func (r *Repository) SetCurrent(ctx context.Context, user User) error {
	return r.store.Set(ctx, CurrentUserKey, user)
}

// ClearCurrent removes the stored user.
func (r *Repository) ClearCurrent(ctx context.Context) error {
	return r.store.Delete(ctx, CurrentUserKey)
}
