// Package workspace models one browsing session: who is signed in, the cart, the checkout flow
// and the session's own slice of the store. Workspaces are created on first use and torn down on
// logout or after sitting idle.
package workspace

import (
	"context"

	"go.uber.org/multierr"

	"github.com/angelmondragon/marketplace-backend/internal/cart"
	"github.com/angelmondragon/marketplace-backend/internal/checkout"
	"github.com/angelmondragon/marketplace-backend/internal/onboarding"
	"github.com/angelmondragon/marketplace-backend/internal/session"
	"github.com/angelmondragon/marketplace-backend/internal/users"
	"github.com/angelmondragon/marketplace-backend/internal/wishlist"
	"github.com/angelmondragon/marketplace-backend/pkg/kvstore"
)

// Workspace is the per-session state passed to every handler.
type Workspace struct {
	ID         string
	Session    *session.Session
	Cart       *cart.Cart
	Checkout   *checkout.Flow
	Wishlist   *wishlist.Service
	Onboarding *onboarding.Wizard

	store *kvstore.Store
}

func newWorkspace(id string, store *kvstore.Store, deps Deps) *Workspace {
	c := cart.New()
	var flowOpts []checkout.Option
	if deps.Clock != nil {
		flowOpts = append(flowOpts, checkout.WithClock(deps.Clock))
	}
	return &Workspace{
		ID:         id,
		Session:    session.New(users.NewRepository(store), deps.Authenticator, deps.SessionOptions),
		Cart:       c,
		Checkout:   checkout.NewFlow(c, deps.PaymentProcessor, flowOpts...),
		Wishlist:   wishlist.NewService(store),
		Onboarding: onboarding.NewWizard(store),
		store:      store,
	}
}

// Init restores persisted session state.
func (w *Workspace) Init(ctx context.Context) error {
	return w.Session.Init(ctx)
}

// Store is the workspace's namespace.
func (w *Workspace) Store() *kvstore.Store {
	return w.store
}

// Teardown signs the user out and drops the cart and any open checkout. Persisted preferences
// such as the wishlist survive.
func (w *Workspace) Teardown(ctx context.Context) error {
	w.Checkout.Close()
	w.Cart.Clear()
	return w.Session.Logout(ctx)
}

// Purge tears down and also removes everything the workspace persisted.
func (w *Workspace) Purge(ctx context.Context) error {
	return multierr.Combine(
		w.Teardown(ctx),
		w.Wishlist.Clear(ctx),
		w.Onboarding.Reset(ctx),
	)
}
