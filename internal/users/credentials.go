package users

import (
	"context"
	"sync"

	"github.com/angelmondragon/marketplace-backend/pkg/kvstore"
)

// CredentialsKey holds the email to password-hash registry used by the credentials authenticator.
const CredentialsKey = "credentials"

// Credential is a registered account with its password hash.
type Credential struct {
	User         User   `json:"user"`
	PasswordHash string `json:"password_hash"`
}

// CredentialRepository persists registered accounts keyed by normalized email.
type CredentialRepository struct {
	store *kvstore.Store
	mu    sync.Mutex
}

func NewCredentialRepository(store *kvstore.Store) *CredentialRepository {
	return &CredentialRepository{store: store}
}

// Find returns the credential for email, or nil if it was never registered.
func (r *CredentialRepository) Find(ctx context.Context, email string) (*Credential, error) {
	all, err := kvstore.Get(ctx, r.store, CredentialsKey, map[string]Credential{})
	if err != nil {
		return nil, err
	}
	cred, ok := all[NormalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	return &cred, nil
}

// Put registers or replaces the credential for its user's email.
func (r *CredentialRepository) Put(ctx context.Context, cred Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	all, err := kvstore.Get(ctx, r.store, CredentialsKey, map[string]Credential{})
	if err != nil {
		return err
	}
	if all == nil {
		all = map[string]Credential{}
	}
	all[NormalizeEmail(cred.User.Email)] = cred
	return r.store.Set(ctx, CredentialsKey, all)
}
