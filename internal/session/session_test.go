package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/marketplace-backend/internal/users"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/kvstore"
	"github.com/angelmondragon/marketplace-backend/pkg/security"
)

func newStore(t *testing.T) *kvstore.Store {
	t.Helper()
	store, err := kvstore.New(kvstore.NewMemoryBackend(), nil)
	require.NoError(t, err)
	return store
}

func TestDemoLoginRoles(t *testing.T) {
	tests := []struct {
		email    string
		password string
		role     enums.UserRole
		name     string
	}{
		{email: "vendor@example.com", password: "anything", role: enums.UserRoleVendor, name: "John Vendor"},
		{email: "buyer@example.com", password: "x", role: enums.UserRoleBuyer, name: "Jane Buyer"},
		{email: "someone@else.org", password: "pw", role: enums.UserRoleBuyer, name: "Jane Buyer"},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			s := New(users.NewRepository(newStore(t)), NewDemoAuthenticator(), Options{})
			user, err := s.Login(context.Background(), tt.email, tt.password)
			require.NoError(t, err)
			assert.Equal(t, tt.role, user.Role)
			assert.Equal(t, tt.name, user.FullName)
			assert.Equal(t, tt.email, user.Email)
			assert.True(t, user.IsVerified)
			assert.NotEmpty(t, user.ID)
			assert.Equal(t, StateAuthenticated, s.State())
		})
	}
}

func TestLoginPersistsAndLogoutClears(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	repo := users.NewRepository(store)
	s := New(repo, NewDemoAuthenticator(), Options{})
	require.NoError(t, s.Init(ctx))
	assert.Equal(t, StateAnonymous, s.State())

	user, err := s.Login(ctx, "vendor@example.com", "pw")
	require.NoError(t, err)

	restored := New(repo, NewDemoAuthenticator(), Options{})
	require.NoError(t, restored.Init(ctx))
	require.NotNil(t, restored.Current())
	assert.Equal(t, user.ID, restored.Current().ID)

	require.NoError(t, s.Logout(ctx))
	assert.Nil(t, s.Current())
	stored, err := repo.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestLoginRequiresFields(t *testing.T) {
	for name, tc := range map[string]struct{ email, password, field string }{
		"empty":        {field: "email"},
		"bad email":    {email: "not-an-email", password: "pw", field: "email"},
		"blank secret": {email: "buyer@example.com", password: "   ", field: "password"},
	} {
		t.Run(name, func(t *testing.T) {
			s := New(users.NewRepository(newStore(t)), NewDemoAuthenticator(), Options{})
			_, err := s.Login(context.Background(), tc.email, tc.password)
			require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
			details, ok := pkgerrors.As(err).Details().(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, tc.field)
			assert.Equal(t, StateAnonymous, s.State())
		})
	}
}

func TestSignupFabricatesVerifiedUser(t *testing.T) {
	s := New(users.NewRepository(newStore(t)), NewDemoAuthenticator(), Options{})
	user, err := s.Signup(context.Background(), users.SignupInput{
		FullName: "Sam Seller", Email: "sam@example.com", Password: "pw", ConfirmPassword: "pw", Role: "vendor",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleVendor, user.Role)
	assert.Equal(t, "Sam Seller", user.FullName)
	assert.True(t, user.IsVerified)

	_, err = s.Signup(context.Background(), users.SignupInput{FullName: "X", Email: "x@example.com", Password: "a", ConfirmPassword: "b"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

type blockingAuth struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingAuth) Login(ctx context.Context, email, _ string) (users.User, error) {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return users.User{ID: "u", Email: email, Role: enums.UserRoleBuyer}, nil
}

func (b *blockingAuth) Signup(ctx context.Context, in users.SignupInput) (users.User, error) {
	return b.Login(ctx, in.Email, in.Password)
}

func TestConcurrentLoginIsRejected(t *testing.T) {
	auth := &blockingAuth{started: make(chan struct{}), release: make(chan struct{})}
	s := New(users.NewRepository(newStore(t)), auth, Options{})

	done := make(chan error, 1)
	go func() {
		_, err := s.Login(context.Background(), "a@example.com", "pw")
		done <- err
	}()
	<-auth.started

	_, err := s.Login(context.Background(), "b@example.com", "pw")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	close(auth.release)
	require.NoError(t, <-done)
	assert.Equal(t, "a@example.com", s.Current().Email)

	_, err = s.Login(context.Background(), "c@example.com", "pw")
	require.NoError(t, err, "guard is released after completion")
}

func TestLoginDelayHonorsContext(t *testing.T) {
	s := New(users.NewRepository(newStore(t)), NewDemoAuthenticator(), Options{LoginDelay: time.Hour})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := s.Login(ctx, "vendor@example.com", "pw")
	require.Error(t, err)
	assert.Equal(t, StateAnonymous, s.State())
}

func TestCredentialAuthenticator(t *testing.T) {
	ctx := context.Background()
	hasher := security.NewHasher(config.PasswordConfig{ArgonMemoryKB: 8 * 1024, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32})
	auth := NewCredentialAuthenticator(users.NewCredentialRepository(newStore(t)), hasher)
	s := New(users.NewRepository(newStore(t)), auth, Options{})

	_, err := s.Login(ctx, "pat@example.com", "secret-pass")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized), "unknown account")

	_, err = s.Signup(ctx, users.SignupInput{FullName: "Pat", Email: "pat@example.com", Password: "secret-pass", ConfirmPassword: "secret-pass"})
	require.NoError(t, err)

	_, err = s.Signup(ctx, users.SignupInput{FullName: "Pat", Email: "PAT@example.com", Password: "x", ConfirmPassword: "x"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict), "duplicate email")

	_, err = s.Login(ctx, "pat@example.com", "wrong")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	user, err := s.Login(ctx, "pat@example.com", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, "Pat", user.FullName)

	require.NoError(t, auth.ChangePassword(ctx, "pat@example.com", "secret-pass", "newer-pass"))
	_, err = s.Login(ctx, "pat@example.com", "newer-pass")
	require.NoError(t, err)
	err = auth.ChangePassword(ctx, "pat@example.com", "secret-pass", "another")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
