// Package session holds who is signed in to a workspace. A session is either anonymous or
// authenticated as exactly one user, and the user is persisted under the workspace's
// currentUser key.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/angelmondragon/marketplace-backend/internal/simulate"
	"github.com/angelmondragon/marketplace-backend/internal/users"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

// State names the two session states.
type State string

const (
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
)

// Options tunes the simulated latency of login and signup.
type Options struct {
	LoginDelay  time.Duration
	SignupDelay time.Duration
}

// Session is safe for concurrent use. Login and Signup are mutually exclusive: while one is
// pending a second call returns CONFLICT.
type Session struct {
	repo *users.Repository
	auth Authenticator
	opts Options

	mu      sync.Mutex
	user    *users.User
	pending bool
}

func New(repo *users.Repository, auth Authenticator, opts Options) *Session {
	return &Session{repo: repo, auth: auth, opts: opts}
}

// Init loads the persisted current user, if any.
func (s *Session) Init(ctx context.Context) error {
	user, err := s.repo.Current(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return nil
}

// Login authenticates after the configured delay and makes the user current.
func (s *Session) Login(ctx context.Context, email, password string) (users.User, error) {
	if err := users.ValidateLogin(users.LoginInput{Email: email, Password: password}).Err(); err != nil {
		return users.User{}, err
	}
	return s.signIn(ctx, s.opts.LoginDelay, func(ctx context.Context) (users.User, error) {
		return s.auth.Login(ctx, email, password)
	})
}

// Signup registers a verified user after the configured delay and makes it current.
func (s *Session) Signup(ctx context.Context, in users.SignupInput) (users.User, error) {
	if err := users.ValidateSignup(in).Err(); err != nil {
		return users.User{}, err
	}
	return s.signIn(ctx, s.opts.SignupDelay, func(ctx context.Context) (users.User, error) {
		return s.auth.Signup(ctx, in)
	})
}

func (s *Session) signIn(ctx context.Context, delay time.Duration, authenticate func(context.Context) (users.User, error)) (users.User, error) {
	if err := s.begin(); err != nil {
		return users.User{}, err
	}
	defer s.end()

	if err := simulate.Latency(ctx, delay); err != nil {
		return users.User{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "authentication interrupted")
	}
	user, err := authenticate(ctx)
	if err != nil {
		return users.User{}, err
	}
	if err := s.repo.SetCurrent(ctx, user); err != nil {
		return users.User{}, err
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return user, nil
}

// Logout forgets the current user.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.repo.ClearCurrent(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
	return nil
}

// Current returns a copy of the signed-in user, or nil.
func (s *Session) Current() *users.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) State() State {
	if s.Current() == nil {
		return StateAnonymous
	}
	return StateAuthenticated
}

// Replace persists a new version of the signed-in user, keeping its id and role.
func (s *Session) Replace(ctx context.Context, user users.User) (users.User, error) {
	current := s.Current()
	if current == nil {
		return users.User{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "not signed in")
	}
	user.ID = current.ID
	user.Role = current.Role
	if err := s.repo.SetCurrent(ctx, user); err != nil {
		return users.User{}, err
	}
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return user, nil
}

func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending {
		return pkgerrors.New(pkgerrors.CodeConflict, "a sign-in request is already in progress")
	}
	s.pending = true
	return nil
}

func (s *Session) end() {
	s.mu.Lock()
	s.pending = false
	s.mu.Unlock()
}
