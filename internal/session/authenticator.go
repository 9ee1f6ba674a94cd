package session

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-backend/internal/users"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/security"
)

// DemoVendorEmail logs in as the demo vendor under the demo authenticator.
const DemoVendorEmail = "vendor@example.com"

// Authenticator turns credentials or a signup form into the user to sign in.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (users.User, error)
	Signup(ctx context.Context, in users.SignupInput) (users.User, error)
}

// DemoAuthenticator accepts any password. The demo vendor email maps to a vendor account and
// every other email to a buyer account.
type DemoAuthenticator struct {
	NewID func() string
}

func NewDemoAuthenticator() *DemoAuthenticator {
	return &DemoAuthenticator{NewID: uuid.NewString}
}

func (a *DemoAuthenticator) Login(_ context.Context, email, _ string) (users.User, error) {
	email = strings.TrimSpace(email)
	user := users.User{
		ID:         a.NewID(),
		Email:      email,
		FullName:   "Jane Buyer",
		Role:       enums.UserRoleBuyer,
		IsVerified: true,
	}
	if users.NormalizeEmail(email) == DemoVendorEmail {
		user.FullName = "John Vendor"
		user.Role = enums.UserRoleVendor
	}
	return user, nil
}

func (a *DemoAuthenticator) Signup(_ context.Context, in users.SignupInput) (users.User, error) {
	return newUser(a.NewID(), in), nil
}

// CredentialAuthenticator checks passwords against argon2id hashes registered at signup.
type CredentialAuthenticator struct {
	creds  *users.CredentialRepository
	hasher *security.Hasher
	NewID  func() string
}

func NewCredentialAuthenticator(creds *users.CredentialRepository, hasher *security.Hasher) *CredentialAuthenticator {
	return &CredentialAuthenticator{creds: creds, hasher: hasher, NewID: uuid.NewString}
}

func (a *CredentialAuthenticator) Login(ctx context.Context, email, password string) (users.User, error) {
	cred, err := a.creds.Find(ctx, email)
	if err != nil {
		return users.User{}, err
	}
	if cred == nil {
		return users.User{}, invalidCredentials()
	}
	ok, err := a.hasher.Verify(password, cred.PasswordHash)
	if err != nil {
		return users.User{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return users.User{}, invalidCredentials()
	}
	return cred.User, nil
}

func (a *CredentialAuthenticator) Signup(ctx context.Context, in users.SignupInput) (users.User, error) {
	existing, err := a.creds.Find(ctx, in.Email)
	if err != nil {
		return users.User{}, err
	}
	if existing != nil {
		return users.User{}, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	}
	hash, err := a.hasher.Hash(in.Password)
	if err != nil {
		return users.User{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	user := newUser(a.NewID(), in)
	if err := a.creds.Put(ctx, users.Credential{User: user, PasswordHash: hash}); err != nil {
		return users.User{}, err
	}
	return user, nil
}

// ChangePassword replaces the stored hash after checking the current password.
func (a *CredentialAuthenticator) ChangePassword(ctx context.Context, email, current, next string) error {
	cred, err := a.creds.Find(ctx, email)
	if err != nil {
		return err
	}
	if cred == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
	}
	ok, err := a.hasher.Verify(current, cred.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"current_password": "is incorrect"})
	}
	hash, err := a.hasher.Hash(next)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	cred.PasswordHash = hash
	return a.creds.Put(ctx, *cred)
}

func newUser(id string, in users.SignupInput) users.User {
	role := enums.UserRole(in.Role)
	if role == "" {
		role = enums.UserRoleBuyer
	}
	return users.User{
		ID:         id,
		Email:      strings.TrimSpace(in.Email),
		FullName:   strings.TrimSpace(in.FullName),
		Role:       role,
		IsVerified: true,
	}
}

func invalidCredentials() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
}
