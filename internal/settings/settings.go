// Package settings implements the account settings screen: profile edits and password changes.
package settings

import (
	"context"
	"strings"
	"time"

	"github.com/angelmondragon/marketplace-backend/internal/session"
	"github.com/angelmondragon/marketplace-backend/internal/simulate"
	"github.com/angelmondragon/marketplace-backend/internal/users"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

// PasswordChanger verifies the current password and stores a new one. The demo authenticator has
// no stored passwords, so a nil PasswordChanger accepts any valid change request.
type PasswordChanger interface {
	ChangePassword(ctx context.Context, email, current, next string) error
}

type Service struct {
	profileDelay time.Duration
	passwords    PasswordChanger
}

func NewService(profileDelay time.Duration, passwords PasswordChanger) *Service {
	return &Service{profileDelay: profileDelay, passwords: passwords}
}

// UpdateProfile validates the form, waits the simulated save latency and stores the new profile on
// the signed-in user.
func (s *Service) UpdateProfile(ctx context.Context, sess *session.Session, in users.ProfileInput) (users.User, error) {
	current := sess.Current()
	if current == nil {
		return users.User{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "not signed in")
	}
	if err := users.ValidateProfile(in).Err(); err != nil {
		return users.User{}, err
	}
	if err := simulate.Latency(ctx, s.profileDelay); err != nil {
		return users.User{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "profile update interrupted")
	}

	updated := *current
	updated.FullName = strings.TrimSpace(in.FullName)
	updated.Email = strings.TrimSpace(in.Email)
	updated.ContactNumber = strings.TrimSpace(in.ContactNumber)
	updated.Address = strings.TrimSpace(in.Address)
	return sess.Replace(ctx, updated)
}

// ChangePassword validates the form and hands it to the PasswordChanger.
func (s *Service) ChangePassword(ctx context.Context, sess *session.Session, in users.PasswordChangeInput) error {
	current := sess.Current()
	if current == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "not signed in")
	}
	if err := users.ValidatePasswordChange(in).Err(); err != nil {
		return err
	}
	if s.passwords == nil {
		return nil
	}
	return s.passwords.ChangePassword(ctx, current.Email, in.CurrentPassword, in.NewPassword)
}
