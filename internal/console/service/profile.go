package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/waypointhq/console/internal/console/identity"
	"github.com/waypointhq/console/internal/console/store"
	"github.com/waypointhq/console/pkg/slogx"
)

var ErrMissingDisplayName = errors.New("display name is required")

// ProfileService covers the self-service settings screen: display name and
// password. Email changes have their own workflow in EmailChangeService.
type ProfileService struct {
	Store    store.Store
	Provider identity.Provider
}

// UpdateDisplayName writes the new name to the provider account and the
// console user record.
func (s *ProfileService) UpdateDisplayName(ctx context.Context, uid, name string) error {
	log := slogx.FromContext(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		return ErrMissingDisplayName
	}

	if err := s.Provider.UpdateDisplayName(ctx, uid, name); err != nil {
		return err
	}
	if err := s.Store.Users().UpdateDisplayName(ctx, uid, name); err != nil {
		log.Error("failed to update console display name",
			slog.String("uid", uid),
			slog.Any("error", err),
		)
		return err
	}

	log.Info("display name updated", slog.String("uid", uid))
	return nil
}

// ChangePassword reauthenticates with the current password before setting
// the new one.
func (s *ProfileService) ChangePassword(ctx context.Context, uid, currentPassword, newPassword string) error {
	log := slogx.FromContext(ctx)

	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	if err := s.Provider.Reauthenticate(ctx, uid, currentPassword); err != nil {
		if errors.Is(err, identity.ErrWrongPassword) || errors.Is(err, identity.ErrUserNotFound) {
			log.Warn("password change reauthentication failed", slog.String("uid", uid))
			return ErrInvalidCredential
		}
		return err
	}

	if err := s.Provider.UpdatePassword(ctx, uid, newPassword); err != nil {
		log.Error("failed to update password",
			slog.String("uid", uid),
			slog.Any("error", err),
		)
		return err
	}

	log.Info("password changed", slog.String("uid", uid))
	return nil
}
