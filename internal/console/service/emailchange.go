package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/waypointhq/console/internal/console/domain"
	"github.com/waypointhq/console/internal/console/identity"
	"github.com/waypointhq/console/internal/console/store"
	"github.com/waypointhq/console/pkg/slogx"
)

var (
	ErrInvalidCredential      = errors.New("current password is incorrect")
	ErrEmailUnchanged         = errors.New("new email matches the current email")
	ErrEmailChangeUnsupported = errors.New("email change is not supported for this sign-in method")
	ErrMissingEmail           = errors.New("new email is required")
)

// EmailChangeService runs the two-phase email change: RequestChange files
// the intent and triggers the provider's verification link; the address only
// takes effect after ConfirmVerification consumes the link, and the console
// record follows at the user's next login through the access gate.
type EmailChangeService struct {
	Store    store.Store
	Provider identity.Provider
}

// RequestChange reauthenticates the caller, asks the provider to verify the
// new address, and files the pending intent. Returns the verification token
// to embed in the emailed link.
func (s *EmailChangeService) RequestChange(
	ctx context.Context,
	uid string,
	newEmail string,
	currentPassword string,
) (string, error) {
	log := slogx.FromContext(ctx)

	newEmail = strings.ToLower(strings.TrimSpace(newEmail))
	if newEmail == "" {
		return "", ErrMissingEmail
	}

	// 1. Email changes only make sense for password accounts; federated
	// identities own their email upstream.
	account, err := s.Provider.GetAccount(ctx, uid)
	if err != nil {
		return "", err
	}
	if account.SignInMethod != domain.SignInMethodPassword {
		return "", ErrEmailChangeUnsupported
	}
	if strings.EqualFold(newEmail, account.Email) {
		return "", ErrEmailUnchanged
	}

	// 2. Reauthenticate before anything is filed.
	if err := s.Provider.Reauthenticate(ctx, uid, currentPassword); err != nil {
		if errors.Is(err, identity.ErrWrongPassword) || errors.Is(err, identity.ErrUserNotFound) {
			log.Warn("email change reauthentication failed", slog.String("uid", uid))
			return "", ErrInvalidCredential
		}
		return "", err
	}

	// 3. Ask the provider to start verification for the new address.
	token, err := s.Provider.SendVerificationForNewEmail(ctx, uid, newEmail)
	if err != nil {
		if errors.Is(err, identity.ErrOperationNotAllowed) {
			return "", ErrEmailChangeUnsupported
		}
		log.Warn("provider refused verification request",
			slog.String("uid", uid),
			slog.Any("error", err),
		)
		return "", err
	}

	// 4. File the intent. The console email stays untouched until the gate
	// observes the verified address.
	if err := s.Store.Users().SetPendingEmail(ctx, uid, newEmail, time.Now().UTC()); err != nil {
		log.Error("failed to file email-change intent",
			slog.String("uid", uid),
			slog.Any("error", err),
		)
		return "", err
	}

	log.Info("email change requested", slog.String("uid", uid))
	return token, nil
}

// ConfirmVerification consumes a verification link token. On success the
// provider's authoritative email has moved and its sessions are revoked; the
// console record catches up at the next login.
func (s *EmailChangeService) ConfirmVerification(ctx context.Context, token string) (string, string, error) {
	log := slogx.FromContext(ctx)

	uid, newEmail, err := s.Provider.VerifyEmail(ctx, token)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredential) {
			log.Warn("verification attempted with unusable link")
		}
		return "", "", err
	}

	log.Info("email verification confirmed", slog.String("uid", uid))
	return uid, newEmail, nil
}
