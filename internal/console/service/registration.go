package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/waypointhq/console/internal/console/domain"
	"github.com/waypointhq/console/internal/console/identity"
	"github.com/waypointhq/console/internal/console/store"
	"github.com/waypointhq/console/pkg/idx"
	"github.com/waypointhq/console/pkg/slogx"
)

// MinPasswordLength matches the weakest password the identity provider will
// accept.
const MinPasswordLength = 6

var (
	ErrMissingSignupFields = errors.New("missing required signup fields")
	ErrPasswordTooShort    = errors.New("password must be at least 6 characters")
)

// RegistrationService turns a valid invitation token plus credentials into a
// pending signup awaiting approval. Registration never produces an
// authenticated session.
type RegistrationService struct {
	Store    store.Store
	Invites  *InviteService
	Provider identity.Provider
}

// Register validates the invitation token, creates the provider account, and
// records the pending signup while consuming the token in one transaction.
// If that transaction fails the provider account is deleted again so the
// email can be retried with a fresh token.
func (s *RegistrationService) Register(
	ctx context.Context,
	token string,
	email string,
	password string,
	displayName string,
) (domain.PendingSignup, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input.
	if token == "" || email == "" || password == "" || displayName == "" {
		log.Warn("registration missing required fields")
		return domain.PendingSignup{}, ErrMissingSignupFields
	}
	if len(password) < MinPasswordLength {
		return domain.PendingSignup{}, ErrPasswordTooShort
	}

	// 2. Validate the invitation token up front so the provider account is
	// only created for redeemable tokens.
	invitation, err := s.Invites.ValidateToken(ctx, token)
	if err != nil {
		return domain.PendingSignup{}, err
	}

	// 3. Create the provider account. Provider errors surface verbatim.
	account, err := s.Provider.CreateAccount(ctx, email, password, displayName)
	if err != nil {
		log.Warn("provider rejected account creation", slog.Any("error", err))
		return domain.PendingSignup{}, err
	}

	// 4. Record the pending signup and consume the token atomically.
	signup := domain.PendingSignup{
		ID:          idx.New().String(),
		UID:         account.UID,
		Email:       account.Email,
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Signups().Create(ctx, signup); err != nil {
			log.Error("failed to create pending signup",
				slog.String("uid", account.UID),
				slog.Any("error", err),
			)
			return err
		}

		// The conditional write loses the race if another registration
		// consumed the token between validation and here.
		if err := tx.Tokens().MarkUsed(ctx, invitation.ID, account.UID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				log.Warn("invitation token consumed concurrently",
					slog.String("token_id", invitation.ID),
				)
				return ErrTokenUsed
			}
			log.Error("failed to consume invitation token",
				slog.String("token_id", invitation.ID),
				slog.Any("error", err),
			)
			return err
		}
		return nil
	})
	if err != nil {
		// 5. Compensate: the account must not outlive a failed signup, or
		// the email would be burned without a pending record to approve.
		if delErr := s.Provider.DeleteAccount(ctx, account.UID); delErr != nil {
			log.Error("failed to delete provider account after signup failure",
				slog.String("uid", account.UID),
				slog.Any("error", delErr),
			)
		}
		return domain.PendingSignup{}, err
	}

	log.Info("registration recorded",
		slog.String("uid", signup.UID),
		slog.String("signup_id", signup.ID),
		slog.String("token_id", invitation.ID),
	)

	return signup, nil
}
