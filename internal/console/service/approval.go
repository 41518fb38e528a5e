package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/waypointhq/console/internal/console/domain"
	"github.com/waypointhq/console/internal/console/store"
	"github.com/waypointhq/console/pkg/slogx"
)

var ErrSignupNotFound = errors.New("pending signup not found")

// ApprovalService moves pending signups through the approval state machine.
// A signup is either approved into a full admin user record or rejected and
// dropped; there is no in-between state to resume from.
type ApprovalService struct {
	Store store.Store
}

// ListPending returns signups awaiting a decision, newest first.
func (s *ApprovalService) ListPending(ctx context.Context) ([]domain.PendingSignup, error) {
	return s.Store.Signups().List(ctx)
}

// Approve promotes a pending signup to an admin user. The user record write
// and the pending-row delete happen in one transaction, so a signup can
// never be half-approved. Re-approving a UID that already has a user record
// refreshes its role instead of failing.
func (s *ApprovalService) Approve(ctx context.Context, approvedBy string, signupID string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	var user domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		signup, err := tx.Signups().GetByID(ctx, signupID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrSignupNotFound
			}
			return err
		}

		user, err = tx.Users().GetByUID(ctx, signup.UID)
		switch {
		case err == nil:
			if err := tx.Users().UpdateRole(ctx, signup.UID, domain.RoleAdmin); err != nil {
				return err
			}
			user.Role = domain.RoleAdmin
		case errors.Is(err, store.ErrNotFound):
			now := time.Now().UTC()
			user = domain.User{
				UID:         signup.UID,
				Email:       signup.Email,
				DisplayName: signup.DisplayName,
				Role:        domain.RoleAdmin,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := tx.Users().Create(ctx, user); err != nil {
				return err
			}
		default:
			return err
		}

		return tx.Signups().Delete(ctx, signupID)
	})
	if err != nil {
		if !errors.Is(err, ErrSignupNotFound) {
			log.Error("failed to approve signup",
				slog.String("signup_id", signupID),
				slog.Any("error", err),
			)
		}
		return domain.User{}, err
	}

	log.Info("signup approved",
		slog.String("signup_id", signupID),
		slog.String("uid", user.UID),
		slog.String("approved_by", approvedBy),
	)
	return user, nil
}

// Reject drops a pending signup. The provider account stays in place; it
// cannot pass the access gate without a user record, and directory cleanup
// removes it later.
func (s *ApprovalService) Reject(ctx context.Context, rejectedBy string, signupID string) error {
	log := slogx.FromContext(ctx)

	if _, err := s.Store.Signups().GetByID(ctx, signupID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSignupNotFound
		}
		return err
	}

	if err := s.Store.Signups().Delete(ctx, signupID); err != nil {
		log.Error("failed to reject signup",
			slog.String("signup_id", signupID),
			slog.Any("error", err),
		)
		return err
	}

	log.Info("signup rejected",
		slog.String("signup_id", signupID),
		slog.String("rejected_by", rejectedBy),
	)
	return nil
}
