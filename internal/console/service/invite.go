package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/waypointhq/console/internal/console/domain"
	"github.com/waypointhq/console/internal/console/store"
	"github.com/waypointhq/console/pkg/cryptox"
	"github.com/waypointhq/console/pkg/idx"
	"github.com/waypointhq/console/pkg/slogx"
)

// DefaultInviteTTL is how long a minted invitation token stays redeemable.
const DefaultInviteTTL = 24 * time.Hour

var (
	ErrTokenInvalid = errors.New("invitation token is invalid")
	ErrTokenExpired = errors.New("invitation token has expired")
	ErrTokenUsed    = errors.New("invitation token has already been used")
)

// InviteService mints and validates invitation tokens. A token gates exactly
// one registration; only its fingerprint is kept at rest.
type InviteService struct {
	Store store.Store

	// TTL overrides DefaultInviteTTL when positive.
	TTL time.Duration
}

// MintToken creates a new invitation token on behalf of an admin.
// The raw token is returned once and never stored.
func (s *InviteService) MintToken(ctx context.Context, createdBy string) (string, error) {
	log := slogx.FromContext(ctx)

	// 1. Generate the random token and fingerprint it.
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invitation token", slog.Any("error", err))
		return "", err
	}

	now := time.Now().UTC()
	invitation := domain.InvitationToken{
		ID:        idx.New().String(),
		TokenHash: cryptox.FingerprintToken(token),
		CreatedBy: createdBy,
		ExpiresAt: now.Add(s.TTLOrDefault()),
		Used:      false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// 2. Persist the fingerprinted record.
	if err := s.Store.Tokens().Create(ctx, invitation); err != nil {
		log.Error("failed to store invitation token",
			slog.String("token_id", invitation.ID),
			slog.Any("error", err),
		)
		return "", err
	}

	log.Info("invitation token minted",
		slog.String("token_id", invitation.ID),
		slog.String("created_by", createdBy),
		slog.Time("expires_at", invitation.ExpiresAt),
	)

	// 3. Return the raw token (not the fingerprint).
	return token, nil
}

// ValidateToken resolves a raw token to its record and judges its state.
// Unknown and malformed tokens both come back as ErrTokenInvalid.
func (s *InviteService) ValidateToken(ctx context.Context, token string) (domain.InvitationToken, error) {
	log := slogx.FromContext(ctx)

	if token == "" {
		return domain.InvitationToken{}, ErrTokenInvalid
	}

	invitation, err := s.Store.Tokens().GetByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("validation attempted with unknown invitation token")
			return domain.InvitationToken{}, ErrTokenInvalid
		}
		log.Error("failed to fetch invitation token", slog.Any("error", err))
		return domain.InvitationToken{}, err
	}

	if invitation.Used {
		log.Warn("validation attempted with consumed invitation token",
			slog.String("token_id", invitation.ID),
			slog.String("used_by", invitation.UsedBy),
		)
		return domain.InvitationToken{}, ErrTokenUsed
	}

	if time.Now().After(invitation.ExpiresAt) {
		log.Warn("validation attempted with expired invitation token",
			slog.String("token_id", invitation.ID),
			slog.Time("expired_at", invitation.ExpiresAt),
		)
		return domain.InvitationToken{}, ErrTokenExpired
	}

	return invitation, nil
}

// TTLOrDefault resolves the configured token lifetime.
func (s *InviteService) TTLOrDefault() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultInviteTTL
}
