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
	"github.com/waypointhq/console/pkg/jwtx"
	"github.com/waypointhq/console/pkg/slogx"
)

var (
	// ErrInvalidLogin covers unknown emails and wrong passwords alike, so a
	// caller cannot probe which addresses have accounts.
	ErrInvalidLogin = errors.New("invalid email or password")

	ErrUserRecordMissing = errors.New("no console record exists for this account")
	ErrPendingApproval   = errors.New("account is awaiting approval")
	ErrAccessDenied      = errors.New("account is not authorized for console access")
)

// AccessGateService is the single entry point to an authenticated console
// session. Credentials alone are never enough: the users row must exist and
// carry role=admin before a session token is minted. Every refused login
// destroys the provider session before the error is returned.
type AccessGateService struct {
	Store    store.Store
	Provider identity.Provider
	Signer   jwtx.Signer

	Issuer string

	// SessionTTL overrides jwtx.DefaultSessionTTL when positive.
	SessionTTL time.Duration
}

// Login authenticates against the provider, gates on the console user
// record, reconciles any verified email change, and mints the session token.
func (s *AccessGateService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	log := slogx.FromContext(ctx)

	// 1. Authenticate with the provider.
	result, err := s.Provider.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) || errors.Is(err, identity.ErrWrongPassword) {
			log.Warn("login failed", slog.Any("error", err))
			return domain.Session{}, ErrInvalidLogin
		}
		log.Error("provider sign-in failed", slog.Any("error", err))
		return domain.Session{}, err
	}
	account := result.Account

	// 2. Gate on the console user record. Authenticated is not authorized.
	user, err := s.Store.Users().GetByUID(ctx, account.UID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("login by account without user record", slog.String("uid", account.UID))
			return domain.Session{}, s.refuse(ctx, result.SessionToken, ErrUserRecordMissing)
		}
		s.signOut(ctx, result.SessionToken)
		return domain.Session{}, err
	}

	switch user.Role {
	case domain.RoleAdmin:
		// continue
	case domain.RolePending:
		log.Info("login by unapproved account", slog.String("uid", user.UID))
		return domain.Session{}, s.refuse(ctx, result.SessionToken, ErrPendingApproval)
	default:
		log.Warn("login by account with unauthorized role",
			slog.String("uid", user.UID),
			slog.String("role", user.Role),
		)
		return domain.Session{}, s.refuse(ctx, result.SessionToken, ErrAccessDenied)
	}

	// 3. Reconcile a verified email change. The provider's email is
	// authoritative; when it matches the filed intent, commit it here and
	// flag the session so the UI can tell the user exactly once.
	emailUpdated := false
	if user.HasEmailIntent() && strings.EqualFold(account.Email, user.PendingEmail) {
		if err := s.Store.Users().CommitEmail(ctx, user.UID, account.Email); err != nil {
			log.Error("failed to commit verified email",
				slog.String("uid", user.UID),
				slog.Any("error", err),
			)
			s.signOut(ctx, result.SessionToken)
			return domain.Session{}, err
		}
		user.Email = account.Email
		emailUpdated = true
		log.Info("email change committed", slog.String("uid", user.UID))
	}

	// 4. Mint the console session token.
	claims := jwtx.NewSessionClaims(user.UID, user.Email, user.Role, s.Issuer, s.sessionTTL(), time.Now().UTC())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		log.Error("failed to sign session token", slog.Any("error", err))
		s.signOut(ctx, result.SessionToken)
		return domain.Session{}, err
	}

	log.Info("login succeeded", slog.String("uid", user.UID))

	return domain.Session{
		UID:          user.UID,
		Email:        user.Email,
		Role:         user.Role,
		Token:        token,
		EmailUpdated: emailUpdated,
	}, nil
}

// refuse destroys the provider session and hands back the gate error. The
// login fails closed either way; a sign-out failure is logged, not surfaced.
func (s *AccessGateService) refuse(ctx context.Context, sessionToken string, gateErr error) error {
	s.signOut(ctx, sessionToken)
	return gateErr
}

func (s *AccessGateService) signOut(ctx context.Context, sessionToken string) {
	if err := s.Provider.SignOut(ctx, sessionToken); err != nil {
		slogx.FromContext(ctx).Error("failed to destroy provider session", slog.Any("error", err))
	}
}

func (s *AccessGateService) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return jwtx.DefaultSessionTTL
}
