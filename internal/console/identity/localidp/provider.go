// Package localidp is the embedded identity provider. Accounts, sessions,
// and verification links live in the console's own database, hashed and
// fingerprinted the same way the rest of the system treats secrets.
package localidp

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/waypointhq/console/internal/console/domain"
	"github.com/waypointhq/console/internal/console/identity"
	"github.com/waypointhq/console/internal/console/store"
	"github.com/waypointhq/console/pkg/cryptox"
	"github.com/waypointhq/console/pkg/idx"
)

const (
	// DefaultSessionTTL bounds how long a provider sign-in stays usable.
	DefaultSessionTTL = 12 * time.Hour

	// DefaultVerificationTTL bounds how long an emailed verification link
	// stays valid.
	DefaultVerificationTTL = 24 * time.Hour
)

type Provider struct {
	store           store.Store
	sessionTTL      time.Duration
	verificationTTL time.Duration
}

type Option func(*Provider)

func WithSessionTTL(d time.Duration) Option {
	return func(p *Provider) { p.sessionTTL = d }
}

func WithVerificationTTL(d time.Duration) Option {
	return func(p *Provider) { p.verificationTTL = d }
}

func New(st store.Store, opts ...Option) *Provider {
	p := &Provider{
		store:           st,
		sessionTTL:      DefaultSessionTTL,
		verificationTTL: DefaultVerificationTTL,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) CreateAccount(ctx context.Context, email, password, displayName string) (domain.Account, error) {
	email = normalizeEmail(email)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.Account{}, err
	}

	nowTime := time.Now().UTC()
	account := domain.Account{
		UID:          idx.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		SignInMethod: domain.SignInMethodPassword,
		CreatedAt:    nowTime,
		UpdatedAt:    nowTime,
	}

	if err := p.store.Accounts().Create(ctx, account); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Account{}, identity.ErrEmailInUse
		}
		return domain.Account{}, err
	}

	slog.InfoContext(ctx, "provider account created", "uid", account.UID)
	return account, nil
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (identity.SignInResult, error) {
	account, err := p.store.Accounts().GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return identity.SignInResult{}, identity.ErrUserNotFound
		}
		return identity.SignInResult{}, err
	}

	if err := cryptox.VerifyPassword(password, account.PasswordHash); err != nil {
		return identity.SignInResult{}, identity.ErrWrongPassword
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return identity.SignInResult{}, err
	}

	nowTime := time.Now().UTC()
	session := domain.ProviderSession{
		ID:        idx.New().String(),
		UID:       account.UID,
		TokenHash: cryptox.FingerprintToken(token),
		ExpiresAt: nowTime.Add(p.sessionTTL),
		CreatedAt: nowTime,
	}
	if err := p.store.Sessions().Create(ctx, session); err != nil {
		return identity.SignInResult{}, err
	}

	return identity.SignInResult{Account: account, SessionToken: token}, nil
}

func (p *Provider) SignOut(ctx context.Context, sessionToken string) error {
	return p.store.Sessions().DeleteByTokenHash(ctx, cryptox.FingerprintToken(sessionToken))
}

func (p *Provider) Reauthenticate(ctx context.Context, uid, password string) error {
	account, err := p.store.Accounts().GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return identity.ErrUserNotFound
		}
		return err
	}

	if err := cryptox.VerifyPassword(password, account.PasswordHash); err != nil {
		return identity.ErrWrongPassword
	}
	return nil
}

func (p *Provider) GetAccount(ctx context.Context, uid string) (domain.Account, error) {
	account, err := p.store.Accounts().GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, identity.ErrUserNotFound
		}
		return domain.Account{}, err
	}
	return account, nil
}

func (p *Provider) SendVerificationForNewEmail(ctx context.Context, uid, newEmail string) (string, error) {
	newEmail = normalizeEmail(newEmail)

	account, err := p.GetAccount(ctx, uid)
	if err != nil {
		return "", err
	}
	if account.SignInMethod != domain.SignInMethodPassword {
		return "", identity.ErrOperationNotAllowed
	}

	// Moving the authoritative email needs a live sign-in on the account.
	active, err := p.store.Sessions().CountActiveForUID(ctx, uid)
	if err != nil {
		return "", err
	}
	if active == 0 {
		return "", identity.ErrRequiresRecentLogin
	}

	// The new address must not already belong to an account.
	if _, err := p.store.Accounts().GetByEmail(ctx, newEmail); err == nil {
		return "", identity.ErrEmailInUse
	} else if !errors.Is(err, store.ErrNotFound) {
		return "", err
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}

	nowTime := time.Now().UTC()
	verification := domain.EmailVerification{
		ID:        idx.New().String(),
		UID:       uid,
		NewEmail:  newEmail,
		TokenHash: cryptox.FingerprintToken(token),
		ExpiresAt: nowTime.Add(p.verificationTTL),
		CreatedAt: nowTime,
	}

	// A fresh request supersedes any earlier link for the same account.
	err = p.store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Verifications().DeleteForUID(ctx, uid); err != nil {
			return err
		}
		return tx.Verifications().Create(ctx, verification)
	})
	if err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "verification link issued", "uid", uid)
	return token, nil
}

func (p *Provider) VerifyEmail(ctx context.Context, token string) (string, string, error) {
	hash := cryptox.FingerprintToken(token)

	var (
		uid      string
		newEmail string
	)
	err := p.store.WithTx(ctx, func(tx store.Tx) error {
		verification, err := tx.Verifications().GetActiveByTokenHash(ctx, hash)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return identity.ErrInvalidCredential
			}
			return err
		}

		// Consuming the link first makes it single use even under races.
		if err := tx.Verifications().Delete(ctx, verification.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return identity.ErrInvalidCredential
			}
			return err
		}

		// The address may have been claimed since the link was issued.
		if _, err := tx.Accounts().GetByEmail(ctx, verification.NewEmail); err == nil {
			return identity.ErrEmailInUse
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if err := tx.Accounts().UpdateEmail(ctx, verification.UID, verification.NewEmail); err != nil {
			return err
		}

		// Moving the email revokes every live sign-in for the account.
		if err := tx.Sessions().DeleteForUID(ctx, verification.UID); err != nil {
			return err
		}

		uid = verification.UID
		newEmail = verification.NewEmail
		return nil
	})
	if err != nil {
		return "", "", err
	}

	slog.InfoContext(ctx, "provider email verified", "uid", uid)
	return uid, newEmail, nil
}

func (p *Provider) UpdateDisplayName(ctx context.Context, uid, name string) error {
	err := p.store.Accounts().UpdateDisplayName(ctx, uid, name)
	if errors.Is(err, store.ErrNotFound) {
		return identity.ErrUserNotFound
	}
	return err
}

func (p *Provider) UpdatePassword(ctx context.Context, uid, newPassword string) error {
	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}
	err = p.store.Accounts().UpdatePasswordHash(ctx, uid, hash)
	if errors.Is(err, store.ErrNotFound) {
		return identity.ErrUserNotFound
	}
	return err
}

func (p *Provider) DeleteAccount(ctx context.Context, uid string) error {
	return p.store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Sessions().DeleteForUID(ctx, uid); err != nil {
			return err
		}
		if err := tx.Verifications().DeleteForUID(ctx, uid); err != nil {
			return err
		}
		return tx.Accounts().Delete(ctx, uid)
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
