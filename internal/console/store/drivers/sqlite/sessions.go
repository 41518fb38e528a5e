package sqlite

import (
	"context"

	"github.com/waypointhq/console/internal/console/domain"
)

type sessionsRepo struct {
	db dbtx
}

func (r *sessionsRepo) Create(ctx context.Context, s domain.ProviderSession) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO provider_sessions (id, uid, token_hash, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.UID, s.TokenHash, s.ExpiresAt.UTC(), s.CreatedAt.UTC(),
	)
	return mapConflict(err)
}

func (r *sessionsRepo) GetActiveByTokenHash(ctx context.Context, hash string) (domain.ProviderSession, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, uid, token_hash, expires_at, created_at
		FROM provider_sessions
		WHERE token_hash = ? AND expires_at > ?`, hash, now())

	var s domain.ProviderSession
	if err := row.Scan(&s.ID, &s.UID, &s.TokenHash, &s.ExpiresAt, &s.CreatedAt); err != nil {
		return domain.ProviderSession{}, mapNotFound(err)
	}
	return s, nil
}

func (r *sessionsRepo) CountActiveForUID(ctx context.Context, uid string) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM provider_sessions WHERE uid = ? AND expires_at > ?`, uid, now())

	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *sessionsRepo) DeleteByTokenHash(ctx context.Context, hash string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM provider_sessions WHERE token_hash = ?`, hash)
	return err
}

func (r *sessionsRepo) DeleteForUID(ctx context.Context, uid string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM provider_sessions WHERE uid = ?`, uid)
	return err
}

func (r *sessionsRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM provider_sessions WHERE expires_at < ?`, now())
	return err
}
