package sqlite

import (
	"context"

	"github.com/waypointhq/console/internal/console/domain"
)

type verificationsRepo struct {
	db dbtx
}

func (r *verificationsRepo) Create(ctx context.Context, v domain.EmailVerification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO email_verifications (id, uid, new_email, token_hash, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		v.ID, v.UID, v.NewEmail, v.TokenHash, v.ExpiresAt.UTC(), v.CreatedAt.UTC(),
	)
	return mapConflict(err)
}

func (r *verificationsRepo) GetActiveByTokenHash(ctx context.Context, hash string) (domain.EmailVerification, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, uid, new_email, token_hash, expires_at, created_at
		FROM email_verifications
		WHERE token_hash = ? AND expires_at > ?`, hash, now())

	var v domain.EmailVerification
	if err := row.Scan(&v.ID, &v.UID, &v.NewEmail, &v.TokenHash, &v.ExpiresAt, &v.CreatedAt); err != nil {
		return domain.EmailVerification{}, mapNotFound(err)
	}
	return v, nil
}

func (r *verificationsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM email_verifications WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (r *verificationsRepo) DeleteForUID(ctx context.Context, uid string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM email_verifications WHERE uid = ?`, uid)
	return err
}

func (r *verificationsRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM email_verifications WHERE expires_at < ?`, now())
	return err
}
