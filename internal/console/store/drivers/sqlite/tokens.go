package sqlite

import (
	"context"
	"database/sql"

	"github.com/waypointhq/console/internal/console/domain"
	"github.com/waypointhq/console/internal/console/store"
)

type tokensRepo struct {
	db dbtx
}

func (r *tokensRepo) Create(ctx context.Context, t domain.InvitationToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO invitation_tokens (id, token_hash, created_by, expires_at, used, used_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.TokenHash, t.CreatedBy, t.ExpiresAt.UTC(), boolToInt(t.Used), mapStringNull(t.UsedBy), t.CreatedAt.UTC(), t.UpdatedAt.UTC(),
	)
	return mapConflict(err)
}

func (r *tokensRepo) GetByTokenHash(ctx context.Context, hash string) (domain.InvitationToken, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, token_hash, created_by, expires_at, used, used_by, created_at, updated_at
		FROM invitation_tokens
		WHERE token_hash = ?`, hash)
	return scanToken(row)
}

func (r *tokensRepo) MarkUsed(ctx context.Context, tokenID string, usedByUID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invitation_tokens
		SET used = 1, used_by = ?, updated_at = ?
		WHERE id = ? AND used = 0`,
		usedByUID, now(), tokenID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *tokensRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM invitation_tokens WHERE expires_at < ?`, now())
	return err
}

func scanToken(row *sql.Row) (domain.InvitationToken, error) {
	var (
		t      domain.InvitationToken
		used   int
		usedBy sql.NullString
	)
	err := row.Scan(&t.ID, &t.TokenHash, &t.CreatedBy, &t.ExpiresAt, &used, &usedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.InvitationToken{}, mapNotFound(err)
	}
	t.Used = used != 0
	t.UsedBy = mapNullString(usedBy)
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
