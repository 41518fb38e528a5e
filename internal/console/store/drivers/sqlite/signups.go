package sqlite

import (
	"context"

	"github.com/waypointhq/console/internal/console/domain"
)

type signupsRepo struct {
	db dbtx
}

func (r *signupsRepo) Create(ctx context.Context, p domain.PendingSignup) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pending_signups (id, uid, email, display_name, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.UID, p.Email, p.DisplayName, p.CreatedAt.UTC(),
	)
	return mapConflict(err)
}

func (r *signupsRepo) GetByID(ctx context.Context, id string) (domain.PendingSignup, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, uid, email, display_name, created_at
		FROM pending_signups
		WHERE id = ?`, id)

	var p domain.PendingSignup
	if err := row.Scan(&p.ID, &p.UID, &p.Email, &p.DisplayName, &p.CreatedAt); err != nil {
		return domain.PendingSignup{}, mapNotFound(err)
	}
	return p, nil
}

func (r *signupsRepo) List(ctx context.Context) ([]domain.PendingSignup, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, uid, email, display_name, created_at
		FROM pending_signups
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PendingSignup
	for rows.Next() {
		var p domain.PendingSignup
		if err := rows.Scan(&p.ID, &p.UID, &p.Email, &p.DisplayName, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *signupsRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pending_signups WHERE id = ?`, id)
	return err
}
