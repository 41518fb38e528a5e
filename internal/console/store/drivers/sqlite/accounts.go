package sqlite

import (
	"context"
	"database/sql"

	"github.com/waypointhq/console/internal/console/domain"
)

type accountsRepo struct {
	db dbtx
}

const accountCols = `uid, email, display_name, password_hash, sign_in_method, created_at, updated_at`

func (r *accountsRepo) Create(ctx context.Context, a domain.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (`+accountCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.UID, a.Email, a.DisplayName, a.PasswordHash, a.SignInMethod, a.CreatedAt.UTC(), a.UpdatedAt.UTC(),
	)
	return mapConflict(err)
}

func (r *accountsRepo) GetByUID(ctx context.Context, uid string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+accountCols+` FROM accounts WHERE uid = ?`, uid)
	return scanAccount(row)
}

func (r *accountsRepo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+accountCols+` FROM accounts WHERE email = ? COLLATE NOCASE`, email)
	return scanAccount(row)
}

func (r *accountsRepo) UpdateEmail(ctx context.Context, uid string, email string) error {
	return r.update(ctx, `UPDATE accounts SET email = ?, updated_at = ? WHERE uid = ?`, email, now(), uid)
}

func (r *accountsRepo) UpdateDisplayName(ctx context.Context, uid string, name string) error {
	return r.update(ctx, `UPDATE accounts SET display_name = ?, updated_at = ? WHERE uid = ?`, name, now(), uid)
}

func (r *accountsRepo) UpdatePasswordHash(ctx context.Context, uid string, newHash string) error {
	return r.update(ctx, `UPDATE accounts SET password_hash = ?, updated_at = ? WHERE uid = ?`, newHash, now(), uid)
}

func (r *accountsRepo) Delete(ctx context.Context, uid string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE uid = ?`, uid)
	return err
}

func (r *accountsRepo) update(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapConflict(err)
	}
	return affectedOrNotFound(res)
}

func scanAccount(row *sql.Row) (domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.UID, &a.Email, &a.DisplayName, &a.PasswordHash, &a.SignInMethod, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}
