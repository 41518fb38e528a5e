package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/waypointhq/console/internal/console/domain"
)

type usersRepo struct {
	db dbtx
}

func (r *usersRepo) Create(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (uid, email, display_name, role, profile_picture_url, pending_email, email_requested_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.UID, u.Email, u.DisplayName, u.Role,
		mapStringNull(u.ProfilePictureURL), mapStringNull(u.PendingEmail), mapOptionalTime(u.EmailRequestedAt),
		u.CreatedAt.UTC(), u.UpdatedAt.UTC(),
	)
	return mapConflict(err)
}

func (r *usersRepo) GetByUID(ctx context.Context, uid string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT uid, email, display_name, role, profile_picture_url, pending_email, email_requested_at, created_at, updated_at
		FROM users
		WHERE uid = ?`, uid)
	return scanUser(row)
}

func (r *usersRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT uid, email, display_name, role, profile_picture_url, pending_email, email_requested_at, created_at, updated_at
		FROM users
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		var (
			u         domain.User
			pic       sql.NullString
			pending   sql.NullString
			requested sql.NullTime
		)
		if err := rows.Scan(&u.UID, &u.Email, &u.DisplayName, &u.Role, &pic, &pending, &requested, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		u.ProfilePictureURL = mapNullString(pic)
		u.PendingEmail = mapNullString(pending)
		u.EmailRequestedAt = mapNullTimePtr(requested)
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *usersRepo) UpdateRole(ctx context.Context, uid string, role string) error {
	return r.update(ctx, `UPDATE users SET role = ?, updated_at = ? WHERE uid = ?`, role, now(), uid)
}

func (r *usersRepo) UpdateDisplayName(ctx context.Context, uid string, name string) error {
	return r.update(ctx, `UPDATE users SET display_name = ?, updated_at = ? WHERE uid = ?`, name, now(), uid)
}

func (r *usersRepo) SetPendingEmail(ctx context.Context, uid string, pendingEmail string, requestedAt time.Time) error {
	return r.update(ctx, `
		UPDATE users
		SET pending_email = ?, email_requested_at = ?, updated_at = ?
		WHERE uid = ?`,
		pendingEmail, requestedAt.UTC(), now(), uid)
}

func (r *usersRepo) CommitEmail(ctx context.Context, uid string, email string) error {
	return r.update(ctx, `
		UPDATE users
		SET email = ?, pending_email = NULL, email_requested_at = NULL, updated_at = ?
		WHERE uid = ?`,
		email, now(), uid)
}

func (r *usersRepo) ClearStaleEmailIntents(ctx context.Context, before time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET pending_email = NULL, email_requested_at = NULL, updated_at = ?
		WHERE pending_email IS NOT NULL AND email_requested_at < ?`,
		now(), before.UTC())
	return err
}

func (r *usersRepo) Delete(ctx context.Context, uid string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE uid = ?`, uid)
	return err
}

func (r *usersRepo) update(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u         domain.User
		pic       sql.NullString
		pending   sql.NullString
		requested sql.NullTime
	)
	err := row.Scan(&u.UID, &u.Email, &u.DisplayName, &u.Role, &pic, &pending, &requested, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.ProfilePictureURL = mapNullString(pic)
	u.PendingEmail = mapNullString(pending)
	u.EmailRequestedAt = mapNullTimePtr(requested)
	return u, nil
}
