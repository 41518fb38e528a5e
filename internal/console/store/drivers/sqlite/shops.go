package sqlite

import (
	"context"
	"database/sql"

	"github.com/waypointhq/console/internal/console/domain"
)

type shopsRepo struct {
	db dbtx
}

func (r *shopsRepo) Create(ctx context.Context, s domain.Shop) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO shops (id, name, opening_time, closing_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.OpeningTime, s.ClosingTime, s.CreatedAt.UTC(), s.UpdatedAt.UTC(),
	)
	return mapConflict(err)
}

func (r *shopsRepo) GetByID(ctx context.Context, id string) (domain.Shop, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, opening_time, closing_time, created_at, updated_at
		FROM shops
		WHERE id = ?`, id)

	var s domain.Shop
	if err := row.Scan(&s.ID, &s.Name, &s.OpeningTime, &s.ClosingTime, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return domain.Shop{}, mapNotFound(err)
	}
	return s, nil
}

func (r *shopsRepo) List(ctx context.Context) ([]domain.Shop, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, opening_time, closing_time, created_at, updated_at
		FROM shops
		ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanShops(rows)
}

func (r *shopsRepo) SearchByName(ctx context.Context, q string) ([]domain.Shop, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, opening_time, closing_time, created_at, updated_at
		FROM shops
		WHERE name LIKE '%' || ? || '%' COLLATE NOCASE
		ORDER BY name`, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanShops(rows)
}

func (r *shopsRepo) Update(ctx context.Context, s domain.Shop) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE shops
		SET name = ?, opening_time = ?, closing_time = ?, updated_at = ?
		WHERE id = ?`,
		s.Name, s.OpeningTime, s.ClosingTime, now(), s.ID,
	)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (r *shopsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shops WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func scanShops(rows *sql.Rows) ([]domain.Shop, error) {
	var out []domain.Shop
	for rows.Next() {
		var s domain.Shop
		if err := rows.Scan(&s.ID, &s.Name, &s.OpeningTime, &s.ClosingTime, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
