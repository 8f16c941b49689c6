package vehicles

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/ViniciusCazuza/minimal-api/internal/db"
)

// PageSize is the number of vehicles returned per page.
const PageSize = 10

var ErrNotFound = errors.New("vehicle not found")

type Store struct {
	db *db.DB
}

func NewStore(d *db.DB) *Store {
	return &Store{db: d}
}

func (s *Store) Create(ctx context.Context, v *Vehicle) error {
	const q = `
		INSERT INTO vehicles (name, brand, year, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`
	now := time.Now().UTC()
	return s.db.QueryRowContext(ctx, s.db.Rebind(q), v.Name, v.Brand, v.Year, now, now).Scan(&v.ID)
}

func (s *Store) Get(ctx context.Context, id int64) (*Vehicle, error) {
	const q = `SELECT id, name, brand, year FROM vehicles WHERE id = ?`
	var v Vehicle
	if err := s.db.QueryRowContext(ctx, s.db.Rebind(q), id).Scan(&v.ID, &v.Name, &v.Brand, &v.Year); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (s *Store) List(ctx context.Context, f Filter) ([]Vehicle, error) {
	if f.Page > math.MaxInt/PageSize {
		return []Vehicle{}, nil
	}
	clauses := []string{"1=1"}
	args := []any{}
	if name := strings.TrimSpace(f.Name); name != "" {
		clauses = append(clauses, `LOWER(name) LIKE ? ESCAPE '\'`)
		args = append(args, db.ContainsPattern(strings.ToLower(name)))
	}
	if brand := strings.TrimSpace(f.Brand); brand != "" {
		clauses = append(clauses, `LOWER(brand) LIKE ? ESCAPE '\'`)
		args = append(args, db.ContainsPattern(strings.ToLower(brand)))
	}

	query := "SELECT id, name, brand, year FROM vehicles WHERE " +
		strings.Join(clauses, " AND ") + " ORDER BY id"
	if f.Page > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, PageSize, (f.Page-1)*PageSize)
	}

	rows, err := s.db.QueryContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []Vehicle{}
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.Name, &v.Brand, &v.Year); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) Update(ctx context.Context, v *Vehicle) error {
	const q = `UPDATE vehicles SET name = ?, brand = ?, year = ?, updated_at = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, s.db.Rebind(q), v.Name, v.Brand, v.Year, time.Now().UTC(), v.ID)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM vehicles WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
