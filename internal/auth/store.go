package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/ViniciusCazuza/minimal-api/internal/db"
)

// PageSize is the number of administrators returned per page.
const PageSize = 10

type Store struct {
	db   *db.DB
	cost int
}

func NewStore(d *db.DB) *Store {
	return &Store{db: d, cost: bcrypt.DefaultCost}
}

var (
	ErrAdministratorNotFound = errors.New("administrator not found")
	ErrEmailTaken            = errors.New("email already registered")
)

const selectAdministrator = `SELECT id, email, password_hash, role FROM administrators`

func scanAdministrator(row interface{ Scan(...any) error }) (*Administrator, error) {
	a := &Administrator{}
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdministratorNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*Administrator, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(selectAdministrator+` WHERE email = ?`), email)
	return scanAdministrator(row)
}

func (s *Store) Get(ctx context.Context, id int64) (*Administrator, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(selectAdministrator+` WHERE id = ?`), id)
	return scanAdministrator(row)
}

// FindByCredentials returns the administrator whose email matches exactly and
// whose password hash matches password. Both failure modes report
// ErrAdministratorNotFound.
func (s *Store) FindByCredentials(ctx context.Context, email, password string) (*Administrator, error) {
	a, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return nil, ErrAdministratorNotFound
	}
	return a, nil
}

// List returns administrators ordered by id. page <= 0 returns all of them.
func (s *Store) List(ctx context.Context, page int) ([]Administrator, error) {
	if page > math.MaxInt/PageSize {
		return []Administrator{}, nil
	}
	q := selectAdministrator + ` ORDER BY id`
	var args []any
	if page > 0 {
		q += ` LIMIT ? OFFSET ?`
		args = append(args, PageSize, (page-1)*PageSize)
	}
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(q), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []Administrator{}
	for rows.Next() {
		a, err := scanAdministrator(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Store) Create(ctx context.Context, email, password string, role Role) (*Administrator, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	const q = `
		INSERT INTO administrators (email, password_hash, role)
		VALUES (?, ?, ?)
		RETURNING id, email, password_hash, role
	`
	a, err := scanAdministrator(s.db.QueryRowContext(ctx, s.db.Rebind(q), email, string(hash), role))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return a, nil
}

type administratorsFile struct {
	Administrators []struct {
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
		Role     string `yaml:"role"`
	} `yaml:"administrators"`
}

// SeedFromFile inserts the administrators listed in a YAML file unless an
// administrator with the same email exists. A missing file is not an error.
// It returns the number of administrators created.
func (s *Store) SeedFromFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	var af administratorsFile
	if err := yaml.Unmarshal(data, &af); err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	created := 0
	for _, a := range af.Administrators {
		if a.Email == "" || a.Password == "" {
			continue
		}
		role, err := ParseRole(a.Role)
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", a.Email, err)
		}
		if _, err := s.GetByEmail(ctx, a.Email); err == nil {
			continue
		} else if !errors.Is(err, ErrAdministratorNotFound) {
			return created, err
		}
		if _, err := s.Create(ctx, a.Email, a.Password, role); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
