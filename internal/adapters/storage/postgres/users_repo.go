package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/SeanKennethDMS/PetPal-sub000/internal/domain/users"
	"github.com/SeanKennethDMS/PetPal-sub000/internal/ports/auth"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, email, name, role, password_hash, created_at
		) VALUES ($1,$2,$3,$4,$5,$6)
	`,
		u.ID,
		u.Email,
		u.Name,
		u.Role,
		u.PasswordHash,
		u.CreatedAt,
	)
	return err
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return users.User{}, ErrNotFound
	}

	return scanUser(r.db.QueryRowContext(ctx, `
		SELECT id, email, name, role, password_hash, created_at
		FROM users
		WHERE id = $1
	`, id))
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return users.User{}, ErrNotFound
	}

	return scanUser(r.db.QueryRowContext(ctx, `
		SELECT id, email, name, role, password_hash, created_at
		FROM users
		WHERE email = $1
	`, email))
}

func (r *UsersRepo) ListAdmins(ctx context.Context) ([]users.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, name, role, password_hash, created_at
		FROM users
		WHERE role = $1 OR role = $2
		ORDER BY created_at ASC
	`, auth.RoleAdmin, auth.RoleSuperAdmin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]users.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}

	return out, rows.Err()
}

func scanUser(row rowScanner) (users.User, error) {
	var u users.User
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.Role,
		&u.PasswordHash,
		&u.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return users.User{}, ErrNotFound
		}
		return users.User{}, err
	}
	return u, nil
}
