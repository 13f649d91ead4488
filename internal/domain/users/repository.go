package users

import "context"

type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	// ListAdmins devuelve todos los usuarios con rol admin o super_admin.
	ListAdmins(ctx context.Context) ([]User, error)
}
