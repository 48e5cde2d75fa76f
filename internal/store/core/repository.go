package core

import "context"

// Repository define las operaciones del store de usuarios.
// Los adapters (pg) implementan esta interfaz; los services solo ven esto.
type Repository interface {
	Ping(ctx context.Context) error

	// CreateUser inserta el usuario. Retorna ErrConflict si ya existe un
	// registro con el mismo clerk_id, email o username.
	CreateUser(ctx context.Context, u *User) error

	// GetUserByClerkID retorna ErrNotFound si no existe.
	GetUserByClerkID(ctx context.Context, clerkID string) (*User, error)

	Close()
}
