package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Las lecturas devuelven (nil, nil) si el usuario no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	// ListByRole usuarios activos del rol, ordenados por nombre.
	ListByRole(ctx context.Context, role string) ([]*entity.User, error)
	// UpdateProfile persiste full_name, email y phone. domain.ErrUserNotFound si no existe.
	UpdateProfile(ctx context.Context, user *entity.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
}
