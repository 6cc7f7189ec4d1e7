package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, username, password_hash, full_name, email, phone, role, status, created_at, updated_at`

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		user.ID, user.Username, user.PasswordHash, user.FullName, user.Email, user.Phone,
		user.Role, user.Status, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUsernameExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// FindByUsername obtiene un usuario por nombre de usuario.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// ListByRole usuarios activos de un rol.
func (r *UserRepo) ListByRole(ctx context.Context, role string) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users
		WHERE role = $1 AND status = 'active'
		ORDER BY full_name, username`, role)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.User, 0)
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(
			&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &u.Email, &u.Phone,
			&u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// UpdateProfile actualiza los datos de contacto del usuario.
func (r *UserRepo) UpdateProfile(ctx context.Context, user *entity.User) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE users SET full_name = $2, email = $3, phone = $4, updated_at = $5
		WHERE id = $1`,
		user.ID, user.FullName, user.Email, user.Phone, user.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdatePassword reemplaza el hash bcrypt.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		id, passwordHash, updatedAt)
	if err != nil {
		if isNoRows(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg string) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &u.Email, &u.Phone,
		&u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
