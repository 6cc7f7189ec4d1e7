package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// GetByUsername perfil público de un usuario.
func (uc *AuthUseCase) GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

// ListByRole usuarios activos de un rol (p. ej. para elegir a quién asignar una solicitud).
func (uc *AuthUseCase) ListByRole(ctx context.Context, role string) ([]dto.UserResponse, error) {
	if !entity.ValidRole(role) {
		return nil, fmt.Errorf("rol %q: %w", role, domain.ErrInvalidInput)
	}
	users, err := uc.userRepo.ListByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *toUserResponse(u))
	}
	return out, nil
}

// UpdateProfile cambia nombre, email y teléfono. Solo el propio usuario edita su perfil.
func (uc *AuthUseCase) UpdateProfile(ctx context.Context, actorID, username string, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := uc.ownUser(ctx, actorID, username)
	if err != nil {
		return nil, err
	}
	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		return nil, fmt.Errorf("nombre completo: %w", domain.ErrInvalidInput)
	}
	user.FullName = fullName
	user.Email = strings.TrimSpace(in.Email)
	user.Phone = strings.TrimSpace(in.Phone)
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// ChangePassword verifica la contraseña actual con bcrypt y guarda el hash de la nueva.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, actorID, username string, in dto.ChangePasswordRequest) error {
	user, err := uc.ownUser(ctx, actorID, username)
	if err != nil {
		return err
	}
	if len(in.NewPassword) < 8 {
		return fmt.Errorf("contraseña nueva demasiado corta: %w", domain.ErrInvalidInput)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return fmt.Errorf("contraseña actual incorrecta: %w", domain.ErrInvalidInput)
	}
	if in.NewPassword == in.CurrentPassword {
		return fmt.Errorf("la contraseña nueva debe ser distinta: %w", domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), uc.cost)
	if err != nil {
		return err
	}
	return uc.userRepo.UpdatePassword(ctx, user.ID, string(hash), time.Now())
}

// ownUser carga al usuario por username y exige que sea quien hace la petición.
func (uc *AuthUseCase) ownUser(ctx context.Context, actorID, username string) (*entity.User, error) {
	if strings.TrimSpace(actorID) == "" {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if user.ID != actorID {
		return nil, domain.ErrForbidden
	}
	return user, nil
}
