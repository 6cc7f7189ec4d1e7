package auth_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	pkgjwt "github.com/jhoicas/Almacen-api/pkg/jwt"
)

type memUsers struct {
	byID map[string]*entity.User
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	return m.byID[id], nil
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range m.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) ListByRole(_ context.Context, role string) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range m.byID {
		if u.Role == role && u.Status == "active" {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (m *memUsers) UpdateProfile(_ context.Context, u *entity.User) error {
	cur, ok := m.byID[u.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	cur.FullName, cur.Email, cur.Phone, cur.UpdatedAt = u.FullName, u.Email, u.Phone, u.UpdatedAt
	return nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id, hash string, updatedAt time.Time) error {
	cur, ok := m.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	cur.PasswordHash, cur.UpdatedAt = hash, updatedAt
	return nil
}

const secret = "test-secret"

func newAuth() (*auth.AuthUseCase, *memUsers) {
	repo := &memUsers{byID: map[string]*entity.User{}}
	uc := auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: secret, ExpMinutes: 10, Issuer: "almacen-test"}).
		WithBcryptCost(bcrypt.MinCost)
	return uc, repo
}

func TestRegisterAndLogin(t *testing.T) {
	uc, repo := newAuth()
	ctx := context.Background()

	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "bodega1", Password: "secreto123", Role: entity.RoleStorekeeper})
	require.NoError(t, err)
	assert.Equal(t, "bodega1", user.FullName, "sin nombre completo usa el username")
	assert.NotEqual(t, "secreto123", repo.byID[user.ID].PasswordHash)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "bodega1", Password: "otroSecreto", Role: entity.RoleManager})
	assert.ErrorIs(t, err, domain.ErrUsernameExists)

	resp, err := uc.Login(ctx, dto.LoginRequest{Username: "bodega1", Password: "secreto123"})
	require.NoError(t, err)
	claims, err := pkgjwt.Parse(secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, entity.RoleStorekeeper, claims.Role)

	me, err := uc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "bodega1", me.Username)
}

func TestLogin_Failures(t *testing.T) {
	uc, repo := newAuth()
	ctx := context.Background()
	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "salidas", Password: "secreto123", Role: entity.RoleExportStaff})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "salidas", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	repo.byID[user.ID].Status = "inactive"
	_, err = uc.Login(ctx, dto.LoginRequest{Username: "salidas", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRegister_Validation(t *testing.T) {
	uc, _ := newAuth()
	ctx := context.Background()

	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "x", Password: "corta", Role: entity.RoleManager})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "admin", Password: "secreto123", Role: "admin"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "entradas", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el rol es obligatorio")
}
