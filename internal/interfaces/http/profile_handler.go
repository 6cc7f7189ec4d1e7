package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
)

// Profile godoc
// @Summary      Perfil del usuario autenticado, o de ?username=
// @Tags         profile
// @Security     Bearer
// @Produce      json
// @Param        username  query  string  false  "username"
// @Success      200   {object}  dto.UserResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/profile [get]
// @Router       /api/profile/{username} [get]
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	username := c.Params("username", c.Query("username"))
	if username == "" {
		username = GetUsername(c)
	}
	out, err := h.uc.GetByUsername(c.UserContext(), username)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UsersByRole godoc
// @Summary      Usuarios activos de un rol
// @Tags         profile
// @Security     Bearer
// @Produce      json
// @Param        role_name  path  string  true  "manager | storekeeper | import_staff | export_staff"
// @Success      200   {array}   dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/profile/roles/{role_name} [get]
func (h *AuthHandler) UsersByRole(c *fiber.Ctx) error {
	out, err := h.uc.ListByRole(c.UserContext(), c.Params("role_name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateProfile godoc
// @Summary      Editar datos de contacto propios
// @Tags         profile
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        username  path  string                    true  "username"
// @Param        body      body  dto.UpdateProfileRequest  true  "full_name, email, phone"
// @Success      200   {object}  dto.UserResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/profile/{username}/edit [put]
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateProfile(c.UserContext(), GetUserID(c), c.Params("username"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ChangePassword godoc
// @Summary      Cambiar la contraseña propia
// @Tags         profile
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        username  path  string                     true  "username"
// @Param        body      body  dto.ChangePasswordRequest  true  "current_password, new_password"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/profile/{username}/change-password [put]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.ChangePasswordRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	if err := h.uc.ChangePassword(c.UserContext(), GetUserID(c), c.Params("username"), in); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "contraseña actualizada"})
}
