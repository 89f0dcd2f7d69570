package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/comsanjuan/recibos-admin-api/internal/application/dto"
	"github.com/comsanjuan/recibos-admin-api/internal/application/usecase"
)

// UserHandler maneja el CRUD de usuarios del panel.
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler de usuarios.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// Create godoc
// @Summary      Crear usuario
// @Tags         usuarios
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "datos del usuario"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/usuarios [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	out, err := h.uc.Create(c.Context(), GetProfileLocal(c), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar usuarios con filtros y cursor
// @Tags         usuarios
// @Security     BearerAuth
// @Produce      json
// @Param        rol           query  string  false  "super_admin|admin|auditor"
// @Param        estado        query  string  false  "activo|inactivo|suspendido"
// @Param        departamento  query  string  false  "departamento exacto"
// @Param        busqueda      query  string  false  "texto libre sobre nombre, email y teléfono"
// @Param        cursor        query  string  false  "cursor de la página anterior"
// @Param        limit         query  int     false  "tamaño de página (default 20, max 100)"
// @Success      200  {object}  dto.UserListResponse
// @Router       /api/usuarios [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	var in dto.UserListRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}

	out, err := h.uc.List(c.Context(), GetProfileLocal(c), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener usuario por ID
// @Tags         usuarios
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "ID del usuario"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/usuarios/{id} [get]
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), GetProfileLocal(c), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar usuario (parcial)
// @Tags         usuarios
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del usuario"
// @Param        body  body  dto.UpdateUserRequest  true  "campos a modificar"
// @Success      200   {object}  dto.UserResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/usuarios/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	out, err := h.uc.Update(c.Context(), GetProfileLocal(c), c.Params("id"), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// ChangeStatus godoc
// @Summary      Cambiar estado de la cuenta
// @Tags         usuarios
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del usuario"
// @Param        body  body  dto.ChangeStatusRequest  true  "estado nuevo"
// @Success      200   {object}  dto.UserResponse
// @Router       /api/usuarios/{id}/estado [patch]
func (h *UserHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	out, err := h.uc.ChangeStatus(c.Context(), GetProfileLocal(c), c.Params("id"), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar usuario
// @Tags         usuarios
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del usuario"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/usuarios/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetProfileLocal(c), c.Params("id")); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Stats godoc
// @Summary      Conteos de usuarios por estado y rol
// @Tags         usuarios
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.UserStatsResponse
// @Router       /api/usuarios/stats [get]
func (h *UserHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.Context(), GetProfileLocal(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
