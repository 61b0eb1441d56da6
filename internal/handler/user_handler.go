package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"carwash/internal/model"
	"carwash/internal/service"
)

// UserHandler handles profile and user administration endpoints.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UpdateProfileRequest represents a partial profile update.
type UpdateProfileRequest struct {
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
	Avatar *string `json:"avatar" validate:"omitempty,url"`
}

// UpdateRoleRequest represents an admin role change.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]model.User}
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.List(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "Users fetched successfully", users)
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=model.User}
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/profile [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}
	user, err := h.svc.Profile(c.Request().Context(), who.UserID)
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "Profile fetched successfully", user)
}

// UpdateProfile godoc
// @Summary Update the caller's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} Response{data=model.User}
// @Failure 400 {object} errors.ErrorResponse
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}
	var req UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.svc.UpdateProfile(c.Request().Context(), who.UserID, service.UpdateProfileInput{
		Name:   req.Name,
		Phone:  req.Phone,
		Avatar: req.Avatar,
	})
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "Profile updated successfully", user)
}

// UploadAvatar godoc
// @Summary Upload the caller's avatar
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image file"
// @Success 200 {object} Response{data=model.User}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /users/profile/avatar [put]
func (h *UserHandler) UploadAvatar(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}
	file, closeFile, err := formImage(c)
	if err != nil {
		return err
	}
	defer closeFile()

	user, err := h.svc.UpdateAvatar(c.Request().Context(), who.UserID, file)
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "Avatar updated successfully", user)
}

// UpdateRole godoc
// @Summary Change a user's role
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body UpdateRoleRequest true "New role"
// @Success 200 {object} Response{data=model.User}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/role [put]
func (h *UserHandler) UpdateRole(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.svc.UpdateRole(c.Request().Context(), id, model.Role(req.Role))
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "User role updated successfully", user)
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} Response
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "User deleted successfully", nil)
}
