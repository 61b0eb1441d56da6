package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"carwash/internal/errors"
	"carwash/internal/model"
	"carwash/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignupRequest represents a user registration request.
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"required"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// UserSummary is the public part of a user returned on signup and login.
// It carries "id" where full entities carry "_id"; the SPA reads both shapes.
type UserSummary struct {
	ID    uuid.UUID  `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	Message      string      `json:"message"`
	Data         UserSummary `json:"data"`
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
}

// RefreshResponse represents a token refresh response.
type RefreshResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	Data    RefreshToken `json:"data"`
}

// RefreshToken carries the new access token inside the envelope.
type RefreshToken struct {
	AccessToken string `json:"accessToken"`
}

func newAuthResponse(message string, res *service.AuthResult) AuthResponse {
	return AuthResponse{
		Message: message,
		Data: UserSummary{
			ID:    res.User.ID,
			Name:  res.User.Name,
			Email: res.User.Email,
			Role:  res.User.Role,
		},
		Token:        res.AccessToken,
		RefreshToken: res.RefreshToken,
	}
}

// Signup godoc
// @Summary Register a new customer
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Registration data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Signup(c.Request().Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusCreated, newAuthResponse("User created successfully", res))
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, newAuthResponse("Login successful", res))
}

// Refresh godoc
// @Summary Refresh access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} RefreshResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/refresh-token [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request body", "INVALID_REQUEST")
	}
	if req.RefreshToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: "Refresh token required",
			Code:    "MISSING_REFRESH_TOKEN",
		})
	}

	token, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, RefreshResponse{
		Message: "Token refreshed",
		Token:   token,
		Data:    RefreshToken{AccessToken: token},
	})
}
