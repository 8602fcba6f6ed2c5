package handlers

import (
	"net/http"

	"vendortrack/internal/common"
	"vendortrack/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles signup, login, and identity HTTP requests
type AuthHandlers struct {
	authService services.AuthService
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// SignupRequest represents the signup request payload
type SignupRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Signup handles account creation
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Param signup body SignupRequest true "Signup payload"
// @Success 201 {object} models.User
// @Router /v1/auth/signup [post]
func (h *AuthHandlers) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}

	user, err := h.authService.Signup(c.Request().Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		return writeServiceError(c, err, "user")
	}

	return c.JSON(http.StatusCreated, user)
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles credential exchange for a bearer token
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Login payload"
// @Success 200 {object} models.TokenResponse
// @Router /v1/auth/login [post]
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}

	token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		// Invalid credentials surface as 401, not 400
		return common.SendUnauthorizedError(c)
	}

	return c.JSON(http.StatusOK, token)
}

// Me handles returning the authenticated user's profile
// @Summary Get the authenticated user
// @Tags auth
// @Produce json
// @Success 200 {object} models.User
// @Router /v1/me [get]
func (h *AuthHandlers) Me(c echo.Context) error {
	userID, err := userIDFromRequest(c)
	if err != nil {
		return err
	}

	user, err := h.authService.GetUser(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err, "user")
	}

	return c.JSON(http.StatusOK, user)
}
