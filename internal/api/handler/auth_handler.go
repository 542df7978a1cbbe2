package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bibliotech/circulation-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	flashes     ports.FlashStore
}

func NewAuthHandler(authService ports.AuthService, flashes ports.FlashStore) *AuthHandler {
	return &AuthHandler{authService: authService, flashes: flashes}
}

// Register creates a member account.
//
// @Summary      Register a new member
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Signup details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{User: user})
}

// Login exchanges credentials for a bearer token.
//
// @Summary      Login with username or email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, session, err := h.authService.Login(c.Request().Context(), req.Credential, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token:    token,
		UserID:   session.UserID,
		Username: session.Username,
		Role:     session.Role,
	})
}

// Logout revokes the calling session.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), session.ID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

// Flash returns and clears the pending notification for the session.
//
// @Summary      Pop the pending flash message
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.Flash
// @Success      204  "no pending flash"
// @Router       /v1/session/flash [get]
func (h *AuthHandler) Flash(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	pending, err := h.flashes.Pop(c.Request().Context(), session.ID)
	if err != nil {
		return err
	}
	if pending == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, pending)
}

// ListMembers returns all accounts, used by admins to pick a borrower.
//
// @Summary      List members
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.User
// @Failure      403  {object}  map[string]string
// @Router       /v1/members [get]
func (h *AuthHandler) ListMembers(c echo.Context) error {
	users, err := h.authService.ListMembers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}
