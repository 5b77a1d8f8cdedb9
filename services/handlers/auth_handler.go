package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ColdByDefault/Portfolio-sub001/dto"
	"github.com/ColdByDefault/Portfolio-sub001/shared"
)

type AuthHandler struct {
	authSvc AuthServiceInterface
}

func NewAuthHandler(authSvc AuthServiceInterface) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// @Summary Admin login
// @Description Authenticate the admin and set the session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body dto.LoginRequest true "Login credentials"
// @Success 200 {object} shared.Response{data=dto.LoginResponse}
// @Router /api/v1/admin/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewValidationError("invalid request body", nil)
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, sessionToken, err := h.authSvc.Login(&req, clientIP(c))
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     shared.SessionCookieName,
		Value:    sessionToken,
		Expires:  time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})

	return shared.ResponseJSON(c, http.StatusOK, "Login successful", resp)
}

// @Summary Admin logout
// @Description Invalidate the current session and clear the cookie
// @Tags auth
// @Produce json
// @Success 200 {object} shared.Response
// @Router /api/v1/admin/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.authSvc.Logout(c.Cookies(shared.SessionCookieName))

	c.Cookie(&fiber.Cookie{
		Name:     shared.SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})

	return shared.ResponseJSON(c, http.StatusOK, "Logged out", nil)
}
