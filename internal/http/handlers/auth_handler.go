package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "ministore/internal/log"
	"ministore/internal/security"
	"ministore/internal/validate"
)

type AuthHandler struct {
	Auth *security.AuthService
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"rememberMe"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "error": "invalid request body",
		})
	}
	if verr := validate.Struct(req); verr != nil {
		return fail(c, verr)
	}

	user, token, err := h.Auth.Login(c.IP(), req.Email, req.Password, req.Remember)
	switch {
	case errors.Is(err, security.ErrLocked):
		applog.Security(c, "login.locked", map[string]any{"email": req.Email})
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"success": false, "error": "too many failed attempts, try again later",
		})
	case errors.Is(err, security.ErrBadCreds):
		applog.Security(c, "login.failed", map[string]any{"email": req.Email})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false, "error": "invalid email or password",
		})
	case err != nil:
		return fail(c, err)
	}

	applog.Audit(c, "login", map[string]any{"email": user.Email, "role": user.Role})
	return ok(c, fiber.Map{"user": user, "token": token})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.Auth.Logout(bearerToken(c))
	return ok(c, fiber.Map{"loggedOut": true})
}

// Session resolves the bearer token to its user, if the session is live.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	user, live := h.Auth.CurrentUser(bearerToken(c))
	if !live {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false, "error": "not authenticated",
		})
	}
	return ok(c, fiber.Map{"user": user})
}

func bearerToken(c *fiber.Ctx) string {
	const prefix = "Bearer "
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}
