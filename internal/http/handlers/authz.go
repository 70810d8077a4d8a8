package handlers

import (
	"farmstand/internal/domain"
	applog "farmstand/internal/log"
	"farmstand/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RequireUser enforces a logged-in session; browsers get the login page,
// API callers get a 401.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return deny(c)
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil {
			return deny(c)
		}
		c.Locals("user", u)
		c.Locals("uid", u.ID)
		return c.Next()
	}
}

// RequireSeller additionally gates on the seller role.
func RequireSeller(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return deny(c)
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil {
			return deny(c)
		}
		if u.Role != domain.RoleSeller {
			applog.Security(c, "access.denied.seller", map[string]any{"user_id": u.ID})
			if wantsJSON(c) {
				return writeErr(c, "access.denied.seller", domain.ErrForbidden)
			}
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Access denied"})
		}
		c.Locals("user", u)
		c.Locals("uid", u.ID)
		return c.Next()
	}
}

func deny(c *fiber.Ctx) error {
	if wantsJSON(c) {
		return writeErr(c, "access.denied", domain.ErrUnauthenticated)
	}
	return c.Redirect("/login")
}

// wantsJSON picks the error surface: the JSON API paths and XHR callers get
// JSON, everything else gets redirects.
func wantsJSON(c *fiber.Ctx) bool {
	if c.Get("Accept") == "application/json" || c.Get("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	switch c.Method() {
	case fiber.MethodPost, fiber.MethodDelete, fiber.MethodPut:
		p := c.Path()
		return len(p) >= 5 && (p[:5] == "/cart" || p[:5] == "/prod" || p[:5] == "/auct")
	}
	return false
}
