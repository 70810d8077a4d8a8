package handlers

import (
	"errors"
	"time"

	"farmstand/internal/domain"
	"farmstand/internal/log"
	"farmstand/internal/services"
	"farmstand/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false,
		})
	}
	return sid
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	return render(c, "login", fiber.Map{"Err": "", "CSRFToken": tok})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	email := c.FormValue("email")
	pass := c.FormValue("password")
	if _, ok := validate.Email(email); !ok {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_format"})
		return c.Status(401).Render("login", fiber.Map{"Err": "Invalid email or password", "CSRFToken": c.Cookies("csrf_")})
	}

	_, err := h.Auth.Login(sid, email, pass)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": email})
		return c.Status(401).Render("login", fiber.Map{"Err": "Invalid email or password", "CSRFToken": c.Cookies("csrf_")})
	}

	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.Redirect("/")
}

func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	return render(c, "register", fiber.Map{"Err": "", "CSRFToken": tok})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	name, okName := validate.Name(c.FormValue("name"))
	email, okEmail := validate.Email(c.FormValue("email"))
	phone, okPhone := validate.Phone(c.FormValue("phone"))
	pass := c.FormValue("password")
	role, okRole := domain.ParseRole(c.FormValue("role"))

	if !okName || !okEmail || !okPhone || !okRole || !validate.Password(pass) {
		log.Security(c, "auth.register.fail", map[string]any{"reason": "validation"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid registration details")
	}

	_, err := h.Auth.Register(name, email, pass, phone, role)
	if errors.Is(err, domain.ErrConflict) {
		log.Security(c, "auth.register.duplicate", map[string]any{"email": email})
		return c.Status(fiber.StatusConflict).SendString("email already registered")
	}
	if err != nil {
		log.Error(c, "auth.register.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).SendString("could not create account")
	}

	log.Audit(c, "auth.register", map[string]any{"email": email, "role": string(role)})
	return c.Redirect("/login")
}

// DeleteAccount removes the logged-in account and ends the session.
func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	u := currentUser(c)
	if err := h.Auth.DeleteAccount(u.ID); err != nil {
		log.Error(c, "account.delete.fail", err, map[string]any{"user_id": u.ID})
		return c.Status(fiber.StatusInternalServerError).SendString("could not delete account")
	}
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "account.delete", map[string]any{"user_id": u.ID})
	return c.Redirect("/")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Auth.Logout(sid)
	// Expire cookie
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.Redirect("/")
}
