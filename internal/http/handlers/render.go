package handlers

import (
	"errors"

	"farmstand/internal/domain"
	applog "farmstand/internal/log"

	"github.com/gofiber/fiber/v2"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if u := c.Locals("user"); u != nil {
		data["User"] = u
	}
	if tok, _ := c.Locals("CSRFToken").(string); tok != "" {
		data["CSRFToken"] = tok
	} else if cookTok := c.Cookies("csrf_"); cookTok != "" {
		data["CSRFToken"] = cookTok
	}
	return c.Render(tmpl, data)
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

// statusFor maps the domain error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is an internal failure.
func statusFor(err error) (int, bool) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, true
	case errors.Is(err, domain.ErrUnauthenticated):
		return fiber.StatusUnauthorized, true
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, true
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, true
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, true
	case errors.Is(err, domain.ErrPreconditionFailed):
		return fiber.StatusPreconditionFailed, true
	}
	return fiber.StatusInternalServerError, false
}

// writeErr converts a service error into a JSON response. Domain violations
// keep their message; everything else is logged and kept generic.
func writeErr(c *fiber.Ctx, action string, err error) error {
	status, known := statusFor(err)
	if !known {
		applog.Error(c, action, err, nil)
		return c.Status(status).JSON(fiber.Map{"success": false, "message": "Something went wrong. Please try again."})
	}
	return c.Status(status).JSON(fiber.Map{"success": false, "message": err.Error()})
}
