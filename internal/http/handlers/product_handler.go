package handlers

import (
	"farmstand/internal/log"
	"farmstand/internal/services"
	"farmstand/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
	Reviews *services.ReviewService
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil || p.ID == "" || !p.Active {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	reviews, err := h.Reviews.ListForProduct(id)
	if err != nil {
		log.Error(c, "product.reviews.load", err, map[string]any{"product": id})
		reviews = nil
	}
	return render(c, "product", fiber.Map{"P": p, "Reviews": reviews})
}

// Availability is the stock badge JSON endpoint.
func (h *ProductHandler) Availability(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing productId"})
	}
	avail, err := h.Catalog.Availability(id)
	if err != nil {
		log.Error(c, "availability.check", err, map[string]any{"product": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not check availability"})
	}
	return c.JSON(avail)
}
