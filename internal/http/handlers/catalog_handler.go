package handlers

import (
	"strings"

	"farmstand/internal/log"
	"farmstand/internal/services"
	"farmstand/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

func (h *CatalogHandler) Home(c *fiber.Ctx) error {
	products, err := h.Catalog.ListProducts(1, 12)
	if err != nil {
		log.Error(c, "home.load", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load produce"})
	}
	return render(c, "home", fiber.Map{"Products": products})
}

func (h *CatalogHandler) Category(c *fiber.Ctx) error {
	cat, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "No such category"})
	}
	products, err := h.Catalog.ListByCategory(cat, 1, 12)
	if err != nil {
		log.Error(c, "category.load", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load produce"})
	}
	return render(c, "category", fiber.Map{"Category": cat, "Products": products})
}

func (h *CatalogHandler) Search(c *fiber.Ctx) error {
	rawQ := c.Query("q")
	if strings.TrimSpace(rawQ) == "" {
		return render(c, "search", fiber.Map{"Q": "", "Products": []any{}, "Count": 0})
	}
	q, ok := validate.Q(rawQ)
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "q", "value": rawQ})
		return c.Status(fiber.StatusBadRequest).Render("search", fiber.Map{
			"Q": "", "Products": []any{}, "Count": 0, "Err": "Enter a valid keyword (letters/numbers only)",
		})
	}
	q = strings.ToLower(q)
	category := strings.TrimSpace(c.Query("category"))
	if category != "" {
		if _, ok := validate.ID(category); !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "category"})
			return c.Status(fiber.StatusBadRequest).Render("search", fiber.Map{
				"Q": q, "Products": []any{}, "Count": 0, "Err": "Invalid category",
			})
		}
	}

	products, err := h.Catalog.Search(q, category, 1, 20)
	if err != nil {
		log.Error(c, "search.error", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load results. Please retry."})
	}

	return render(c, "search", fiber.Map{
		"Q": q, "Category": category,
		"Products": products, "Count": len(products),
	})
}
