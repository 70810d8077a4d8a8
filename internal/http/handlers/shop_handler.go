package handlers

import (
	"errors"
	"strconv"
	"strings"

	"farmstand/internal/domain"
	applog "farmstand/internal/log"
	"farmstand/internal/services"
	"farmstand/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ShopHandler struct {
	Shop *services.ShopService
}

func shopFields(c *fiber.Ctx) services.ShopFields {
	var crops []string
	for _, v := range strings.Split(c.FormValue("crops"), ",") {
		if v = strings.TrimSpace(v); v != "" {
			crops = append(crops, v)
		}
	}
	return services.ShopFields{
		FarmName:    strings.TrimSpace(c.FormValue("farm_name")),
		Location:    strings.TrimSpace(c.FormValue("location")),
		Description: strings.TrimSpace(c.FormValue("description")),
		Phone:       strings.TrimSpace(c.FormValue("phone")),
		Crops:       crops,
		BankName:    strings.TrimSpace(c.FormValue("bank_name")),
		BankAccount: strings.TrimSpace(c.FormValue("bank_account")),
	}
}

// GET /create-shop
func (h *ShopHandler) CreateForm(c *fiber.Ctx) error {
	u := currentUser(c)
	if _, err := h.Shop.ProfileFor(u.ID); err == nil {
		// Shop already open; nothing to create.
		return c.Redirect("/farm")
	}
	return render(c, "create_shop", fiber.Map{})
}

// POST /create-shop
func (h *ShopHandler) Create(c *fiber.Ctx) error {
	u := currentUser(c)
	fields := shopFields(c)
	if _, ok := validate.Name(fields.FarmName); !ok {
		return c.Status(fiber.StatusBadRequest).SendString("farm name is required")
	}
	if _, ok := validate.Phone(fields.Phone); !ok {
		return c.Status(fiber.StatusBadRequest).SendString("invalid phone")
	}

	_, err := h.Shop.CreateShop(u.ID, fields)
	if errors.Is(err, domain.ErrConflict) {
		// Second submit for the same seller: redirect instead of erroring.
		applog.Security(c, "shop.create.duplicate", map[string]any{"user_id": u.ID})
		return c.Redirect("/farm")
	}
	if errors.Is(err, domain.ErrForbidden) {
		applog.Security(c, "shop.create.denied", map[string]any{"user_id": u.ID})
		return c.Status(fiber.StatusForbidden).SendString("only sellers can open a shop")
	}
	if err != nil {
		applog.Error(c, "shop.create.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).SendString("could not create shop")
	}
	applog.Audit(c, "shop.create", map[string]any{"user_id": u.ID})
	return c.Redirect("/farm")
}

// GET /farm — seller dashboard; no profile yet means the creation flow.
func (h *ShopHandler) Dashboard(c *fiber.Ctx) error {
	u := currentUser(c)
	f, err := h.Shop.ProfileFor(u.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return c.Redirect("/create-shop")
	}
	if err != nil {
		applog.Error(c, "farm.load", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your farm"})
	}
	_, prods, err := h.Shop.Shop(f.ID)
	if err != nil {
		applog.Error(c, "farm.products.load", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your farm"})
	}
	return render(c, "farm_dashboard", fiber.Map{"Farm": f, "Products": prods})
}

// POST /farm/edit — full-row overwrite; omitted fields come back empty.
func (h *ShopHandler) Edit(c *fiber.Ctx) error {
	u := currentUser(c)
	fields := shopFields(c)
	if _, ok := validate.Name(fields.FarmName); !ok {
		return c.Status(fiber.StatusBadRequest).SendString("farm name is required")
	}

	err := h.Shop.EditFarm(u.ID, fields)
	if errors.Is(err, domain.ErrNotFound) {
		return c.Redirect("/create-shop")
	}
	if err != nil {
		applog.Error(c, "farm.edit.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).SendString("could not save farm")
	}
	applog.Audit(c, "farm.edit", map[string]any{"user_id": u.ID})
	return c.Redirect("/farm")
}

// POST /farm/products
func (h *ShopHandler) AddProduct(c *fiber.Ctx) error {
	u := currentUser(c)
	name, okName := validate.Name(c.FormValue("name"))
	price, okPrice := validate.Price(c.FormValue("price"))
	stock, err := strconv.Atoi(strings.TrimSpace(c.FormValue("stock")))
	if !okName || !okPrice || err != nil || stock < 0 {
		return c.Status(fiber.StatusBadRequest).SendString("invalid product details")
	}
	unit := strings.TrimSpace(c.FormValue("unit"))
	if unit == "" {
		unit = "kg"
	}

	pid, err := h.Shop.AddProduct(u.ID, domain.Product{
		Name:        name,
		Category:    strings.TrimSpace(c.FormValue("category")),
		Description: strings.TrimSpace(c.FormValue("description")),
		Price:       price,
		Unit:        unit,
		StockQty:    stock,
	})
	if errors.Is(err, domain.ErrNotFound) {
		return c.Redirect("/create-shop")
	}
	if err != nil {
		applog.Error(c, "farm.product.add.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).SendString("could not add product")
	}
	applog.Audit(c, "farm.product.add", map[string]any{"product": pid})
	return c.Redirect("/farm")
}

// POST /farm/products/:id/stock
func (h *ShopHandler) SetStock(c *fiber.Ctx) error {
	u := currentUser(c)
	pid, ok := validate.ID(c.Params("id"))
	qty, err := strconv.Atoi(strings.TrimSpace(c.FormValue("stock")))
	if !ok || err != nil || qty < 0 {
		return c.Status(fiber.StatusBadRequest).SendString("invalid input")
	}
	if err := h.Shop.SetStock(u.ID, pid, qty); err != nil {
		applog.Error(c, "farm.stock.save.fail", err, map[string]any{"product": pid})
		return c.Status(fiber.StatusBadRequest).SendString("could not save stock")
	}
	applog.Audit(c, "farm.stock.save", map[string]any{"product": pid, "qty": qty})
	return c.Redirect("/farm")
}

// GET /shop/:id — public farm shop page.
func (h *ShopHandler) Public(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Shop not found"})
	}
	f, prods, err := h.Shop.Shop(id)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Shop not found"})
	}
	return render(c, "shop", fiber.Map{"Farm": f, "Products": prods})
}
