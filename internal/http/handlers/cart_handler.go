package handlers

import (
	"strconv"
	"strings"

	applog "farmstand/internal/log"
	"farmstand/internal/services"
	"farmstand/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart *services.CartService
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	u := currentUser(c)
	cv, err := h.Cart.View(u.ID)
	if err != nil {
		applog.Error(c, "cart.view", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	return render(c, "cart", fiber.Map{"Cart": cv})
}

// Add: POST /cart/add {productId, quantity} -> {success, message, count}
func (h *CartHandler) Add(c *fiber.Ctx) error {
	u := currentUser(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "missing productId"})
	}
	qty, ok := validate.Qty(c.FormValue("quantity"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid quantity"})
	}

	if err := h.Cart.Add(u.ID, productID, qty); err != nil {
		return writeErr(c, "cart.add", err)
	}
	count, _ := h.Cart.Count(u.ID)
	applog.Audit(c, "cart.add", map[string]any{"product": productID, "qty": qty})
	return c.JSON(fiber.Map{"success": true, "message": "added to cart", "count": count})
}

// Update: POST /cart/update {cartId, quantity}
func (h *CartHandler) Update(c *fiber.Ctx) error {
	u := currentUser(c)
	cartID, ok := validate.ID(c.FormValue("cartId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "missing cartId"})
	}
	// No clamping here: zero or negative must surface as invalid input.
	qty, err := strconv.Atoi(strings.TrimSpace(c.FormValue("quantity")))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid quantity"})
	}

	if err := h.Cart.UpdateQuantity(cartID, u.ID, qty); err != nil {
		return writeErr(c, "cart.update", err)
	}
	count, _ := h.Cart.Count(u.ID)
	applog.Audit(c, "cart.update", map[string]any{"cart_id": cartID, "qty": qty})
	return c.JSON(fiber.Map{"success": true, "message": "quantity updated", "count": count})
}

// Remove: DELETE /cart/remove/:cartId
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	u := currentUser(c)
	cartID, ok := validate.ID(c.Params("cartId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "missing cartId"})
	}
	if err := h.Cart.Remove(cartID, u.ID); err != nil {
		return writeErr(c, "cart.remove", err)
	}
	count, _ := h.Cart.Count(u.ID)
	applog.Audit(c, "cart.remove", map[string]any{"cart_id": cartID})
	return c.JSON(fiber.Map{"success": true, "message": "removed", "count": count})
}
