package handlers

import (
	"errors"

	"farmstand/internal/domain"
	applog "farmstand/internal/log"
	"farmstand/internal/services"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Cart  *services.CartService
	Order *services.OrderService
}

func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	u := currentUser(c)
	cv, err := h.Cart.View(u.ID)
	if err != nil {
		applog.Error(c, "checkout.load", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	return render(c, "checkout", fiber.Map{"Cart": cv})
}

func (h *OrderHandler) Place(c *fiber.Ctx) error {
	u := currentUser(c)

	orderID, total, err := h.Order.Place(u.ID)
	if errors.Is(err, domain.ErrInsufficientStock) {
		applog.Security(c, "order.place.fail", map[string]any{"error": err.Error()})
		return c.Status(fiber.StatusConflict).SendString("Could not place order: some items are no longer in stock.")
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		applog.Security(c, "order.place.fail", map[string]any{"error": err.Error()})
		return c.Status(fiber.StatusBadRequest).SendString("Could not place order. Please review quantities and try again.")
	}
	if err != nil {
		applog.Error(c, "order.place.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not place order. Please try again.")
	}
	applog.Audit(c, "order.place", map[string]any{"order_id": orderID, "total": total})

	return c.Redirect("/order/" + orderID)
}

func (h *OrderHandler) View(c *fiber.Ctx) error {
	u := currentUser(c)
	oid := c.Params("id")
	if oid == "" {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}

	o, items, err := h.Order.Get(oid, u.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			applog.Error(c, "order.view.fail", err, map[string]any{"order_id": oid})
		} else {
			applog.Security(c, "access.denied.order", map[string]any{"order_id": oid})
		}
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}

	return render(c, "order", fiber.Map{"Order": o, "Items": items})
}

func (h *OrderHandler) History(c *fiber.Ctx) error {
	u := currentUser(c)
	orders, err := h.Order.History(u.ID)
	if err != nil {
		applog.Error(c, "orders.history.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return render(c, "order_history", fiber.Map{"Orders": orders})
}
