package handlers

import (
	applog "farmstand/internal/log"
	"farmstand/internal/services"
	"farmstand/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AuctionHandler struct {
	Auctions *services.AuctionService
}

// Status: GET /auction/:id — current state and top bid.
func (h *AuctionHandler) Status(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "missing auction id"})
	}
	a, top, err := h.Auctions.Status(id)
	if err != nil {
		return writeErr(c, "auction.status", err)
	}
	return c.JSON(fiber.Map{
		"success": true, "status": a.Status,
		"startingPrice": a.StartingPrice, "highestBid": top, "closesAt": a.ClosesAt,
	})
}

// Bid: POST /auction/:id/bid {amount}
func (h *AuctionHandler) Bid(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "missing auction id"})
	}
	amount, ok := validate.Price(c.FormValue("amount"))
	if !ok || amount <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid amount"})
	}

	if err := h.Auctions.Bid(id, u.ID, amount); err != nil {
		return writeErr(c, "auction.bid", err)
	}
	applog.Audit(c, "auction.bid", map[string]any{"auction": id, "amount": amount})
	return c.JSON(fiber.Map{"success": true, "message": "bid placed"})
}
