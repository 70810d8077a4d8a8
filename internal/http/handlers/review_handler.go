package handlers

import (
	applog "farmstand/internal/log"
	"farmstand/internal/services"
	"farmstand/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
}

// Rate: POST /product/:id/rate {rating} -> {success, rating, totalReviews}
func (h *ReviewHandler) Rate(c *fiber.Ctx) error {
	u := currentUser(c)
	productID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "missing product id"})
	}
	rating, ok := validate.Rating(c.FormValue("rating"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "rating"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "rating must be 1-5"})
	}

	agg, err := h.Reviews.Rate(u.ID, productID, rating)
	if err != nil {
		return writeErr(c, "review.rate", err)
	}
	applog.Audit(c, "review.rate", map[string]any{"product": productID, "rating": rating})
	return c.JSON(fiber.Map{"success": true, "rating": agg.Rating, "totalReviews": agg.TotalReviews})
}

// Comment: POST /product/:id/comment {comment}; requires a prior rating.
func (h *ReviewHandler) Comment(c *fiber.Ctx) error {
	u := currentUser(c)
	productID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "missing product id"})
	}
	text, ok := validate.Comment(c.FormValue("comment"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "comment must be 1-1000 characters"})
	}

	if err := h.Reviews.Comment(u.ID, productID, text); err != nil {
		return writeErr(c, "review.comment", err)
	}
	applog.Audit(c, "review.comment", map[string]any{"product": productID})
	return c.JSON(fiber.Map{"success": true, "message": "comment saved"})
}

// DeleteComment: DELETE /product/:id/comment; the rating stays.
func (h *ReviewHandler) DeleteComment(c *fiber.Ctx) error {
	u := currentUser(c)
	productID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "missing product id"})
	}
	if err := h.Reviews.DeleteComment(u.ID, productID); err != nil {
		return writeErr(c, "review.comment.delete", err)
	}
	applog.Audit(c, "review.comment.delete", map[string]any{"product": productID})
	return c.JSON(fiber.Map{"success": true, "message": "comment removed"})
}
