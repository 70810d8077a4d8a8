package handlers_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestAvailabilityEndpoint(t *testing.T) {
	app, db := newTestApp(t)

	req := httptest.NewRequest("GET", "/api/v1/products/prod-tomatoes/availability", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeJSON(t, resp)
	if body["status"] != "IN_STOCK" {
		t.Fatalf("expected IN_STOCK, got %v", body["status"])
	}

	if _, err := db.Exec(`UPDATE products SET stock_quantity=2 WHERE id='prod-tomatoes'`); err != nil {
		t.Fatalf("adjust stock: %v", err)
	}
	req = httptest.NewRequest("GET", "/api/v1/products/prod-tomatoes/availability", nil)
	resp, _ = app.Test(req)
	body = decodeJSON(t, resp)
	if body["status"] != "LOW_STOCK" {
		t.Fatalf("expected LOW_STOCK, got %v", body["status"])
	}

	// Unknown products read as out of stock rather than leaking existence
	req = httptest.NewRequest("GET", "/api/v1/products/prod-nope/availability", nil)
	resp, _ = app.Test(req)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("unknown product: expected 200, got %d", resp.StatusCode)
	}
	body = decodeJSON(t, resp)
	if body["status"] != "OUT_OF_STOCK" {
		t.Fatalf("unknown product: expected OUT_OF_STOCK, got %v", body["status"])
	}
}

func TestAuctionBidOverHTTP(t *testing.T) {
	app, db := newTestApp(t)
	ck := sessionFor(t, db, "u-amina")

	// Anonymous bidding is rejected
	resp := postForm(t, app, "/auction/auc-eggs/bid", "amount=5.00")
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("anonymous bid: expected 401, got %d", resp.StatusCode)
	}

	// Must beat the 4.00 starting price
	resp = postForm(t, app, "/auction/auc-eggs/bid", "amount=3.50", ck)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("low bid: expected 400, got %d", resp.StatusCode)
	}

	resp = postForm(t, app, "/auction/auc-eggs/bid", "amount=4.50", ck)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("bid: expected 200, got %d", resp.StatusCode)
	}

	// Status is public and reflects the new top bid
	req := httptest.NewRequest("GET", "/auction/auc-eggs", nil)
	sresp, err := app.Test(req)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	body := decodeJSON(t, sresp)
	if body["status"] != "OPEN" {
		t.Fatalf("expected OPEN, got %v", body["status"])
	}
	if body["highestBid"].(float64) != 4.5 {
		t.Fatalf("expected top bid 4.5, got %v", body["highestBid"])
	}
}
