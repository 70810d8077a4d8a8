package handlers_test

import (
	"net/http"
	"strings"
	"testing"
)

func TestPlaceOrderOverHTTP(t *testing.T) {
	app, db := newTestApp(t)
	amina := sessionFor(t, db, "u-amina")

	// Nothing in the cart: that's a bad request, not a conflict.
	resp := postForm(t, app, "/orders", "", amina)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty cart: got %d, want 400", resp.StatusCode)
	}

	resp = postForm(t, app, "/cart/add", "productId=prod-tomatoes&quantity=2", amina)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cart add: got %d", resp.StatusCode)
	}

	// Stock drained between carting and checkout: the order must be refused
	// with a conflict and the cart left untouched for the buyer to adjust.
	if _, err := db.Exec(`UPDATE products SET stock_quantity = 1 WHERE id = 'prod-tomatoes'`); err != nil {
		t.Fatal(err)
	}
	resp = postForm(t, app, "/orders", "", amina)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("stale stock: got %d, want 409", resp.StatusCode)
	}
	var rows int
	if err := db.Get(&rows, `SELECT COUNT(*) FROM cart_items WHERE user_id = 'u-amina'`); err != nil {
		t.Fatal(err)
	}
	if rows != 1 {
		t.Fatalf("cart should survive a refused order, have %d rows", rows)
	}

	if _, err := db.Exec(`UPDATE products SET stock_quantity = 40 WHERE id = 'prod-tomatoes'`); err != nil {
		t.Fatal(err)
	}
	resp = postForm(t, app, "/orders", "", amina)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("place order: got %d, want 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); !strings.HasPrefix(loc, "/order/") {
		t.Fatalf("redirect location %q", loc)
	}
}
