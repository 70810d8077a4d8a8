package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"farmstand/internal/config"
	"farmstand/internal/http/handlers"
	"farmstand/internal/repos"
	"farmstand/internal/services"
)

// newTestApp wires the JSON/API routes against a seeded in-memory database.
// Template-rendering pages are left unmounted; these tests exercise the API
// surface and the auth endpoints that respond with plain strings or redirects.
func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// in-memory sqlite lives per connection
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	deps := handlers.NewDeps(db, config.Config{}, authSvc)
	authH := &handlers.AuthHandler{Auth: authSvc}

	app := fiber.New()
	app.Use(requestid.New())

	requireUser := handlers.RequireUser(authSvc)

	app.Post("/cart/add", requireUser, deps.CartHandler.Add)
	app.Post("/cart/update", requireUser, deps.CartHandler.Update)
	app.Delete("/cart/remove/:cartId", requireUser, deps.CartHandler.Remove)

	app.Post("/orders", requireUser, deps.OrderHandler.Place)

	app.Post("/product/:id/rate", requireUser, deps.ReviewHandler.Rate)
	app.Post("/product/:id/comment", requireUser, deps.ReviewHandler.Comment)
	app.Delete("/product/:id/comment", requireUser, deps.ReviewHandler.DeleteComment)

	app.Get("/api/v1/products/:id/availability", deps.ProductHandler.Availability)
	app.Get("/auction/:id", deps.AuctionHandler.Status)
	app.Post("/auction/:id/bid", requireUser, deps.AuctionHandler.Bid)

	app.Post("/register", authH.Register)

	return app, db
}

// sessionFor binds a fresh session id to a seeded user and returns the cookie.
func sessionFor(t *testing.T, db *sqlx.DB, userID string) *http.Cookie {
	t.Helper()
	sid := uuid.NewString()
	if err := repos.NewUserRepo(db).BindSession(sid, userID); err != nil {
		t.Fatalf("bind session: %v", err)
	}
	return &http.Cookie{Name: "sid", Value: sid}
}

func postForm(t *testing.T, app *fiber.App, path, form string, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	// bcrypt at cost 12 can outlast the default 1s test timeout
	resp, err := app.Test(req, 15000)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func doDelete(t *testing.T, app *fiber.App, path string, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest("DELETE", path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("DELETE %s: %v", path, err)
	}
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode json %q: %v", raw, err)
	}
	return out
}
