package services_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"farmstand/internal/domain"
	"farmstand/internal/repos"
	"farmstand/internal/services"
)

// authdb uses the real schema and seeds so the FK cascades are in play.
func authdb(t *testing.T) (*sqlx.DB, *services.AuthService) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db, &services.AuthService{Users: repos.NewUserRepo(db)}
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	_, svc := authdb(t)

	u, err := svc.Register("Jane", "jane@test", "Passw0rd!", "", domain.RoleBuyer)
	if err != nil {
		t.Fatal(err)
	}
	if u.Hash == "Passw0rd!" {
		t.Fatal("password stored in the clear")
	}

	if _, err := svc.Register("Jane Again", "jane@test", "Other0ne!", "", domain.RoleBuyer); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate email: want ErrConflict, got %v", err)
	}

	if _, err := svc.Login("sid-1", "jane@test", "wrong"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("bad password: want ErrBadCreds, got %v", err)
	}
	if _, err := svc.Login("sid-1", "nobody@test", "Passw0rd!"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("unknown email: want ErrBadCreds, got %v", err)
	}

	if _, err := svc.Login("sid-1", "jane@test", "Passw0rd!"); err != nil {
		t.Fatal(err)
	}
	cur, err := svc.CurrentUser("sid-1")
	if err != nil {
		t.Fatal(err)
	}
	if cur.ID != u.ID {
		t.Fatalf("session bound to %s, want %s", cur.ID, u.ID)
	}

	if err := svc.Logout("sid-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CurrentUser("sid-1"); err == nil {
		t.Fatal("session should be unbound after logout")
	}
}

func TestFederatedLoginFindOrCreate(t *testing.T) {
	db, svc := authdb(t)

	u1, err := svc.FederatedLogin("sid-f1", "oauth@test", "Oma")
	if err != nil {
		t.Fatal(err)
	}
	if u1.Role != domain.RoleBuyer || !u1.Verified {
		t.Fatalf("first federated login must create a verified buyer, got %+v", u1)
	}

	u2, err := svc.FederatedLogin("sid-f2", "oauth@test", "Different Name")
	if err != nil {
		t.Fatal(err)
	}
	if u2.ID != u1.ID {
		t.Fatalf("repeat federated login created a second account: %s vs %s", u2.ID, u1.ID)
	}
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM users WHERE email='oauth@test'`); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("want one account, got %d", n)
	}

	// The placeholder hash never matches a password login
	if _, err := svc.Login("sid-f3", "oauth@test", "oauth:"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("password login on a federated account: want ErrBadCreds, got %v", err)
	}
}

// The FK pragma is connection-scoped; with no idle reuse every statement runs
// on a fresh pool connection, so the cascade must hold without help from a
// pinned connection.
func TestDeleteAccountCascades_FreshConnections(t *testing.T) {
	db, err := repos.OpenDB(filepath.Join(t.TempDir(), "cascade.db"))
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxIdleConns(0)
	t.Cleanup(func() { _ = db.Close() })
	svc := &services.AuthService{Users: repos.NewUserRepo(db)}

	// Seeded seller owns the farm, its products and the open auction.
	if err := svc.DeleteAccount("u-moses"); err != nil {
		t.Fatal(err)
	}

	checks := map[string]string{
		"farmers":  `SELECT COUNT(*) FROM farmers WHERE user_id='u-moses'`,
		"products": `SELECT COUNT(*) FROM products WHERE farmer_id='f-green-acres'`,
		"auctions": `SELECT COUNT(*) FROM auctions WHERE id='auc-eggs'`,
	}
	for table, q := range checks {
		var n int
		if err := db.Get(&n, q); err != nil {
			t.Fatal(err)
		}
		if n != 0 {
			t.Fatalf("%s: cascade left %d rows behind", table, n)
		}
	}
}

func TestDeleteAccountCascades(t *testing.T) {
	db, svc := authdb(t)
	userRepo := repos.NewUserRepo(db)

	// Give the seeded buyer a session, a cart row, a review and an order.
	if err := userRepo.BindSession("sid-d", "u-amina"); err != nil {
		t.Fatal(err)
	}
	cartSvc := services.NewCartService(repos.NewCartRepo(db), repos.NewProductRepo(db))
	if err := cartSvc.Add("u-amina", "prod-tomatoes", 2); err != nil {
		t.Fatal(err)
	}
	reviewSvc := services.NewReviewService(repos.NewReviewRepo(db), repos.NewProductRepo(db), repos.NewFarmerRepo(db))
	if _, err := reviewSvc.Rate("u-amina", "prod-kale", 4); err != nil {
		t.Fatal(err)
	}
	orderSvc := services.NewOrderService(repos.NewCartRepo(db), repos.NewOrderRepo(db))
	orderID, _, err := orderSvc.Place("u-amina")
	if err != nil {
		t.Fatal(err)
	}
	if err := cartSvc.Add("u-amina", "prod-eggs", 1); err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteAccount("u-amina"); err != nil {
		t.Fatal(err)
	}

	counts := map[string]string{
		"users":      `SELECT COUNT(*) FROM users WHERE id='u-amina'`,
		"sessions":   `SELECT COUNT(*) FROM sessions WHERE user_id='u-amina'`,
		"cart_items": `SELECT COUNT(*) FROM cart_items WHERE user_id='u-amina'`,
		"reviews":    `SELECT COUNT(*) FROM reviews WHERE user_id='u-amina'`,
	}
	for table, q := range counts {
		var n int
		if err := db.Get(&n, q); err != nil {
			t.Fatal(err)
		}
		if n != 0 {
			t.Fatalf("%s: want 0 rows after deletion, got %d", table, n)
		}
	}

	// Orders stay for the audit trail, marked canceled.
	var status string
	if err := db.Get(&status, `SELECT status FROM orders WHERE id=?`, orderID); err != nil {
		t.Fatal(err)
	}
	if status != "CANCELED" {
		t.Fatalf("want order CANCELED, got %s", status)
	}
}
