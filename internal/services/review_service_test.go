package services_test

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"farmstand/internal/domain"
	"farmstand/internal/repos"
	"farmstand/internal/services"
)

func memdbReviews(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	schema := `
	CREATE TABLE users(id TEXT PRIMARY KEY, email TEXT UNIQUE, name TEXT, password_hash TEXT,
	  phone TEXT DEFAULT '', role TEXT, verified INTEGER DEFAULT 0, created_at TEXT, updated_at TEXT);
	CREATE TABLE farmers(id TEXT PRIMARY KEY, user_id TEXT UNIQUE, farm_name TEXT, location TEXT DEFAULT '',
	  description TEXT DEFAULT '', phone TEXT DEFAULT '', crops_json TEXT DEFAULT '[]',
	  bank_name TEXT DEFAULT '', bank_account TEXT DEFAULT '',
	  rating NUMERIC DEFAULT 0, total_reviews INTEGER DEFAULT 0, created_at TEXT, updated_at TEXT);
	CREATE TABLE products(id TEXT PRIMARY KEY, farmer_id TEXT, name TEXT, category TEXT DEFAULT '',
	  description TEXT, price NUMERIC, unit TEXT DEFAULT 'kg', stock_quantity INTEGER DEFAULT 0,
	  images_json TEXT, rating NUMERIC DEFAULT 0, total_reviews INTEGER DEFAULT 0,
	  active INTEGER DEFAULT 1, created_at TEXT, updated_at TEXT);
	CREATE TABLE reviews(id TEXT PRIMARY KEY, user_id TEXT, product_id TEXT,
	  rating INTEGER CHECK (rating BETWEEN 1 AND 5), comment TEXT NULL,
	  created_at TEXT, updated_at TEXT, UNIQUE(user_id, product_id));

	INSERT INTO users(id,email,name,password_hash,role) VALUES
	  ('u-a','a@test','Ann','x','BUYER'),
	  ('u-b','b@test','Bob','x','BUYER');
	INSERT INTO farmers(id,user_id,farm_name) VALUES ('f-1','u-s','Hill Farm');
	INSERT INTO products(id,farmer_id,name,price,stock_quantity,created_at) VALUES
	  ('p-1','f-1','Tomatoes',3.50,10,'now'),
	  ('p-2','f-1','Kale',2.00,10,'now');
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}

func newReviewSvc(db *sqlx.DB) *services.ReviewService {
	return services.NewReviewService(repos.NewReviewRepo(db), repos.NewProductRepo(db), repos.NewFarmerRepo(db))
}

func productAgg(t *testing.T, db *sqlx.DB, id string) (float64, int) {
	t.Helper()
	var rating float64
	var total int
	if err := db.Get(&rating, `SELECT rating FROM products WHERE id=?`, id); err != nil {
		t.Fatal(err)
	}
	if err := db.Get(&total, `SELECT total_reviews FROM products WHERE id=?`, id); err != nil {
		t.Fatal(err)
	}
	return rating, total
}

func TestRate_UpsertNotAppend(t *testing.T) {
	db := memdbReviews(t)
	svc := newReviewSvc(db)

	if _, err := svc.Rate("u-a", "p-1", 4); err != nil {
		t.Fatal(err)
	}
	agg, err := svc.Rate("u-a", "p-1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if agg.Rating != 2 || agg.TotalReviews != 1 {
		t.Fatalf("want rating=2 total=1, got %+v", agg)
	}

	var rows int
	if err := db.Get(&rows, `SELECT COUNT(*) FROM reviews WHERE user_id='u-a' AND product_id='p-1'`); err != nil {
		t.Fatal(err)
	}
	if rows != 1 {
		t.Fatalf("want a single review row, got %d", rows)
	}
}

func TestRate_RecomputesProductAndFarmerAggregates(t *testing.T) {
	db := memdbReviews(t)
	svc := newReviewSvc(db)

	if _, err := svc.Rate("u-a", "p-1", 5); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Rate("u-b", "p-1", 4); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Rate("u-a", "p-2", 2); err != nil {
		t.Fatal(err)
	}

	if rating, total := productAgg(t, db, "p-1"); rating != 4.5 || total != 2 {
		t.Fatalf("p-1: want 4.5/2, got %v/%d", rating, total)
	}
	if rating, total := productAgg(t, db, "p-2"); rating != 2 || total != 1 {
		t.Fatalf("p-2: want 2/1, got %v/%d", rating, total)
	}

	// Farmer aggregate spans all three reviews: (5+4+2)/3 = 3.67
	var fRating float64
	var fTotal int
	if err := db.Get(&fRating, `SELECT rating FROM farmers WHERE id='f-1'`); err != nil {
		t.Fatal(err)
	}
	if err := db.Get(&fTotal, `SELECT total_reviews FROM farmers WHERE id='f-1'`); err != nil {
		t.Fatal(err)
	}
	if fRating != 3.67 || fTotal != 3 {
		t.Fatalf("farmer: want 3.67/3, got %v/%d", fRating, fTotal)
	}
}

func TestRate_Validation(t *testing.T) {
	db := memdbReviews(t)
	svc := newReviewSvc(db)

	if _, err := svc.Rate("u-a", "p-1", 0); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput for rating 0, got %v", err)
	}
	if _, err := svc.Rate("u-a", "p-1", 6); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput for rating 6, got %v", err)
	}
	if _, err := svc.Rate("u-a", "p-missing", 3); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound for missing product, got %v", err)
	}
}

func TestComment_RequiresPriorRating(t *testing.T) {
	db := memdbReviews(t)
	svc := newReviewSvc(db)

	err := svc.Comment("u-a", "p-1", "lovely tomatoes")
	if !errors.Is(err, domain.ErrPreconditionFailed) {
		t.Fatalf("want ErrPreconditionFailed, got %v", err)
	}
	// No phantom row may appear
	var rows int
	if err := db.Get(&rows, `SELECT COUNT(*) FROM reviews`); err != nil {
		t.Fatal(err)
	}
	if rows != 0 {
		t.Fatalf("want no review rows, got %d", rows)
	}

	if _, err := svc.Rate("u-a", "p-1", 4); err != nil {
		t.Fatal(err)
	}
	if err := svc.Comment("u-a", "p-1", "lovely tomatoes"); err != nil {
		t.Fatal(err)
	}

	var comment string
	if err := db.Get(&comment, `SELECT comment FROM reviews WHERE user_id='u-a' AND product_id='p-1'`); err != nil {
		t.Fatal(err)
	}
	if comment != "lovely tomatoes" {
		t.Fatalf("unexpected comment %q", comment)
	}
}

func TestDeleteComment_KeepsRatingAndAggregates(t *testing.T) {
	db := memdbReviews(t)
	svc := newReviewSvc(db)

	if _, err := svc.Rate("u-a", "p-1", 4); err != nil {
		t.Fatal(err)
	}
	if err := svc.Comment("u-a", "p-1", "good"); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteComment("u-a", "p-1"); err != nil {
		t.Fatal(err)
	}

	var comment *string
	var rating int
	if err := db.Get(&comment, `SELECT comment FROM reviews WHERE user_id='u-a' AND product_id='p-1'`); err != nil {
		t.Fatal(err)
	}
	if comment != nil {
		t.Fatalf("want cleared comment, got %q", *comment)
	}
	if err := db.Get(&rating, `SELECT rating FROM reviews WHERE user_id='u-a' AND product_id='p-1'`); err != nil {
		t.Fatal(err)
	}
	if rating != 4 {
		t.Fatalf("rating must survive comment deletion, got %d", rating)
	}
	if pRating, total := productAgg(t, db, "p-1"); pRating != 4 || total != 1 {
		t.Fatalf("aggregates must be unaffected, got %v/%d", pRating, total)
	}

	// Deleting again is a miss
	if err := svc.DeleteComment("u-b", "p-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound for foreign delete, got %v", err)
	}
}
