package repos

import (
	"log"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", fkDSN(dsn))
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed demo accounts and produce if DB is empty (idempotent; safe on every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}
	if err := seedCatalog(db); err != nil {
		return nil, err
	}

	return db, nil
}

// fkDSN makes the foreign_keys pragma ride the DSN. The pragma is scoped to a
// single connection, so it must apply to every connection the pool opens, not
// just the one that happens to run the schema.
func fkDSN(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint failure.
// The application-level existence checks are fast paths only; these
// constraints are the actual enforcement.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
-- enforcement rides the DSN (per-connection pragma); kept for schema readers
PRAGMA foreign_keys = ON;

-- Users & sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  phone TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL CHECK (role IN ('BUYER','SELLER')),
  verified INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Farmer shop profiles: user_id UNIQUE enforces one profile per seller
CREATE TABLE IF NOT EXISTS farmers(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
  farm_name TEXT NOT NULL,
  location TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  crops_json TEXT NOT NULL DEFAULT '[]',
  bank_name TEXT NOT NULL DEFAULT '',
  bank_account TEXT NOT NULL DEFAULT '',
  rating NUMERIC NOT NULL DEFAULT 0,
  total_reviews INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  farmer_id TEXT NOT NULL REFERENCES farmers(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  category TEXT NOT NULL DEFAULT '',
  description TEXT,
  price NUMERIC NOT NULL CHECK (price >= 0),
  unit TEXT NOT NULL DEFAULT 'kg',
  stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
  images_json TEXT,
  rating NUMERIC NOT NULL DEFAULT 0,
  total_reviews INTEGER NOT NULL DEFAULT 0,
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_farmer     ON products(farmer_id);
CREATE INDEX IF NOT EXISTS idx_products_category   ON products(category);
CREATE INDEX IF NOT EXISTS idx_products_name       ON products(LOWER(name));
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);

-- Cart: one row per (user, product); quantity accumulates on repeated add
CREATE TABLE IF NOT EXISTS cart_items(
  id TEXT PRIMARY KEY,
  user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT,
  UNIQUE(user_id, product_id)
);
CREATE INDEX IF NOT EXISTS idx_cart_user ON cart_items(user_id);

-- Reviews: one row per (user, product); comment only ever set on a rated row
CREATE TABLE IF NOT EXISTS reviews(
  id TEXT PRIMARY KEY,
  user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
  comment TEXT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT,
  UNIQUE(user_id, product_id)
);
CREATE INDEX IF NOT EXISTS idx_reviews_product ON reviews(product_id);

-- Orders: items snapshot price and subtotal at purchase time. The owner link
-- is severed on account deletion; the rows stay for audit.
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  user_id TEXT REFERENCES users(id) ON DELETE SET NULL,
  total NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'PLACED',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_user       ON orders(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

-- Line items carry full snapshots (name, unit, price) so order history
-- survives product and farm deletion.
CREATE TABLE IF NOT EXISTS order_items(
  order_id   TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  unit TEXT NOT NULL DEFAULT 'kg',
  quantity INTEGER NOT NULL,
  price NUMERIC NOT NULL,
  subtotal NUMERIC NOT NULL,
  PRIMARY KEY (order_id, product_id)
);

-- Auctions: at most one per product
CREATE TABLE IF NOT EXISTS auctions(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL UNIQUE REFERENCES products(id) ON DELETE CASCADE,
  starting_price NUMERIC NOT NULL CHECK (starting_price >= 0),
  status TEXT NOT NULL DEFAULT 'OPEN' CHECK (status IN ('OPEN','CLOSED')),
  closes_at TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS bids(
  id TEXT PRIMARY KEY,
  auction_id TEXT NOT NULL REFERENCES auctions(id) ON DELETE CASCADE,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  amount NUMERIC NOT NULL CHECK (amount > 0),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_bids_auction ON bids(auction_id);
`
	_, err := db.Exec(schema)
	return err
}

// seedUsers ensures demo buyers and a seller exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-amina", "amina@farmstand.test", "Amina", "BUYER", "Passw0rd!"),
		mk("u-ben", "ben@farmstand.test", "Ben", "BUYER", "Passw0rd!"),
		mk("u-moses", "moses@farmstand.test", "Moses", "SELLER", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role,verified)
			VALUES(?,?,?,?,?,1)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// seedCatalog inserts a demo farm, produce and an open auction if the catalog
// is empty.
func seedCatalog(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM farmers`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo farm/products/auction")

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	tx.MustExec(`INSERT INTO farmers(id,user_id,farm_name,location,description,crops_json) VALUES
	  ('f-green-acres','u-moses','Green Acres','Nakuru','Family farm, third generation.',
	   '["tomatoes","kale","maize"]')`)

	tx.MustExec(`INSERT INTO products(id,farmer_id,name,category,description,price,unit,stock_quantity,images_json) VALUES
	  ('prod-tomatoes','f-green-acres','Roma Tomatoes','vegetables','Vine ripened',3.50,'kg',40,'["products/prod-tomatoes/main.jpg"]'),
	  ('prod-kale','f-green-acres','Curly Kale','vegetables','Cut this morning',2.00,'bunch',25,'["products/prod-kale/main.jpg"]'),
	  ('prod-eggs','f-green-acres','Free Range Eggs','dairy-eggs','Pasture raised',4.80,'dozen',12,'["products/prod-eggs/main.jpg"]')`)

	tx.MustExec(`INSERT INTO auctions(id,product_id,starting_price,status,closes_at) VALUES
	  ('auc-eggs','prod-eggs',4.00,'OPEN',datetime('now','+7 days'))`)

	return tx.Commit()
}
