package repos

import (
	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// CartRow is a cart entry joined with its product for display and checkout.
type CartRow struct {
	ID        string  `db:"id"`
	ProductID string  `db:"product_id"`
	Name      string  `db:"name"`
	Unit      string  `db:"unit"`
	Quantity  int     `db:"quantity"`
	Price     float64 `db:"price"`
	Subtotal  float64 `db:"subtotal"`
}

// Qty returns the caller's current quantity for a product, 0 if no row.
func (r *CartRepo) Qty(userID, productID string) (int, error) {
	var qty int
	err := r.db.Get(&qty, `
	  SELECT COALESCE(SUM(quantity),0) FROM cart_items WHERE user_id=? AND product_id=?
	`, userID, productID)
	return qty, err
}

// UpsertAdd inserts the (user, product) entry or accumulates quantity onto the
// existing one. The UNIQUE(user_id, product_id) constraint guarantees a single
// row per pair regardless of interleaving.
func (r *CartRepo) UpsertAdd(id, userID, productID string, qty int) error {
	_, err := r.db.Exec(`
	  INSERT INTO cart_items(id,user_id,product_id,quantity,created_at)
	  VALUES(?,?,?,?,CURRENT_TIMESTAMP)
	  ON CONFLICT(user_id,product_id) DO UPDATE
	  SET quantity = quantity + excluded.quantity, updated_at = CURRENT_TIMESTAMP
	`, id, userID, productID, qty)
	return err
}

// Entry fetches one cart row by id, scoped to its owner.
func (r *CartRepo) Entry(cartID, userID string) (CartRow, error) {
	var row CartRow
	err := r.db.Get(&row, `
	  SELECT ci.id, ci.product_id, p.name, p.unit, ci.quantity, p.price,
	         (ci.quantity*p.price) AS subtotal
	  FROM cart_items ci JOIN products p ON p.id = ci.product_id
	  WHERE ci.id = ? AND ci.user_id = ?
	`, cartID, userID)
	return row, err
}

// SetQty overwrites the quantity of a row owned by the caller.
// Returns the affected row count so the service can distinguish a miss.
func (r *CartRepo) SetQty(cartID, userID string, qty int) (int64, error) {
	res, err := r.db.Exec(`
	  UPDATE cart_items SET quantity = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND user_id = ?
	`, qty, cartID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *CartRepo) Delete(cartID, userID string) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM cart_items WHERE id = ? AND user_id = ?`, cartID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *CartRepo) View(userID string) ([]CartRow, float64, error) {
	rows := []CartRow{}
	if err := r.db.Select(&rows, `
	  SELECT ci.id, ci.product_id, p.name, p.unit, ci.quantity, p.price,
	         (ci.quantity*p.price) AS subtotal
	  FROM cart_items ci JOIN products p ON p.id = ci.product_id
	  WHERE ci.user_id = ?
	  ORDER BY ci.created_at
	`, userID); err != nil {
		return nil, 0, err
	}
	total := 0.0
	for _, it := range rows {
		total += it.Subtotal
	}
	return rows, total, nil
}

// Count recomputes the cart size per request; nothing is cached.
func (r *CartRepo) Count(userID string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COALESCE(SUM(quantity),0) FROM cart_items WHERE user_id = ?`, userID)
	return n, err
}
