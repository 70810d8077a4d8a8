package repos

import (
	"farmstand/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

type OrderSummary struct {
	ID        string  `db:"id"`
	Total     float64 `db:"total"`
	Status    string  `db:"status"`
	CreatedAt string  `db:"created_at"`
}

type OrderItemRow struct {
	Name     string  `db:"name"`
	Unit     string  `db:"unit"`
	Quantity int     `db:"quantity"`
	Price    float64 `db:"price"`
	Subtotal float64 `db:"subtotal"`
}

// Place converts cart lines into an order in one transaction: header insert,
// per-line guarded stock decrement, line-item snapshots, cart-row deletes.
// Any failure rolls the whole thing back, so stock and cart reappear together;
// the cart rows are gone only once the commit lands.
func (r *OrderRepo) Place(orderID, userID string, lines []CartRow, total float64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  INSERT INTO orders(id,user_id,total,status,created_at)
	  VALUES(?,?,?,'PLACED',CURRENT_TIMESTAMP)
	`, orderID, userID, total); err != nil {
		return err
	}

	for _, it := range lines {
		// Conditional decrement: zero rows affected means the snapshot check
		// from cart-add time no longer holds.
		res, err := tx.Exec(`
		  UPDATE products
		  SET stock_quantity = stock_quantity - ?, updated_at = CURRENT_TIMESTAMP
		  WHERE id = ? AND stock_quantity >= ?
		`, it.Quantity, it.ProductID, it.Quantity)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrInsufficientStock
		}

		if _, err := tx.Exec(`
		  INSERT INTO order_items(order_id,product_id,name,unit,quantity,price,subtotal)
		  VALUES(?,?,?,?,?,?,?)
		`, orderID, it.ProductID, it.Name, it.Unit, it.Quantity, it.Price, it.Subtotal); err != nil {
			return err
		}

		if _, err := tx.Exec(`
		  DELETE FROM cart_items WHERE user_id = ? AND product_id = ?
		`, userID, it.ProductID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *OrderRepo) Get(orderID string) (domain.Order, []OrderItemRow, error) {
	var o domain.Order
	if err := r.db.Get(&o, `
		SELECT id, COALESCE(user_id,'') AS user_id, total, status, created_at FROM orders WHERE id = ?
	`, orderID); err != nil {
		return domain.Order{}, nil, err
	}

	var items []OrderItemRow
	if err := r.db.Select(&items, `
		SELECT name, unit, quantity, price, subtotal
		FROM order_items
		WHERE order_id = ?
		ORDER BY name
	`, orderID); err != nil {
		return domain.Order{}, nil, err
	}

	return o, items, nil
}

func (r *OrderRepo) ListByUser(userID string) ([]OrderSummary, error) {
	var out []OrderSummary
	err := r.db.Select(&out, `
		SELECT id, total, status, created_at
		FROM orders
		WHERE user_id = ?
		ORDER BY datetime(created_at) DESC
	`, userID)
	return out, err
}
