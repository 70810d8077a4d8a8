package repos

import (
	"farmstand/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, farmer_id, name, category, COALESCE(description,'') AS description,
  price, unit, stock_quantity, COALESCE(images_json,'[]') AS images_json,
  rating, total_reviews, active,
  COALESCE(created_at,'') AS created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

func (r *ProductRepo) List(limit, offset int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE active = 1
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?
	`, limit, offset)
	return out, err
}

func (r *ProductRepo) ListByCategory(category string, limit, offset int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE category = ? AND active = 1
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?
	`, category, limit, offset)
	return out, err
}

func (r *ProductRepo) ListByFarmer(farmerID string) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE farmer_id = ?
	  ORDER BY created_at DESC
	`, farmerID)
	return out, err
}

func (r *ProductRepo) Search(q, category string, limit, offset int) ([]domain.Product, error) {
	where := `active = 1`
	args := []any{}
	if q != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)`
		args = append(args, "%"+q+"%", "%"+q+"%")
	}
	if category != "" {
		where += ` AND category = ?`
		args = append(args, category)
	}

	sql := `
	  SELECT ` + productCols + `
	  FROM products
	  WHERE ` + where + `
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var out []domain.Product
	err := r.db.Select(&out, sql, args...)
	return out, err
}

func (r *ProductRepo) Create(p *domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id,farmer_id,name,category,description,price,unit,stock_quantity,images_json,active)
	  VALUES(?,?,?,?,?,?,?,?,?,1)
	`, p.ID, p.FarmerID, p.Name, p.Category, p.Description, p.Price, p.Unit, p.StockQty, p.ImagesJSON)
	return err
}

// Stock returns the current stock_quantity snapshot.
func (r *ProductRepo) Stock(productID string) (int, error) {
	var qty int
	err := r.db.Get(&qty, `SELECT stock_quantity FROM products WHERE id = ?`, productID)
	if err != nil {
		return 0, err
	}
	return qty, nil
}

// SetStock overwrites stock for a product owned by the given farmer.
func (r *ProductRepo) SetStock(productID, farmerID string, qty int) error {
	res, err := r.db.Exec(`
	  UPDATE products SET stock_quantity = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND farmer_id = ?
	`, qty, productID, farmerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetAggregates persists the recomputed per-product rating pair.
func (r *ProductRepo) SetAggregates(productID string, rating float64, total int) error {
	_, err := r.db.Exec(`
	  UPDATE products SET rating=?, total_reviews=?, updated_at=CURRENT_TIMESTAMP WHERE id=?
	`, rating, total, productID)
	return err
}
