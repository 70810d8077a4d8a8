package repos

import (
	"farmstand/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ReviewRepo struct{ db *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Upsert writes the single review row for (user, product): a first rating
// inserts, a repeat rating overwrites in place. Never appends.
func (r *ReviewRepo) Upsert(id, userID, productID string, rating int) error {
	_, err := r.db.Exec(`
	  INSERT INTO reviews(id,user_id,product_id,rating,created_at)
	  VALUES(?,?,?,?,CURRENT_TIMESTAMP)
	  ON CONFLICT(user_id,product_id) DO UPDATE
	  SET rating = excluded.rating, updated_at = CURRENT_TIMESTAMP
	`, id, userID, productID, rating)
	return err
}

func (r *ReviewRepo) Get(userID, productID string) (domain.Review, error) {
	var rev domain.Review
	err := r.db.Get(&rev, `
	  SELECT id,user_id,product_id,rating,comment,created_at,COALESCE(updated_at,'') AS updated_at
	  FROM reviews WHERE user_id=? AND product_id=?
	`, userID, productID)
	return rev, err
}

// SetComment attaches free text to an existing review. Zero rows affected
// means there is no rating to attach to.
func (r *ReviewRepo) SetComment(userID, productID, text string) (int64, error) {
	res, err := r.db.Exec(`
	  UPDATE reviews SET comment = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE user_id = ? AND product_id = ?
	`, text, userID, productID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ClearComment nulls the comment only; the rating row stays.
func (r *ReviewRepo) ClearComment(userID, productID string) (int64, error) {
	res, err := r.db.Exec(`
	  UPDATE reviews SET comment = NULL, updated_at = CURRENT_TIMESTAMP
	  WHERE user_id = ? AND product_id = ?
	`, userID, productID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ProductAggregate recomputes the product rating pair by full scan.
func (r *ReviewRepo) ProductAggregate(productID string) (domain.RatingSummary, error) {
	var s domain.RatingSummary
	err := r.db.Get(&s, `
	  SELECT COALESCE(ROUND(AVG(rating),2),0) AS rating, COUNT(*) AS total_reviews
	  FROM reviews WHERE product_id = ?
	`, productID)
	return s, err
}

// FarmerAggregate recomputes the farmer rating pair across all reviews of all
// of that farmer's products, by full scan.
func (r *ReviewRepo) FarmerAggregate(farmerID string) (domain.RatingSummary, error) {
	var s domain.RatingSummary
	err := r.db.Get(&s, `
	  SELECT COALESCE(ROUND(AVG(rv.rating),2),0) AS rating, COUNT(*) AS total_reviews
	  FROM reviews rv
	  JOIN products p ON p.id = rv.product_id
	  WHERE p.farmer_id = ?
	`, farmerID)
	return s, err
}

// ProductReview is a review joined with its author, for the product page.
type ProductReview struct {
	Reviewer  string  `db:"reviewer"`
	Rating    int     `db:"rating"`
	Comment   *string `db:"comment"`
	UpdatedAt string  `db:"updated_at"`
}

func (r *ReviewRepo) ListForProduct(productID string) ([]ProductReview, error) {
	var out []ProductReview
	err := r.db.Select(&out, `
	  SELECT u.name AS reviewer, rv.rating, rv.comment,
	         COALESCE(rv.updated_at, rv.created_at) AS updated_at
	  FROM reviews rv
	  JOIN users u ON u.id = rv.user_id
	  WHERE rv.product_id = ?
	  ORDER BY COALESCE(rv.updated_at, rv.created_at) DESC
	`, productID)
	return out, err
}
