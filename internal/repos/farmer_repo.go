package repos

import (
	"database/sql"

	"farmstand/internal/domain"

	"github.com/jmoiron/sqlx"
)

type FarmerRepo struct{ db *sqlx.DB }

func NewFarmerRepo(db *sqlx.DB) *FarmerRepo { return &FarmerRepo{db: db} }

const farmerCols = `id,user_id,farm_name,location,description,phone,crops_json,
  bank_name,bank_account,rating,total_reviews,
  COALESCE(created_at,'') AS created_at,COALESCE(updated_at,'') AS updated_at`

func (r *FarmerRepo) ByUser(userID string) (*domain.Farmer, error) {
	var f domain.Farmer
	err := r.db.Get(&f, `SELECT `+farmerCols+` FROM farmers WHERE user_id=?`, userID)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FarmerRepo) ByID(id string) (*domain.Farmer, error) {
	var f domain.Farmer
	err := r.db.Get(&f, `SELECT `+farmerCols+` FROM farmers WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Create inserts a farmer profile, re-checking existence inside the same
// transaction as the insert. The farmers.user_id UNIQUE constraint closes the
// remaining race; a violation surfaces as domain.ErrConflict either way.
func (r *FarmerRepo) Create(f *domain.Farmer) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var existing string
	err = tx.Get(&existing, `SELECT id FROM farmers WHERE user_id=?`, f.UserID)
	if err == nil {
		return domain.ErrConflict
	}
	if err != sql.ErrNoRows {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO farmers(id,user_id,farm_name,location,description,phone,crops_json,bank_name,bank_account)
		VALUES(?,?,?,?,?,?,?,?,?)
	`, f.ID, f.UserID, f.FarmName, f.Location, f.Description, f.Phone, f.CropsJSON, f.BankName, f.BankAccount)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Update overwrites the full profile row; omitted fields land empty.
func (r *FarmerRepo) Update(f *domain.Farmer) error {
	res, err := r.db.Exec(`
		UPDATE farmers
		SET farm_name=?, location=?, description=?, phone=?, crops_json=?,
		    bank_name=?, bank_account=?, updated_at=CURRENT_TIMESTAMP
		WHERE id=? AND user_id=?
	`, f.FarmName, f.Location, f.Description, f.Phone, f.CropsJSON, f.BankName, f.BankAccount, f.ID, f.UserID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetAggregates persists the recomputed farmer-wide rating pair.
func (r *FarmerRepo) SetAggregates(farmerID string, rating float64, total int) error {
	_, err := r.db.Exec(`
		UPDATE farmers SET rating=?, total_reviews=?, updated_at=CURRENT_TIMESTAMP WHERE id=?
	`, rating, total, farmerID)
	return err
}
