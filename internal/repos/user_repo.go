package repos

import (
	"farmstand/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id,email,name,password_hash,phone,role,verified`

// Create inserts a new account. Returns domain.ErrConflict when the email is
// already registered; the unique index on LOWER(email) is the enforcement.
func (r *UserRepo) Create(u *domain.User) error {
	_, err := r.DB.Exec(`
		INSERT INTO users(id,email,name,password_hash,phone,role,verified)
		VALUES(?,?,?,?,?,?,?)
	`, u.ID, u.Email, u.Name, u.Hash, u.Phone, string(u.Role), u.Verified)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) BindSession(sid, userID string) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,user_id,last_seen)
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=CURRENT_TIMESTAMP`, sid, userID)
	return err
}

func (r *UserRepo) SessionUser(sid string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
      SELECT u.id,u.email,u.name,u.password_hash,u.phone,u.role,u.verified
      FROM sessions s
      JOIN users u ON u.id=s.user_id
      WHERE s.id=?`, sid)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(sid string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET user_id=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}

// DeleteCascade removes an account and everything it owns. Farmer profiles,
// products, cart rows and reviews go via FK cascade; orders are kept for audit.
func (r *UserRepo) DeleteCascade(userID string) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE orders SET status='CANCELED' WHERE user_id=? AND status='PLACED'`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM sessions WHERE user_id=?`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM users WHERE id=?`, userID); err != nil {
		return err
	}

	return tx.Commit()
}
