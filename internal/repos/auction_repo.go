package repos

import (
	"database/sql"

	"farmstand/internal/domain"

	"github.com/jmoiron/sqlx"
)

type AuctionRepo struct{ db *sqlx.DB }

func NewAuctionRepo(db *sqlx.DB) *AuctionRepo { return &AuctionRepo{db: db} }

func (r *AuctionRepo) Get(id string) (domain.Auction, error) {
	var a domain.Auction
	err := r.db.Get(&a, `
	  SELECT id, product_id, starting_price, status, COALESCE(closes_at,'') AS closes_at, COALESCE(created_at,'') AS created_at
	  FROM auctions WHERE id = ?
	`, id)
	return a, err
}

func (r *AuctionRepo) ByProduct(productID string) (domain.Auction, error) {
	var a domain.Auction
	err := r.db.Get(&a, `
	  SELECT id, product_id, starting_price, status, COALESCE(closes_at,'') AS closes_at, COALESCE(created_at,'') AS created_at
	  FROM auctions WHERE product_id = ?
	`, productID)
	return a, err
}

// Highest returns the current top bid amount, or 0 when there are no bids.
func (r *AuctionRepo) Highest(auctionID string) (float64, error) {
	var top float64
	err := r.db.Get(&top, `SELECT COALESCE(MAX(amount),0) FROM bids WHERE auction_id = ?`, auctionID)
	return top, err
}

// PlaceBid inserts a bid inside a transaction, requiring the amount to beat
// both the starting price and the current highest bid as re-read in the same
// transaction.
func (r *AuctionRepo) PlaceBid(bidID, auctionID, userID string, amount float64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var a domain.Auction
	err = tx.Get(&a, `
	  SELECT id, product_id, starting_price, status, COALESCE(closes_at,'') AS closes_at, COALESCE(created_at,'') AS created_at
	  FROM auctions WHERE id = ?
	`, auctionID)
	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	if a.Status != "OPEN" {
		return domain.ErrNotFound
	}

	var top float64
	if err := tx.Get(&top, `SELECT COALESCE(MAX(amount),0) FROM bids WHERE auction_id = ?`, auctionID); err != nil {
		return err
	}
	floor := a.StartingPrice
	if top > floor {
		floor = top
	}
	if amount <= floor {
		return domain.ErrInvalidInput
	}

	if _, err := tx.Exec(`
	  INSERT INTO bids(id,auction_id,user_id,amount,created_at)
	  VALUES(?,?,?,?,CURRENT_TIMESTAMP)
	`, bidID, auctionID, userID, amount); err != nil {
		return err
	}

	return tx.Commit()
}
