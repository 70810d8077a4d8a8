package services

import (
	"database/sql"

	"farmstand/internal/domain"
	"farmstand/internal/repos"

	"github.com/google/uuid"
)

type AuctionService struct {
	Auctions *repos.AuctionRepo
}

func NewAuctionService(auctions *repos.AuctionRepo) *AuctionService {
	return &AuctionService{Auctions: auctions}
}

// Bid places a bid on an open auction. The highest-bid floor is re-read inside
// the placement transaction, so a stale page cannot land a losing bid.
func (s *AuctionService) Bid(auctionID, userID string, amount float64) error {
	if amount <= 0 {
		return domain.ErrInvalidInput
	}
	return s.Auctions.PlaceBid(uuid.NewString(), auctionID, userID, amount)
}

// Status reports an auction with its current top bid for display.
func (s *AuctionService) Status(auctionID string) (domain.Auction, float64, error) {
	a, err := s.Auctions.Get(auctionID)
	if err == sql.ErrNoRows {
		return domain.Auction{}, 0, domain.ErrNotFound
	}
	if err != nil {
		return domain.Auction{}, 0, err
	}
	top, err := s.Auctions.Highest(auctionID)
	if err != nil {
		return domain.Auction{}, 0, err
	}
	return a, top, nil
}
