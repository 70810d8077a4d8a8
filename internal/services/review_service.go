package services

import (
	"database/sql"

	"farmstand/internal/domain"
	"farmstand/internal/repos"

	"github.com/google/uuid"
)

type ReviewService struct {
	Reviews *repos.ReviewRepo
	Prods   *repos.ProductRepo
	Farmers *repos.FarmerRepo
}

func NewReviewService(reviews *repos.ReviewRepo, prods *repos.ProductRepo, farmers *repos.FarmerRepo) *ReviewService {
	return &ReviewService{Reviews: reviews, Prods: prods, Farmers: farmers}
}

// Rate upserts the caller's single review row for a product, then recomputes
// and persists both aggregate pairs by full scan: the product's own, and the
// owning farmer's across all of their products. Returns the fresh product
// aggregate.
func (s *ReviewService) Rate(userID, productID string, rating int) (domain.RatingSummary, error) {
	if rating < 1 || rating > 5 {
		return domain.RatingSummary{}, domain.ErrInvalidInput
	}
	p, err := s.Prods.Get(productID)
	if err == sql.ErrNoRows {
		return domain.RatingSummary{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.RatingSummary{}, err
	}

	if err := s.Reviews.Upsert(uuid.NewString(), userID, productID, rating); err != nil {
		return domain.RatingSummary{}, err
	}

	prodAgg, err := s.Reviews.ProductAggregate(productID)
	if err != nil {
		return domain.RatingSummary{}, err
	}
	if err := s.Prods.SetAggregates(productID, prodAgg.Rating, prodAgg.TotalReviews); err != nil {
		return domain.RatingSummary{}, err
	}

	farmAgg, err := s.Reviews.FarmerAggregate(p.FarmerID)
	if err != nil {
		return domain.RatingSummary{}, err
	}
	if err := s.Farmers.SetAggregates(p.FarmerID, farmAgg.Rating, farmAgg.TotalReviews); err != nil {
		return domain.RatingSummary{}, err
	}

	return prodAgg, nil
}

// Comment attaches free text to an existing rating. A comment cannot exist
// without a prior rating; aggregates are untouched.
func (s *ReviewService) Comment(userID, productID, text string) error {
	if text == "" {
		return domain.ErrInvalidInput
	}
	n, err := s.Reviews.SetComment(userID, productID, text)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrPreconditionFailed
	}
	return nil
}

// DeleteComment clears the comment only. The rating and its contribution to
// the aggregates stay.
func (s *ReviewService) DeleteComment(userID, productID string) error {
	n, err := s.Reviews.ClearComment(userID, productID)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *ReviewService) ListForProduct(productID string) ([]repos.ProductReview, error) {
	return s.Reviews.ListForProduct(productID)
}
