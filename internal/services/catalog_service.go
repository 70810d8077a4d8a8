package services

import (
	"database/sql"

	"farmstand/internal/domain"
	"farmstand/internal/repos"
)

type CatalogService struct {
	Prods *repos.ProductRepo
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods}
}

func clampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 12
	}
	return pageSize, (page - 1) * pageSize
}

func (s *CatalogService) ListProducts(page, pageSize int) ([]domain.Product, error) {
	limit, offset := clampPage(page, pageSize)
	return s.Prods.List(limit, offset)
}

func (s *CatalogService) ListByCategory(category string, page, pageSize int) ([]domain.Product, error) {
	limit, offset := clampPage(page, pageSize)
	return s.Prods.ListByCategory(category, limit, offset)
}

func (s *CatalogService) GetProduct(id string) (domain.Product, error) {
	return s.Prods.Get(id)
}

func (s *CatalogService) Search(q, category string, page, pageSize int) ([]domain.Product, error) {
	limit, offset := clampPage(page, pageSize)
	return s.Prods.Search(q, category, limit, offset)
}

// Availability buckets a product's stock for the storefront badge.
func (s *CatalogService) Availability(productID string) (domain.Availability, error) {
	qty, err := s.Prods.Stock(productID)
	if err == sql.ErrNoRows {
		return domain.Availability{Status: "OUT_OF_STOCK", Qty: 0}, nil
	}
	if err != nil {
		return domain.Availability{}, err
	}

	status := "OUT_OF_STOCK"
	switch {
	case qty >= 5:
		status = "IN_STOCK"
	case qty > 0:
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Qty: qty}, nil
}
