package services

import (
	"database/sql"

	"farmstand/internal/domain"
	"farmstand/internal/repos"

	"github.com/google/uuid"
)

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

// Add puts qty units of a product in the caller's cart, accumulating onto any
// existing entry. The stock ceiling is checked against the current snapshot
// only; two concurrent adds can jointly pass it. Row uniqueness is the
// database's job, not this check's.
func (s *CartService) Add(userID, productID string, qty int) error {
	if qty < 1 {
		return domain.ErrInvalidInput
	}
	p, err := s.Prods.Get(productID)
	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	if !p.Active {
		return domain.ErrNotFound
	}

	have, err := s.Carts.Qty(userID, productID)
	if err != nil {
		return err
	}
	if have+qty > p.StockQty {
		return domain.ErrInsufficientStock
	}

	return s.Carts.UpsertAdd(uuid.NewString(), userID, productID, qty)
}

// UpdateQuantity overwrites a cart row's quantity. A row that does not exist
// for this caller is a miss whether it is missing or someone else's.
func (s *CartService) UpdateQuantity(cartID, userID string, newQty int) error {
	if newQty <= 0 {
		return domain.ErrInvalidInput
	}
	entry, err := s.Carts.Entry(cartID, userID)
	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	stock, err := s.Prods.Stock(entry.ProductID)
	if err != nil {
		return err
	}
	if newQty > stock {
		return domain.ErrInsufficientStock
	}
	n, err := s.Carts.SetQty(cartID, userID, newQty)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *CartService) Remove(cartID, userID string) error {
	n, err := s.Carts.Delete(cartID, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type CartView struct {
	Items []repos.CartRow
	Total float64
}

func (s *CartService) View(userID string) (CartView, error) {
	items, total, err := s.Carts.View(userID)
	if err != nil {
		return CartView{}, err
	}
	return CartView{Items: items, Total: total}, nil
}

// Count is recomputed on every call; no persisted counter exists.
func (s *CartService) Count(userID string) (int, error) {
	return s.Carts.Count(userID)
}
