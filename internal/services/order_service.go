package services

import (
	"database/sql"

	"farmstand/internal/domain"
	"farmstand/internal/repos"

	"github.com/google/uuid"
)

type OrderService struct {
	Carts  *repos.CartRepo
	Orders *repos.OrderRepo
}

func NewOrderService(carts *repos.CartRepo, orders *repos.OrderRepo) *OrderService {
	return &OrderService{Carts: carts, Orders: orders}
}

// Place turns the caller's cart into an order. Prices are snapshotted into the
// line items; stock decrements, item inserts and cart clearing all ride one
// transaction, so a failure leaves no partial order behind.
func (s *OrderService) Place(userID string) (string, float64, error) {
	items, total, err := s.Carts.View(userID)
	if err != nil {
		return "", 0, err
	}
	if len(items) == 0 {
		return "", 0, domain.ErrInvalidInput
	}

	orderID := uuid.NewString()
	if err := s.Orders.Place(orderID, userID, items, total); err != nil {
		return "", 0, err
	}
	return orderID, total, nil
}

// Get returns an order for its owner only.
func (s *OrderService) Get(orderID, userID string) (domain.Order, []repos.OrderItemRow, error) {
	o, items, err := s.Orders.Get(orderID)
	if err == sql.ErrNoRows {
		return domain.Order{}, nil, domain.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, nil, err
	}
	if o.UserID != userID {
		return domain.Order{}, nil, domain.ErrNotFound
	}
	return o, items, nil
}

func (s *OrderService) History(userID string) ([]repos.OrderSummary, error) {
	return s.Orders.ListByUser(userID)
}
