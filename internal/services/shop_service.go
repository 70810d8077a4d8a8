package services

import (
	"database/sql"
	"encoding/json"

	"farmstand/internal/domain"
	"farmstand/internal/repos"

	"github.com/google/uuid"
)

type ShopService struct {
	Users   *repos.UserRepo
	Farmers *repos.FarmerRepo
	Prods   *repos.ProductRepo
}

func NewShopService(users *repos.UserRepo, farmers *repos.FarmerRepo, prods *repos.ProductRepo) *ShopService {
	return &ShopService{Users: users, Farmers: farmers, Prods: prods}
}

// ShopFields carries the create/edit form. Crops is an ordered list; it is
// stored as a JSON array, not flattened to delimited text.
type ShopFields struct {
	FarmName    string
	Location    string
	Description string
	Phone       string
	Crops       []string
	BankName    string
	BankAccount string
}

func cropsJSON(crops []string) string {
	if crops == nil {
		crops = []string{}
	}
	b, _ := json.Marshal(crops)
	return string(b)
}

// CreateShop opens a farmer profile for a seller. Only sellers may create one,
// and only one per account: the existence re-check runs inside the insert
// transaction and the user_id unique constraint backs it up.
func (s *ShopService) CreateShop(userID string, fields ShopFields) (*domain.Farmer, error) {
	u, err := s.Users.ByID(userID)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	switch u.Role {
	case domain.RoleSeller:
	case domain.RoleBuyer:
		return nil, domain.ErrForbidden
	default:
		return nil, domain.ErrForbidden
	}

	f := &domain.Farmer{
		ID:          uuid.NewString(),
		UserID:      userID,
		FarmName:    fields.FarmName,
		Location:    fields.Location,
		Description: fields.Description,
		Phone:       fields.Phone,
		CropsJSON:   cropsJSON(fields.Crops),
		BankName:    fields.BankName,
		BankAccount: fields.BankAccount,
	}
	if err := s.Farmers.Create(f); err != nil {
		return nil, err
	}
	return f, nil
}

// EditFarm overwrites the whole profile row. There is no partial patch:
// whatever the form omitted comes back empty.
func (s *ShopService) EditFarm(userID string, fields ShopFields) error {
	f, err := s.Farmers.ByUser(userID)
	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	f.FarmName = fields.FarmName
	f.Location = fields.Location
	f.Description = fields.Description
	f.Phone = fields.Phone
	f.CropsJSON = cropsJSON(fields.Crops)
	f.BankName = fields.BankName
	f.BankAccount = fields.BankAccount
	return s.Farmers.Update(f)
}

func (s *ShopService) ProfileFor(userID string) (*domain.Farmer, error) {
	f, err := s.Farmers.ByUser(userID)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return f, err
}

// Shop returns a farmer profile with its product listing, for the public page.
func (s *ShopService) Shop(farmerID string) (*domain.Farmer, []domain.Product, error) {
	f, err := s.Farmers.ByID(farmerID)
	if err == sql.ErrNoRows {
		return nil, nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	prods, err := s.Prods.ListByFarmer(farmerID)
	if err != nil {
		return nil, nil, err
	}
	return f, prods, nil
}

// AddProduct lists new produce under the caller's farm.
func (s *ShopService) AddProduct(userID string, p domain.Product) (string, error) {
	f, err := s.Farmers.ByUser(userID)
	if err == sql.ErrNoRows {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	p.ID = uuid.NewString()
	p.FarmerID = f.ID
	if p.ImagesJSON == "" {
		p.ImagesJSON = "[]"
	}
	if err := s.Prods.Create(&p); err != nil {
		return "", err
	}
	return p.ID, nil
}

// SetStock overwrites stock for one of the caller's own products.
func (s *ShopService) SetStock(userID, productID string, qty int) error {
	if qty < 0 {
		return domain.ErrInvalidInput
	}
	f, err := s.Farmers.ByUser(userID)
	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	return s.Prods.SetStock(productID, f.ID, qty)
}
