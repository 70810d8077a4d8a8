package domain

// Farmer is the seller-side shop profile, one per user.
type Farmer struct {
	ID           string  `db:"id"`
	UserID       string  `db:"user_id"`
	FarmName     string  `db:"farm_name"`
	Location     string  `db:"location"`
	Description  string  `db:"description"`
	Phone        string  `db:"phone"`
	CropsJSON    string  `db:"crops_json"` // ordered JSON array of strings
	BankName     string  `db:"bank_name"`
	BankAccount  string  `db:"bank_account"`
	Rating       float64 `db:"rating"`
	TotalReviews int     `db:"total_reviews"`
	CreatedAt    string  `db:"created_at"`
	UpdatedAt    string  `db:"updated_at"`
}

type Product struct {
	ID           string  `db:"id"`
	FarmerID     string  `db:"farmer_id"`
	Name         string  `db:"name"`
	Category     string  `db:"category"`
	Description  string  `db:"description"`
	Price        float64 `db:"price"`
	Unit         string  `db:"unit"` // kg | dozen | bunch | piece
	StockQty     int     `db:"stock_quantity"`
	ImagesJSON   string  `db:"images_json"`
	Rating       float64 `db:"rating"`
	TotalReviews int     `db:"total_reviews"`
	Active       bool    `db:"active"`
	CreatedAt    string  `db:"created_at"`
	UpdatedAt    string  `db:"updated_at"`
}

type Review struct {
	ID        string  `db:"id"`
	UserID    string  `db:"user_id"`
	ProductID string  `db:"product_id"`
	Rating    int     `db:"rating"` // 1-5
	Comment   *string `db:"comment"`
	CreatedAt string  `db:"created_at"`
	UpdatedAt string  `db:"updated_at"`
}

// RatingSummary is the persisted aggregate pair on products and farmers.
type RatingSummary struct {
	Rating       float64 `db:"rating"`
	TotalReviews int     `db:"total_reviews"`
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty,omitempty"`
}

type Order struct {
	ID        string  `db:"id"`
	UserID    string  `db:"user_id"`
	Total     float64 `db:"total"`
	Status    string  `db:"status"`
	CreatedAt string  `db:"created_at"`
}

type Auction struct {
	ID            string  `db:"id"`
	ProductID     string  `db:"product_id"`
	StartingPrice float64 `db:"starting_price"`
	Status        string  `db:"status"` // OPEN | CLOSED
	ClosesAt      string  `db:"closes_at"`
	CreatedAt     string  `db:"created_at"`
}

type Bid struct {
	ID        string  `db:"id"`
	AuctionID string  `db:"auction_id"`
	UserID    string  `db:"user_id"`
	Amount    float64 `db:"amount"`
	CreatedAt string  `db:"created_at"`
}
