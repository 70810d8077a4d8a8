package handlers

import (
	"farmstand/internal/config"
	"farmstand/internal/repos"
	"farmstand/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	CatalogHandler *CatalogHandler
	ProductHandler *ProductHandler
	CartHandler    *CartHandler
	ReviewHandler  *ReviewHandler
	ShopHandler    *ShopHandler
	OrderHandler   *OrderHandler
	AuctionHandler *AuctionHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	userRepo := repos.NewUserRepo(db)
	farmerRepo := repos.NewFarmerRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	reviewRepo := repos.NewReviewRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	auctionRepo := repos.NewAuctionRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	reviewSvc := services.NewReviewService(reviewRepo, prodRepo, farmerRepo)
	shopSvc := services.NewShopService(userRepo, farmerRepo, prodRepo)
	orderSvc := services.NewOrderService(cartRepo, orderRepo)
	auctionSvc := services.NewAuctionService(auctionRepo)

	return &Deps{
		CatalogHandler: &CatalogHandler{Catalog: catalogSvc},
		ProductHandler: &ProductHandler{Catalog: catalogSvc, Reviews: reviewSvc},
		CartHandler:    &CartHandler{Cart: cartSvc},
		ReviewHandler:  &ReviewHandler{Reviews: reviewSvc},
		ShopHandler:    &ShopHandler{Shop: shopSvc},
		OrderHandler:   &OrderHandler{Cart: cartSvc, Order: orderSvc},
		AuctionHandler: &AuctionHandler{Auctions: auctionSvc},
	}
}
