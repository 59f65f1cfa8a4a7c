package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"chatshop-be/internal/cart"
	"chatshop-be/internal/catalog"
	"chatshop-be/internal/checkout"
	"chatshop-be/internal/config"
	"chatshop-be/internal/db"
	"chatshop-be/internal/httpapi"
	"chatshop-be/internal/logger"
	"chatshop-be/internal/notify"
	"chatshop-be/internal/order"
	"chatshop-be/internal/shop"
)

// recoveryAge is how old a PENDING order must be before startup
// recovery treats it as a crashed checkout.
const recoveryAge = time.Minute

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	var (
		catalogRepo catalog.Repository
		cartRepo    cart.Repository
		orderRepo   order.Repository
	)

	switch cfg.Storage {
	case config.StorageMemory:
		catalogRepo = catalog.NewMemoryRepository(demoCatalog()...)
		cartRepo = cart.NewMemoryRepository()
		orderRepo = order.NewMemoryRepository()
	default:
		database := db.InitDB(cfg)
		defer database.Close()

		catalogRepo = catalog.NewRepository(database)
		cartRepo = cart.NewRepository(database)
		orderRepo = order.NewRepository(database)
	}

	engine := checkout.NewEngine(catalogRepo, cartRepo, orderRepo)
	if err := engine.Recover(context.Background(), recoveryAge); err != nil {
		log.Fatalf("startup recovery failed: %v", err)
	}

	cartSvc := cart.NewService(cartRepo, catalogRepo)
	notifier := notify.NewNotifier(notify.LogPusher{}, cfg.OwnerUserID, cfg.CurrencyPrefix)
	shopSvc := shop.NewService(catalogRepo, cartSvc, orderRepo, engine, notifier)

	handler := httpapi.NewHandler(shopSvc)

	log.Printf("🚀 chatshop core running on port %s (storage=%s)", cfg.AppPort, cfg.Storage)
	log.Fatal(http.ListenAndServe(":"+cfg.AppPort, handler.Router()))
}

// demoCatalog seeds memory-mode deployments; the Postgres catalog is
// seeded by migrations instead.
func demoCatalog() []catalog.Product {
	return []catalog.Product{
		{ID: "coffee001", Name: "Drip Coffee", Price: 680, Description: "Single-origin drip bag, box of 10", Stock: 2},
		{ID: "tea001", Name: "Oolong Tea", Price: 450, Description: "High mountain oolong, 150g", Stock: 10},
		{ID: "cookie001", Name: "Butter Cookies", Price: 320, Description: "Handmade butter cookies, tin", Stock: 5},
	}
}
