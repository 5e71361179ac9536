package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/plantrungnampl/project-store-sub002/internal/auth"
	"github.com/plantrungnampl/project-store-sub002/internal/config"
	"github.com/plantrungnampl/project-store-sub002/internal/database"
	"github.com/plantrungnampl/project-store-sub002/internal/handler"
	"github.com/plantrungnampl/project-store-sub002/internal/middleware"
	"github.com/plantrungnampl/project-store-sub002/internal/queue"
	"github.com/plantrungnampl/project-store-sub002/internal/repository"
	"github.com/plantrungnampl/project-store-sub002/internal/router"
	queue_publisher "github.com/plantrungnampl/project-store-sub002/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the response cache and rate limiter. A nil client
	// disables both rather than failing startup.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	// Repositories.
	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	orders := repository.NewOrderRepo(db)
	products := repository.NewProductRepo(db)
	categories := repository.NewCategoryRepo(db)
	carts := repository.NewCartRepo(db)
	wishlists := repository.NewWishlistRepo(db)
	coupons := repository.NewCouponRepo(db)
	banners := repository.NewBannerRepo(db)

	validator := &auth.Validator{
		Store:       sessions,
		TTL:         cfg.SessionTTL(),
		RenewWithin: cfg.SessionRenewWindow(),
		Secure:      cfg.IsProd(),
	}

	e := echo.New()
	e.HideBanner = true
	// Session resolution runs first so the rate limiter can key
	// buckets by user instead of lumping everyone behind one IP.
	e.Use(middleware.LoadSession(validator))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	// Handlers.
	health := handler.NewHealthHandler(db)
	catalog := handler.NewCatalogHandler(products, categories, banners)
	account := handler.NewAccountHandler(cfg, users, sessions, orders)
	cart := handler.NewCartHandler(carts, products, cfg.IsProd())
	checkout := handler.NewCheckoutHandler(orders, products, carts, coupons)
	confirmation := handler.NewOrderConfirmationHandler(orders, queue_publisher.AMQPPublisher{}, cfg.IsProd())
	wishlist := handler.NewWishlistHandler(wishlists, products)

	router.RegisterRoutes(e, health)
	router.RegisterCatalog(e, catalog, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterStorefront(e, account, cart, checkout, confirmation, wishlist)
	router.RegisterAdmin(e, router.AdminHandlers{
		Auth:       handler.NewAdminAuthHandler(cfg, users),
		Products:   handler.NewAdminProductHandler(products),
		Categories: handler.NewAdminCategoryHandler(categories),
		Coupons:    handler.NewAdminCouponHandler(coupons),
		Banners:    handler.NewAdminBannerHandler(banners),
		Customers:  handler.NewAdminCustomerHandler(users),
		Orders:     handler.NewAdminOrderHandler(orders),
	}, cfg.JWTSecret)

	// Periodic sweep of expired session rows. The validator already
	// treats expired rows as logged out, so this is purely hygiene.
	go func() {
		for range time.Tick(time.Hour) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if n, err := sessions.DeleteExpired(ctx); err != nil {
				log.Printf("session sweep: %v", err)
			} else if n > 0 {
				log.Printf("session sweep: removed %d expired sessions", n)
			}
			cancel()
		}
	}()

	// The confirmation consumer runs for the life of the process and
	// reconnects on its own; its error return only fires on setup bugs.
	go func() {
		if err := queue.StartConfirmationConsumer(); err != nil {
			log.Printf("notify-consumer: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
