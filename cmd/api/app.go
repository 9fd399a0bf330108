package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/georgemunganga/bakery-backend/internal/config"
	"github.com/georgemunganga/bakery-backend/internal/logging"
	"github.com/georgemunganga/bakery-backend/internal/modules/auth"
	"github.com/georgemunganga/bakery-backend/internal/modules/cart"
	"github.com/georgemunganga/bakery-backend/internal/modules/catalog"
	"github.com/georgemunganga/bakery-backend/internal/modules/checkout"
	"github.com/georgemunganga/bakery-backend/internal/modules/contact"
	"github.com/georgemunganga/bakery-backend/internal/modules/customizer"
	"github.com/georgemunganga/bakery-backend/internal/modules/newsletter"
	"github.com/georgemunganga/bakery-backend/internal/modules/order"
	"github.com/georgemunganga/bakery-backend/internal/modules/quiz"
	"github.com/georgemunganga/bakery-backend/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// sweeper is a per-session registry that forgets idle sessions.
type sweeper interface {
	RunSweeper(ctx context.Context, interval, idle time.Duration)
}

// app is the wired service: router, the per-session registries to sweep, and
// the databases to close on shutdown.
type app struct {
	router   http.Handler
	sweepers []sweeper
	dbs      []*sql.DB
}

func (a *app) Close() {
	for _, db := range a.dbs {
		db.Close()
	}
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{}
	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	sf, err := config.LoadStorefront(cfg.StorefrontFile)
	if err != nil {
		return nil, err
	}

	// ── Storage ─────────────────────────────────────────────
	var pg *sql.DB
	if cfg.DatabaseURL != "" {
		pg, err = storage.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.dbs = append(a.dbs, pg)
		if err := storage.MigratePostgres(ctx, pg); err != nil {
			return nil, err
		}
		logger.Info("connected to postgres")
	}

	var persister cart.Persister
	switch cfg.CartStore {
	case config.CartStoreSQLite:
		db, err := storage.OpenSQLite(ctx, cfg.CartStorePath)
		if err != nil {
			return nil, err
		}
		a.dbs = append(a.dbs, db)
		persister = cart.NewSQLitePersister(db)
	case config.CartStorePostgres:
		persister = cart.NewPostgresPersister(pg)
	default:
		persister = cart.NewMemoryPersister()
	}
	logger.Info("cart store ready", zap.String("store", cfg.CartStore))

	var (
		catalogRepo    catalog.Repository
		orderRepo      order.Repository
		newsletterRepo newsletter.Repository
		contactRepo    contact.Repository
	)
	if pg != nil {
		catalogRepo = catalog.NewPostgresRepository(pg)
		orderRepo = order.NewPostgresRepository(pg)
		newsletterRepo = newsletter.NewPostgresRepository(pg)
		contactRepo = contact.NewPostgresRepository(pg)
	} else {
		catalogRepo = catalog.NewMemoryRepository()
		orderRepo = order.NewMemoryRepository()
		newsletterRepo = newsletter.NewMemoryRepository()
		contactRepo = contact.NewMemoryRepository()
	}

	// ── Services ────────────────────────────────────────────
	authService := auth.NewService(auth.Options{
		Secret:            []byte(cfg.SessionSecret),
		SessionTTL:        cfg.SessionTTL,
		AdminUsername:     cfg.AdminUsername,
		AdminPasswordHash: cfg.AdminPasswordHash,
	})

	catalogService := catalog.NewService(catalogRepo, logger.Named("catalog"))
	seeds := make([]catalog.CreateProductRequest, 0, len(sf.Products))
	for _, p := range sf.Products {
		seeds = append(seeds, catalog.CreateProductRequest{
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
			Price:       p.Price,
			ImageURL:    p.ImageURL,
		})
	}
	n, err := catalogService.Seed(ctx, seeds)
	if err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	logger.Info("catalog seeded", zap.Int("created", n))

	carts := cart.NewService(cart.Options{
		Persister:      persister,
		Products:       catalogService,
		Logger:         logger.Named("cart"),
		CurrencySymbol: cfg.CurrencySymbol,
		BasePath:       cart.BasePath,
	})

	customizerService := customizer.NewService(customizerOptions(sf.Customizer), carts, logger.Named("customizer"))

	orderService := order.NewService(orderRepo, "", logger.Named("order"))
	checkoutService := checkout.NewService(checkout.Options{
		Carts:  carts,
		Orders: orderService,
		Policy: checkout.Policy{Fee: cfg.DeliveryFee, Threshold: cfg.FreeDeliveryThreshold},
		Logger: logger.Named("checkout"),
	})

	newsletterService := newsletter.NewService(newsletterRepo, cfg.NewsletterPromptDelay, logger.Named("newsletter"))
	contactService := contact.NewService(contactRepo, logger.Named("contact"))

	flavorQuiz, err := quiz.New(quizQuestions(sf.Quiz), quizResults(sf.Quiz))
	if err != nil {
		return nil, err
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(logging.RequestLogger(logger.Named("http")))
	router.Use(middleware.Recoverer)

	requireSession := auth.RequireSession(authService)
	requireAdmin := auth.RequireAdmin(authService)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	auth.NewHandler(authService, cfg.IsProduction()).RegisterRoutes(router)
	catalog.NewHandler(catalogService, requireAdmin).RegisterRoutes(router)
	order.NewHandler(orderService, requireAdmin).RegisterRoutes(router)
	newsletter.NewHandler(newsletterService, requireSession, requireAdmin).RegisterRoutes(router)
	contact.NewHandler(contactService, requireAdmin).RegisterRoutes(router)
	quiz.NewHandler(flavorQuiz).RegisterRoutes(router)

	router.Group(func(r chi.Router) {
		r.Use(requireSession)
		cart.NewHandler(carts).RegisterRoutes(r)
		customizer.NewHandler(customizerService).RegisterRoutes(r)
		checkout.NewHandler(checkoutService).RegisterRoutes(r)
	})

	a.sweepers = []sweeper{carts, customizerService, checkoutService}
	a.router = router
	ok = true
	return a, nil
}

func customizerOptions(c config.CustomizerConfig) customizer.Options {
	opts := customizer.Options{Flavors: c.Flavors, Frostings: c.Frostings}
	for _, s := range c.Sizes {
		opts.Sizes = append(opts.Sizes, customizer.Size{Label: s.Label, Price: s.Price})
	}
	return opts
}

func quizQuestions(q config.QuizConfig) []quiz.Question {
	out := make([]quiz.Question, 0, len(q.Questions))
	for _, qq := range q.Questions {
		out = append(out, quiz.Question{Question: qq.Question, Options: qq.Options})
	}
	return out
}

func quizResults(q config.QuizConfig) map[string]quiz.Result {
	out := make(map[string]quiz.Result, len(q.Results))
	for k, r := range q.Results {
		out[k] = quiz.Result{Name: r.Name, ImageURL: r.ImageURL, Description: r.Description}
	}
	return out
}
