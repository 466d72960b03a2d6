package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/gestion-ventas/internal/application/catalog"
	"github.com/jhoicas/gestion-ventas/internal/application/draft"
	"github.com/jhoicas/gestion-ventas/internal/domain/repository"
	"github.com/jhoicas/gestion-ventas/internal/infrastructure/backend"
	"github.com/jhoicas/gestion-ventas/internal/infrastructure/metrics"
	"github.com/jhoicas/gestion-ventas/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/gestion-ventas/internal/interfaces/http"
	"github.com/jhoicas/gestion-ventas/pkg/config"
	"github.com/jhoicas/gestion-ventas/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.Backend.URL).
		Str("catalog_source", cfg.Catalog.Source).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// El servicio de pedidos siempre es el backend; el catálogo puede leerse de su API
	// o directamente de la réplica PostgreSQL.
	orders := backend.New(cfg.Backend.URL, cfg.Backend.Token, cfg.Backend.Timeout, log)

	var (
		productRepo repository.ProductRepository = orders
		clientRepo  repository.ClientRepository  = orders
	)
	if cfg.Catalog.Source == config.CatalogSourcePostgres {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		// Productos y clientes se leen en una misma transacción de solo lectura.
		reader := postgres.NewTxRunner(pool)
		productRepo, clientRepo = reader, reader
	}

	refresher := catalog.NewRefresher(productRepo, clientRepo, cfg.Catalog.RefreshInterval, log)
	refresher.Subscribe(func(s *catalog.Snapshot) {
		log.Info().Int("products", len(s.Products())).Int("clients", len(s.Clients())).Msg("catálogo actualizado")
	})

	store := draft.NewStore(cfg.Drafts.TTL)
	onSweep := func(removed int) {
		log.Info().Int("removed", removed).Msg("borradores vencidos descartados")
	}

	var submitter draft.OrderSubmitter = orders
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		m.TrackDrafts(store.Len)
		refresher.Subscribe(m.CatalogRefreshed)
		submitter = m.Submitter(orders)
		onSweep = func(removed int) {
			m.DraftsExpired(removed)
			log.Info().Int("removed", removed).Msg("borradores vencidos descartados")
		}
	}
	draftsUC := draft.NewUseCase(store, refresher, submitter, cfg.Drafts.DefaultTaxRate, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Backend.Timeout + 5*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Gestión de Ventas API",
		}))
	}

	if m != nil {
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		snap := refresher.Current()
		body := fiber.Map{"status": "ok", "service": cfg.App.Name, "catalog_loaded": snap.Loaded(), "drafts": store.Len()}
		if snap.Loaded() {
			body["catalog_fetched_at"] = snap.FetchedAt()
		}
		return c.JSON(body)
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Drafts:    draftsUC,
		Catalog:   refresher,
		JWTSecret: cfg.JWT.Secret,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return refresher.Run(gctx)
	})

	g.Go(func() error {
		interval := cfg.Drafts.TTL / 4
		if interval < time.Minute {
			interval = time.Minute
		}
		return store.RunSweeper(gctx, interval, onSweep)
	})

	g.Go(func() error {
		return app.Listen(cfg.HTTP.Addr())
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("aplicación finalizada con error")
	}

	log.Info().Int("drafts_discarded", store.Len()).Msg("aplicación detenida")
}
