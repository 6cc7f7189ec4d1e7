package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/swaggo/swag"

	"github.com/jhoicas/Almacen-api/docs"
	"github.com/jhoicas/Almacen-api/internal/application/approval"
	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/catalog"
	"github.com/jhoicas/Almacen-api/internal/application/receipts"
	"github.com/jhoicas/Almacen-api/internal/application/reports"
	"github.com/jhoicas/Almacen-api/internal/application/restock"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/Almacen-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/queue"
	httpRouter "github.com/jhoicas/Almacen-api/internal/interfaces/http"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "api",
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	// Redis es opcional: sin REDIS_ADDR no hay caché de reportes ni avisos de stock bajo.
	var (
		redisClient *redis.Client
		alerts      approval.AlertPublisher
	)
	if cfg.Redis.Enabled() {
		redisClient, err = cache.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisClient.Close()

		publisher := queue.NewPublisher(cfg.Redis)
		defer publisher.Close()
		alerts = publisher
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: caché de reportes y avisos de stock deshabilitados")
	}
	reportCache := cache.NewReportCache(redisClient, cfg.Redis.ReportCacheTTL)

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	receiptRepo := postgres.NewReceiptRepository(pool)
	approvalRepo := postgres.NewApprovalRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	restockRepo := postgres.NewRestockRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	decideUC := approval.NewDecideUseCase(txRunner, reportCache, alerts, log.Component("approval"))
	queryUC := approval.NewQueryUseCase(receiptRepo, approvalRepo)
	pdfUC := approval.NewPDFUseCase(queryUC, infrapdf.NewMarotoPDFGenerator(cfg.App.Name))
	createUC := receipts.NewCreateUseCase(txRunner, log.Component("receipts"))

	productUC := catalog.NewProductUseCase(txRunner, productRepo, reportCache)
	stockUC := catalog.NewStockUseCase(txRunner, stockRepo, productRepo, reportCache, log.Component("stock"))
	customerUC := catalog.NewCustomerUseCase(customerRepo)
	supplierUC := catalog.NewSupplierUseCase(supplierRepo)
	reportsUC := reports.NewUseCase(reportRepo, stockRepo, reportCache)
	restockUC := restock.NewUseCase(txRunner, restockRepo, stockRepo, log.Component("restock"))

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	if cfg.HTTP.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.HTTP.RateLimit,
			Expiration: time.Minute,
		}))
	}
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Almacén API",
	}))

	// Especificación registrada en swag (paquete docs), para clientes que generan código.
	app.Get("/swagger.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		c.Type("json")
		return c.SendString(doc)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		ProductUC:  productUC,
		StockUC:    stockUC,
		CustomerUC: customerUC,
		SupplierUC: supplierUC,
		Decider:    decideUC,
		Query:      queryUC,
		PDF:        pdfUC,
		Creator:    createUC,
		Restock:    restockUC,
		ReportsUC:  reportsUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
