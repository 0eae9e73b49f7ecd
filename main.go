package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"tennis-live-scoring/config"
	"tennis-live-scoring/handlers"
	"tennis-live-scoring/models"
	"tennis-live-scoring/services"
	"tennis-live-scoring/utils"
	"tennis-live-scoring/workers"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func openDatabase(cfg config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{TranslateError: true}
	if cfg.DatabaseDriver == "sqlite" {
		return gorm.Open(sqlite.Open(cfg.SQLiteDSN()), gormCfg)
	}
	return gorm.Open(postgres.Open(cfg.DatabaseURL), gormCfg)
}

func archiveStore(ctx context.Context, cfg config.Config) (utils.ObjectStore, error) {
	if cfg.R2.Enabled() {
		return utils.NewR2Store(ctx, utils.R2Options{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			AccessKeySecret: cfg.R2.AccessKeySecret,
			Bucket:          cfg.R2.Bucket,
			CDNBaseURL:      cfg.R2.CDNBaseURL,
		})
	}
	log.Printf("⚠️  R2 not configured, archiving sessions to %s", cfg.ArchiveDir)
	store := &utils.LocalStore{Root: cfg.ArchiveDir}
	if err := store.EnsureDir(); err != nil {
		return nil, err
	}
	return store, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	app := fiber.New(fiber.Config{
		AppName: "tennis-live-scoring",
	})
	app.Use(recover.New())
	app.Use(logger.New())

	allowedOrigins := strings.Join(cfg.AllowedOrigins, ",")
	app.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, Cache-Control, Last-Event-ID, " + cfg.ScorerHeader,
		ExposeHeaders: "Content-Length, Content-Type, X-Request-ID",
		MaxAge:        86400,
	}))

	liveService := services.NewLiveScoringService(db)
	liveService.StreamPollInterval = cfg.StreamPollInterval
	matchService := services.NewMatchService(db)

	handlers.SetupMatchRoutes(app, matchService)
	handlers.SetupLiveScoringRoutes(app, liveService, cfg.ScorerHeader)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	if cfg.MatchSyncURL != "" {
		syncWorker := workers.NewMatchSyncWorker(db, cfg.MatchSyncURL, cfg.MatchSyncToken, cfg.MatchSyncInterval)
		syncWorker.Start(ctx)
	} else {
		log.Println("⚠️  MATCH_SYNC_URL not set, match registry sync disabled")
	}

	store, err := archiveStore(ctx, cfg)
	if err != nil {
		log.Fatal("failed to initialize archive store:", err)
	}
	archiveService := services.NewArchiveService(db, liveService, store)
	scheduler, err := archiveService.StartArchiveScheduler(ctx, cfg.ArchiveInterval)
	if err != nil {
		log.Fatal("failed to start archive scheduler:", err)
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", cfg.Port)
	log.Printf("✅ CORS configured for origins: %s", allowedOrigins)
	log.Printf("✅ Archive job running (every %s)", cfg.ArchiveInterval)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := scheduler.Shutdown(); err != nil {
		log.Printf("Scheduler shutdown error: %v", err)
	}
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
