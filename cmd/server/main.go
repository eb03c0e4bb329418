package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/contentflow/configs"
	"github.com/maheshrc27/contentflow/internal/analytics"
	"github.com/maheshrc27/contentflow/internal/api/handlers"
	"github.com/maheshrc27/contentflow/internal/api/middleware"
	job "github.com/maheshrc27/contentflow/internal/jobs"
	"github.com/maheshrc27/contentflow/internal/metrics"
	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/queue"
	"github.com/maheshrc27/contentflow/internal/repository"
	"github.com/maheshrc27/contentflow/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()
	ctx := context.Background()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	m := metrics.New()

	// Without Redis the overdue sweep is the only path to ready, and usage
	// counters live in process memory.
	var (
		due    service.DueScheduler
		usage  service.UsageTracker
		client *asynq.Client
	)
	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	if cfg.RedisURI != "" {
		client = asynq.NewClient(redisConn)
		defer client.Close()
		due = queue.NewEnqueuer(client)

		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
		defer rdb.Close()
		usage = service.NewRedisUsageTracker(rdb)
	} else {
		log.Println("Warning: REDIS_URI not set, content:due tasks disabled")
		usage = service.NewMemoryUsageTracker()
	}

	var media service.MediaStore
	if cfg.R2.BucketName != "" {
		r2Service, err := service.NewR2Service(ctx, *cfg)
		if err != nil {
			log.Fatalf("Failed to configure R2: %v", err)
		}
		media = r2Service
	}

	contentRepo := repository.NewContentRepository(db)
	platformRepo := repository.NewPlatformRepository(db)

	contentService := service.NewContentService(contentRepo, due, service.DefaultTransitions)
	platformService := service.NewPlatformService(platformRepo)
	aiService := service.NewAIService(cfg.AIProviders, models.ModelCatalog, usage, media, &http.Client{Timeout: 5 * time.Minute}, m)

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    10 * 1024 * 1024, // 10 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(m.Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := db.PingContext(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "database unreachable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	content := handlers.NewContentHandler(contentService)
	api.Get("/content", content.ListContent)
	api.Post("/content", content.CreateContent)
	api.Get("/content/:id", content.GetContent)
	api.Put("/content/:id", content.UpdateContent)
	api.Delete("/content/:id", content.RemoveContent)

	platform := handlers.NewPlatformHandler(platformService)
	api.Get("/platforms", platform.ListConnections)
	api.Delete("/platforms/:id", platform.DisconnectPlatform)

	ai := handlers.NewAIHandler(aiService)
	api.Get("/ai/providers", ai.ListProviders)
	api.Post("/ai/generate/text", ai.GenerateText)
	api.Post("/ai/generate/image", ai.GenerateImage)
	api.Post("/ai/generate/speech", ai.GenerateSpeech)
	api.Post("/ai/generate/video", ai.GenerateVideo)

	stats := handlers.NewAnalyticsHandler(analytics.NewMockSource(cfg.AnalyticsSeed))
	api.Get("/analytics/series", stats.Series)

	// cron jobs
	overdueJob := job.NewOverdueContentJob(contentService, m)

	c := cron.New()
	if err := c.AddFunc(cfg.SweepSchedule, overdueJob.SweepOverdue); err != nil {
		log.Fatalf("Invalid SWEEP_SCHEDULE %q: %v", cfg.SweepSchedule, err)
	}
	c.Start()
	defer c.Stop()

	//queue
	var server *asynq.Server
	if client != nil {
		queueW := queue.NewQueue(contentService, m)
		server = asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		go func() {
			mux := asynq.NewServeMux()
			mux.HandleFunc(queue.TaskTypeContentDue, queueW.HandleContentDueTask)

			log.Println("Starting the Asynq server...")
			if err := server.Run(mux); err != nil {
				log.Fatalf("Could not start Asynq server: %v", err)
			}
		}()
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on http://localhost:%s", cfg.Port)

	gracefulShutdown(app, server)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, server *asynq.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}
	if server != nil {
		server.Shutdown()
	}

	log.Println("Server shutdown complete.")
}
