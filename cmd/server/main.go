package main

import (
	"context"
	"log"
	"runtime"
	"time"

	"github.com/fadilmartias/jobapply/internal/config"
	"github.com/fadilmartias/jobapply/internal/domain/fiber/handler"
	"github.com/fadilmartias/jobapply/internal/form"
	"github.com/fadilmartias/jobapply/internal/middleware"
	"github.com/fadilmartias/jobapply/internal/model"
	"github.com/fadilmartias/jobapply/internal/repository"
	"github.com/fadilmartias/jobapply/internal/service"
	"github.com/fadilmartias/jobapply/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()
	uploadConfig := config.LoadUploadConfig()

	app := fiber.New(fiber.Config{
		AppName:      appConfig.Name,
		BodyLimit:    uploadConfig.MaxBytes,
		ErrorHandler: handler.ErrorHandler,
	})
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !appConfig.IsProduction(),
	}))

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // 1
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.IsProduction()
		},
	}))

	drafts := ConnectDraftStore()

	app.Use(healthcheck.New(healthcheck.Config{
		ReadinessProbe: func(c *fiber.Ctx) bool {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			return drafts.Ping(ctx) == nil
		},
	}))

	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(middleware.RateLimiter(120, 1*time.Minute))

	flow := form.NewFlow(form.NewSchema(time.Now))
	documents := service.NewDocumentService()
	submitter := service.NewSubmissionService(config.LoadSubmissionConfig())
	uc := usecase.NewApplicationUsecase(drafts, flow, documents, submitter)

	handler.NewPageHandler(appConfig.BaseURL).RegisterRoutes(app)
	handler.NewApplicationHandler(uc).RegisterRoutes(app)

	// Monitor goroutine count
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			log.Printf("Active goroutines: %d", runtime.NumGoroutine())
		}
	}()

	log.Println("Server running on ", appConfig.Port)
	if err := app.Listen(appConfig.Port); err != nil {
		log.Fatal(err)
	}
}

// ConnectDraftStore builds the draft backend named by DRAFT_STORE.
func ConnectDraftStore() repository.DraftRepositoryInterface {
	storeConfig := config.LoadDraftStoreConfig()

	switch storeConfig.Driver {
	case config.DraftStorePostgres:
		repo := repository.NewPostgresDraftRepository(ConnectDB(), storeConfig.TTL)
		go purgeExpiredDrafts(repo, 10*time.Minute)
		log.Println("Draft store: postgres")
		return repo
	case config.DraftStoreRedis:
		log.Println("Draft store: redis")
		return repository.NewRedisDraftRepository(ConnectRedis(), storeConfig.TTL)
	case config.DraftStoreMemory:
	default:
		log.Printf("Warning: unknown DRAFT_STORE %q, using memory", storeConfig.Driver)
	}
	log.Println("Draft store: memory")
	repo := repository.NewMemoryDraftRepository(storeConfig.TTL)
	go purgeExpiredDrafts(repo, time.Minute)
	return repo
}

func ConnectDB() *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	db, err := gorm.Open(postgres.Open(dbConfig.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		log.Fatalf("Could not get database instance: %v", err)
	}
	if !appConfig.IsProduction() {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	err = db.AutoMigrate(&model.DraftRecord{})
	if err != nil {
		log.Fatal("migration failed: ", err)
	}
	return db
}

func ConnectRedis() *redis.Client {
	redisConfig := config.LoadRedisConfig()
	client := redis.NewClient(&redis.Options{
		Addr:     redisConfig.Addr,
		Password: redisConfig.Password,
		DB:       redisConfig.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Error connect to Redis: %s", err)
	}
	return client
}

func purgeExpiredDrafts(repo repository.ExpiredDraftPurger, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for range ticker.C {
		n, err := repo.PurgeExpired(context.Background())
		if err != nil {
			log.Printf("Purging expired drafts failed: %v", err)
			continue
		}
		if n > 0 {
			log.Printf("Purged %d expired drafts", n)
		}
	}
}
