package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Open-Coding-Society/optivize-backend/config"
	"github.com/Open-Coding-Society/optivize-backend/handlers"
	"github.com/Open-Coding-Society/optivize-backend/middleware"
	"github.com/Open-Coding-Society/optivize-backend/models"
	"github.com/Open-Coding-Society/optivize-backend/prediction"
	"github.com/Open-Coding-Society/optivize-backend/services"
	"github.com/Open-Coding-Society/optivize-backend/store"
)

func main() {
	// Optional .env for local development
	if err := godotenv.Load(); err == nil {
		log.Printf("loaded environment from .env")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// CRUD resources go through gorm
	db, err := gorm.Open(postgres.Open(cfg.Database.GetDSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get sql db handle: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Employee{},
		&models.Shipment{},
		&models.Task{},
		&models.Flashcard{},
	); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	// The prediction engine writes and aggregates through pgx
	pool, err := pgxpool.New(ctx, cfg.Database.GetPoolDSN())
	if err != nil {
		log.Fatalf("Failed to init pgx pool: %v", err)
	}
	defer pool.Close()

	recordStore := store.NewRecordStore(pool)
	if err := recordStore.Init(ctx); err != nil {
		log.Fatalf("Failed to init prediction record store: %v", err)
	}

	cache, err := services.NewCacheService(cfg.Redis)
	if err != nil {
		log.Printf("Redis unavailable, running without cache: %v", err)
	}
	defer cache.Close()

	authService := services.NewAuthService(cfg.JWT)

	scorer := prediction.NewScorer(cfg.Model.ArtifactPath, cfg.Model.JitterSeed)
	if err := scorer.LoadArtifact(); err != nil {
		log.Printf("Failed to load model artifact, starting untrained: %v", err)
	}
	if scorer.Ready() {
		log.Printf("score model loaded: version=%s", scorer.ModelVersion())
	} else {
		log.Printf("no score model artifact at %s, /api/predict returns 503 until trained", cfg.Model.ArtifactPath)
	}

	aggregator := prediction.NewAggregator(recordStore)

	router := gin.Default()
	router.Use(middleware.SetupCORS(cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "UP",
			"message": "Optivize API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := handlers.NewAuthHandler(db, authService)
	predictionHandler := handlers.NewPredictionHandler(scorer, aggregator, recordStore, cache)
	eventsHandler := handlers.NewEventsHandler(db, cache)
	employeesHandler := handlers.NewEmployeesHandler(db)
	shipmentsHandler := handlers.NewShipmentsHandler(db)
	tasksHandler := handlers.NewTasksHandler(db)
	flashcardsHandler := handlers.NewFlashcardsHandler(db)

	api := router.Group("/api")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)

		api.POST("/predict", predictionHandler.Predict)
		api.POST("/train", predictionHandler.Train)
		api.GET("/history", predictionHandler.History)

		api.GET("/events", eventsHandler.List)
		api.POST("/events", eventsHandler.Create)
		api.PUT("/events/:id", eventsHandler.Update)
		api.DELETE("/events/:id", eventsHandler.Delete)

		api.GET("/employees", employeesHandler.List)
		api.POST("/employees", employeesHandler.Create)
		api.PUT("/employees/:id", employeesHandler.Update)
		api.DELETE("/employees/:id", employeesHandler.Delete)

		api.GET("/shipments", shipmentsHandler.List)
		api.POST("/shipments", shipmentsHandler.Create)
		api.PUT("/shipments/:id", shipmentsHandler.Update)
		api.DELETE("/shipments/:id", shipmentsHandler.Delete)

		api.GET("/tasks", tasksHandler.List)
		api.POST("/tasks", tasksHandler.Create)
		api.PUT("/tasks/:id", tasksHandler.Update)
		api.DELETE("/tasks/:id", tasksHandler.Delete)

		cards := api.Group("/flashcards", middleware.RequireAuth(authService))
		{
			cards.GET("", flashcardsHandler.List)
			cards.POST("", flashcardsHandler.Create)
			cards.PUT("/:id", flashcardsHandler.Update)
			cards.DELETE("/:id", flashcardsHandler.Delete)
		}
	}

	router.GET("/ws/live", handlers.LiveWebSocket(cache, authService))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
