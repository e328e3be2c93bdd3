package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/repayflow/plan-engine/internal/config"
	"github.com/repayflow/plan-engine/internal/handler"
	"github.com/repayflow/plan-engine/internal/repository"
	"github.com/repayflow/plan-engine/internal/scoring"
	"github.com/repayflow/plan-engine/internal/service"
	"github.com/repayflow/plan-engine/pkg/response"
)

func main() {
	// Best-effort .env load for local runs; viper handles the rest
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Repositories, with the fee configuration behind a read-through cache
	feeConfigRepo := repository.NewCachedFeeConfigRepository(
		repository.NewFeeConfigRepository(db),
		redisClient,
		cfg.GetFeeConfigCacheTTL(),
	)
	planRepo := repository.NewPlanRepository(db)

	// Scoring collaborator is optional; without a URL the adapter always
	// falls back to the rules-based optimizer
	var optimizer scoring.Optimizer
	if cfg.ScoringEnabled() {
		optimizer = scoring.NewClient(cfg.Scoring.URL, cfg.Scoring.APIKey, cfg.GetScoringTimeout())
	} else {
		log.Println("No scoring collaborator configured; using rules-based optimizer only")
	}
	scoringAdapter := scoring.NewAdapter(optimizer)

	planService := service.NewPlanService(feeConfigRepo, planRepo, scoringAdapter)
	planHandler := handler.NewPlanHandler(planService)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout())

	router := setupRoutes(planHandler, healthHandler)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.GetServerReadTimeout(),
		WriteTimeout: cfg.GetServerWriteTimeout(),
	}

	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.GetConnMaxLifetime())

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(planHandler *handler.PlanHandler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware, response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/debts/{debtId}/plan-options", planHandler.GenerateOptions).Methods("POST")
	api.HandleFunc("/debts/{debtId}/plans", planHandler.CreateFromOption).Methods("POST")
	api.HandleFunc("/debts/{debtId}/plans/custom", planHandler.CreateCustomPlan).Methods("POST")
	api.HandleFunc("/debts/{debtId}/plans/custom/validate", planHandler.ValidateCustomSchedule).Methods("POST")

	return router
}
