package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/akyildz/divvy/internal/config"
	"github.com/akyildz/divvy/internal/database"
	"github.com/akyildz/divvy/internal/expense"
	expensesplit "github.com/akyildz/divvy/internal/expense/split"
	"github.com/akyildz/divvy/internal/group"
	"github.com/akyildz/divvy/internal/ledger"
	"github.com/akyildz/divvy/internal/notification"
	"github.com/akyildz/divvy/internal/participant"
	"github.com/akyildz/divvy/internal/settlement"
	mw "github.com/akyildz/divvy/pkg/middleware"
)

// @title Divvy API
// @version 1.0
// @description Bill splitting with exact penny reconciliation.
// @BasePath /api/v1
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	log := newLogger(cfg.LogLevel)
	slog.SetDefault(log)

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	log.Info("connected to database")

	// Split strategy factory
	splitFactory := expensesplit.NewFactory()

	// Notification feature (other features deliver through it)
	notificationRepo := notification.NewRepository(db)
	notificationService := notification.NewService(notificationRepo, log)
	notificationHandler := notification.NewHandler(notificationService)

	// Participant feature
	participantRepo := participant.NewRepository(db)
	participantService := participant.NewService(participantRepo)
	participantHandler := participant.NewHandler(participantService)

	// Group feature
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(groupRepo, notificationService)
	groupHandler := group.NewHandler(groupService)

	// Balance ledger
	ledgerRepo := ledger.NewRepository(db)
	ledgerHandler := ledger.NewHandler(ledgerRepo)

	// Expense feature (split factory and ledger injected)
	expenseRepo := expense.NewRepository(db, ledgerRepo)
	expenseService := expense.NewService(expenseRepo, splitFactory, notificationService, log)
	expenseHandler := expense.NewHandler(expenseService)

	// Settlement feature
	settlementRepo := settlement.NewRepository(db, expenseRepo, ledgerRepo)
	settlementService := settlement.NewService(settlementRepo, expenseRepo, notificationService, log)
	settlementHandler := settlement.NewHandler(settlementService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.RequireUser)

		r.Mount("/participants", participantHandler.Routes())
		r.Mount("/groups", groupHandler.Routes())
		r.Mount("/expenses", expenseHandler.Routes())
		r.Mount("/settlements", settlementHandler.Routes())
		r.Mount("/balances", ledgerHandler.Routes())
		r.Mount("/notifications", notificationHandler.Routes())
	})

	log.Info("server starting", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	logLevel := slog.LevelInfo
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: logLevel}))
}
