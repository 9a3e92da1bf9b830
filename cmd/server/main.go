package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"optivolt/internal/api"
	"optivolt/internal/app"
	"optivolt/internal/auth"
	"optivolt/internal/config"
	"optivolt/internal/db"
	"optivolt/internal/repository"
	"optivolt/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	conn, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := conn.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	migrator, err := app.NewMigrator(conn, "migrations", logger)
	if err != nil {
		log.Fatalf("Failed to init migrator: %v", err)
	}
	if err := migrator.Run(context.Background()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(conn)
	providerRepo := repository.NewProviderRepository(conn)
	bookingRepo := repository.NewBookingRepository(conn)
	reviewRepo := repository.NewReviewRepository(conn)
	jobRepo := repository.NewJobRepository(conn)

	paymentSvc := service.NewPaymentService(logger)
	senderSvc := service.NewSenderService(logger)
	authSvc := service.NewAuthService(userRepo, providerRepo, cfg.JWTSecret, logger)
	bookingSvc := service.NewBookingService(bookingRepo, providerRepo, userRepo, paymentSvc, senderSvc, logger)
	slotSvc := service.NewSlotService(bookingRepo, providerRepo, logger)
	reviewSvc := service.NewReviewService(bookingRepo, reviewRepo, logger)
	catalogSvc := service.NewCatalogService(providerRepo, logger)
	adminSvc := service.NewAdminService(bookingRepo, providerRepo, userRepo, logger)
	jobSvc := service.NewJobService(jobRepo, senderSvc, logger)

	authHandler := api.NewAuthHandler(authSvc)
	catalogHandler := api.NewCatalogHandler(catalogSvc, slotSvc)
	clientHandler := api.NewClientHandler(bookingSvc, reviewSvc)
	providerHandler := api.NewProviderHandler(bookingSvc, catalogSvc)
	adminHandler := api.NewAdminHandler(adminSvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/services", catalogHandler.ListServiceTypes).Methods("GET")
	r.HandleFunc("/api/services/{id}/providers", catalogHandler.ListProvidersForService).Methods("GET")
	r.HandleFunc("/api/providers/{id}/catalog", catalogHandler.GetProviderCatalog).Methods("GET")
	r.HandleFunc("/api/providers/{id}/dates", catalogHandler.GetCandidateDates).Methods("GET")
	r.HandleFunc("/api/providers/{id}/slots", catalogHandler.GetFreeSlots).Methods("GET")

	// Client endpoints (protected)
	client := r.PathPrefix("/api/bookings").Subrouter()
	client.Use(auth.Middleware(cfg.JWTSecret), auth.RequireRole(db.RoleClient))
	client.HandleFunc("", clientHandler.CreateBooking).Methods("POST")
	client.HandleFunc("", clientHandler.ListBookings).Methods("GET")
	client.HandleFunc("/{id}/cancel", clientHandler.CancelBooking).Methods("POST")
	client.HandleFunc("/{id}/review", clientHandler.SubmitReview).Methods("POST")

	// Provider endpoints (protected)
	provider := r.PathPrefix("/api/provider").Subrouter()
	provider.Use(auth.Middleware(cfg.JWTSecret), auth.RequireRole(db.RoleProvider))
	provider.HandleFunc("/bookings", providerHandler.ListBookings).Methods("GET")
	provider.HandleFunc("/bookings/{id}/confirm", providerHandler.ConfirmBooking).Methods("POST")
	provider.HandleFunc("/bookings/{id}/reject", providerHandler.RejectBooking).Methods("POST")
	provider.HandleFunc("/bookings/{id}/report", providerHandler.SubmitReport).Methods("POST")
	provider.HandleFunc("/catalog", providerHandler.AddCatalogItem).Methods("POST")
	provider.HandleFunc("/catalog/{id}", providerHandler.RemoveCatalogItem).Methods("DELETE")
	provider.HandleFunc("/profile", providerHandler.UpdateProfile).Methods("PUT")
	provider.HandleFunc("/schedule", providerHandler.UpdateSchedule).Methods("PUT")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.Middleware(cfg.JWTSecret), auth.RequireRole(db.RoleAdmin))
	admin.HandleFunc("/bookings", adminHandler.ListBookings).Methods("GET")
	admin.HandleFunc("/stats", adminHandler.GetStats).Methods("GET")
	admin.HandleFunc("/providers/{id}/verify", adminHandler.VerifyProvider).Methods("POST")
	admin.HandleFunc("/users/{id}/ban", adminHandler.BanUser).Methods("POST")
	admin.HandleFunc("/users/{id}/unban", adminHandler.UnbanUser).Methods("POST")

	// Daily reminder for tomorrow's confirmed bookings.
	c := cron.New()
	if _, err := c.AddFunc("0 8 * * *", func() {
		if err := jobSvc.SendUpcomingReminders(); err != nil {
			logger.Error("reminder job failed", zap.Error(err))
		}
	}); err != nil {
		log.Fatalf("Failed to schedule reminder job: %v", err)
	}
	c.Start()
	defer c.Stop()

	corsMiddleware := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	logger.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Environment))
	log.Fatal(http.ListenAndServe(":"+cfg.Port, corsMiddleware(handlers.LoggingHandler(os.Stdout, r))))
}
