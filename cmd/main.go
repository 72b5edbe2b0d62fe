package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/create_booking"
	exportUsageReportHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/export_usage_report"
	getActiveBookingHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_active_booking"
	getBookingHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_booking"
	getCompanyCostHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_company_cost"
	getTodayBookingsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_today_bookings"
	getUsageReportHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_usage_report"
	getUserBookingsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_user_bookings"
	markArrivalHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/mark_arrival"
	markExitHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/mark_exit"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/config"
	"github.com/m04kA/SMC-ParkingService/internal/infra/export"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
	companyRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/company"
	"github.com/m04kA/SMC-ParkingService/internal/integrations/identity"
	userServiceClient "github.com/m04kA/SMC-ParkingService/internal/integrations/userservice"
	bookingsService "github.com/m04kA/SMC-ParkingService/internal/service/bookings"
	createBookingUC "github.com/m04kA/SMC-ParkingService/internal/usecase/create_booking"
	getUsageReportUC "github.com/m04kA/SMC-ParkingService/internal/usecase/get_usage_report"
	"github.com/m04kA/SMC-ParkingService/pkg/clock"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
	"github.com/m04kA/SMC-ParkingService/pkg/metrics"
	"github.com/m04kA/SMC-ParkingService/pkg/migrator"
	"github.com/m04kA/SMC-ParkingService/pkg/txmanager"
)

// transitionRecorder общий интерфейс счётчика переходов для сервиса и use case
type transitionRecorder interface {
	IncBookingTransition(operation, result string)
}

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ParkingService...")
	log.Info("Configuration loaded from %s", *configPath)

	loc, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Failed to load booking timezone %q: %v", cfg.Booking.Timezone, err)
	}
	pricing, err := cfg.PricingRules()
	if err != nil {
		log.Fatal("Invalid pricing config: %v", err)
	}

	// Инициализируем метрики (если включены)
	var (
		metricsCollector *metrics.Metrics
		recorder         transitionRecorder
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		recorder = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Применяем миграции
	if cfg.Database.MigrationsPath != "" {
		version, err := migrator.Up(cfg.Database.MigrationsPath, cfg.Database.URL())
		if err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Database schema is at version %d", version)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// При выключенных метриках обёртка работает как обычный *sql.DB
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Интеграции
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	verifier := identity.NewVerifier(cfg.Identity.JWTSecret, cfg.Identity.Issuer)
	log.Info("Integration clients initialized (UserService=%s timeout=%ds)",
		cfg.UserService.URL, cfg.UserService.Timeout)

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	companyRepository := companyRepo.NewRepository(wrappedDB)

	clk := clock.New(loc)

	// Сервисы и use cases
	bookingSvc := bookingsService.NewService(bookingRepository, recorder, clk, log)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		companyRepository,
		userClient,
		txMgr,
		recorder,
		clk,
		cfg.Window(),
		pricing.GuestSlotPrefix,
		log,
	)

	usageReportUseCase := getUsageReportUC.NewUseCase(
		bookingRepository,
		companyRepository,
		pricing,
		cfg.Report.ExcludedCompanyIDs,
		clk,
		log,
	)

	// Handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getActiveBooking := getActiveBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	markArrival := markArrivalHandler.NewHandler(bookingSvc, log)
	markExit := markExitHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getTodayBookings := getTodayBookingsHandler.NewHandler(bookingSvc, log)
	getUsageReport := getUsageReportHandler.NewHandler(usageReportUseCase, log)
	exportUsageReport := exportUsageReportHandler.NewHandler(usageReportUseCase, export.NewUsageWriter(), log)
	getCompanyCost := getCompanyCostHandler.NewHandler(usageReportUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth(verifier, log))
	if cfg.Server.RateLimit > 0 {
		api.Use(middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst).Middleware)
		log.Info("Rate limit: %.2f rps, burst %d", cfg.Server.RateLimit, cfg.Server.RateBurst)
	}

	// --- Бронирования ---
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	// /bookings/active регистрируется раньше /bookings/{bookingId}
	api.HandleFunc("/bookings/active", getActiveBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId:[0-9]+}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId:[0-9]+}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/users/{userId:[0-9]+}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Администратор ---
	api.HandleFunc("/bookings/{bookingId:[0-9]+}/arrived", markArrival.Handle).Methods(http.MethodPut)
	api.HandleFunc("/bookings/{bookingId:[0-9]+}/exit", markExit.Handle).Methods(http.MethodPut)
	api.HandleFunc("/admin/bookings/today", getTodayBookings.Handle).Methods(http.MethodGet)

	// --- Отчёты ---
	api.HandleFunc("/reports/usage", getUsageReport.Handle).Methods(http.MethodGet)
	api.HandleFunc("/reports/usage/export", exportUsageReport.Handle).Methods(http.MethodGet)
	api.HandleFunc("/companies/{companyId:[0-9]+}/cost", getCompanyCost.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
