package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/evans-studio/detailor-booking/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/evans-studio/detailor-booking/internal/api/handlers/create_booking"
	getAvailabilityHandler "github.com/evans-studio/detailor-booking/internal/api/handlers/get_availability"
	getBookingHandler "github.com/evans-studio/detailor-booking/internal/api/handlers/get_booking"
	getCustomerBookingsHandler "github.com/evans-studio/detailor-booking/internal/api/handlers/get_customer_bookings"
	getQuoteHandler "github.com/evans-studio/detailor-booking/internal/api/handlers/get_quote"
	getScheduleHandler "github.com/evans-studio/detailor-booking/internal/api/handlers/get_schedule"
	getTenantBookingsHandler "github.com/evans-studio/detailor-booking/internal/api/handlers/get_tenant_bookings"
	manageBlackoutsHandler "github.com/evans-studio/detailor-booking/internal/api/handlers/manage_blackouts"
	pricingConfigHandler "github.com/evans-studio/detailor-booking/internal/api/handlers/pricing_config"
	rescheduleBookingHandler "github.com/evans-studio/detailor-booking/internal/api/handlers/reschedule_booking"
	updateBookingStatusHandler "github.com/evans-studio/detailor-booking/internal/api/handlers/update_booking_status"
	updateScheduleHandler "github.com/evans-studio/detailor-booking/internal/api/handlers/update_schedule"
	"github.com/evans-studio/detailor-booking/internal/api/middleware"
	"github.com/evans-studio/detailor-booking/internal/config"
	bookingRepo "github.com/evans-studio/detailor-booking/internal/infra/storage/booking"
	pricingRepo "github.com/evans-studio/detailor-booking/internal/infra/storage/pricing"
	scheduleRepo "github.com/evans-studio/detailor-booking/internal/infra/storage/schedule"
	tenantServiceClient "github.com/evans-studio/detailor-booking/internal/integrations/tenantservice"
	bookingsService "github.com/evans-studio/detailor-booking/internal/service/bookings"
	scheduleService "github.com/evans-studio/detailor-booking/internal/service/schedule"
	createBookingUC "github.com/evans-studio/detailor-booking/internal/usecase/create_booking"
	getAvailabilityUC "github.com/evans-studio/detailor-booking/internal/usecase/get_availability"
	getQuoteUC "github.com/evans-studio/detailor-booking/internal/usecase/get_quote"
	"github.com/evans-studio/detailor-booking/pkg/dbmetrics"
	"github.com/evans-studio/detailor-booking/pkg/logger"
	"github.com/evans-studio/detailor-booking/pkg/metrics"
	"github.com/evans-studio/detailor-booking/pkg/simpletxmanager"
	"github.com/evans-studio/detailor-booking/pkg/txmanager"
)

// TxManager общий интерфейс обоих менеджеров транзакций
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting detailor-booking...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
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

	// Инициализируем клиента TenantService
	tenantClient := tenantServiceClient.NewClient(
		cfg.TenantService.URL,
		time.Duration(cfg.TenantService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration client initialized (TenantService=%s timeout=%ds)",
		cfg.TenantService.URL, cfg.TenantService.Timeout)

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		scheduleRepository *scheduleRepo.Repository
		pricingRepository  *pricingRepo.Repository
		txMgr              TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		pricingRepository = pricingRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		pricingRepository = pricingRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		scheduleRepository,
		tenantClient,
		txMgr,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		pricingRepository,
		tenantClient,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		pricingRepository,
		tenantClient,
		txMgr,
		log,
	)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		tenantClient,
		log,
	)
	getQuoteUseCase := getQuoteUC.NewUseCase(
		pricingRepository,
		tenantClient,
		log,
	)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, cfg.Booking.DefaultWindowDays, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getQuote := getQuoteHandler.NewHandler(getQuoteUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(bookingSvc, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(bookingSvc, log)
	getTenantBookings := getTenantBookingsHandler.NewHandler(bookingSvc, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(scheduleSvc, log)
	manageBlackouts := manageBlackoutsHandler.NewHandler(scheduleSvc, log)
	pricingConfig := pricingConfigHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Rate limit на весь API (если включен)
	api := r.PathPrefix("/api/v1").Subrouter()
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		api.Use(limiter.Middleware)
		log.Info("Rate limiting enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты в окне дат
	api.HandleFunc("/tenants/{tenantId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Расчёт стоимости без бронирования
	api.HandleFunc("/tenants/{tenantId}/quote", getQuote.Handle).Methods(http.MethodPost)

	// Недельное расписание арендатора
	api.HandleFunc("/tenants/{tenantId}/schedule", getSchedule.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPost)

	// История бронирований клиента
	protected.HandleFunc("/customers/me/bookings", getCustomerBookings.Handle).Methods(http.MethodGet)

	// --- Управление арендатором (для администраторов) ---
	protected.HandleFunc("/tenants/{tenantId}/bookings", getTenantBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/tenants/{tenantId}/schedule/{weekday}", updateSchedule.HandleUpsert).Methods(http.MethodPut)
	protected.HandleFunc("/tenants/{tenantId}/schedule/{weekday}", updateSchedule.HandleDelete).Methods(http.MethodDelete)
	protected.HandleFunc("/tenants/{tenantId}/blackouts", manageBlackouts.HandleCreate).Methods(http.MethodPost)
	protected.HandleFunc("/tenants/{tenantId}/blackouts/{blackoutId}", manageBlackouts.HandleDelete).Methods(http.MethodDelete)
	protected.HandleFunc("/tenants/{tenantId}/pricing-config", pricingConfig.HandleGet).Methods(http.MethodGet)
	protected.HandleFunc("/tenants/{tenantId}/pricing-config", pricingConfig.HandleUpsert).Methods(http.MethodPut)

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

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
