package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/HMB-research/open-accounting/docs"
	"github.com/HMB-research/open-accounting/internal/advance"
	"github.com/HMB-research/open-accounting/internal/attendance"
	"github.com/HMB-research/open-accounting/internal/audit"
	"github.com/HMB-research/open-accounting/internal/auth"
	"github.com/HMB-research/open-accounting/internal/designation"
	"github.com/HMB-research/open-accounting/internal/email"
	"github.com/HMB-research/open-accounting/internal/employee"
	"github.com/HMB-research/open-accounting/internal/httpapi"
	"github.com/HMB-research/open-accounting/internal/identity"
	"github.com/HMB-research/open-accounting/internal/leave"
	"github.com/HMB-research/open-accounting/internal/loan"
	"github.com/HMB-research/open-accounting/internal/payroll"
	"github.com/HMB-research/open-accounting/internal/pdf"
	"github.com/HMB-research/open-accounting/internal/scheduler"
)

// Config holds the application's environment-derived settings.
type Config struct {
	Port           string
	DatabaseURL    string
	JWTSecret      string
	AccessExpiry   time.Duration
	RefreshExpiry  time.Duration
	AllowedOrigins []string
	DemoMode       bool
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		log.Warn().Str("level", logLevel).Msg("Invalid LOG_LEVEL, defaulting to info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	cfg := loadConfig()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	tokenService := auth.NewTokenService(cfg.JWTSecret, cfg.AccessExpiry, cfg.RefreshExpiry)
	params := payroll.DefaultParameters()

	employeeRepo := employee.NewPostgresRepository(pool)
	employeeService := employee.NewService(employeeRepo, employee.DefaultUUIDGenerator{}, params)

	designationRepo := designation.NewPostgresRepository(pool)
	designationService := designation.NewService(designationRepo, employeeService, designation.DefaultUUIDGenerator{})

	attendanceRepo := attendance.NewPostgresRepository(pool)
	attendanceService := attendance.NewService(attendanceRepo, attendance.DefaultUUIDGenerator{})

	loanRepo := loan.NewPostgresRepository(pool)
	loanService := loan.NewService(loanRepo, loan.DefaultUUIDGenerator{})

	advanceRepo := advance.NewPostgresRepository(pool)
	advanceService := advance.NewService(advanceRepo, advance.DefaultUUIDGenerator{})

	leaveRepo := leave.NewPostgresRepository(pool)
	leaveService := leave.NewService(leaveRepo, leave.DefaultUUIDGenerator{})

	payRunRepo := payroll.NewPostgresRepository(pool)
	payRunGenerator := payroll.NewGenerator(payRunRepo, employeeService, attendanceService, loanService, advanceService, params, employee.DefaultUUIDGenerator{})

	identityRepo := identity.NewPostgresRepository(pool)
	identityService := identity.NewService(identityRepo, tokenService, identity.BcryptHasher{}, identity.DefaultUUIDGenerator{})

	auditRepo := audit.NewPostgresRepository(pool)
	auditRecorder := audit.NewRecorder(auditRepo, audit.DefaultQueueCapacity)
	auditRecorder.Start(ctx)

	emailRepo := email.NewPostgresRepository(pool)
	if err := emailRepo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure email schema")
	}
	emailService := email.NewService(emailRepo, email.ConfigFromEnv())
	payslipService := pdf.NewService()

	var rateLimiters *auth.RateLimiterRegistry
	if !cfg.DemoMode {
		rateLimiters = auth.NewRateLimiterRegistry(auth.DefaultLimitConfigs())
	}

	handlers := &httpapi.Handlers{
		Employees:    employeeService,
		Designations: designationService,
		Attendance:   attendanceService,
		Advances:     advanceService,
		Loans:        loanService,
		Leaves:       leaveService,
		PayRuns:      payRunGenerator,
		Identity:     identityService,
		Audit:        auditRecorder,
		AuditLog:     auditRepo,
		Tokens:       tokenService,
		Email:        emailService,
		Payslips:     payslipService,
	}

	payRunScheduler := scheduler.NewScheduler(payRunGenerator, employeeRepo, attendanceRepo, leaveService, scheduler.DefaultConfig())
	if err := payRunScheduler.Start(); err != nil {
		log.Error().Err(err).Msg("Failed to start pay-run scheduler")
	}

	router := httpapi.NewRouter(handlers, httpapi.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		CORSDebug:      os.Getenv("CORS_DEBUG") == "true",
		RateLimiters:   rateLimiters,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down server...")

		<-payRunScheduler.Stop().Done()

		drainCtx, drainCancel := context.WithTimeout(context.Background(), 10*time.Second)
		auditRecorder.Drain(drainCtx)
		drainCancel()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown error")
		}
	}()

	log.Info().Str("port", cfg.Port).Msg("Starting server")
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func loadConfig() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal().Msg("DATABASE_URL environment variable required")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "change-me-in-production-min-32-bytes!!"
		log.Warn().Msg("Using default JWT_SECRET - change this in production!")
	}
	if len(jwtSecret) < 32 {
		log.Fatal().Msg("JWT_SECRET must be at least 32 bytes")
	}

	origins := os.Getenv("ALLOWED_ORIGINS")
	allowedOrigins := []string{"http://localhost:5173", "http://localhost:3000"}
	if origins != "" {
		allowedOrigins = nil
		for _, origin := range strings.Split(origins, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins = append(allowedOrigins, origin)
			}
		}
	}
	log.Info().Strs("allowed_origins", allowedOrigins).Msg("CORS configuration")

	accessExpiry := 24 * time.Hour
	if v := os.Getenv("ACCESS_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			accessExpiry = d
		}
	}
	refreshExpiry := 7 * 24 * time.Hour
	if v := os.Getenv("REFRESH_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			refreshExpiry = d
		}
	}

	return &Config{
		Port:           port,
		DatabaseURL:    dbURL,
		JWTSecret:      jwtSecret,
		AccessExpiry:   accessExpiry,
		RefreshExpiry:  refreshExpiry,
		AllowedOrigins: allowedOrigins,
		DemoMode:       os.Getenv("DEMO_MODE") == "true",
	}
}
