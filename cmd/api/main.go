package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/caresync/hospital-api/config"
	"github.com/caresync/hospital-api/internal/email"
	adminHandler "github.com/caresync/hospital-api/internal/handler/admin"
	appointmentHandler "github.com/caresync/hospital-api/internal/handler/appointment"
	auditHandler "github.com/caresync/hospital-api/internal/handler/audit"
	authHandler "github.com/caresync/hospital-api/internal/handler/auth"
	deviceHandler "github.com/caresync/hospital-api/internal/handler/device"
	doctorHandler "github.com/caresync/hospital-api/internal/handler/doctor"
	healthHandler "github.com/caresync/hospital-api/internal/handler/health"
	hospitalHandler "github.com/caresync/hospital-api/internal/handler/hospital"
	medtestHandler "github.com/caresync/hospital-api/internal/handler/medtest"
	patientHandler "github.com/caresync/hospital-api/internal/handler/patient"
	superadminHandler "github.com/caresync/hospital-api/internal/handler/superadmin"
	ticketHandler "github.com/caresync/hospital-api/internal/handler/ticket"
	"github.com/caresync/hospital-api/internal/middleware"
	"github.com/caresync/hospital-api/internal/repository/mongodb"
	redisRepo "github.com/caresync/hospital-api/internal/repository/redis"
	"github.com/caresync/hospital-api/internal/router"
	adminService "github.com/caresync/hospital-api/internal/service/admin"
	appointmentService "github.com/caresync/hospital-api/internal/service/appointment"
	auditService "github.com/caresync/hospital-api/internal/service/audit"
	authService "github.com/caresync/hospital-api/internal/service/auth"
	cascadeService "github.com/caresync/hospital-api/internal/service/cascade"
	deviceService "github.com/caresync/hospital-api/internal/service/device"
	doctorService "github.com/caresync/hospital-api/internal/service/doctor"
	entityService "github.com/caresync/hospital-api/internal/service/entity"
	hospitalService "github.com/caresync/hospital-api/internal/service/hospital"
	identityService "github.com/caresync/hospital-api/internal/service/identity"
	medtestService "github.com/caresync/hospital-api/internal/service/medtest"
	patientService "github.com/caresync/hospital-api/internal/service/patient"
	relationService "github.com/caresync/hospital-api/internal/service/relation"
	superadminService "github.com/caresync/hospital-api/internal/service/superadmin"
	ticketService "github.com/caresync/hospital-api/internal/service/ticket"
	"github.com/caresync/hospital-api/pkg/auth"
	"github.com/caresync/hospital-api/pkg/logger"
	"github.com/caresync/hospital-api/pkg/metrics"
	"github.com/caresync/hospital-api/pkg/security"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	store, err := mongodb.NewStore(cfg.Mongo.ToStoreConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer store.Close(context.Background())

	auditRepo := mongodb.NewAuditRepository(store)
	reconRepo := mongodb.NewReconciliationRepository(store)
	tokenRepo, err := redisRepo.NewTokenRepository(cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	jwtSvc := auth.NewJWTService(cfg.JWT.ToAuthConfig())
	mailer := email.NewSMTPService(cfg.SMTP.ToEmailConfig())
	m := metrics.NewMetrics("hospital", "api")

	auditSvc := auditService.NewService(auditRepo, appLogger)
	identitySvc := identityService.NewService(store)
	relationSvc := relationService.NewService(store)
	cascadeSvc := cascadeService.NewService(store, relationSvc, reconRepo, appLogger)
	engine := entityService.NewService(store, identitySvc, relationSvc, cascadeSvc, hasher, auditSvc)

	hospitalSvc := hospitalService.NewService(engine, identitySvc, cascadeSvc)
	adminSvc := adminService.NewService(engine, identitySvc, relationSvc, cascadeSvc, hasher)
	superadminSvc := superadminService.NewService(store, engine, identitySvc, hasher)
	doctorSvc := doctorService.NewService(engine, identitySvc, relationSvc, cascadeSvc, hasher)
	patientSvc := patientService.NewService(engine, identitySvc, relationSvc, cascadeSvc, hasher)
	deviceSvc := deviceService.NewService(store, engine)
	appointmentSvc := appointmentService.NewService(store, engine, relationSvc)
	medtestSvc := medtestService.NewService(store, engine)
	ticketSvc := ticketService.NewService(store, engine)
	authSvc := authService.NewService(store, tokenRepo, jwtSvc, hasher, mailer, appLogger)

	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	handlers := router.Handlers{
		Auth:        authHandler.NewHandler(authSvc),
		Hospital:    hospitalHandler.NewHandler(hospitalSvc),
		Admin:       adminHandler.NewHandler(adminSvc),
		SuperAdmin:  superadminHandler.NewHandler(superadminSvc),
		Doctor:      doctorHandler.NewHandler(doctorSvc),
		Patient:     patientHandler.NewHandler(patientSvc),
		Device:      deviceHandler.NewHandler(deviceSvc),
		Appointment: appointmentHandler.NewHandler(appointmentSvc),
		Test:        medtestHandler.NewHandler(medtestSvc),
		Ticket:      ticketHandler.NewHandler(ticketSvc),
		Audit:       auditHandler.NewHandler(auditSvc),
		Health:      healthHandler.NewHandler(store),
	}

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.Security.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Security.AllowedOrigins
	}
	if len(cfg.Security.AllowedMethods) > 0 {
		corsConfig.AllowMethods = cfg.Security.AllowedMethods
	}
	if len(cfg.Security.AllowedHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.Security.AllowedHeaders
	}

	r := router.NewRouter(authMiddleware, handlers, m, router.Config{
		RateLimit:         rate.Limit(cfg.RateLimit.RequestsPerSecond),
		RateBurst:         cfg.RateLimit.Burst,
		RateLimitEnabled:  cfg.RateLimit.Enabled,
		CORSConfig:        corsConfig,
		PrometheusEnabled: cfg.Monitoring.PrometheusEnabled,
		MetricsPath:       cfg.Monitoring.MetricsPath,
	})
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
