package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	commissionapp "github.com/agencia/backend/internal/application/commission"
	identityapp "github.com/agencia/backend/internal/application/identity"
	salesapp "github.com/agencia/backend/internal/application/sales"
	"github.com/agencia/backend/internal/infrastructure/auth"
	"github.com/agencia/backend/internal/infrastructure/config"
	"github.com/agencia/backend/internal/infrastructure/logger"
	notifier "github.com/agencia/backend/internal/infrastructure/notification"
	"github.com/agencia/backend/internal/infrastructure/persistence"
	"github.com/agencia/backend/internal/interfaces/http/handler"
	"github.com/agencia/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(os.Getenv("APP_CONFIG_PATH"))
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.NewGormLogger(log))
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()
	log.Info("database connected")

	// Repositories
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	entryRepo := persistence.NewGormPaymentEntryRepository(db.DB)
	requestRepo := persistence.NewGormCancellationRequestRepository(db.DB)
	commissionRepo := persistence.NewGormSaleCommissionRepository(db.DB)
	monthlyRepo := persistence.NewGormMonthlyCommissionRepository(db.DB)
	grantRepo := persistence.NewGormPromotionGrantRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	loyaltySvc := persistence.NewGormLoyaltyService(db.DB)
	uow := persistence.NewGormUnitOfWork(db.DB)

	// Infrastructure services
	jwtService := auth.NewJWTService(cfg.JWT)
	notifierSvc := notifier.NewRepositoryNotifier(notificationRepo, log)

	// Application services
	authService := identityapp.NewAuthService(userRepo, jwtService, log)
	paymentService := salesapp.NewPaymentService(saleRepo, entryRepo, uow, notifierSvc, log)
	monthlyService := commissionapp.NewMonthlyService(saleRepo, entryRepo, commissionRepo, monthlyRepo, userRepo, uow, log)
	cancellationService := salesapp.NewCancellationService(
		saleRepo, requestRepo, commissionRepo, grantRepo, loyaltySvc, monthlyService, uow, notifierSvc, log,
	)

	// HTTP layer
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(logger.GinRecovery(log))
	engine.Use(logger.GinLogger(log))

	r := router.New(engine, jwtService,
		handler.NewAuthHandler(authService),
		handler.NewSalesHandler(paymentService),
		handler.NewCancellationHandler(cancellationService),
		handler.NewCommissionHandler(monthlyService),
		handler.NewNotificationHandler(notificationRepo),
	)
	r.Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exited")
}
