package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/campus-helpdesk/helpdesk-service/internal/api/http"
	"github.com/campus-helpdesk/helpdesk-service/internal/api/http/handlers"
	"github.com/campus-helpdesk/helpdesk-service/internal/auth"
	"github.com/campus-helpdesk/helpdesk-service/internal/config"
	"github.com/campus-helpdesk/helpdesk-service/internal/events"
	"github.com/campus-helpdesk/helpdesk-service/internal/observability"
	"github.com/campus-helpdesk/helpdesk-service/internal/persistence"
	"github.com/campus-helpdesk/helpdesk-service/internal/repository"
	"github.com/campus-helpdesk/helpdesk-service/internal/service"
	"github.com/campus-helpdesk/helpdesk-service/internal/strategy"
	"github.com/campus-helpdesk/helpdesk-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	settings, err := strategy.NewSettings(cfg.Strategy.Payment, cfg.Strategy.Category, logger)
	if err != nil {
		logger.Fatal("failed to resolve strategies", zap.Error(err))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	replyRepo := repository.NewReplyRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	reportRepo := repository.NewReportRepository(pool)
	articleRepo := repository.NewArticleRepository(pool)
	articleCategoryRepo := repository.NewArticleCategoryRepository(pool)
	templateRepo := repository.NewTemplateRepository(pool)
	savedReportRepo := repository.NewSavedReportRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	notifier := worker.NewNotificationWorker(service.NewLogSender(logger), 100, 2, logger)
	defer notifier.Shutdown()
	service.NewNotificationService(dispatcher, notifier, cfg.Notification, logger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(userRepo, tokens, cfg.Auth.BcryptCost)
	userService := service.NewUserService(userRepo, cfg.Auth.BcryptCost)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		CategoryRepo: categoryRepo,
		StaffRepo:    staffRepo,
		Settings:     settings,
		Dispatcher:   dispatcher,
	})
	replyService := service.NewReplyService(replyRepo, ticketRepo, templateRepo, dispatcher)
	categoryService := service.NewCategoryService(categoryRepo, settings)
	staffService := service.NewStaffService(staffRepo)
	paymentService := service.NewPaymentService(paymentRepo, categoryRepo, settings, dispatcher, logger)
	reportService := service.NewReportService(reportRepo, savedReportRepo)
	dashboardService := service.NewDashboardService(ticketRepo, reportRepo, redis.Client, cfg.Redis.StatsTTL(), logger)
	articleService := service.NewArticleService(articleRepo, articleCategoryRepo)
	templateService := service.NewTemplateService(templateRepo)

	authMiddleware := auth.NewAuthMiddleware(tokens, userRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService, userService),
		Tickets:        handlers.NewTicketsHandler(ticketService, replyService),
		StaffTickets:   handlers.NewStaffTicketsHandler(ticketService),
		Categories:     handlers.NewCategoriesHandler(categoryService),
		StaffDirectory: handlers.NewStaffHandler(staffService),
		Payments:       handlers.NewPaymentsHandler(paymentService),
		Reports:        handlers.NewReportsHandler(reportService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
		Settings:       handlers.NewSettingsHandler(settings),
		Articles:       handlers.NewArticlesHandler(articleService),
		Templates:      handlers.NewTemplatesHandler(templateService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
