// File: interviewhub/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"interviewhub/config"
	"interviewhub/cron"
	"interviewhub/database"
	"interviewhub/database/repository"
	"interviewhub/handlers"
	"interviewhub/middleware"
	"interviewhub/routes"
	"interviewhub/services/availability"
	"interviewhub/services/booking"
	"interviewhub/services/candidate"
	"interviewhub/services/interviewer"
	"interviewhub/services/notification"
	"interviewhub/services/rating"
	"interviewhub/services/storage"
	"interviewhub/services/tasks"
	"interviewhub/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer logger.Sync()

	rootCtx, stopMonitors := context.WithCancel(context.Background())
	defer stopMonitors()

	mongoClient, err := database.InitDB(rootCtx)
	if err != nil {
		logger.Fatal("main: mongo unavailable", zap.Error(err))
	}
	db := database.DB(mongoClient)
	indexCtx, cancelIndex := context.WithTimeout(rootCtx, 30*time.Second)
	if err := repository.EnsureIndexes(indexCtx, db); err != nil {
		logger.Fatal("main: failed to create indexes", zap.Error(err))
	}
	cancelIndex()

	cacheClient, err := utils.InitCache()
	if err != nil {
		logger.Fatal("main: redis cache unavailable", zap.Error(err))
	}
	defer cacheClient.Close()

	stripe.Key = config.AppConfig.StripeKey
	if stripe.Key == "" {
		logger.Warn("main: STRIPE_KEY not set; booking payments will fail")
	}

	fb, err := utils.FirebaseInit(rootCtx)
	if err != nil {
		logger.Fatal("main: failed to initialize firebase", zap.Error(err))
	}

	// Profile image uploads are disabled without Cloudinary credentials.
	var files storage.StorageService
	if cld, err := utils.Cloudinary(); err != nil {
		logger.Warn("main: cloudinary storage disabled", zap.Error(err))
	} else {
		files = cld
	}

	// repositories.
	interviewerStore := repository.NewMongoInterviewerRepo(db)
	candidateStore := repository.NewMongoCandidateRepo(db)
	bookingStore := repository.NewMongoBookingRepo(db)
	reviewStore := repository.NewMongoReviewRepo(db)
	summaryStore := repository.NewMongoSummaryRepo(db)

	// background jobs.
	taskClient := asynq.NewClient(cron.QueueRedisOpt())
	defer taskClient.Close()
	enqueuer := tasks.NewEnqueuer(taskClient)

	notificationService, err := notification.NewDefaultNotificationService(fb.Messaging, interviewerStore, candidateStore, logger)
	if err != nil {
		logger.Fatal("main: failed to build notification service", zap.Error(err))
	}
	// services.
	slotService := availability.NewService(interviewerStore, bookingStore, logger)

	interviewerService := interviewer.NewService(interviewerStore, files, logger)
	candidateService := candidate.NewService(candidateStore, files, logger)

	ratingService := rating.NewService(reviewStore, summaryStore, bookingStore, interviewerStore, logger)
	ratingService.Cache = rating.NewRedisSummaryCache(cacheClient, config.AppConfig.SummaryCacheTTL)
	ratingService.Notifier = enqueuer

	bookingService := booking.NewBookingService(
		interviewerStore,
		bookingStore,
		slotService,
		booking.NewStripePaymentProcessor(logger),
		enqueuer,
		logger,
		config.AppConfig.PlatformCurrency,
		config.AppConfig.ReminderLeadTime,
	)
	bookingService.Expiry = enqueuer
	if config.AppConfig.PaymentWindow > 0 {
		bookingService.PaymentWindow = config.AppConfig.PaymentWindow
	}

	worker := cron.NewWorker(notificationService, bookingService, logger)
	worker.Start()

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Interviewers: handlers.NewInterviewerHandler(interviewerService, slotService, logger),
		Candidates:   handlers.NewCandidateHandler(candidateService, logger),
		Bookings:     handlers.NewBookingHandler(bookingService, logger),
		Reviews:      handlers.NewReviewHandler(ratingService, logger),
		Admin:        handlers.NewAdminHandler(ratingService, logger),
		Payments:     handlers.NewPaymentHandler(bookingService, config.AppConfig.StripeWebhookSecret, logger),
		Health:       handlers.HealthHandler,
	}

	utils.StartHealthMonitor(rootCtx, []*redis.Client{cacheClient}, mongoClient)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin, logger))

	routes.RegisterRoutes(router, handlerBundle,
		middleware.FirebaseAuthMiddleware(fb.Auth, logger),
		middleware.JWTAuthAdminMiddleware([]byte(config.AppConfig.JWTSecret)),
	)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	worker.Shutdown()
	stopMonitors()
	if err := mongoClient.Disconnect(ctx); err != nil {
		logger.Sugar().Warnf("main: mongo disconnect: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
