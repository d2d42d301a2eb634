package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trimly/config"
	"trimly/cron"
	"trimly/database"
	bookingRepoPkg "trimly/database/repository/booking"
	clientRepoPkg "trimly/database/repository/client"
	userRepoPkg "trimly/database/repository/user"
	"trimly/handlers"
	"trimly/middleware"
	"trimly/routes"
	"trimly/services/auth"
	"trimly/services/booking"
	"trimly/services/notification"
	"trimly/services/session"
	"trimly/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	clientRepo := clientRepoPkg.NewMongoClientRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()

	// services.
	smsService := notification.NewSMSService()
	authProvider := auth.NewDefaultAuthProvider(userRepo, smsService)
	sessionRegistry := session.NewRegistry(authProvider, clientRepo, logger)

	taskClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer taskClient.Close()

	bookingService := &booking.DefaultBookingService{
		Repo:   bookingRepo,
		Drafts: booking.NewRedisDraftStore(),
		SMS:    smsService,
		Tasks:  taskClient,
		Logger: logger,
	}

	cron.InitReminderWorker(smsService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Auth:    handlers.NewAuthHandler(sessionRegistry),
		Profile: handlers.NewProfileHandler(authProvider, clientRepo),
		Booking: handlers.NewBookingHandler(bookingService, userRepo),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(utils.AllRedisClients(), database.MongoClient)

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
	sessionRegistry.Close()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
