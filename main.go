package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OmarEmad62/ATC-01111780082/config"
	"github.com/OmarEmad62/ATC-01111780082/internal/auth"
	"github.com/OmarEmad62/ATC-01111780082/internal/consumer"
	"github.com/OmarEmad62/ATC-01111780082/internal/handler"
	"github.com/OmarEmad62/ATC-01111780082/internal/middleware"
	"github.com/OmarEmad62/ATC-01111780082/internal/repository"
	"github.com/OmarEmad62/ATC-01111780082/internal/service"
	"github.com/OmarEmad62/ATC-01111780082/pkg/database"
	"github.com/OmarEmad62/ATC-01111780082/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	// Repositories
	eventRepo := repository.NewEventRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// RabbitMQ is optional: without it domain messages are simply not emitted.
	var publisher service.Publisher
	var stopConsumer func()
	var consumerDone <-chan struct{}
	if cfg.RabbitURL != "" {
		mqPublisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer mqPublisher.Close()
		publisher = mqPublisher

		mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer mqConsumer.Close()
		stopConsumer = mqConsumer.Close

		msgs, err := mqConsumer.Consume()
		if err != nil {
			log.Fatalf("failed to start consuming: %v", err)
		}
		consumerDone = consumer.NewActivityConsumer(activityRepo).Start(msgs)
	} else {
		log.Println("RABBITMQ_URL not set, messaging disabled")
	}

	// Services
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	authSvc := service.NewAuthService(userRepo, tokens)
	bookingSvc := service.NewBookingService(bookingRepo, eventRepo, publisher)
	eventSvc := service.NewEventService(eventRepo, bookingRepo, activityRepo, publisher)
	passSvc := service.NewPassService(bookingRepo, cfg.JWTSecret)

	if cfg.AdminEmail != "" {
		if err := authSvc.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatalf("failed to seed admin: %v", err)
		}
	}

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Validator = middleware.NewRequestValidator()
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": "ticketing"})
	})

	authMw := middleware.Auth(tokens)
	api := e.Group("/api/v1")
	handler.NewAuthHandler(authSvc).RegisterRoutes(api.Group("/auth"), authMw)
	handler.NewEventHandler(eventSvc, bookingSvc).RegisterRoutes(api.Group("/events"), authMw)
	handler.NewBookingHandler(bookingSvc, passSvc).RegisterRoutes(api.Group("/bookings"), authMw)

	go func() {
		log.Printf("Ticketing API starting on :%s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}

	if stopConsumer != nil {
		// In-flight deliveries finish before the channel drains.
		stopConsumer()
		select {
		case <-consumerDone:
		case <-ctx.Done():
		}
	}
}
