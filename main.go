package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "collab-notify/cmd/api"
	notificationDelivery "collab-notify/internal/notification/delivery"
	notificationRepo "collab-notify/internal/notification/repository"
	notificationUsecase "collab-notify/internal/notification/usecase"
	pushRepo "collab-notify/internal/push/repository"
	pushUsecase "collab-notify/internal/push/usecase"
	triggerDelivery "collab-notify/internal/trigger/delivery"
	triggerUsecase "collab-notify/internal/trigger/usecase"
	"collab-notify/pkg/config"
	"collab-notify/pkg/fcm"
	"collab-notify/pkg/firebase"
	"collab-notify/pkg/logger"

	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// run returns only after every deferred close has run.
func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Firebase (Firestore, Messaging, Auth)
	app, err := firebase.NewApp(ctx, cfg.GoogleProjectID, cfg.FirebaseCredentials)
	if err != nil {
		return fmt.Errorf("initialize firebase: %w", err)
	}
	defer app.Close()

	// Initialize repositories (dependency injection)
	tokenRepo := pushRepo.NewTokenRepository(app.Firestore)
	userRepo := notificationRepo.NewUserRepository(app.Firestore)
	projectRepo := notificationRepo.NewProjectRepository(app.Firestore)
	conversationRepo := notificationRepo.NewConversationRepository(app.Firestore)
	notifRepo := notificationRepo.NewNotificationRepository(app.Firestore)

	// Initialize use cases
	fcmClient := fcm.NewClient(app.Messaging, log)
	pushUc := pushUsecase.NewPushUsecase(tokenRepo, fcmClient, log)
	notificationUc := notificationUsecase.NewNotificationUsecase(userRepo, projectRepo, conversationRepo, notifRepo, pushUc, log)

	// Bind Firestore triggers
	router := triggerUsecase.NewRouter(log)
	notificationDelivery.NewTriggerHandler(notificationUc, log).Register(router)

	// Pub/Sub transport is optional; Eventarc can also push over HTTP
	if cfg.EventsSubscription != "" && cfg.GoogleProjectID != "" {
		subscriber, err := triggerDelivery.NewSubscriber(ctx, cfg.GoogleProjectID, cfg.EventsSubscription, router, log, cfg.FirebaseCredentials)
		if err != nil {
			log.Error().Err(err).Msg("failed to initialize event subscriber")
		} else {
			defer subscriber.Close()
			go func() {
				if err := subscriber.Start(ctx); err != nil {
					log.Error().Err(err).Msg("event subscriber stopped")
				}
			}()
		}
	} else {
		log.Info().Msg("EVENTS_SUBSCRIPTION not configured, accepting events over HTTP only")
	}

	handler := api.NewHandler(triggerDelivery.NewEventHandler(router, log), pushUc, app.Auth, cfg, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	err = api.Serve(ctx, srv, log)
	stop()
	return err
}
