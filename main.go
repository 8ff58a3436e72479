package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "medbot-backend/cmd/api"
	authdomain "medbot-backend/internal/auth/domain"
	authRepo "medbot-backend/internal/auth/repository"
	authUsecase "medbot-backend/internal/auth/usecase"
	convdomain "medbot-backend/internal/conversation/domain"
	convRepo "medbot-backend/internal/conversation/repository"
	medicaldomain "medbot-backend/internal/medical/domain"
	medicalRepo "medbot-backend/internal/medical/repository"
	medicalUsecase "medbot-backend/internal/medical/usecase"
	"medbot-backend/pkg/config"
	"medbot-backend/pkg/database"
	"medbot-backend/pkg/fcm"
	"medbot-backend/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	boot := logger.Get()
	cfg, err := config.Load()
	if err != nil {
		boot.Fatal().Err(err).Msg("invalid configuration")
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		boot.Fatal().Err(err).Msg("invalid logger configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if cfg.AutoMigrate {
		if err := db.AutoMigrate(
			&authdomain.User{},
			&authdomain.RefreshToken{},
			&authdomain.FCMToken{},
			&convdomain.ConversationSummary{},
			&medicaldomain.MedicalProfile{},
		); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	fcmTokenRepo := authRepo.NewFCMTokenRepository(db)
	medicalRepository := medicalRepo.NewMedicalRepository(db)

	var (
		summaryStore convRepo.UserStore
		mongoClient  *mongo.Client
	)
	switch cfg.StoreDriver {
	case "mongo":
		var mongoDB *mongo.Database
		mongoClient, mongoDB, err = database.NewMongoDatabase(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to mongo")
		}
		summaryStore = convRepo.NewMongoUserStore(mongoDB)
	default:
		summaryStore = convRepo.NewGormUserStore(db)
	}
	log.Info().Str("driver", cfg.StoreDriver).Msg("conversation store ready")

	// Push notifications are optional
	var fcmClient *fcm.Client
	if cfg.FirebaseCredentials != "" {
		fcmClient, err = fcm.NewClient(ctx, cfg.FirebaseCredentials)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize FCM client, push notifications disabled")
			fcmClient = nil
		}
	}

	handler, err := api.NewHandler(cfg, api.Dependencies{
		AuthUsecase:    authUsecase.NewAuthUsecase(userRepo, fcmTokenRepo, cfg),
		MedicalUsecase: medicalUsecase.NewMedicalUsecase(medicalRepository, userRepo),
		SummaryStore:   summaryStore,
		Accounts:       userRepo,
		DeviceTokens:   fcmTokenRepo,
		Push:           fcmClient,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize handlers")
	}

	srv := handler.Server()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)

		handler.Close()
		if mongoClient != nil {
			_ = mongoClient.Disconnect(shutdownCtx)
		}
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return err
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
	log.Info().Msg("server stopped")
}
