package api

import (
	"fmt"
	"net/http"

	authDelivery "medbot-backend/internal/auth/delivery"
	authRepo "medbot-backend/internal/auth/repository"
	authUsecase "medbot-backend/internal/auth/usecase"
	convDelivery "medbot-backend/internal/conversation/delivery"
	convRepo "medbot-backend/internal/conversation/repository"
	convUsecase "medbot-backend/internal/conversation/usecase"
	medicalDelivery "medbot-backend/internal/medical/delivery"
	medicalUsecase "medbot-backend/internal/medical/usecase"
	"medbot-backend/pkg/ai"
	"medbot-backend/pkg/config"
	"medbot-backend/pkg/fcm"
	"medbot-backend/pkg/logger"
	"medbot-backend/pkg/sentiment"

	"github.com/gin-gonic/gin"
)

// Dependencies are the storage-backed services built in main
type Dependencies struct {
	AuthUsecase    authUsecase.AuthUsecase
	MedicalUsecase medicalUsecase.MedicalUsecase
	SummaryStore   convRepo.UserStore
	// Accounts resolves summary owners to device token owners by email
	Accounts     authRepo.UserRepository
	DeviceTokens authRepo.FCMTokenRepository
	// Push is optional, summaries are stored without notifications when nil
	Push *fcm.Client
}

type Handler struct {
	config              *config.Config
	authUsecase         authUsecase.AuthUsecase
	authHandler         *authDelivery.AuthHandler
	conversationHandler *convDelivery.ConversationHandler
	medicalHandler      *medicalDelivery.MedicalHandler
	settings            *RuntimeSettings
	sentimentClient     *sentiment.Client
	summaryWorker       *convUsecase.SummaryWorkerService
}

func NewHandler(cfg *config.Config, deps Dependencies) (*Handler, error) {
	log := logger.Component("api")

	// Ollama settings can be changed through the settings API while running
	settings := NewRuntimeSettings(cfg.OllamaBaseURL, cfg.OllamaModel)

	model, err := ai.NewChatCompleter(ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		Timeout:       cfg.LLMTimeout,
		GroqAPIKey:    cfg.GroqAPIKey,
		GroqBaseURL:   cfg.GroqBaseURL,
		GroqModel:     cfg.SummaryModel,
		GeminiAPIKey:  cfg.GeminiAPIKey,
		GeminiModel:   cfg.GeminiModel,
		OllamaBaseURL: settings.OllamaBaseURL,
		OllamaModel:   settings.OllamaModel,
	})
	if err != nil {
		return nil, fmt.Errorf("init chat model: %w", err)
	}
	log.Info().Str("provider", cfg.AIProvider).Str("model", cfg.SummaryModel).Msg("chat model initialized")

	sentimentClient := sentiment.NewClient(cfg.SentimentURL, cfg.SentimentTimeout)

	summarizer := convUsecase.NewSummarizer(model, sentimentClient, deps.SummaryStore, convUsecase.SummarizerConfig{
		ModelTimeout: cfg.LLMTimeout,
	})

	summaryWorker := convUsecase.NewSummaryWorkerService(summarizer, cfg.SummaryWorkers, cfg.SummaryQueueSize)
	if deps.Push != nil && deps.Accounts != nil && deps.DeviceTokens != nil {
		summaryWorker.SetNotifier(convUsecase.NewPushNotifier(deps.Accounts, deps.DeviceTokens, deps.Push))
		log.Info().Msg("push notifications enabled for background summaries")
	}
	summaryWorker.Start()
	log.Info().Int("workers", cfg.SummaryWorkers).Msg("summary worker service started")

	return &Handler{
		config:              cfg,
		authUsecase:         deps.AuthUsecase,
		authHandler:         authDelivery.NewAuthHandler(deps.AuthUsecase),
		conversationHandler: convDelivery.NewConversationHandler(summarizer, summaryWorker),
		medicalHandler:      medicalDelivery.NewMedicalHandler(deps.MedicalUsecase),
		settings:            settings,
		sentimentClient:     sentimentClient,
		summaryWorker:       summaryWorker,
	}, nil
}

// Engine builds the gin engine with middleware and every route
func (h *Handler) Engine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(), CORS(h.config.CORSOrigins))

	SetupRoutes(r, h)
	return r
}

// Server returns an http.Server for the configured port
func (h *Handler) Server() *http.Server {
	return &http.Server{
		Addr:    ":" + h.config.Port,
		Handler: h.Engine(),
	}
}

// Close drains queued summaries and releases HTTP clients
func (h *Handler) Close() {
	h.summaryWorker.Stop()
	_ = h.sentimentClient.Close()
	_ = h.settings.Close()
}
