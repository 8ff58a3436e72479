package api

import (
	"net/http"

	"medbot-backend/internal/auth/delivery"
	"medbot-backend/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	requireAuth := delivery.AuthMiddleware(h.authUsecase)

	r.Use(metrics.Middleware())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Intake form endpoints, kept at the paths the web client posts to
	medical := r.Group("/medical")
	{
		medical.POST("/save", h.medicalHandler.Save)
		medical.GET("/:email", requireAuth, h.medicalHandler.Get)
		medical.GET("/:email/status", h.medicalHandler.Status)
	}

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		auth := api.Group("/auth")
		{
			auth.POST("/login", h.authHandler.Login)
			auth.POST("/register", h.authHandler.Register)
			auth.POST("/refresh", h.authHandler.RefreshToken)
			auth.POST("/logout", h.authHandler.Logout)
			auth.GET("/me", requireAuth, h.authHandler.Me)
		}

		devices := api.Group("/devices")
		devices.Use(requireAuth)
		{
			devices.POST("", h.authHandler.RegisterDevice)
			devices.DELETE("/:token", h.authHandler.UnregisterDevice)
		}

		conversations := api.Group("/conversations")
		{
			conversations.POST("/summarize", h.conversationHandler.Summarize)
			conversations.POST("/summarize/async", h.conversationHandler.SummarizeAsync)
			conversations.GET("", requireAuth, h.conversationHandler.ListHistory)
		}

		api.POST("/medical/save", h.medicalHandler.Save)
		api.GET("/medical/:email/status", h.medicalHandler.Status)

		settings := api.Group("/settings")
		settings.Use(requireAuth)
		{
			settings.GET("/ollama", h.settings.GetOllamaSettings)
			settings.PUT("/ollama", h.settings.UpdateOllamaSettings)
			settings.POST("/ollama/test", h.settings.TestOllamaConnection)
		}
	}
}
