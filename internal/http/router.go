package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/playfinity/playfinity-backend/internal/http/handlers"
	httpMW "github.com/playfinity/playfinity-backend/internal/http/middleware"
	"github.com/playfinity/playfinity-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	HealthHandler  *httpH.HealthHandler
	StatusHandler  *httpH.StatusHandler
	PredictHandler *httpH.PredictHandler
	GamesHandler   *httpH.GamesHandler
	CacheHandler   *httpH.CacheHandler
	LetterHandler  *httpH.LetterHandler
	DrawingHandler *httpH.DrawingHandler

	ServiceName string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.StatusHandler != nil {
			api.GET("/status", cfg.StatusHandler.Status)
		}

		// Prediction
		if cfg.PredictHandler != nil {
			api.POST("/predict", cfg.PredictHandler.Predict)
		}

		// Games
		if cfg.GamesHandler != nil {
			api.POST("/validate-topic", cfg.GamesHandler.ValidateTopic)
			api.POST("/generate-games", cfg.GamesHandler.GenerateGames)
			api.GET("/images/:topic/:ageGroup/:index", cfg.GamesHandler.GetImage)
		}

		// Topics and cache
		if cfg.CacheHandler != nil {
			api.POST("/related-topics", cfg.CacheHandler.RelatedTopics)
			api.GET("/cached-topics/:topic", cfg.CacheHandler.CachedTopics)
			api.GET("/cache-stats", cfg.CacheHandler.CacheStats)
			api.DELETE("/cache", cfg.CacheHandler.ClearCache)
		}

		// Letters
		if cfg.LetterHandler != nil {
			api.POST("/check-letter", cfg.LetterHandler.CheckLetter)
		}

		// Drawings
		if cfg.DrawingHandler != nil {
			api.POST("/drawings", cfg.DrawingHandler.SaveDrawing)
		}
	}

	return r
}
