package apiHttp

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"

	"github.com/moonlit/verifybot/internal/config"
	"github.com/moonlit/verifybot/pkg/limiter"
	"github.com/moonlit/verifybot/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handler serves the keep-alive surface hosting platforms poll. The bot has
// no other HTTP API.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Init(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(
		ginzap.Ginzap(logger.Logger(), time.RFC3339, true),
		limiter.Limit(cfg.Limiter.RPS, cfg.Limiter.Burst, cfg.Limiter.TTL),
	)
	router.Use(ginzap.RecoveryWithZap(logger.Logger(), true))

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Bot is running")
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
