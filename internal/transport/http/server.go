package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Options configures the Echo instance.
type Options struct {
	AllowOrigins []string
	// RateLimit is requests per second per client IP; 0 disables limiting.
	RateLimit float64
	Logger    *zap.Logger
}

// New constructs and returns a configured Echo instance.
func New(h *Handlers, opts Options) *echo.Echo {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: opts.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				logger.Warn("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	if opts.RateLimit > 0 {
		e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(opts.RateLimit))))
	}

	api := e.Group("/api/v1")
	api.GET("/healthz", h.handleHealthz)

	api.POST("/games", h.handleStartGame)
	api.POST("/games/import", h.handleImportGame)
	api.GET("/games/:game_id", h.handleGetGame)
	api.POST("/games/:game_id/moves", h.handleSubmitMove)
	api.PUT("/games/:game_id/draft", h.handleDraft)
	api.POST("/games/:game_id/undo", h.handleUndo)
	api.POST("/games/:game_id/cursor", h.handleCursor)
	api.POST("/games/:game_id/finish", h.handleFinish)

	api.GET("/records", h.handleListRecords)
	api.GET("/records/:record_id", h.handleGetRecord)
	api.GET("/records/:record_id/pgn", h.handleDownloadPGN)
	api.DELETE("/records/:record_id", h.handleDeleteRecord)

	return e
}
