package internal

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"fileshare-api/config"
	"fileshare-api/internal/interface/api/rest/middleware"
)

// newRouter builds the engine with the global middleware. Only the configured
// proxies may set X-Forwarded-For, so c.ClientIP() is the peer address for
// everyone else.
func newRouter(cfg config.HTTP, logger *zap.Logger, mCounter *prometheus.CounterVec) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	r.Use(gin.Recovery())
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.CORSOrigins,
			AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}
	r.Use(middleware.RequestLogGin(logger, mCounter))

	return r, nil
}
