package main

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clipperhub/barbershop-platform/internal/config"
	dbpkg "github.com/clipperhub/barbershop-platform/internal/db"
	"github.com/clipperhub/barbershop-platform/internal/logger"
	"github.com/clipperhub/barbershop-platform/internal/middleware"
	"github.com/clipperhub/barbershop-platform/internal/routes"
	"github.com/clipperhub/barbershop-platform/internal/tokenstore"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Env)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db := dbpkg.NewDB(cfg)
	if err := dbpkg.Migrate(db); err != nil {
		logger.L().Fatal("migration failed", zap.Error(err))
	}

	// Token revocation degrades gracefully: without redis, logout becomes a
	// client-side operation only.
	revoked, err := tokenstore.FromURL(cfg.RedisURL)
	if err != nil {
		logger.Warn("redis unavailable, token revocation disabled", zap.Error(err))
		revoked = nil
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORSMiddleware())

	routes.RegisterRoutes(r, db, cfg, revoked)

	logger.Info("server starting", zap.String("addr", cfg.Addr()), zap.String("env", cfg.Env))
	if err := r.Run(cfg.Addr()); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}
