package app

import (
	"database/sql"
	"os"

	"github.com/Mimo68/Gestion-brigade/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the connections owned by the API process so main can close
// them explicitly on shutdown.
type App struct {
	sqlDB *sql.DB
	rdb   *redis.Client
}

func BuildApp(router *gin.Engine) (*App, error) {
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	zap.L().Info("database connection established")

	// Redis is optional. Without it the dashboard cache is simply skipped.
	var rdb *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb, err = connection.ConnectRedisWithRetry(addr, 5)
		if err != nil {
			zap.L().Warn("redis unavailable, running without cache", zap.Error(err))
			rdb = nil
		} else {
			zap.L().Info("redis connection established")
		}
	}

	if err := registerModules(router, sqlDB, gormDB, rdb); err != nil {
		return nil, err
	}

	return &App{sqlDB: sqlDB, rdb: rdb}, nil
}

func (a *App) Close() {
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			zap.L().Warn("redis close failed", zap.Error(err))
		}
	}
	if a.sqlDB != nil {
		if err := a.sqlDB.Close(); err != nil {
			zap.L().Warn("database close failed", zap.Error(err))
		}
	}
}
