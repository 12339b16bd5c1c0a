package app

import (
	"context"
	"fmt"

	"go-timesheet/internal/auth"
	"go-timesheet/internal/config"
	"go-timesheet/internal/messaging/kafka"
	"go-timesheet/internal/shared/connection"
	"go-timesheet/internal/timesheet"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewLogger builds the process logger. Development builds get the
// colored console encoder.
func NewLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func BuildApp(router *gin.Engine, cfg config.Config) error {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, cfg.ConnectRetries)
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	if err := gormDB.AutoMigrate(&timesheet.Timesheet{}, &timesheet.TimesheetPause{}, &auth.User{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	if err := kafka.Migrate(context.Background(), sqlDB); err != nil {
		return fmt.Errorf("migrate outbox: %w", err)
	}

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.ConnectRetries)
	if err != nil {
		return err
	}
	logger.Info("redis connection established")

	return registerModules(router, cfg, sqlDB, gormDB, redisClient, logger)
}
