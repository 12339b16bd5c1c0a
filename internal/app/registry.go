package app

import (
	"database/sql"

	"go-timesheet/internal/auth"
	"go-timesheet/internal/config"
	"go-timesheet/internal/messaging/kafka"
	"go-timesheet/internal/middleware"
	"go-timesheet/internal/rbac"
	"go-timesheet/internal/timesheet"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	timesheetRepo := timesheet.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer, logger)

	// --- Services ---
	authService := auth.NewService(authRepo, rbacService, cfg.JWTSecret, logger)
	timesheetService := timesheet.NewService(db, timesheetRepo, outboxRepo, rdb, timesheet.Options{
		GeoTimeout: cfg.GeoTimeout,
		Board:      timesheet.NewBoardStore(rdb),
	}, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, cfg.IsProduction())
	rbacHandler := rbac.NewHandler(rbacService)
	timesheetHandler := timesheet.NewHandler(timesheetService, rdb)

	router.Use(middleware.RequestID(), middleware.ContextLogger(logger))

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, rbacService, cfg.JWTSecret)
		rbac.RegisterRoutes(api, rbacHandler, cfg.JWTSecret)
		timesheet.RegisterRoutes(api, timesheetHandler, rbacService, rdb, cfg.JWTSecret)
	}

	return nil
}
