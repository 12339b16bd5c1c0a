package timesheet

import (
	"time"

	"go-timesheet/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func currentYear() int {
	return time.Now().UTC().Year()
}

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService, rdb *redis.Client, jwtSecret string) {
	secured := r.Group("")
	secured.Use(middleware.AuthMiddleware(jwtSecret), middleware.ExtractUserID())

	write := []gin.HandlerFunc{middleware.RBACAuthorize(rbacService, "timesheet", "write")}
	if rdb != nil {
		write = append(write, middleware.Idempotency(rdb))
	}
	with := func(handlers []gin.HandlerFunc, final gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, handlers...), final)
	}

	today := secured.Group("/timesheet/today")
	{
		today.GET("", middleware.RBACAuthorize(rbacService, "timesheet", "read"), h.GetToday)
		today.POST("/start", with(write, h.Start)...)
	}

	timesheets := secured.Group("/timesheets")
	{
		timesheets.GET("",
			middleware.RBACAuthorize(rbacService, "timesheet", "read"),
			middleware.RBACFlag(rbacService, "timesheet", "read_all", "has_read_all"),
			h.GetAll,
		)
		timesheets.GET("/:id",
			middleware.RBACAuthorize(rbacService, "timesheet", "read"),
			middleware.RBACFlag(rbacService, "timesheet", "read_all", "has_read_all"),
			h.GetByID,
		)
		timesheets.POST("/:id/pause", with(write, h.Pause)...)
		timesheets.POST("/:id/resume", with(write, h.Resume)...)
		timesheets.POST("/:id/end", with(write, h.End)...)
		timesheets.POST("/:id/signature", with(write, h.AttachSignature)...)
	}

	reports := secured.Group("/reports")
	{
		readOwn := []gin.HandlerFunc{
			middleware.RBACAuthorize(rbacService, "report", "read"),
			middleware.RBACFlag(rbacService, "report", "read_all", "has_read_all"),
		}
		reports.GET("/weekly", with(readOwn, h.WeeklySummary)...)
		reports.GET("/monthly", with(readOwn, h.MonthlySummary)...)
		reports.GET("/monthly/export", with(readOwn, h.ExportMonthly)...)
		reports.GET("/team", middleware.RBACAuthorize(rbacService, "report", "read_all"), h.TeamSummary)
		reports.GET("/board", middleware.RBACAuthorize(rbacService, "report", "read_all"), h.Board)
	}
}
