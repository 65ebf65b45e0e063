package app

import (
	"database/sql"
	"os"
	"strconv"

	"github.com/Mimo68/Gestion-brigade/internal/dashboard"
	"github.com/Mimo68/Gestion-brigade/internal/employee"
	"github.com/Mimo68/Gestion-brigade/internal/leave"
	"github.com/Mimo68/Gestion-brigade/internal/messaging/kafka"
	"github.com/Mimo68/Gestion-brigade/internal/seed"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	defaultHours := defaultLeaveHoursFromEnv()

	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	employeeService := employee.NewService(db, employeeRepo, outboxRepo, rdb, defaultHours)
	leaveService := leave.NewService(db, leaveRepo, employeeRepo, outboxRepo, rdb)
	dashboardService := dashboard.NewService(employeeRepo, leaveRepo, rdb)
	seedService := seed.NewService(employeeRepo, rdb, defaultHours)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	leaveHandler := leave.NewHandler(leaveService)
	dashboardHandler := dashboard.NewHandler(dashboardService)
	seedHandler := seed.NewHandler(seedService)

	// --- Routes Registration ---
	api := router.Group("/api")
	{
		employee.RegisterRoutes(api, employeeHandler)
		leave.RegisterRoutes(api, leaveHandler)
		dashboard.RegisterRoutes(api, dashboardHandler)
		seed.RegisterRoutes(api, seedHandler)
	}

	return nil
}

func defaultLeaveHoursFromEnv() int {
	raw := os.Getenv("DEFAULT_LEAVE_HOURS")
	if raw == "" {
		return employee.FallbackLeaveHours
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours < 0 {
		return employee.FallbackLeaveHours
	}
	return hours
}
