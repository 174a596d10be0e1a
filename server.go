package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/dailycash_backend/config"
	"github.com/mmdatafocus/dailycash_backend/middlewares"
	"github.com/mmdatafocus/dailycash_backend/models"
	"github.com/mmdatafocus/dailycash_backend/utils"
	"github.com/mmdatafocus/dailycash_backend/workflow"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const defaultPort = "8080"

func getRedisClient(redisAddress string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     redisAddress,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

// customErrorLogger is a custom Gin middleware that logs only errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			cid, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
			logger.WithFields(logrus.Fields{
				"method":         c.Request.Method,
				"path":           c.FullPath(),
				"status":         c.Writer.Status(),
				"correlation_id": cid,
			}).Error(c.Errors.String())
		}
	}
}

// readinessGate returns 503 for app endpoints until the database is connected.
// Redis is optional and never gates traffic.
func readinessGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	}
}

func corsMiddleware() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	// In production, require explicit allowlist via CORS_ALLOWED_ORIGINS (comma-separated).
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if config.IsProduction() {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = utils.SplitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition", "x-correlation-id")
	corsConfig.AllowCredentials = !corsConfig.AllowAllOrigins
	return cors.New(corsConfig)
}

// rateLimiterFromEnv is nil unless RATE_LIMIT_ENABLED=true.
// Env: RATE_LIMIT_WINDOW_SECONDS=60, RATE_LIMIT_MAX_REQUESTS=600
func rateLimiterFromEnv() *middlewares.RateLimiter {
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED")), "true") {
		return nil
	}
	client := getRedisClient(os.Getenv("REDIS_ADDRESS"))
	limit := int64(600)
	if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_MAX_REQUESTS")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}
	windowSec := int64(60)
	if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_WINDOW_SECONDS")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			windowSec = n
		}
	}
	return middlewares.NewRateLimiter(client, limit, time.Duration(windowSec)*time.Second)
}

// newRouter wires middlewares and routes. before runs right after the
// correlation id middleware.
func newRouter(svc *workflow.DailyRecordService, logger *logrus.Logger, before ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(middlewares.CorrelationMiddleware())
	r.Use(before...)
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.Use(corsMiddleware())
	r.Use(middlewares.SessionMiddleware())
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.POST("/auth/login", loginHandler())

	private := api.Group("", middlewares.RequireSession())
	private.POST("/auth/logout", logoutHandler())
	private.GET("/auth/me", meHandler())

	private.POST("/daily-records/preview", previewDailyRecordHandler(svc))
	private.GET("/daily-records", listDailyRecordsHandler(svc))
	private.POST("/daily-records", createDailyRecordHandler(svc))
	private.GET("/daily-records/:id", getDailyRecordHandler(svc))
	private.PUT("/daily-records/:id", updateDailyRecordHandler(svc))
	private.DELETE("/daily-records/:id", deleteDailyRecordHandler(svc))

	private.GET("/petty-cash", listPettyCashHandler())
	private.POST("/petty-cash", createPettyCashHandler())
	private.GET("/petty-cash/sum", sumPettyCashHandler())
	private.GET("/petty-cash/categories", listPettyCashCategoriesHandler())
	private.POST("/petty-cash/categories", createPettyCashCategoryHandler())
	private.DELETE("/petty-cash/categories/:id", deletePettyCashCategoryHandler())
	private.PUT("/petty-cash/:id", updatePettyCashHandler())
	private.DELETE("/petty-cash/:id", deletePettyCashHandler())

	private.GET("/employees", listEmployeesHandler())
	private.POST("/employees", createEmployeeHandler())
	private.GET("/employee-payments", listEmployeePaymentsHandler())
	private.POST("/employee-payments", createEmployeePaymentHandler())
	private.GET("/employee-payments/totals", employeePaymentTotalsHandler())
	private.DELETE("/employee-payments/:id", deleteEmployeePaymentHandler())

	private.GET("/reports/caja-fuerte", cajaFuerteReportHandler())
	private.GET("/reports/taxes-net", taxesNetReportHandler())

	r.NoRoute(customNotFoundHandler)
	return r
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// The store and locker resolve through config on each call, so the service
	// exists before the connections do; the readiness gate covers the gap.
	svc := workflow.NewDailyRecordService(models.NewGormStore(nil))

	before := []gin.HandlerFunc{readinessGate()}
	if rateLimiter := rateLimiterFromEnv(); rateLimiter != nil {
		before = append(before, rateLimiter.RateLimitMiddleware)
	}
	r := newRouter(svc, logger, before...)

	// Start listening immediately; until the DB is ready app endpoints return 503.
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	go config.ConnectRedisWithRetry(sigCtx)
	config.ConnectDatabaseWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	if !config.SkipMigrations() {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on port ", port)
	log.Println("Server started successfully")

	select {
	case <-sigCtx.Done():
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	// Close Redis (best-effort).
	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}
