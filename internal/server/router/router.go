package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmledger/internal/server/handlers"
)

const requestIDHeader = "X-Request-ID"

// Handlers groups the HTTP adapters. Webhook is nil when WhatsApp is disabled.
type Handlers struct {
	Records *handlers.RecordsHandler
	Finance *handlers.FinanceHandler
	Weather *handlers.WeatherHandler
	Webhook *handlers.WebhookHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/dashboard", h.Finance.Dashboard)

	farms := api.Group("/farms")
	farms.GET("", h.Records.ListFarms)
	farms.POST("", h.Records.CreateFarm)
	farms.GET("/:id", h.Records.GetFarm)
	farms.PUT("/:id", h.Records.UpdateFarm)
	farms.DELETE("/:id", h.Records.DeleteFarm)

	crops := api.Group("/crops")
	crops.GET("", h.Records.ListCrops)
	crops.POST("", h.Records.CreateCrop)
	crops.GET("/:id", h.Records.GetCrop)
	crops.PUT("/:id", h.Records.UpdateCrop)
	crops.DELETE("/:id", h.Records.DeleteCrop)
	crops.GET("/:id/lifecycle", h.Records.CropLifecycle)

	tasks := api.Group("/tasks")
	tasks.GET("", h.Records.ListTasks)
	tasks.POST("", h.Records.CreateTask)
	tasks.GET("/:id", h.Records.GetTask)
	tasks.PUT("/:id", h.Records.UpdateTask)
	tasks.DELETE("/:id", h.Records.DeleteTask)
	tasks.POST("/:id/toggle", h.Records.ToggleTask)

	txs := api.Group("/transactions")
	txs.GET("", h.Records.ListTransactions)
	txs.POST("", h.Records.CreateTransaction)
	txs.GET("/:id", h.Records.GetTransaction)
	txs.PUT("/:id", h.Records.UpdateTransaction)
	txs.DELETE("/:id", h.Records.DeleteTransaction)

	fin := api.Group("/finance")
	fin.GET("/monthly", h.Finance.Monthly)
	fin.GET("/yearly", h.Finance.Yearly)
	fin.GET("/categories", h.Finance.Categories)
	fin.GET("/summary", h.Finance.Summary)
	fin.GET("/report", h.Finance.Report)
	fin.GET("/report/latest", h.Finance.LatestReport)

	api.GET("/weather", h.Weather.Current)
	api.GET("/weather/forecast", h.Weather.Forecast)

	if h.Webhook != nil {
		r.GET("/webhook", h.Webhook.Verify)
		r.POST("/webhook", h.Webhook.Receive)
		r.POST("/send-message", h.Webhook.SendMessage)
	}

	logger.Info("router initialized", zap.Bool("whatsapp_routes", h.Webhook != nil))

	return r
}

// requestIDMiddleware propagates X-Request-ID, generating one when absent.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
