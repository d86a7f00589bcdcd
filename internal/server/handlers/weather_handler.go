package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmledger/internal/service/weather"
)

// WeatherHandler serves farm weather.
type WeatherHandler struct {
	provider weather.Provider
	logger   *zap.Logger
}

func NewWeatherHandler(provider weather.Provider, logger *zap.Logger) *WeatherHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeatherHandler{provider: provider, logger: logger}
}

// Current handles GET /api/weather.
func (h *WeatherHandler) Current(c *gin.Context) {
	w, err := h.provider.Current(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// Forecast handles GET /api/weather/forecast.
func (h *WeatherHandler) Forecast(c *gin.Context) {
	days, err := h.provider.Forecast(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"forecast": days})
}
