// Package weather serves farm weather conditions and forecasts.
package weather

import (
	"context"

	"github.com/mamadbah2/farmledger/internal/domain/models"
)

// Provider returns weather for the farm location.
type Provider interface {
	// Current returns present conditions with a five-day outlook.
	Current(ctx context.Context) (models.Weather, error)
	// Forecast returns the extended ten-day forecast.
	Forecast(ctx context.Context) ([]models.ForecastDay, error)
}

// StaticProvider serves fixed sample conditions.
type StaticProvider struct{}

// NewStaticProvider returns a Provider backed by fixed sample data.
func NewStaticProvider() *StaticProvider { return &StaticProvider{} }

func (StaticProvider) Current(ctx context.Context) (models.Weather, error) {
	if err := ctx.Err(); err != nil {
		return models.Weather{}, err
	}
	return models.Weather{
		Current: models.CurrentWeather{
			Location:      "Farm Location",
			Temperature:   72,
			Condition:     "Partly Cloudy",
			Humidity:      65,
			WindSpeed:     8,
			WindDirection: "NE",
		},
		Forecast: []models.ForecastDay{
			{Day: "Today", High: 75, Low: 58, Condition: "sunny"},
			{Day: "Tomorrow", High: 73, Low: 55, Condition: "cloudy"},
			{Day: "Wed", High: 71, Low: 53, Condition: "rainy"},
			{Day: "Thu", High: 69, Low: 51, Condition: "sunny"},
			{Day: "Fri", High: 72, Low: 54, Condition: "partly-cloudy"},
		},
	}, nil
}

func (StaticProvider) Forecast(ctx context.Context) ([]models.ForecastDay, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []models.ForecastDay{
		{Day: "Mon", High: 75, Low: 58, Condition: "sunny", Precipitation: 0},
		{Day: "Tue", High: 73, Low: 55, Condition: "cloudy", Precipitation: 10},
		{Day: "Wed", High: 71, Low: 53, Condition: "rainy", Precipitation: 80},
		{Day: "Thu", High: 69, Low: 51, Condition: "sunny", Precipitation: 0},
		{Day: "Fri", High: 72, Low: 54, Condition: "partly-cloudy", Precipitation: 20},
		{Day: "Sat", High: 74, Low: 56, Condition: "sunny", Precipitation: 0},
		{Day: "Sun", High: 76, Low: 59, Condition: "cloudy", Precipitation: 30},
		{Day: "Mon", High: 78, Low: 62, Condition: "sunny", Precipitation: 0},
		{Day: "Tue", High: 75, Low: 58, Condition: "partly-cloudy", Precipitation: 15},
		{Day: "Wed", High: 73, Low: 55, Condition: "rainy", Precipitation: 70},
	}, nil
}
