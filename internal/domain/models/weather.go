package models

// CurrentWeather describes the conditions at the farm right now.
type CurrentWeather struct {
	Location      string  `json:"location"`
	Temperature   float64 `json:"temperature"`
	Condition     string  `json:"condition"`
	Humidity      int     `json:"humidity"`
	WindSpeed     float64 `json:"windSpeed"`
	WindDirection string  `json:"windDirection"`
}

// ForecastDay is one day of a forecast. Precipitation is a chance in percent.
type ForecastDay struct {
	Day           string  `json:"day"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Condition     string  `json:"condition"`
	Precipitation int     `json:"precipitation"`
}

// Weather combines current conditions with a short forecast.
type Weather struct {
	Current  CurrentWeather `json:"current"`
	Forecast []ForecastDay  `json:"forecast"`
}
