package domain

// WeatherConditions - текущие условия из погодного сервиса
type WeatherConditions struct {
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
	Temperature   float64 `json:"temperature"`
	Humidity      float64 `json:"humidity"`
	WindSpeed     float64 `json:"wind_speed"`
	WindDirection float64 `json:"wind_direction"`
	ObservedAt    string  `json:"observed_at,omitempty"`
}

// Place - результат геокодирования
type Place struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
}
