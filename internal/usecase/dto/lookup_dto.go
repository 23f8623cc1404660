package dto

// WeatherLookupRequest - текущая погода в точке
type WeatherLookupRequest struct {
	Lat float64 `query:"lat" validate:"min=-90,max=90"`
	Lon float64 `query:"lon" validate:"min=-180,max=180"`
}

// GeocodeLookupRequest - поиск места по названию
type GeocodeLookupRequest struct {
	Query string `query:"q" validate:"required,min=2,max=200"`
}

// ConnectivityReportRequest - устройство сообщает о смене состояния сети
type ConnectivityReportRequest struct {
	State    string `json:"state" validate:"required,oneof=online offline"`
	DeviceID string `json:"device_id" validate:"max=64"`
}

// ConnectivityResponse - текущее состояние сети узла
type ConnectivityResponse struct {
	Online  bool `json:"online"`
	Pending int  `json:"pending"`
}

// SessionRequest - вход по токену, выданному провайдером аутентификации
type SessionRequest struct {
	Token string `json:"token" validate:"required"`
}
