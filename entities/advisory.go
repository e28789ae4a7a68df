package entities

import "time"

const (
	AdvisoryPending  = "pending"
	AdvisoryComplete = "complete"
)

type WeatherForecast struct {
	Description  string  `json:"description"`
	TemperatureC float64 `json:"temperature_celsius"`
	HumidityPct  float64 `json:"humidity_percent"`
	WindKmh      float64 `json:"wind_speed_kmh"`
}

type ResourceAdvice struct {
	Fertilizer   string `json:"fertilizer"`
	Irrigation   string `json:"irrigation"`
	FertilizerMl string `json:"fertilizer_ml"`
	IrrigationMl string `json:"irrigation_ml"`
}

type DiseasePrediction struct {
	Disease    string  `json:"disease"`
	Confidence float64 `json:"confidence"`
}

// AdvisoryResults is everything the advice pipeline produced for one request.
type AdvisoryResults struct {
	Weather         *WeatherForecast   `json:"weather_forecast"`
	RecommendedCrop string             `json:"recommended_crop"`
	MarketPrice     float64            `json:"market_price"`
	Resource        *ResourceAdvice    `json:"resource_advice"`
	Disease         *DiseasePrediction `json:"disease_prediction"`
	HasLeafPhoto    bool               `json:"has_leaf_photo"`
}

type Advisory struct {
	AdvisoryID      uint               `gorm:"primaryKey" json:"advisory_id"`
	GPS             string             `json:"gps"`
	SoilType        string             `json:"soil_type"`
	Lang            string             `json:"lang"`
	HasPhoto        bool               `json:"has_photo"`
	Status          string             `json:"status" gorm:"index"` // pending|complete
	Weather         *WeatherForecast   `json:"weather_forecast,omitempty" gorm:"serializer:json"`
	RecommendedCrop string             `json:"recommended_crop" gorm:"index"`
	MarketPrice     float64            `json:"market_price"`
	Resource        *ResourceAdvice    `json:"resource_advice,omitempty" gorm:"serializer:json"`
	Disease         *DiseasePrediction `json:"disease_prediction,omitempty" gorm:"serializer:json"`
	AdviceEn        string             `json:"advice_en"`
	AdviceMl        string             `json:"advice_ml"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
