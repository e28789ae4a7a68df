package service

import (
	"context"
	"io"

	"agentrix/entities"
)

// Input is one advice request after binding.
type Input struct {
	GPS      string
	SoilType string
	Lang     string
	Photo    *entities.LeafPhoto
}

type Result struct {
	Advice    entities.Advice          `json:"advice"`
	RequestID uint                     `json:"request_id,omitempty"`
	Data      entities.AdvisoryResults `json:"data"`
}

type DiseaseCount struct {
	Disease string `json:"disease"`
	Count   int    `json:"count"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Stats backs the admin dashboard. Only complete advisories are counted.
type Stats struct {
	TotalAdvisories   int              `json:"total_advisories"`
	DiseaseDetections int              `json:"disease_detections"`
	RequestsWithGPS   int              `json:"requests_with_gps"`
	CropCounts        map[string]int64 `json:"crop_counts"`
	TopDiseases       []DiseaseCount   `json:"top_diseases"`
	Locations         []Location       `json:"locations"`
}

type AdvisoryService interface {
	GetAdvice(ctx context.Context, in Input) (*Result, error)
	Get(id uint) (*entities.Advisory, error)
	Recent(limit int) ([]entities.Advisory, error)
	Stats() (*Stats, error)
	ExportXLSX(w io.Writer) error
}
