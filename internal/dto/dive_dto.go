package dto

import (
	"time"

	"github.com/Leeseryong88/logbook/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// PhotoPayload is either an existing object key or an inline upload,
// never both.
type PhotoPayload struct {
	Key         string `json:"key,omitempty"`
	Data        string `json:"data,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

type UpsertDiveLogRequest struct {
	ID            *uuid.UUID        `json:"id,omitempty"`
	DiveNumber    int               `json:"dive_number" validate:"gte=0"`
	Date          time.Time         `json:"date" validate:"required"`
	Site          string            `json:"site" validate:"required,max=200"`
	Location      string            `json:"location" validate:"max=200"`
	Latitude      *float64          `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude     *float64          `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	TimeIn        string            `json:"time_in" validate:"omitempty,len=5"`
	TimeOut       string            `json:"time_out" validate:"omitempty,len=5"`
	Duration      int               `json:"duration" validate:"gte=0,lte=1440"`
	MaxDepth      float64           `json:"max_depth" validate:"gte=0,lte=350"`
	AvgDepth      float64           `json:"avg_depth" validate:"gte=0,lte=350"`
	StartPressure int               `json:"start_pressure" validate:"gte=0,lte=400"`
	EndPressure   int               `json:"end_pressure" validate:"gte=0,lte=400"`
	Visibility    float64           `json:"visibility" validate:"gte=0"`
	WaterTemp     float64           `json:"water_temp" validate:"gte=-5,lte=45"`
	SuitThickness float64           `json:"suit_thickness" validate:"gte=0,lte=20"`
	Weights       float64           `json:"weights" validate:"gte=0,lte=50"`
	DiveType      string            `json:"dive_type"`
	Notes         string            `json:"notes"`
	Buddies       []string          `json:"buddies"`
	Sightings     []models.Sighting `json:"sightings"`
	Photos        []PhotoPayload    `json:"photos"`
	Rating        int               `json:"rating" validate:"gte=0,lte=5"`
}

// Validate runs struct-tag validation.
func (r *UpsertDiveLogRequest) Validate() error {
	return validate.Struct(r)
}

type DiveLogListResponse struct {
	Logs  []models.DiveLog `json:"logs"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

type DiveStatsResponse struct {
	TotalDives      int            `json:"total_dives"`
	TotalBottomTime int            `json:"total_bottom_time"`
	MaxDepth        float64        `json:"max_depth"`
	AvgMaxDepth     float64        `json:"avg_max_depth"`
	DistinctSites   int            `json:"distinct_sites"`
	ByDiveType      map[string]int `json:"by_dive_type"`
	ByYear          map[int]int    `json:"by_year"`
}
