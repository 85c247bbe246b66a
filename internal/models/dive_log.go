package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Dive types accepted on a log entry.
var DiveTypes = []string{"fun", "training", "night", "deep", "wreck", "drift", "altitude", "ice"}

const DiveTypeNight = "night"

// Sighting is one marine-life observation embedded in a dive log.
type Sighting struct {
	Species string `json:"species"`
	Count   int    `json:"count"`
	Note    string `json:"note,omitempty"`
}

// DiveLog is a single recorded dive. Buddies, Sightings and PhotoKeys
// are jsonb columns; photos are object-storage keys under the owner's
// prefix, never raw bytes.
type DiveLog struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	DiveNumber    int            `gorm:"not null;index" json:"dive_number"`
	Date          time.Time      `gorm:"not null" json:"date"`
	Site          string         `gorm:"size:200" json:"site"`
	Location      string         `gorm:"size:200" json:"location"`
	Latitude      *float64       `json:"latitude,omitempty"`
	Longitude     *float64       `json:"longitude,omitempty"`
	TimeIn        string         `gorm:"size:5" json:"time_in"`
	TimeOut       string         `gorm:"size:5" json:"time_out"`
	Duration      int            `json:"duration"`
	MaxDepth      float64        `json:"max_depth"`
	AvgDepth      float64        `json:"avg_depth"`
	StartPressure int            `json:"start_pressure"`
	EndPressure   int            `json:"end_pressure"`
	Visibility    float64        `json:"visibility"`
	WaterTemp     float64        `json:"water_temp"`
	SuitThickness float64        `json:"suit_thickness"`
	Weights       float64        `json:"weights"`
	DiveType      string         `gorm:"size:20;default:'fun'" json:"dive_type"`
	Notes         string         `gorm:"type:text" json:"notes"`
	Buddies       datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"buddies"`
	Sightings     datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"sightings"`
	PhotoKeys     datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"photo_keys"`
	Rating        int            `gorm:"default:0" json:"rating"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// BuddyList decodes the jsonb buddies column.
func (d *DiveLog) BuddyList() []string {
	var out []string
	_ = json.Unmarshal(d.Buddies, &out)
	return out
}

// SightingList decodes the jsonb sightings column.
func (d *DiveLog) SightingList() []Sighting {
	var out []Sighting
	_ = json.Unmarshal(d.Sightings, &out)
	return out
}

// PhotoKeyList decodes the jsonb photo key column.
func (d *DiveLog) PhotoKeyList() []string {
	var out []string
	_ = json.Unmarshal(d.PhotoKeys, &out)
	return out
}
