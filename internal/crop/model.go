package crop

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound     = errors.New("crop not found")
	ErrInvalidInput = errors.New("invalid crop input")
)

// ValidationError names the offending field. It matches ErrInvalidInput.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Status is the user-set lifecycle label.
type Status string

const (
	StatusPlanted   Status = "planted"
	StatusGrowing   Status = "growing"
	StatusFlowering Status = "flowering"
	StatusReady     Status = "ready"
	StatusHarvested Status = "harvested"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPlanted, StatusGrowing, StatusFlowering, StatusReady, StatusHarvested:
		return true
	}
	return false
}

// Health is the user-set subjective health signal.
type Health string

const (
	HealthExcellent Health = "excellent"
	HealthGood      Health = "good"
	HealthFair      Health = "fair"
	HealthPoor      Health = "poor"
)

func (h Health) Valid() bool {
	switch h {
	case HealthExcellent, HealthGood, HealthFair, HealthPoor:
		return true
	}
	return false
}

// KnownTypes is the crop-type list offered by the dashboard. Name stays free text.
var KnownTypes = []string{
	"Rice", "Wheat", "Corn", "Sugarcane", "Cotton", "Soybeans", "Tomatoes",
	"Potatoes", "Onions", "Beans", "Peas", "Carrots", "Cabbage", "Spinach",
}

// Crop is one tracked planting, stored under crop:<userId>:<id>.
type Crop struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Variety         string     `json:"variety"`
	PlantedDate     Date       `json:"plantedDate"`
	ExpectedHarvest *Date      `json:"expectedHarvest,omitempty"`
	Area            float64    `json:"area"`
	Location        string     `json:"location"`
	Status          Status     `json:"status"`
	HealthStatus    Health     `json:"healthStatus"`
	Progress        float64    `json:"progress"`
	LastWatered     Date       `json:"lastWatered"`
	Notes           string     `json:"notes"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

func (c *Crop) validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return invalid("name", "required")
	}
	if c.PlantedDate.IsZero() {
		return invalid("plantedDate", "required")
	}
	if c.ExpectedHarvest != nil && c.ExpectedHarvest.Before(c.PlantedDate.Time) {
		return invalid("expectedHarvest", "must not be before plantedDate")
	}
	if !c.Status.Valid() {
		return invalid("status", fmt.Sprintf("unknown value %q", c.Status))
	}
	if !c.HealthStatus.Valid() {
		return invalid("healthStatus", fmt.Sprintf("unknown value %q", c.HealthStatus))
	}
	return nil
}
