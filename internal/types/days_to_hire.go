// Package types provides the request and response shapes of the days-to-hire lookup API.
package types

import (
	"github.com/go-playground/validator/v10"

	"github.com/jonathan/days-to-hire/internal/stats"
)

// Health statuses reported by GET /health.
const (
	StatusHealthy     = "healthy"
	StatusUnavailable = "unavailable"
)

// DaysToHireQuery holds the query parameters of GET /days-to-hire.
// A nil CountryCode asks for the global statistics of the job.
type DaysToHireQuery struct {
	StandardJobID string  `json:"standard_job_id" validate:"required,max=255"`
	CountryCode   *string `json:"country_code,omitempty" validate:"omitnil,max=255"`
}

// DaysToHireResponse is the statistics row returned by the lookup API.
type DaysToHireResponse struct {
	StandardJobID     string  `json:"standard_job_id"`
	CountryCode       *string `json:"country_code"`
	MinDays           float64 `json:"min_days"`
	AvgDays           float64 `json:"avg_days"`
	MaxDays           float64 `json:"max_days"`
	JobPostingsNumber int     `json:"job_postings_number"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// Validate validates the DaysToHireQuery using the validator.
func (q *DaysToHireQuery) Validate() error {
	validate := validator.New()
	return validate.Struct(q)
}

// NewDaysToHireResponse converts a stored statistics row to its API form.
func NewDaysToHireResponse(rec *stats.Record) DaysToHireResponse {
	return DaysToHireResponse{
		StandardJobID:     rec.StandardJobID,
		CountryCode:       rec.CountryCode,
		MinDays:           rec.MinDays,
		AvgDays:           rec.AvgDays,
		MaxDays:           rec.MaxDays,
		JobPostingsNumber: rec.JobPostingsCount,
	}
}
