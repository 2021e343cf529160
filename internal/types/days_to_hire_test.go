package types

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/days-to-hire/internal/stats"
)

func strPtr(s string) *string { return &s }

func TestDaysToHireQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		query   DaysToHireQuery
		wantErr bool
		errTag  string
	}{
		{
			name:  "job only",
			query: DaysToHireQuery{StandardJobID: "job1"},
		},
		{
			name:  "job and country",
			query: DaysToHireQuery{StandardJobID: "job1", CountryCode: strPtr("US")},
		},
		{
			name:    "missing job",
			query:   DaysToHireQuery{CountryCode: strPtr("US")},
			wantErr: true,
			errTag:  "required",
		},
		{
			name:  "empty country",
			query: DaysToHireQuery{StandardJobID: "job1", CountryCode: strPtr("")},
		},
		{
			name:    "long country",
			query:   DaysToHireQuery{StandardJobID: "job1", CountryCode: strPtr(strings.Repeat("x", 256))},
			wantErr: true,
			errTag:  "max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, tt.errTag, verrs[0].Tag())
		})
	}
}

func TestNewDaysToHireResponse(t *testing.T) {
	rec := &stats.Record{
		ID:               42,
		StandardJobID:    "job1",
		CountryCode:      strPtr("US"),
		MinDays:          5.9,
		AvgDays:          9.5,
		MaxDays:          111.7,
		JobPostingsCount: 8,
	}

	resp := NewDaysToHireResponse(rec)
	assert.Equal(t, "job1", resp.StandardJobID)
	assert.Equal(t, 8, resp.JobPostingsNumber)
	assert.Equal(t, 9.5, resp.AvgDays)
}

func TestDaysToHireResponse_JSON(t *testing.T) {
	t.Run("global row serializes null country", func(t *testing.T) {
		data, err := json.Marshal(NewDaysToHireResponse(&stats.Record{
			StandardJobID:    "job2",
			MinDays:          7,
			AvgDays:          7,
			MaxDays:          7,
			JobPostingsCount: 5,
		}))
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"standard_job_id": "job2",
			"country_code": null,
			"min_days": 7,
			"avg_days": 7,
			"max_days": 7,
			"job_postings_number": 5
		}`, string(data))
	})

	t.Run("surrogate id is not exposed", func(t *testing.T) {
		data, err := json.Marshal(NewDaysToHireResponse(&stats.Record{ID: 9, StandardJobID: "job1"}))
		require.NoError(t, err)
		assert.NotContains(t, string(data), `"id"`)
	})
}
