package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/days-to-hire/internal/stats"
)

// -----------------------------------------------------------------------------
// Group Enumeration
// -----------------------------------------------------------------------------

// ListJobIDs returns the distinct standard job ids of all raw postings
func (db *DB) ListJobIDs(ctx context.Context) ([]string, error) {
	rows, err := db.pool.Query(ctx, `SELECT DISTINCT standard_job_id FROM job_posting`)
	if err != nil {
		return nil, fmt.Errorf("failed to list job ids: %w", classify(err))
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan job id: %w", classify(err))
	}
	return ids, nil
}

// ListCountryCodes returns the distinct country codes of all raw postings,
// with a nil entry when postings without a country exist
func (db *DB) ListCountryCodes(ctx context.Context) ([]*string, error) {
	rows, err := db.pool.Query(ctx, `SELECT DISTINCT country_code FROM job_posting`)
	if err != nil {
		return nil, fmt.Errorf("failed to list country codes: %w", classify(err))
	}
	codes, err := pgx.CollectRows(rows, pgx.RowTo[*string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan country code: %w", classify(err))
	}
	return codes, nil
}

// -----------------------------------------------------------------------------
// Aggregation
// -----------------------------------------------------------------------------

// groupStatsQuery trims one group's durations to the [p10, p90] band in a single pass.
// $2 NULL selects postings whose country is NULL, never every country.
const groupStatsQuery = `
WITH percentiles AS (
    SELECT
        PERCENTILE_CONT(0.1) WITHIN GROUP (ORDER BY days_to_hire) AS min_percentile,
        PERCENTILE_CONT(0.9) WITHIN GROUP (ORDER BY days_to_hire) AS max_percentile,
        COUNT(*) AS total_count
    FROM job_posting
    WHERE standard_job_id = $1
      AND country_code IS NOT DISTINCT FROM $2::text
      AND days_to_hire IS NOT NULL
      AND days_to_hire > 0
),
filtered_data AS (
    SELECT j.days_to_hire
    FROM job_posting j, percentiles p
    WHERE j.standard_job_id = $1
      AND j.country_code IS NOT DISTINCT FROM $2::text
      AND j.days_to_hire BETWEEN p.min_percentile AND p.max_percentile
)
SELECT
    COALESCE(p.min_percentile, 0)::float8 AS min_days,
    COALESCE(p.max_percentile, 0)::float8 AS max_days,
    p.total_count AS total_count,
    COUNT(f.days_to_hire) AS filtered_count,
    COALESCE(AVG(f.days_to_hire), 0)::float8 AS avg_days
FROM percentiles p
LEFT JOIN filtered_data f ON true
GROUP BY p.min_percentile, p.max_percentile, p.total_count`

// ComputeGroupStats aggregates one job/country group's durations
func (db *DB) ComputeGroupStats(ctx context.Context, key stats.GroupKey) (stats.Aggregate, error) {
	var agg stats.Aggregate
	var totalCount, filteredCount int64

	err := db.pool.QueryRow(ctx, groupStatsQuery, key.StandardJobID, key.CountryCode).
		Scan(&agg.MinDays, &agg.MaxDays, &totalCount, &filteredCount, &agg.AvgDays)
	if err != nil {
		return stats.Aggregate{}, fmt.Errorf("failed to compute statistics for %s in %s: %w",
			key.StandardJobID, key.Label(), classify(err))
	}

	agg.TotalCount = int(totalCount)
	agg.FilteredCount = int(filteredCount)
	return agg, nil
}

// -----------------------------------------------------------------------------
// Result Store
// -----------------------------------------------------------------------------

// ClearStats deletes every statistics row in one transaction
func (db *DB) ClearStats(ctx context.Context) error {
	return db.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM days_to_hire_stats`); err != nil {
			return fmt.Errorf("failed to delete statistics: %w", classify(err))
		}
		return nil
	})
}

// InsertStats stores one statistics row in its own transaction
func (db *DB) InsertStats(ctx context.Context, rec stats.Record) error {
	return db.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO days_to_hire_stats (standard_job_id, country_code, avg_days_to_hire,
			                                 min_days_to_hire, max_days_to_hire, job_postings_count)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			rec.StandardJobID, rec.CountryCode, rec.AvgDays, rec.MinDays, rec.MaxDays, rec.JobPostingsCount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert statistics for %s in %s: %w",
				rec.StandardJobID, rec.Key().Label(), classify(err))
		}
		return nil
	})
}

// GetStats retrieves the statistics row of a job/country pair.
// A nil countryCode only matches the global row. Returns nil when no row exists.
func (db *DB) GetStats(ctx context.Context, standardJobID string, countryCode *string) (*stats.Record, error) {
	var rec stats.Record
	err := db.pool.QueryRow(ctx,
		`SELECT id, standard_job_id, country_code, min_days_to_hire, avg_days_to_hire,
		        max_days_to_hire, job_postings_count
		 FROM days_to_hire_stats
		 WHERE standard_job_id = $1 AND country_code IS NOT DISTINCT FROM $2::text
		 ORDER BY id
		 LIMIT 1`,
		standardJobID, countryCode,
	).Scan(&rec.ID, &rec.StandardJobID, &rec.CountryCode, &rec.MinDays, &rec.AvgDays,
		&rec.MaxDays, &rec.JobPostingsCount)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get statistics: %w", classify(err))
	}
	return &rec, nil
}
