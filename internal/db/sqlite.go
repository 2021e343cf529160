package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // registers the sqlite3 dialect
	"github.com/doug-martin/goqu/v9/exp"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/jonathan/days-to-hire/internal/stats"
)

// MemoryPath opens a private in-memory SQLite database.
const MemoryPath = ":memory:"

// SQLiteDB stores postings and statistics in a local SQLite file. SQLite has
// no PERCENTILE_CONT, so a group's durations are fetched and trimmed in Go.
type SQLiteDB struct {
	db     *sql.DB
	gq     *goqu.Database
	logger *zap.Logger
}

// statsRow maps days_to_hire_stats columns for goqu scans
type statsRow struct {
	ID               int64   `db:"id"`
	StandardJobID    string  `db:"standard_job_id"`
	CountryCode      *string `db:"country_code"`
	MinDays          float64 `db:"min_days_to_hire"`
	AvgDays          float64 `db:"avg_days_to_hire"`
	MaxDays          float64 `db:"max_days_to_hire"`
	JobPostingsCount int     `db:"job_postings_count"`
}

// OpenSQLite opens (creating if needed) the SQLite database at path
func OpenSQLite(ctx context.Context, path string, logger *zap.Logger) (*SQLiteDB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	sqlDB, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// Every connection to :memory: is a separate database
	if path == MemoryPath {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", classify(err))
	}

	return &SQLiteDB{
		db:     sqlDB,
		gq:     goqu.New("sqlite3", sqlDB),
		logger: logger,
	}, nil
}

// Close closes the underlying database handle
func (s *SQLiteDB) Close() {
	if err := s.db.Close(); err != nil {
		s.logger.Warn("failed to close sqlite database", zap.Error(err))
	}
}

// Ping checks that the database answers
func (s *SQLiteDB) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping sqlite database: %w", classify(err))
	}
	return nil
}

// Migrate creates the tables used by the service if they do not exist
func (s *SQLiteDB) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", classify(err))
	}
	return nil
}

// nullable turns a nil *string into an untyped nil for NULL binds
func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// withTx runs fn in a transaction begun with ctx, committing on success
func (s *SQLiteDB) withTx(ctx context.Context, fn func(tx *goqu.TxDatabase) error) error {
	tx, err := s.gq.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	return tx.Wrap(func() error { return fn(tx) })
}

func countryCondition(countryCode *string) exp.Expression {
	if countryCode == nil {
		return goqu.C("country_code").IsNull()
	}
	return goqu.C("country_code").Eq(*countryCode)
}

// ListJobIDs returns the distinct standard job ids of all raw postings
func (s *SQLiteDB) ListJobIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.gq.From(TableJobPosting).Prepared(true).
		SelectDistinct("standard_job_id").
		ScanValsContext(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list job ids: %w", classify(err))
	}
	return ids, nil
}

// ListCountryCodes returns the distinct country codes of all raw postings,
// with a nil entry when postings without a country exist
func (s *SQLiteDB) ListCountryCodes(ctx context.Context) ([]*string, error) {
	var raw []sql.NullString
	err := s.gq.From(TableJobPosting).Prepared(true).
		SelectDistinct("country_code").
		ScanValsContext(ctx, &raw)
	if err != nil {
		return nil, fmt.Errorf("failed to list country codes: %w", classify(err))
	}

	codes := make([]*string, 0, len(raw))
	for _, c := range raw {
		if !c.Valid {
			codes = append(codes, nil)
			continue
		}
		code := c.String
		codes = append(codes, &code)
	}
	return codes, nil
}

// ComputeGroupStats fetches one group's positive durations and trims them
func (s *SQLiteDB) ComputeGroupStats(ctx context.Context, key stats.GroupKey) (stats.Aggregate, error) {
	var durations []float64
	err := s.gq.From(TableJobPosting).Prepared(true).
		Select("days_to_hire").
		Where(
			goqu.C("standard_job_id").Eq(key.StandardJobID),
			countryCondition(key.CountryCode),
			goqu.C("days_to_hire").IsNotNull(),
			goqu.C("days_to_hire").Gt(0),
		).
		ScanValsContext(ctx, &durations)
	if err != nil {
		return stats.Aggregate{}, fmt.Errorf("failed to compute statistics for %s in %s: %w",
			key.StandardJobID, key.Label(), classify(err))
	}
	return stats.Trim(durations), nil
}

// ClearStats deletes every statistics row in one transaction
func (s *SQLiteDB) ClearStats(ctx context.Context) error {
	err := s.withTx(ctx, func(tx *goqu.TxDatabase) error {
		_, err := tx.Delete(TableDaysToHireStats).Prepared(true).Executor().ExecContext(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete statistics: %w", classify(err))
	}
	return nil
}

// InsertStats stores one statistics row in its own transaction
func (s *SQLiteDB) InsertStats(ctx context.Context, rec stats.Record) error {
	err := s.withTx(ctx, func(tx *goqu.TxDatabase) error {
		_, err := tx.Insert(TableDaysToHireStats).Prepared(true).
			Rows(goqu.Record{
				"standard_job_id":    rec.StandardJobID,
				"country_code":       nullable(rec.CountryCode),
				"avg_days_to_hire":   rec.AvgDays,
				"min_days_to_hire":   rec.MinDays,
				"max_days_to_hire":   rec.MaxDays,
				"job_postings_count": rec.JobPostingsCount,
			}).
			Executor().ExecContext(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to insert statistics for %s in %s: %w",
			rec.StandardJobID, rec.Key().Label(), classify(err))
	}
	return nil
}

// GetStats retrieves the statistics row of a job/country pair.
// A nil countryCode only matches the global row. Returns nil when no row exists.
func (s *SQLiteDB) GetStats(ctx context.Context, standardJobID string, countryCode *string) (*stats.Record, error) {
	var row statsRow
	found, err := s.gq.From(TableDaysToHireStats).Prepared(true).
		Where(goqu.C("standard_job_id").Eq(standardJobID), countryCondition(countryCode)).
		Order(goqu.C("id").Asc()).
		Limit(1).
		ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("failed to get statistics: %w", classify(err))
	}
	if !found {
		return nil, nil
	}

	return &stats.Record{
		ID:               row.ID,
		StandardJobID:    row.StandardJobID,
		CountryCode:      row.CountryCode,
		MinDays:          row.MinDays,
		AvgDays:          row.AvgDays,
		MaxDays:          row.MaxDays,
		JobPostingsCount: row.JobPostingsCount,
	}, nil
}

// Posting is a raw job posting row
type Posting struct {
	ID            string
	Title         string
	StandardJobID string
	CountryCode   *string
	DaysToHire    *int
}

// InsertPostings adds raw postings in one transaction
func (s *SQLiteDB) InsertPostings(ctx context.Context, postings []Posting) error {
	if len(postings) == 0 {
		return nil
	}
	rows := make([]any, 0, len(postings))
	for _, p := range postings {
		var days any
		if p.DaysToHire != nil {
			days = *p.DaysToHire
		}
		rows = append(rows, goqu.Record{
			"id":              p.ID,
			"title":           p.Title,
			"standard_job_id": p.StandardJobID,
			"country_code":    nullable(p.CountryCode),
			"days_to_hire":    days,
		})
	}
	err := s.withTx(ctx, func(tx *goqu.TxDatabase) error {
		_, err := tx.Insert(TableJobPosting).Prepared(true).Rows(rows...).Executor().ExecContext(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to insert postings: %w", classify(err))
	}
	return nil
}
