// Package batch recomputes the days-to-hire statistics table from raw job postings.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/days-to-hire/internal/logging"
	"github.com/jonathan/days-to-hire/internal/stats"
)

// DefaultMinPostings is the retained-count threshold below which a group is not persisted.
const DefaultMinPostings = 5

// Source enumerates groups and aggregates raw postings.
type Source interface {
	ListJobIDs(ctx context.Context) ([]string, error)
	// ListCountryCodes returns the distinct country codes of raw postings;
	// a nil entry stands for postings without a country.
	ListCountryCodes(ctx context.Context) ([]*string, error)
	ComputeGroupStats(ctx context.Context, key stats.GroupKey) (stats.Aggregate, error)
}

// Sink is the result store. Each call runs in its own transaction.
type Sink interface {
	ClearStats(ctx context.Context) error
	InsertStats(ctx context.Context, rec stats.Record) error
}

// Repository is everything a run needs from the data store.
type Repository interface {
	Source
	Sink
}

// BelowThresholdError reports a group with too few retained postings.
type BelowThresholdError struct {
	Count       int
	MinPostings int
}

func (e *BelowThresholdError) Error() string {
	return fmt.Sprintf("not enough postings: %d < %d", e.Count, e.MinPostings)
}

// Options configures a Calculator.
type Options struct {
	MinPostings int
	Logger      *zap.Logger
	Metrics     *Metrics
}

// Calculator drives one full recomputation: clear the table, then aggregate
// and persist every job/country group one at a time.
type Calculator struct {
	repo        Repository
	minPostings int
	logger      *zap.Logger
	metrics     *Metrics
	now         func() time.Time
}

// New creates a Calculator. A zero MinPostings uses DefaultMinPostings.
func New(repo Repository, opts Options) *Calculator {
	c := &Calculator{
		repo:        repo,
		minPostings: opts.MinPostings,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
		now:         time.Now,
	}
	if c.minPostings <= 0 {
		c.minPostings = DefaultMinPostings
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// MinPostings returns the configured threshold.
func (c *Calculator) MinPostings() int {
	return c.minPostings
}

// Run performs the recomputation. Enumeration and clearing failures are
// returned, as is cancellation of ctx, which stops the run before the next
// group; per-group failures are recorded in the summary.
func (c *Calculator) Run(ctx context.Context) (*Summary, error) {
	summary := newSummary(c.minPostings)
	logger := c.logger.With(zap.String("run_id", summary.RunID.String()))

	logger.Info("starting days to hire statistics calculation", zap.Int("min_postings", c.minPostings))

	jobIDs, err := c.repo.ListJobIDs(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to list job ids: %w", err)
	}
	countries, err := c.repo.ListCountryCodes(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to list country codes: %w", err)
	}
	sort.Strings(jobIDs)
	codes := countryCodes(countries)
	summary.JobIDs = len(jobIDs)
	summary.Countries = len(countries)

	logger.Info("found groups to process",
		zap.Int("job_ids", len(jobIDs)),
		zap.Int("country_codes", len(countries)))

	if err := c.repo.ClearStats(ctx); err != nil {
		return summary, fmt.Errorf("failed to clear existing statistics: %w", err)
	}
	logger.Info("deleted existing statistics")

	for _, jobID := range jobIDs {
		logger.Debug("processing standard job", zap.String("standard_job_id", jobID))

		keys := append([]stats.GroupKey{stats.Global(jobID)}, forCountries(jobID, codes)...)
		for _, key := range keys {
			if err := c.processGroup(ctx, logger, summary, key); err != nil {
				logger.Warn("statistics run interrupted",
					zap.Int("saved", summary.Saved),
					zap.Int("failed", summary.Failed))
				return summary, fmt.Errorf("statistics run interrupted: %w", err)
			}
		}
	}

	c.metrics.finished(float64(c.now().Unix()))
	logSummary(logger, summary)
	return summary, nil
}

func forCountries(jobID string, codes []string) []stats.GroupKey {
	keys := make([]stats.GroupKey, 0, len(codes))
	for _, code := range codes {
		keys = append(keys, stats.ForCountry(jobID, code))
	}
	return keys
}

// processGroup computes and stores one group. It returns an error only when
// ctx is done; a group cut short by cancellation is not booked as a failure.
func (c *Calculator) processGroup(ctx context.Context, logger *zap.Logger, summary *Summary, key stats.GroupKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := c.now()
	fields := []zap.Field{zap.String("standard_job_id", key.StandardJobID), logging.Country(key.CountryCode)}

	outcome, err := c.computeAndSave(ctx, logger, key)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	c.metrics.observe(outcome, c.now().Sub(start).Seconds())

	if err == nil {
		summary.recordSuccess()
		return nil
	}

	summary.recordFailure(key, err)
	var below *BelowThresholdError
	if errors.As(err, &below) {
		logger.Debug(fmt.Sprintf("not enough postings for %s in %s: %d < %d",
			key.StandardJobID, key.Label(), below.Count, below.MinPostings), fields...)
		return nil
	}
	logger.Error("failed to process group", append(fields, zap.Error(err))...)
	return nil
}

func (c *Calculator) computeAndSave(ctx context.Context, logger *zap.Logger, key stats.GroupKey) (string, error) {
	agg, err := c.repo.ComputeGroupStats(ctx, key)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("failed to calculate statistics: %w", err)
	}
	if agg.FilteredCount < c.minPostings {
		return OutcomeBelowThreshold, &BelowThresholdError{Count: agg.FilteredCount, MinPostings: c.minPostings}
	}

	rec := stats.NewRecord(key, agg)
	if err := c.repo.InsertStats(ctx, rec); err != nil {
		return OutcomeFailed, fmt.Errorf("failed to save statistics: %w", err)
	}

	logger.Info("saved statistics",
		zap.String("standard_job_id", key.StandardJobID),
		logging.Country(key.CountryCode),
		zap.Float64("avg_days", agg.AvgDays),
		zap.Float64("min_days", agg.MinDays),
		zap.Float64("max_days", agg.MaxDays),
		zap.Int("count", agg.FilteredCount),
		zap.Int("total_count", agg.TotalCount))
	return OutcomeSaved, nil
}

func logSummary(logger *zap.Logger, summary *Summary) {
	logger.Info("saved statistics records", zap.Int("saved", summary.Saved))
	if summary.Failed == 0 {
		return
	}
	logger.Warn("some groups were not saved", zap.Int("failed", summary.Failed))
	for _, jobID := range summary.FailedJobIDs() {
		logger.Warn("failed combinations",
			zap.String("standard_job_id", jobID),
			zap.Strings("country_codes", summary.FailedGroups[jobID]))
	}
}

// countryCodes drops the null entry (it is covered by the global group) and sorts the rest.
func countryCodes(countries []*string) []string {
	codes := make([]string, 0, len(countries))
	for _, c := range countries {
		if c != nil {
			codes = append(codes, *c)
		}
	}
	sort.Strings(codes)
	return codes
}
