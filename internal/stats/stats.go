// Package stats holds the days-to-hire statistic types and the percentile trim
// used to compute them.
package stats

// GlobalLabel is how the null-country group is reported in logs and summaries.
const GlobalLabel = "global"

// Percentile bounds used for outlier trimming.
const (
	LowerPercentile = 0.10
	UpperPercentile = 0.90
)

// GroupKey identifies one aggregation group. A nil CountryCode is the global
// group, which only covers postings that have no country themselves.
type GroupKey struct {
	StandardJobID string
	CountryCode   *string
}

// Global returns the global group key for a job.
func Global(standardJobID string) GroupKey {
	return GroupKey{StandardJobID: standardJobID}
}

// ForCountry returns the group key for a job in one country.
func ForCountry(standardJobID, countryCode string) GroupKey {
	return GroupKey{StandardJobID: standardJobID, CountryCode: &countryCode}
}

// IsGlobal reports whether the key selects null-country postings.
func (k GroupKey) IsGlobal() bool {
	return k.CountryCode == nil
}

// Label returns the country code, or "global" for the null-country group.
func (k GroupKey) Label() string {
	if k.CountryCode == nil {
		return GlobalLabel
	}
	return *k.CountryCode
}

// Aggregate is the outcome of trimming one group's durations.
// MinDays and MaxDays are the percentile bounds, not the sample extremes.
type Aggregate struct {
	MinDays       float64
	MaxDays       float64
	AvgDays       float64
	FilteredCount int
	TotalCount    int
}

// Record is one persisted row of the days_to_hire_stats table.
type Record struct {
	ID               int64
	StandardJobID    string
	CountryCode      *string
	MinDays          float64
	AvgDays          float64
	MaxDays          float64
	JobPostingsCount int
}

// NewRecord builds the row persisted for a group's aggregate.
func NewRecord(key GroupKey, agg Aggregate) Record {
	return Record{
		StandardJobID:    key.StandardJobID,
		CountryCode:      key.CountryCode,
		MinDays:          agg.MinDays,
		AvgDays:          agg.AvgDays,
		MaxDays:          agg.MaxDays,
		JobPostingsCount: agg.FilteredCount,
	}
}

// Key returns the group key the record belongs to.
func (r Record) Key() GroupKey {
	return GroupKey{StandardJobID: r.StandardJobID, CountryCode: r.CountryCode}
}
