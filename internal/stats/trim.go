package stats

import (
	"math"
	"sort"
)

// Percentile returns the p-th percentile (0 <= p <= 1) of an ascending slice
// using continuous-rank linear interpolation, the same definition as
// PostgreSQL's PERCENTILE_CONT. It returns 0 for an empty slice.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := p * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper || upper >= len(sorted) {
		return sorted[lower]
	}
	weight := rank - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*weight
}

// Trim computes a group's aggregate from raw durations. Non-positive and NaN
// values are dropped first; TotalCount is the number of values that remain.
// Values inside the inclusive [p10, p90] band are retained and averaged.
func Trim(durations []float64) Aggregate {
	values := make([]float64, 0, len(durations))
	for _, d := range durations {
		if math.IsNaN(d) || d <= 0 {
			continue
		}
		values = append(values, d)
	}
	if len(values) == 0 {
		return Aggregate{}
	}
	sort.Float64s(values)

	lower := Percentile(values, LowerPercentile)
	upper := Percentile(values, UpperPercentile)

	var sum float64
	retained := 0
	for _, v := range values {
		if v < lower || v > upper {
			continue
		}
		sum += v
		retained++
	}

	agg := Aggregate{
		MinDays:       lower,
		MaxDays:       upper,
		FilteredCount: retained,
		TotalCount:    len(values),
	}
	if retained > 0 {
		agg.AvgDays = sum / float64(retained)
	}
	return agg
}
