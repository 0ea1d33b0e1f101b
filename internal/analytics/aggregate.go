package analytics

import (
	"sort"
	"time"

	"jobdash/internal/models"
)

// FilterAll is the query-parameter value that disables a filter.
const FilterAll = "All"

// ValueCount is one row of a distribution: a grouped value and the number of
// records carrying it.
type ValueCount struct {
	Value string
	Count int
}

// MonthCount is one calendar month of the posting trend.
type MonthCount struct {
	Month time.Time
	Count int
}

// CompanySizeRow pairs a company with its reported size.
type CompanySizeRow struct {
	Company string
	Size    float64
}

// countValues builds a distribution over values sorted by descending count.
// Ties keep first-encountered order, which also makes the result stable when
// later duplicates are reordered in the input. Empty values are ignored, the
// way a missing cell is.
func countValues(values []string) []ValueCount {
	counts := make(map[string]int, len(values))
	order := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	out := make([]ValueCount, 0, len(order))
	for _, v := range order {
		out = append(out, ValueCount{Value: v, Count: counts[v]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// distribution counts rows grouped by key, optionally restricted to rows
// whose key equals filter. FilterAll or an empty filter keeps every row.
func distribution(rows []models.JobPosting, key func(*models.JobPosting) string, filter string) []ValueCount {
	restrict := filter != "" && filter != FilterAll
	values := make([]string, 0, len(rows))
	for i := range rows {
		v := key(&rows[i])
		if restrict && v != filter {
			continue
		}
		values = append(values, v)
	}
	return countValues(values)
}

// bucketedDistribution buckets a numeric field into spec's bands and counts
// rows per band. An empty table yields an empty result. Otherwise every
// declared label appears in the output, with count zero for bands no row
// landed in, even when labelFilter narrows the counted rows. Output is
// ordered by descending count, then declared band order. The band column is
// computed per call; the shared table is never written.
func bucketedDistribution(rows []models.JobPosting, spec BucketSpec, value func(*models.JobPosting) (float64, bool), labelFilter string) []ValueCount {
	if len(rows) == 0 {
		return nil
	}
	restrict := labelFilter != "" && labelFilter != FilterAll
	counts := make(map[string]int, len(spec.Labels))
	for i := range rows {
		v, ok := value(&rows[i])
		if !ok {
			continue
		}
		label, ok := spec.Label(v)
		if !ok {
			continue
		}
		if restrict && label != labelFilter {
			continue
		}
		counts[label]++
	}

	out := make([]ValueCount, 0, len(spec.Labels))
	for _, label := range spec.Labels {
		out = append(out, ValueCount{Value: label, Count: counts[label]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// monthlyTrend counts rows per posting month, oldest month first. Rows
// without a parsed posting date are excluded.
func monthlyTrend(rows []models.JobPosting) []MonthCount {
	counts := make(map[time.Time]int)
	for i := range rows {
		d := rows[i].PostingDate
		if d == nil {
			continue
		}
		month := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		counts[month]++
	}

	months := make([]time.Time, 0, len(counts))
	for m := range counts {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	out := make([]MonthCount, 0, len(months))
	for _, m := range months {
		out = append(out, MonthCount{Month: m, Count: counts[m]})
	}
	return out
}
