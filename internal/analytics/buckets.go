package analytics

import "math"

// BucketSpec defines an ordered set of labeled numeric bands over
// consecutive boundary pairs. RightClosed selects (lo, hi] intervals,
// otherwise [lo, hi) is used; Bounds has one more entry than Labels.
type BucketSpec struct {
	Bounds      []float64
	Labels      []string
	RightClosed bool
}

// ExperienceBuckets bands minimum experience years, upper bound inclusive.
var ExperienceBuckets = BucketSpec{
	Bounds:      []float64{-1, 2, 5, 10, math.Inf(1)},
	Labels:      []string{"0-2 Years", "3-5 Years", "6-10 Years", "10+ Years"},
	RightClosed: true,
}

// SalaryBuckets bands minimum salary in USD, lower bound inclusive.
var SalaryBuckets = BucketSpec{
	Bounds:      []float64{0, 50000, 75000, 100000, 125000, 150000, math.Inf(1)},
	Labels:      []string{"$0-$50K", "$50K-$75K", "$75K-$100K", "$100K-$125K", "$125K-$150K", "$150K+"},
	RightClosed: false,
}

// Label returns the band containing v, or ok=false when v falls outside
// every band.
func (s BucketSpec) Label(v float64) (string, bool) {
	for i := range s.Labels {
		lo, hi := s.Bounds[i], s.Bounds[i+1]
		if s.RightClosed {
			if v > lo && v <= hi {
				return s.Labels[i], true
			}
		} else {
			if v >= lo && v < hi {
				return s.Labels[i], true
			}
		}
	}
	return "", false
}
