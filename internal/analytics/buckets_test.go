package analytics

import "testing"

func TestExperienceBuckets_Label(t *testing.T) {
	cases := []struct {
		value float64
		want  string
		ok    bool
	}{
		{0, "0-2 Years", true},
		{2, "0-2 Years", true},
		{3, "3-5 Years", true},
		{5, "3-5 Years", true},
		{6, "6-10 Years", true},
		{10, "6-10 Years", true},
		{11, "10+ Years", true},
		{250, "10+ Years", true},
		{-1, "", false},
		{-3, "", false},
	}
	for _, tc := range cases {
		got, ok := ExperienceBuckets.Label(tc.value)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("Label(%v) = %q, %v; want %q, %v", tc.value, got, ok, tc.want, tc.ok)
		}
	}
}

func TestSalaryBuckets_Label(t *testing.T) {
	cases := []struct {
		value float64
		want  string
		ok    bool
	}{
		{0, "$0-$50K", true},
		{49999, "$0-$50K", true},
		{50000, "$50K-$75K", true},
		{74999, "$50K-$75K", true},
		{75000, "$75K-$100K", true},
		{100000, "$100K-$125K", true},
		{125000, "$125K-$150K", true},
		{150000, "$150K+", true},
		{900000, "$150K+", true},
		{-1, "", false},
	}
	for _, tc := range cases {
		got, ok := SalaryBuckets.Label(tc.value)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("Label(%v) = %q, %v; want %q, %v", tc.value, got, ok, tc.want, tc.ok)
		}
	}
}

func TestBucketSpec_BoundaryConventionsDiffer(t *testing.T) {
	// 10 sits inside "6-10 Years" because experience bands close on the
	// upper bound; 50000 opens "$50K-$75K" because salary bands close on
	// the lower one.
	if got, _ := ExperienceBuckets.Label(10); got != "6-10 Years" {
		t.Fatalf("experience 10: expected %q, got %q", "6-10 Years", got)
	}
	if got, _ := SalaryBuckets.Label(50000); got != "$50K-$75K" {
		t.Fatalf("salary 50000: expected %q, got %q", "$50K-$75K", got)
	}
}
