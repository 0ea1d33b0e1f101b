package analytics

import (
	"testing"
	"time"

	"jobdash/internal/models"
)

// topCompaniesRow satisfies every predicate of topCompaniesFilter.
func topCompaniesRow(company string) models.JobPosting {
	return models.JobPosting{
		Role:           "Data Engineer",
		JobTitle:       "Data Scientist",
		Preference:     "Female",
		Qualifications: "B.Tech",
		Country:        "Brazil",
		Company:        company,
		Latitude:       floatPtr(-23.5),
		PostingDate:    datePtr(2023, time.March, 15),
	}
}

// companySizeRow satisfies every predicate of companySizeFilter.
func companySizeRow(company string, size float64) models.JobPosting {
	return models.JobPosting{
		JobTitle:           "Mechanical Engineer",
		Preference:         "Male",
		Country:            "Japan",
		WorkType:           "Full-Time",
		JobPortal:          "Idealist",
		Company:            company,
		CompanySize:        floatPtr(size),
		MinExperienceYears: intPtr(6),
		MinSalaryUSD:       intPtr(60000),
	}
}

func TestTopCompaniesFilter_AcceptsQualifyingRow(t *testing.T) {
	row := topCompaniesRow("Acme")
	if !matches(&row, topCompaniesFilter) {
		t.Fatalf("expected qualifying row to match")
	}
}

func TestTopCompaniesFilter_EachPredicateExcludes(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.JobPosting)
	}{
		{"role mismatch", func(p *models.JobPosting) { p.Role = "Data Scientist" }},
		{"title mismatch", func(p *models.JobPosting) { p.JobTitle = "Data Engineer" }},
		{"preference mismatch", func(p *models.JobPosting) { p.Preference = "Male" }},
		{"qualification mismatch", func(p *models.JobPosting) { p.Qualifications = "M.Tech" }},
		{"asian country", func(p *models.JobPosting) { p.Country = "India" }},
		{"country starts with C", func(p *models.JobPosting) { p.Country = "Chile" }},
		{"latitude too high", func(p *models.JobPosting) { p.Latitude = floatPtr(11) }},
		{"latitude at bound", func(p *models.JobPosting) { p.Latitude = floatPtr(10) }},
		{"latitude missing", func(p *models.JobPosting) { p.Latitude = nil }},
		{"date before window", func(p *models.JobPosting) { p.PostingDate = datePtr(2022, time.December, 31) }},
		{"date after window", func(p *models.JobPosting) { p.PostingDate = datePtr(2023, time.June, 2) }},
		{"date missing", func(p *models.JobPosting) { p.PostingDate = nil }},
	}
	for _, tc := range cases {
		row := topCompaniesRow("Acme")
		tc.mutate(&row)
		if matches(&row, topCompaniesFilter) {
			t.Fatalf("%s: expected row to be excluded", tc.name)
		}
	}
}

func TestTopCompaniesFilter_DateWindowIsInclusive(t *testing.T) {
	first := topCompaniesRow("Acme")
	first.PostingDate = datePtr(2023, time.January, 1)
	last := topCompaniesRow("Acme")
	last.PostingDate = datePtr(2023, time.June, 1)

	if !matches(&first, topCompaniesFilter) {
		t.Fatalf("expected window start date to match")
	}
	if !matches(&last, topCompaniesFilter) {
		t.Fatalf("expected window end date to match")
	}
}

func TestCompanySizeFilter_AcceptsQualifyingRow(t *testing.T) {
	row := companySizeRow("Initech", 30000)
	if !matches(&row, companySizeFilter) {
		t.Fatalf("expected qualifying row to match")
	}
}

func TestCompanySizeFilter_EachPredicateExcludes(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.JobPosting)
	}{
		{"size at bound", func(p *models.JobPosting) { p.CompanySize = floatPtr(50000) }},
		{"size missing", func(p *models.JobPosting) { p.CompanySize = nil }},
		{"title mismatch", func(p *models.JobPosting) { p.JobTitle = "Civil Engineer" }},
		{"experience at bound", func(p *models.JobPosting) { p.MinExperienceYears = intPtr(5) }},
		{"experience missing", func(p *models.JobPosting) { p.MinExperienceYears = nil }},
		{"non-asian country", func(p *models.JobPosting) { p.Country = "Brazil" }},
		{"salary at bound", func(p *models.JobPosting) { p.MinSalaryUSD = intPtr(50000) }},
		{"salary missing", func(p *models.JobPosting) { p.MinSalaryUSD = nil }},
		{"work type mismatch", func(p *models.JobPosting) { p.WorkType = "Contract" }},
		{"preference mismatch", func(p *models.JobPosting) { p.Preference = "Female" }},
		{"portal mismatch", func(p *models.JobPosting) { p.JobPortal = "LinkedIn" }},
	}
	for _, tc := range cases {
		row := companySizeRow("Initech", 30000)
		tc.mutate(&row)
		if matches(&row, companySizeFilter) {
			t.Fatalf("%s: expected row to be excluded", tc.name)
		}
	}
}

func TestCompanySizeFilter_AcceptsPartTime(t *testing.T) {
	row := companySizeRow("Initech", 30000)
	row.WorkType = "Part-Time"
	if !matches(&row, companySizeFilter) {
		t.Fatalf("expected part-time row to match")
	}
}

func TestMatchRows_KeepsTableOrder(t *testing.T) {
	rows := []models.JobPosting{
		topCompaniesRow("First"),
		companySizeRow("Other", 10),
		topCompaniesRow("Second"),
	}
	idx := matchRows(rows, topCompaniesFilter)
	if len(idx) != 2 || idx[0] != 0 || idx[1] != 2 {
		t.Fatalf("expected [0 2], got %v", idx)
	}
}

func TestMatchRows_NoMatchesReturnsEmpty(t *testing.T) {
	rows := []models.JobPosting{companySizeRow("Other", 10)}
	if idx := matchRows(rows, topCompaniesFilter); len(idx) != 0 {
		t.Fatalf("expected no matches, got %v", idx)
	}
}

func TestPredicate_PrefixKindsAreComplementary(t *testing.T) {
	prefix := Predicate{Kind: KindPrefix, Field: FieldCountry, Value: "C"}
	prefixNot := Predicate{Kind: KindPrefixNot, Field: FieldCountry, Value: "C"}

	for _, tc := range []struct {
		country string
		starts  bool
	}{
		{"Canada", true},
		{"Chile", true},
		{"Japan", false},
		{"", false},
	} {
		row := models.JobPosting{Country: tc.country}
		if got := prefix.matchOne(&row); got != tc.starts {
			t.Fatalf("%q: prefix matched %v, want %v", tc.country, got, tc.starts)
		}
		if got := prefixNot.matchOne(&row); got == tc.starts {
			t.Fatalf("%q: negated prefix matched %v, want %v", tc.country, got, !tc.starts)
		}
	}
}

func TestAsianCountrySet_MembershipSamples(t *testing.T) {
	for _, c := range []string{"India", "Japan", "Turkey", "Timor-Leste", "United Arab Emirates"} {
		if _, ok := asianCountries[c]; !ok {
			t.Fatalf("expected %q in set", c)
		}
	}
	for _, c := range []string{"Brazil", "Egypt", "australia", "india"} {
		if _, ok := asianCountries[c]; ok {
			t.Fatalf("expected %q not in set", c)
		}
	}
}
