package analytics

import (
	"strings"
	"time"

	"jobdash/internal/models"
)

// Field identifies a record attribute a predicate can test.
type Field int

const (
	FieldRole Field = iota
	FieldJobTitle
	FieldPreference
	FieldQualifications
	FieldCountry
	FieldWorkType
	FieldJobPortal
	FieldLatitude
	FieldCompanySize
	FieldMinExperienceYears
	FieldMinSalaryUSD
	FieldPostingDate
)

// PredicateKind tags the comparison a Predicate applies.
type PredicateKind int

const (
	KindEquals PredicateKind = iota
	KindIn
	KindNotIn
	KindLessThan
	KindGreaterThan
	KindPrefix
	KindPrefixNot
	KindDateRange
)

// Predicate is one conjunct of a fixed row filter. Only the members its
// kind reads are set: Value for equality and prefix kinds, Values for set
// membership, Number for comparisons, From/To for inclusive date ranges.
type Predicate struct {
	Kind   PredicateKind
	Field  Field
	Value  string
	Values map[string]struct{}
	Number float64
	From   time.Time
	To     time.Time
}

// matches reports whether the record satisfies every predicate. Comparison
// and date-range predicates fail when the record's field is absent; string
// fields are never absent, at worst empty.
func matches(p *models.JobPosting, preds []Predicate) bool {
	for _, pr := range preds {
		if !pr.matchOne(p) {
			return false
		}
	}
	return true
}

func (pr Predicate) matchOne(p *models.JobPosting) bool {
	switch pr.Kind {
	case KindEquals:
		return stringField(p, pr.Field) == pr.Value
	case KindIn:
		_, ok := pr.Values[stringField(p, pr.Field)]
		return ok
	case KindNotIn:
		_, ok := pr.Values[stringField(p, pr.Field)]
		return !ok
	case KindLessThan:
		v, ok := numberField(p, pr.Field)
		return ok && v < pr.Number
	case KindGreaterThan:
		v, ok := numberField(p, pr.Field)
		return ok && v > pr.Number
	case KindPrefix:
		return strings.HasPrefix(stringField(p, pr.Field), pr.Value)
	case KindPrefixNot:
		return !strings.HasPrefix(stringField(p, pr.Field), pr.Value)
	case KindDateRange:
		t, ok := dateField(p, pr.Field)
		return ok && !t.Before(pr.From) && !t.After(pr.To)
	}
	return false
}

// matchRows returns the indices of rows satisfying every predicate, in
// table order.
func matchRows(rows []models.JobPosting, preds []Predicate) []int {
	var idx []int
	for i := range rows {
		if matches(&rows[i], preds) {
			idx = append(idx, i)
		}
	}
	return idx
}

func stringField(p *models.JobPosting, f Field) string {
	switch f {
	case FieldRole:
		return p.Role
	case FieldJobTitle:
		return p.JobTitle
	case FieldPreference:
		return p.Preference
	case FieldQualifications:
		return p.Qualifications
	case FieldCountry:
		return p.Country
	case FieldWorkType:
		return p.WorkType
	case FieldJobPortal:
		return p.JobPortal
	}
	return ""
}

func numberField(p *models.JobPosting, f Field) (float64, bool) {
	switch f {
	case FieldLatitude:
		if p.Latitude != nil {
			return *p.Latitude, true
		}
	case FieldCompanySize:
		if p.CompanySize != nil {
			return *p.CompanySize, true
		}
	case FieldMinExperienceYears:
		if p.MinExperienceYears != nil {
			return float64(*p.MinExperienceYears), true
		}
	case FieldMinSalaryUSD:
		if p.MinSalaryUSD != nil {
			return float64(*p.MinSalaryUSD), true
		}
	}
	return 0, false
}

func dateField(p *models.JobPosting, f Field) (time.Time, bool) {
	if f == FieldPostingDate && p.PostingDate != nil {
		return *p.PostingDate, true
	}
	return time.Time{}, false
}

func stringSet(values ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// asianCountries is the fixed country set both dashboard filters test
// against.
var asianCountries = stringSet(
	"Afghanistan", "Armenia", "Azerbaijan", "Bahrain", "Bangladesh", "Bhutan",
	"Brunei", "Cambodia", "China", "Cyprus", "Georgia", "India", "Indonesia",
	"Iran", "Iraq", "Israel", "Japan", "Jordan", "Kazakhstan", "Kuwait",
	"Kyrgyzstan", "Laos", "Lebanon", "Malaysia", "Maldives", "Mongolia",
	"Myanmar", "Nepal", "North Korea", "Oman", "Pakistan", "Palestine",
	"Philippines", "Qatar", "Russia", "Saudi Arabia", "Singapore",
	"South Korea", "Sri Lanka", "Syria", "Taiwan", "Tajikistan", "Thailand",
	"Timor-Leste", "Turkey", "Turkmenistan", "United Arab Emirates",
	"Uzbekistan", "Vietnam", "Yemen",
)

// topCompaniesFilter feeds the top-companies ranking: Data Scientist titles
// under the Data Engineer role with female preference and a B.Tech
// qualification, posted between 2023-01-01 and 2023-06-01 inclusive from a
// latitude below 10, in countries outside the Asian set whose names do not
// start with "C".
var topCompaniesFilter = []Predicate{
	{Kind: KindEquals, Field: FieldRole, Value: "Data Engineer"},
	{Kind: KindEquals, Field: FieldJobTitle, Value: "Data Scientist"},
	{Kind: KindEquals, Field: FieldPreference, Value: "Female"},
	{Kind: KindEquals, Field: FieldQualifications, Value: "B.Tech"},
	{Kind: KindNotIn, Field: FieldCountry, Values: asianCountries},
	{Kind: KindPrefixNot, Field: FieldCountry, Value: "C"},
	{Kind: KindLessThan, Field: FieldLatitude, Number: 10},
	{
		Kind:  KindDateRange,
		Field: FieldPostingDate,
		From:  time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:    time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC),
	},
}

// companySizeFilter feeds the company-size listing: companies under 50000
// headcount in the Asian set hiring Mechanical Engineers with more than five
// years minimum experience and a minimum salary over $50K, part or full
// time, male preference, posted on the Idealist portal.
var companySizeFilter = []Predicate{
	{Kind: KindLessThan, Field: FieldCompanySize, Number: 50000},
	{Kind: KindEquals, Field: FieldJobTitle, Value: "Mechanical Engineer"},
	{Kind: KindGreaterThan, Field: FieldMinExperienceYears, Number: 5},
	{Kind: KindIn, Field: FieldCountry, Values: asianCountries},
	{Kind: KindGreaterThan, Field: FieldMinSalaryUSD, Number: 50000},
	{Kind: KindIn, Field: FieldWorkType, Values: stringSet("Part-Time", "Full-Time")},
	{Kind: KindEquals, Field: FieldPreference, Value: "Male"},
	{Kind: KindEquals, Field: FieldJobPortal, Value: "Idealist"},
}
