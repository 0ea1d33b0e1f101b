package models

import (
	"time"
)

// JobPosting is one row of the job descriptions dataset: the raw CSV columns
// plus the derived fields computed during normalization. JSON tags follow the
// source column names so serialized records keep the shape the dashboard
// already consumes; derived pointer fields are nil when the source text had
// no extractable value.
type JobPosting struct {
	JobID            string `json:"Job Id"`
	Experience       string `json:"Experience"`
	Qualifications   string `json:"Qualifications"`
	SalaryRange      string `json:"Salary Range"`
	Location         string `json:"location"`
	Country          string `json:"Country"`
	WorkType         string `json:"Work Type"`
	Preference       string `json:"Preference"`
	ContactPerson    string `json:"Contact Person"`
	Contact          string `json:"Contact"`
	JobTitle         string `json:"Job Title"`
	Role             string `json:"Role"`
	JobPortal        string `json:"Job Portal"`
	JobDescription   string `json:"Job Description"`
	Benefits         string `json:"Benefits"`
	Skills           string `json:"skills"`
	Responsibilities string `json:"Responsibilities"`
	Company          string `json:"Company"`
	RawProfile       string `json:"Company Profile"`

	// Raw text of columns that serialize through their parsed form below.
	RawLatitude    string `json:"-"`
	RawLongitude   string `json:"-"`
	RawCompanySize string `json:"-"`
	RawPostingDate string `json:"-"`

	RecordID           string         `json:"record_id"`
	Latitude           *float64       `json:"latitude"`
	Longitude          *float64       `json:"longitude"`
	CompanySize        *float64       `json:"Company Size"`
	PostingDate        *time.Time     `json:"Job Posting Date"`
	CompanyProfile     map[string]any `json:"Company Profile_Parsed"`
	CompanySector      *string        `json:"Company Sector"`
	MinExperienceYears *int           `json:"Min Experience Years"`
	MinSalaryUSD       *int           `json:"Min Salary USD"`
}
