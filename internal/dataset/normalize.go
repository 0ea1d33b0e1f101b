package dataset

import (
	"github.com/google/uuid"

	"jobdash/internal/extract"
	"jobdash/internal/models"
)

func recordIDFromJobID(id string) string {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(id)).String()
}

// normalize derives the parsed columns of a posting from its raw fields.
// Extraction failures leave the corresponding pointer nil; the raw text is
// kept either way.
func normalize(p *models.JobPosting) {
	p.RecordID = recordIDFromJobID(p.JobID)

	p.CompanyProfile = extract.ParseCompanyProfile(p.RawProfile)
	if sector, ok := p.CompanyProfile["Sector"].(string); ok {
		p.CompanySector = &sector
	}

	if years, ok := extract.ExtractMinExperience(p.Experience); ok {
		p.MinExperienceYears = &years
	}
	if salary, ok := extract.ExtractMinSalary(p.SalaryRange); ok {
		p.MinSalaryUSD = &salary
	}
	if date, ok := extract.ParsePostingDate(p.RawPostingDate); ok {
		p.PostingDate = &date
	}
	if lat, ok := extract.ParseNumber(p.RawLatitude); ok {
		p.Latitude = &lat
	}
	if lon, ok := extract.ParseNumber(p.RawLongitude); ok {
		p.Longitude = &lon
	}
	if size, ok := extract.ParseNumber(p.RawCompanySize); ok {
		p.CompanySize = &size
	}
}
