package dataset

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"jobdash/internal/errors"
	"jobdash/internal/models"
)

// ReadJobPostings reads the postings CSV at path into raw records. Rows
// that fail CSV parsing are reported through onErr and skipped; only
// failures of the file itself abort the read.
func ReadJobPostings(path string, onErr func(line int, err error)) ([]models.JobPosting, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open postings file: %w", err)
	}
	defer f.Close()

	return readPostings(f, onErr)
}

func readPostings(r io.Reader, onErr func(line int, err error)) ([]models.JobPosting, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	var line int
	readRec := func() ([]string, error) {
		line++
		return cr.Read()
	}

	hdr, err := readRec()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(hdr))
	for i, h := range hdr {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\uFEFF")
		}
		idx[h] = i
	}

	var postings []models.JobPosting
	for {
		rec, err := readRec()
		if err == io.EOF {
			return postings, nil
		}
		if err != nil {
			var perr *csv.ParseError
			if stderrors.As(err, &perr) {
				if onErr != nil {
					onErr(line, errors.ParseFailure("csv read", err))
				}
				continue
			}
			return postings, fmt.Errorf("csv read: %w", err)
		}

		// Missing columns read as empty strings; short records are
		// tolerated the same way.
		get := func(name string) string {
			i, ok := idx[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		postings = append(postings, models.JobPosting{
			JobID:            get("Job Id"),
			Experience:       get("Experience"),
			Qualifications:   get("Qualifications"),
			SalaryRange:      get("Salary Range"),
			Location:         get("location"),
			Country:          get("Country"),
			WorkType:         get("Work Type"),
			Preference:       get("Preference"),
			ContactPerson:    get("Contact Person"),
			Contact:          get("Contact"),
			JobTitle:         get("Job Title"),
			Role:             get("Role"),
			JobPortal:        get("Job Portal"),
			JobDescription:   get("Job Description"),
			Benefits:         get("Benefits"),
			Skills:           get("skills"),
			Responsibilities: get("Responsibilities"),
			Company:          get("Company"),
			RawProfile:       get("Company Profile"),
			RawLatitude:      get("latitude"),
			RawLongitude:     get("longitude"),
			RawCompanySize:   get("Company Size"),
			RawPostingDate:   get("Job Posting Date"),
		})
	}
}
