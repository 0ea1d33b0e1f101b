package analytics

import (
	"context"
	"time"

	"jobdash/internal/errors"
	"jobdash/internal/metrics"
	"jobdash/internal/models"
	"jobdash/internal/telemetry"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RowSource hands out the loaded posting table. The slice is shared and
// must be treated as read-only.
type RowSource interface {
	Rows(ctx context.Context) []models.JobPosting
}

// Service answers every dashboard query from an in-memory posting table.
// All methods are pure reads and safe for concurrent use.
type Service struct {
	source RowSource
	logger *zap.Logger
	tracer trace.Tracer
}

func NewService(source RowSource, logger *zap.Logger) *Service {
	tracer := telemetry.GetTracer("jobdash/analytics")
	return &Service{
		source: source,
		logger: logger,
		tracer: tracer,
	}
}

// Sample returns up to limit postings in table order. limit <= 0 means the
// whole table. Unlike the aggregate queries, an empty table is an error
// here so callers can distinguish "nothing loaded" from "no matches".
func (s *Service) Sample(ctx context.Context, limit int) ([]models.JobPosting, error) {
	ctx, span := s.tracer.Start(ctx, "Sample")
	defer span.End()
	defer s.recordQuery("sample", time.Now())

	rows := s.source.Rows(ctx)
	if len(rows) == 0 {
		err := errors.NotReady("posting table is empty")
		span.RecordError(err)
		s.logger.Warn("sample requested but no postings are loaded")
		return nil, err
	}

	if limit <= 0 || limit > len(rows) {
		limit = len(rows)
	}
	span.SetAttributes(telemetry.Int("rows.returned", limit))
	return rows[:limit], nil
}

// WorkTypeDistribution counts postings per work type, optionally
// restricted to a single type.
func (s *Service) WorkTypeDistribution(ctx context.Context, filter string) []ValueCount {
	ctx, span := s.tracer.Start(ctx, "WorkTypeDistribution")
	defer span.End()
	defer s.recordQuery("work_type_distribution", time.Now())

	return distribution(s.source.Rows(ctx), func(p *models.JobPosting) string {
		return p.WorkType
	}, filter)
}

// QualificationDistribution counts postings per qualification, optionally
// restricted to a single qualification.
func (s *Service) QualificationDistribution(ctx context.Context, filter string) []ValueCount {
	ctx, span := s.tracer.Start(ctx, "QualificationDistribution")
	defer span.End()
	defer s.recordQuery("qualification_distribution", time.Now())

	return distribution(s.source.Rows(ctx), func(p *models.JobPosting) string {
		return p.Qualifications
	}, filter)
}

// ExperienceDistribution buckets postings by minimum experience years.
// On a non-empty table every band appears in the output even with the
// filter applied; bands other than the filtered one simply count zero.
func (s *Service) ExperienceDistribution(ctx context.Context, filter string) []ValueCount {
	ctx, span := s.tracer.Start(ctx, "ExperienceDistribution")
	defer span.End()
	defer s.recordQuery("experience_distribution", time.Now())

	return bucketedDistribution(s.source.Rows(ctx), ExperienceBuckets, func(p *models.JobPosting) (float64, bool) {
		return numberField(p, FieldMinExperienceYears)
	}, filter)
}

// SalaryRangeDistribution buckets postings by minimum salary.
func (s *Service) SalaryRangeDistribution(ctx context.Context) []ValueCount {
	ctx, span := s.tracer.Start(ctx, "SalaryRangeDistribution")
	defer span.End()
	defer s.recordQuery("salary_range_distribution", time.Now())

	return bucketedDistribution(s.source.Rows(ctx), SalaryBuckets, func(p *models.JobPosting) (float64, bool) {
		return numberField(p, FieldMinSalaryUSD)
	}, FilterAll)
}

// JobPortalDistribution counts postings per source portal.
func (s *Service) JobPortalDistribution(ctx context.Context) []ValueCount {
	ctx, span := s.tracer.Start(ctx, "JobPortalDistribution")
	defer span.End()
	defer s.recordQuery("job_portal_distribution", time.Now())

	return distribution(s.source.Rows(ctx), func(p *models.JobPosting) string {
		return p.JobPortal
	}, FilterAll)
}

// PostingsTrend counts postings per calendar month, oldest first. Rows
// without a parsed posting date are excluded.
func (s *Service) PostingsTrend(ctx context.Context) []MonthCount {
	ctx, span := s.tracer.Start(ctx, "PostingsTrend")
	defer span.End()
	defer s.recordQuery("job_postings_trend", time.Now())

	return monthlyTrend(s.source.Rows(ctx))
}

// TopCompanies ranks companies by posting count within the fixed
// top-companies filter, descending, capped at limit.
func (s *Service) TopCompanies(ctx context.Context, limit int) []ValueCount {
	ctx, span := s.tracer.Start(ctx, "TopCompanies")
	defer span.End()
	defer s.recordQuery("top_companies", time.Now())

	rows := s.source.Rows(ctx)
	idx := matchRows(rows, topCompaniesFilter)
	if len(idx) == 0 {
		return nil
	}
	span.SetAttributes(telemetry.Int("rows.matched", len(idx)))

	companies := make([]string, 0, len(idx))
	for _, i := range idx {
		companies = append(companies, rows[i].Company)
	}
	ranked := countValues(companies)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// CompanySizesByCompany lists one (company, size) pair per company
// matching the fixed company-size filter. The first matching row wins when
// a company appears more than once.
func (s *Service) CompanySizesByCompany(ctx context.Context) []CompanySizeRow {
	ctx, span := s.tracer.Start(ctx, "CompanySizesByCompany")
	defer span.End()
	defer s.recordQuery("company_sizes", time.Now())

	rows := s.source.Rows(ctx)
	idx := matchRows(rows, companySizeFilter)
	if len(idx) == 0 {
		return nil
	}
	span.SetAttributes(telemetry.Int("rows.matched", len(idx)))

	seen := make(map[string]struct{}, len(idx))
	out := make([]CompanySizeRow, 0, len(idx))
	for _, i := range idx {
		p := &rows[i]
		if _, ok := seen[p.Company]; ok {
			continue
		}
		seen[p.Company] = struct{}{}
		// companySizeFilter admits only rows with a parsed size.
		out = append(out, CompanySizeRow{Company: p.Company, Size: *p.CompanySize})
	}
	return out
}

func (s *Service) recordQuery(name string, start time.Time) {
	labels := metrics.Labels{"query": name}
	metrics.IncCounter("jobdash_queries_total", 1, labels)
	metrics.ObserveHistogram("jobdash_query_duration_seconds", time.Since(start).Seconds(), labels)
}
