package api

import (
	"net/http"

	"jobdash/internal/analytics"
	"jobdash/internal/config"
	"jobdash/internal/dataset"
	"jobdash/internal/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const topCompaniesLimit = 10

// Handler serves the dashboard API. All endpoints are read-only GETs; the
// response element shapes are fixed by the charts consuming them.
type Handler struct {
	analytics   *analytics.Service
	store       *dataset.Store
	logger      *zap.Logger
	sampleLimit int
}

func NewHandler(svc *analytics.Service, store *dataset.Store, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		analytics:   svc,
		store:       store,
		logger:      logger,
		sampleLimit: cfg.SampleLimit,
	}
}

// Health reports liveness and table state without triggering a load.
func (h *Handler) Health(c *gin.Context) {
	rows, loaded := h.store.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"loaded":  loaded,
		"records": len(rows),
	})
}

// JobData returns a bounded sample of normalized postings.
func (h *Handler) JobData(c *gin.Context) {
	rows, err := h.analytics.Sample(c.Request.Context(), h.sampleLimit)
	if err != nil {
		if errors.IsType(err, errors.ErrTypeNotReady) {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Data not loaded or processed yet."})
			return
		}
		h.logger.Error("sample query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

type nameCountRow struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func (h *Handler) WorkTypeDistribution(c *gin.Context) {
	filter := c.DefaultQuery("workType", analytics.FilterAll)
	dist := h.analytics.WorkTypeDistribution(c.Request.Context(), filter)

	out := make([]nameCountRow, 0, len(dist))
	for _, vc := range dist {
		out = append(out, nameCountRow{Name: vc.Value, Count: vc.Count})
	}
	c.JSON(http.StatusOK, out)
}

type qualificationRow struct {
	Qualification string `json:"qualification"`
	Count         int    `json:"count"`
}

func (h *Handler) QualificationDistribution(c *gin.Context) {
	filter := c.DefaultQuery("qualification", analytics.FilterAll)
	dist := h.analytics.QualificationDistribution(c.Request.Context(), filter)

	out := make([]qualificationRow, 0, len(dist))
	for _, vc := range dist {
		out = append(out, qualificationRow{Qualification: vc.Value, Count: vc.Count})
	}
	c.JSON(http.StatusOK, out)
}

type levelCountRow struct {
	Level string `json:"level"`
	Count int    `json:"count"`
}

func (h *Handler) ExperienceDistribution(c *gin.Context) {
	filter := c.DefaultQuery("experience", analytics.FilterAll)
	dist := h.analytics.ExperienceDistribution(c.Request.Context(), filter)

	out := make([]levelCountRow, 0, len(dist))
	for _, vc := range dist {
		out = append(out, levelCountRow{Level: vc.Value, Count: vc.Count})
	}
	c.JSON(http.StatusOK, out)
}

type rangeCountRow struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

func (h *Handler) SalaryRangeDistribution(c *gin.Context) {
	dist := h.analytics.SalaryRangeDistribution(c.Request.Context())

	out := make([]rangeCountRow, 0, len(dist))
	for _, vc := range dist {
		out = append(out, rangeCountRow{Range: vc.Value, Count: vc.Count})
	}
	c.JSON(http.StatusOK, out)
}

type nameValueRow struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func (h *Handler) JobPortalDistribution(c *gin.Context) {
	dist := h.analytics.JobPortalDistribution(c.Request.Context())

	out := make([]nameValueRow, 0, len(dist))
	for _, vc := range dist {
		out = append(out, nameValueRow{Name: vc.Value, Value: vc.Count})
	}
	c.JSON(http.StatusOK, out)
}

type trendRow struct {
	Month    string `json:"month"`
	Postings int    `json:"postings"`
}

func (h *Handler) PostingsTrend(c *gin.Context) {
	trend := h.analytics.PostingsTrend(c.Request.Context())

	out := make([]trendRow, 0, len(trend))
	for _, mc := range trend {
		out = append(out, trendRow{Month: mc.Month.Format("Jan 2006"), Postings: mc.Count})
	}
	c.JSON(http.StatusOK, out)
}

type companyCountRow struct {
	Company string `json:"Company"`
	Count   int    `json:"Count"`
}

func (h *Handler) TopCompanies(c *gin.Context) {
	ranked := h.analytics.TopCompanies(c.Request.Context(), topCompaniesLimit)

	out := make([]companyCountRow, 0, len(ranked))
	for _, vc := range ranked {
		out = append(out, companyCountRow{Company: vc.Value, Count: vc.Count})
	}
	c.JSON(http.StatusOK, out)
}

type companySizeRow struct {
	Company string  `json:"Company"`
	Size    float64 `json:"Company Size"`
}

func (h *Handler) CompanySizes(c *gin.Context) {
	pairs := h.analytics.CompanySizesByCompany(c.Request.Context())

	out := make([]companySizeRow, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, companySizeRow{Company: p.Company, Size: p.Size})
	}
	c.JSON(http.StatusOK, out)
}
