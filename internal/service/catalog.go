package service

import (
	"context"

	"github.com/BMSihlas/dataops-greenflow-sage/internal/config"
	apperrors "github.com/BMSihlas/dataops-greenflow-sage/internal/errors"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/model"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/repository"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/util"
)

const (
	DefaultSensorDataLimit = 100
	MaxSensorDataLimit     = 1000
)

// CatalogService serves the read side of the API: insights, sectors, raw
// sensor rows and the paginated companies listing.
type CatalogService struct {
	sensorRepo  repository.SensorRepository
	insightRepo repository.InsightRepository
}

func NewCatalogService(sensorRepo repository.SensorRepository, insightRepo repository.InsightRepository) *CatalogService {
	return &CatalogService{sensorRepo: sensorRepo, insightRepo: insightRepo}
}

func (s *CatalogService) Insights(ctx context.Context) ([]model.SectorInsight, error) {
	insights, err := s.insightRepo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if len(insights) == 0 {
		return nil, apperrors.NotFound("Insights")
	}
	return insights, nil
}

func (s *CatalogService) InsightBySector(ctx context.Context, sector string) (*model.SectorInsight, error) {
	insight, err := s.insightRepo.FindBySector(ctx, sector)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if insight == nil {
		return nil, apperrors.NotFound("Sector")
	}
	return insight, nil
}

func (s *CatalogService) Sectors(ctx context.Context) ([]string, error) {
	sectors, err := s.sensorRepo.DistinctSectors(ctx)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if len(sectors) == 0 {
		return nil, apperrors.NotFound("Sectors")
	}
	return sectors, nil
}

// SensorData returns the most recent limit rows, optionally filtered by
// company and sector. The limit is clamped into [1, MaxSensorDataLimit].
func (s *CatalogService) SensorData(ctx context.Context, limit int, company, sector string) ([]model.SensorRecord, error) {
	if limit <= 0 {
		limit = DefaultSensorDataLimit
	}
	if limit > MaxSensorDataLimit {
		limit = MaxSensorDataLimit
	}

	records, err := s.sensorRepo.FindRecent(ctx, limit, company, sector)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if len(records) == 0 {
		return nil, apperrors.NotFound("Sensor data")
	}
	return records, nil
}

// CompanyQuery carries the raw, unclamped listing parameters.
type CompanyQuery struct {
	Sector   string
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// CompanyPage is one page of the listing plus the pagination bookkeeping the
// dashboard table needs.
type CompanyPage struct {
	Companies  []model.CompanyRow `json:"companies"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
	TotalRows  int                `json:"total_rows"`
}

// Companies returns a sorted page of raw rows with synthetic 1-based row
// numbers. The page is clamped into [1, total_pages].
func (s *CatalogService) Companies(ctx context.Context, q CompanyQuery) (*CompanyPage, error) {
	if q.OrderBy == "" {
		q.OrderBy = "company"
	}
	if !repository.IsOrderColumn(q.OrderBy) {
		return nil, apperrors.InvalidInput("order_by", "unknown column")
	}
	if !util.IsValidOrderDir(q.OrderDir) {
		return nil, apperrors.InvalidInput("order_dir", "must be asc or desc")
	}

	if q.PageSize <= 0 {
		q.PageSize = config.DefaultPageSize
	}
	if q.PageSize > config.MaxPageSize {
		q.PageSize = config.MaxPageSize
	}

	total, err := s.sensorRepo.Count(ctx, q.Sector)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	totalPages := 1
	if total > 0 {
		totalPages = (total + q.PageSize - 1) / q.PageSize
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > totalPages {
		q.Page = totalPages
	}

	rows, err := s.sensorRepo.FindPage(ctx, repository.PageQuery{
		Sector:     q.Sector,
		OrderBy:    q.OrderBy,
		Descending: q.OrderDir == "desc",
		Limit:      q.PageSize,
		Offset:     (q.Page - 1) * q.PageSize,
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	return &CompanyPage{
		Companies:  rows,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages,
		TotalRows:  total,
	}, nil
}
