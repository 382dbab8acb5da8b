package health

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Report is the body of GET /api/health.
type Report struct {
	Status   string           `json:"status"`
	Database string           `json:"database"`
	Tables   map[string]int64 `json:"tables,omitempty"`
}

type Service struct {
	repo    *Repository
	log     *zap.Logger
	timeout time.Duration
}

func NewService(repo *Repository, log *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		log:     log.Named("health"),
		timeout: 2 * time.Second,
	}
}

// CheckHealth pings the database and counts rows per table. The report is
// returned even when the check fails.
func (s *Service) CheckHealth(ctx context.Context) (Report, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.repo.Ping(ctx); err != nil {
		s.log.Warn("database ping failed", zap.Error(err))
		return Report{Status: "degraded", Database: "error"}, err
	}

	tables, err := s.repo.TableSizes(ctx)
	if err != nil {
		s.log.Warn("table count failed", zap.Error(err))
		return Report{Status: "degraded", Database: "error"}, err
	}

	return Report{Status: "ok", Database: "ok", Tables: tables}, nil
}
