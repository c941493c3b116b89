package service

import (
	"github.com/deppfellow/invoice-dashboard/internal/lib/job"
	"github.com/deppfellow/invoice-dashboard/internal/repository"
	"github.com/deppfellow/invoice-dashboard/internal/server"
)

type Services struct {
	Dashboard *DashboardService
	Reports   *ReportService
	Job       *job.JobService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	dashboard := NewDashboardService(
		s.Logger,
		repos,
		s.Metrics,
		s.Config.Observability.Logging.SlowQueryThreshold,
	)

	return &Services{
		Dashboard: dashboard,
		Reports:   NewReportService(s.Job),
		Job:       s.Job,
	}, nil
}
