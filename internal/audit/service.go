package audit

import (
	"log/slog"

	internal "github.com/frahmantamala/hrms-backend/internal"
)

// QueryRepository reads the audit trail for one organisation.
type QueryRepository interface {
	List(orgID string, filters Filters, limit, offset int) ([]ListItem, error)
	Count(orgID string, filters Filters) (int64, error)
	ActionStats(orgID string, filters Filters) ([]ActionCount, error)
	ResourceStats(orgID string, filters Filters) ([]ResourceCount, error)
	DailyActivity(orgID string, filters Filters, days int) ([]DailyCount, error)
}

const (
	defaultPage  = 1
	defaultLimit = 50

	// daily activity window, in distinct days
	activityDays = 30
)

// Service answers audit queries. It never writes; the Recorder owns inserts.
type Service struct {
	repo   QueryRepository
	logger *slog.Logger
}

func NewService(repo QueryRepository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetLogs(orgID string, filters Filters, page, limit int) (*ListResponse, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	offset := (page - 1) * limit

	total, err := s.repo.Count(orgID, filters)
	if err != nil {
		s.logger.Error("failed to count audit logs", "error", err, "organisation_id", orgID)
		return nil, internal.NewInternalError("Failed to fetch audit logs", err)
	}

	logs, err := s.repo.List(orgID, filters, limit, offset)
	if err != nil {
		s.logger.Error("failed to list audit logs", "error", err, "organisation_id", orgID)
		return nil, internal.NewInternalError("Failed to fetch audit logs", err)
	}

	if logs == nil {
		logs = []ListItem{}
	}

	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}

	return &ListResponse{
		Logs: logs,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	}, nil
}

func (s *Service) GetStats(orgID string, filters Filters) (*StatsResponse, error) {
	actions, err := s.repo.ActionStats(orgID, filters)
	if err != nil {
		s.logger.Error("failed to fetch action stats", "error", err, "organisation_id", orgID)
		return nil, internal.NewInternalError("Failed to fetch audit statistics", err)
	}

	resources, err := s.repo.ResourceStats(orgID, filters)
	if err != nil {
		s.logger.Error("failed to fetch resource stats", "error", err, "organisation_id", orgID)
		return nil, internal.NewInternalError("Failed to fetch audit statistics", err)
	}

	daily, err := s.repo.DailyActivity(orgID, filters, activityDays)
	if err != nil {
		s.logger.Error("failed to fetch daily activity", "error", err, "organisation_id", orgID)
		return nil, internal.NewInternalError("Failed to fetch audit statistics", err)
	}

	if actions == nil {
		actions = []ActionCount{}
	}
	if resources == nil {
		resources = []ResourceCount{}
	}
	if daily == nil {
		daily = []DailyCount{}
	}

	return &StatsResponse{
		ActionStats:   actions,
		ResourceStats: resources,
		DailyActivity: daily,
	}, nil
}
