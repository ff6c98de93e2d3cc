package dashboard

import (
	"fmt"
	"log/slog"
)

type Repository interface {
	GetStats() (*Stats, error)
	GetUsersOverview(limit, offset int) ([]*UserOverview, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetStats() (*Stats, error) {
	stats, err := s.repo.GetStats()
	if err != nil {
		s.logger.Error("failed to load dashboard stats", "error", err)
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return stats, nil
}

func (s *Service) GetUsersOverview(limit, offset int) ([]*UserOverview, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	overview, err := s.repo.GetUsersOverview(limit, offset)
	if err != nil {
		s.logger.Error("failed to load users overview", "error", err)
		return nil, fmt.Errorf("users overview: %w", err)
	}
	return overview, nil
}
