package services

import (
	"context"
	"fmt"

	"github.com/baharkarakas/bank-ledger/internal/cache"
	"github.com/baharkarakas/bank-ledger/internal/models"
	repo "github.com/baharkarakas/bank-ledger/internal/repository"
)

// DirectoryService serves the read-only listings.
type DirectoryService struct {
	users    repo.Users
	accounts repo.Accounts
	projects repo.Projects
	cached   *cache.View[[]models.Project]
}

func NewDirectoryService(u repo.Users, a repo.Accounts, p repo.Projects, cached *cache.View[[]models.Project]) *DirectoryService {
	if cached == nil {
		cached = cache.NewView[[]models.Project](cache.Disabled(), "projects", 0)
	}
	return &DirectoryService{users: u, accounts: a, projects: p, cached: cached}
}

func (s *DirectoryService) Users(ctx context.Context, p PageRequest) (models.Page[models.User], error) {
	total, err := s.users.Count(ctx)
	if err != nil {
		return models.Page[models.User]{}, fmt.Errorf("count users: %w", err)
	}
	var rows []models.User
	if p.Offset() < total {
		if rows, err = s.users.List(ctx, p.Limit, p.Offset()); err != nil {
			return models.Page[models.User]{}, fmt.Errorf("list users: %w", err)
		}
	}
	return NewPage(p, total, rows), nil
}

func (s *DirectoryService) Accounts(ctx context.Context, p PageRequest) (models.Page[models.Account], error) {
	total, err := s.accounts.Count(ctx)
	if err != nil {
		return models.Page[models.Account]{}, fmt.Errorf("count accounts: %w", err)
	}
	var rows []models.Account
	if p.Offset() < total {
		if rows, err = s.accounts.List(ctx, p.Limit, p.Offset()); err != nil {
			return models.Page[models.Account]{}, fmt.Errorf("list accounts: %w", err)
		}
	}
	return NewPage(p, total, rows), nil
}

const allProjectsKey = "all"

func (s *DirectoryService) Projects(ctx context.Context) ([]models.Project, error) {
	return s.cached.Load(ctx, allProjectsKey, func(ctx context.Context) ([]models.Project, error) {
		ps, err := s.projects.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}
		if ps == nil {
			ps = []models.Project{}
		}
		return ps, nil
	})
}
