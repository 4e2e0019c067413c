package user

import (
	"context"
	"fmt"

	"github.com/fintalk/fintalk/pkg/currency"
)

type Service interface {
	Settings(ctx context.Context) (Settings, error)
	SetCurrency(ctx context.Context, code currency.Code) (Settings, error)
	SetSavingsGoal(ctx context.Context, amount float64) (Settings, error)
	// AddSavings moves the user closer to their savings goal.
	AddSavings(ctx context.Context, amount float64) (Settings, error)
}

type ServiceImpl struct {
	repo Repo
}

func NewService(repo Repo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) Settings(ctx context.Context) (Settings, error) {
	userId, err := CurrentId(ctx)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetSettings(ctx, userId)
}

func (s *ServiceImpl) SetCurrency(ctx context.Context, code currency.Code) (Settings, error) {
	return s.updateSettings(ctx, func(settings *Settings) {
		settings.Currency = code
	})
}

func (s *ServiceImpl) SetSavingsGoal(ctx context.Context, amount float64) (Settings, error) {
	return s.updateSettings(ctx, func(settings *Settings) {
		settings.SavingsGoal = amount
	})
}

func (s *ServiceImpl) AddSavings(ctx context.Context, amount float64) (Settings, error) {
	return s.updateSettings(ctx, func(settings *Settings) {
		settings.CurrentSavings += amount
	})
}

func (s *ServiceImpl) updateSettings(ctx context.Context, mutate func(*Settings)) (Settings, error) {
	userId, err := CurrentId(ctx)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to get current user: %w", err)
	}
	settings, err := s.repo.GetSettings(ctx, userId)
	if err != nil {
		return Settings{}, err
	}
	mutate(&settings)
	if err := s.repo.UpdateSettings(ctx, userId, settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}
