package budget

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fintalk/fintalk/internal/config"
	"github.com/fintalk/fintalk/internal/utils"
	"github.com/fintalk/fintalk/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	// CurrentPeriod returns the aggregate for the current month, creating
	// it lazily from the configured template.
	CurrentPeriod(ctx context.Context) (*Period, error)
	ApplyNewExpense(ctx context.Context, amount float64, category Category) (*Period, ApplyResult, error)
	// ApplyExpenseChange reverses the old (amount, category) pair fully and
	// then applies the new pair fully - never a differential update.
	ApplyExpenseChange(ctx context.Context, oldAmount float64, oldCategory Category, newAmount float64, newCategory Category) (*Period, ApplyResult, error)
	ReverseExpense(ctx context.Context, amount float64, category Category) (*Period, error)
	SetCategoryLimit(ctx context.Context, category Category, limit float64) (*Period, error)
	SetTotalLimit(ctx context.Context, limit float64) (*Period, error)
	SetLimits(ctx context.Context, limits map[Category]float64, totalLimit *float64) (*Period, error)
	ClearAlerts(ctx context.Context) (*Period, error)
	// ResetPeriod restores the current period to the configured template:
	// template limits, zero spend, no alerts. Logged expense records are
	// not touched.
	ResetPeriod(ctx context.Context) (*Period, error)
}

type ServiceImpl struct {
	repo     Repo
	template config.Budget
	clock    utils.Clock

	// mu guards locks; each period gets its own mutex so that two
	// concurrent mutations of the same aggregate cannot lose a delta.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(repo Repo, template config.Budget, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{
		repo:     repo,
		template: template,
		clock:    clock,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *ServiceImpl) periodLock(userId, month, year int) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := fmt.Sprintf("%d-%d-%d", userId, year, month)
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

func (s *ServiceImpl) CurrentPeriod(ctx context.Context) (*Period, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	now := s.clock.Now()

	lock := s.periodLock(userId, int(now.Month()), now.Year())
	lock.Lock()
	defer lock.Unlock()

	return s.loadOrCreate(ctx, userId)
}

// loadOrCreate must be called with the period lock held.
func (s *ServiceImpl) loadOrCreate(ctx context.Context, userId int) (*Period, error) {
	now := s.clock.Now()
	period, err := s.repo.FindPeriod(ctx, userId, now.Month(), now.Year())
	if err == nil {
		return period, nil
	}
	if !errors.Is(err, ErrPeriodNotFound) {
		return nil, err
	}

	log.Infof("creating budget period %s %d for user %d", now.Month(), now.Year(), userId)
	period = &Period{
		Month:      now.Month(),
		Year:       now.Year(),
		TotalLimit: s.template.TotalLimit,
		Categories: make(map[Category]*CategoryBudget),
		UpdatedAt:  now,
	}
	for name, limit := range s.template.Categories {
		period.Categories[ParseCategory(name)] = &CategoryBudget{Limit: limit}
	}
	if _, err := s.repo.StorePeriod(ctx, userId, period); err != nil {
		return nil, err
	}
	return period, nil
}

// mutate runs one atomic read-modify-write cycle over the current period.
// The ledger mutation and the persistence write are a single unit: when the
// write fails the mutated aggregate is discarded and the error surfaces.
func (s *ServiceImpl) mutate(ctx context.Context, apply func(*Period)) (*Period, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	now := s.clock.Now()

	lock := s.periodLock(userId, int(now.Month()), now.Year())
	lock.Lock()
	defer lock.Unlock()

	period, err := s.loadOrCreate(ctx, userId)
	if err != nil {
		return nil, err
	}
	apply(period)
	if err := s.repo.UpdatePeriod(ctx, userId, period); err != nil {
		return nil, fmt.Errorf("failed to persist budget period: %w", err)
	}
	return period, nil
}

func (s *ServiceImpl) ApplyNewExpense(ctx context.Context, amount float64, category Category) (*Period, ApplyResult, error) {
	var result ApplyResult
	period, err := s.mutate(ctx, func(p *Period) {
		result = p.ApplyExpense(amount, category, s.clock.Now())
	})
	if err != nil {
		return nil, ApplyResult{}, err
	}
	return period, result, nil
}

func (s *ServiceImpl) ApplyExpenseChange(ctx context.Context, oldAmount float64, oldCategory Category, newAmount float64, newCategory Category) (*Period, ApplyResult, error) {
	var result ApplyResult
	period, err := s.mutate(ctx, func(p *Period) {
		now := s.clock.Now()
		p.ReverseExpense(oldAmount, oldCategory, now)
		result = p.ApplyExpense(newAmount, newCategory, now)
	})
	if err != nil {
		return nil, ApplyResult{}, err
	}
	return period, result, nil
}

func (s *ServiceImpl) ReverseExpense(ctx context.Context, amount float64, category Category) (*Period, error) {
	return s.mutate(ctx, func(p *Period) {
		p.ReverseExpense(amount, category, s.clock.Now())
	})
}

func (s *ServiceImpl) SetCategoryLimit(ctx context.Context, category Category, limit float64) (*Period, error) {
	return s.mutate(ctx, func(p *Period) {
		p.SetCategoryLimit(category, limit, s.clock.Now())
	})
}

func (s *ServiceImpl) SetTotalLimit(ctx context.Context, limit float64) (*Period, error) {
	return s.mutate(ctx, func(p *Period) {
		p.SetTotalLimit(limit, s.clock.Now())
	})
}

// SetLimits updates several category limits at once. When totalLimit is
// given it overrides the derived sum, mirroring a single budget update
// request touching both fields.
func (s *ServiceImpl) SetLimits(ctx context.Context, limits map[Category]float64, totalLimit *float64) (*Period, error) {
	return s.mutate(ctx, func(p *Period) {
		now := s.clock.Now()
		for category, limit := range limits {
			p.SetCategoryLimit(category, limit, now)
		}
		if totalLimit != nil {
			p.SetTotalLimit(*totalLimit, now)
		}
	})
}

func (s *ServiceImpl) ClearAlerts(ctx context.Context) (*Period, error) {
	return s.mutate(ctx, func(p *Period) {
		p.ClearAlerts(s.clock.Now())
	})
}

func (s *ServiceImpl) ResetPeriod(ctx context.Context) (*Period, error) {
	return s.mutate(ctx, func(p *Period) {
		p.TotalLimit = s.template.TotalLimit
		p.TotalSpent = 0
		p.Categories = make(map[Category]*CategoryBudget, len(s.template.Categories))
		for name, limit := range s.template.Categories {
			p.Categories[ParseCategory(name)] = &CategoryBudget{Limit: limit}
		}
		p.Alerts = nil
		p.UpdatedAt = s.clock.Now()
	})
}
