package expense

import (
	"context"
	"fmt"
	"math"

	"github.com/fintalk/fintalk/internal/utils"
	"github.com/fintalk/fintalk/pkg/budget"
	"github.com/fintalk/fintalk/pkg/user"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	// Log stores a new expense and credits it to the budget ledger in the
	// same logical step. The returned period is the updated snapshot and
	// the ApplyResult carries the ledger state the confirmation reply is
	// built from; every mutation hands both back so clients can re-render
	// without a second request.
	Log(ctx context.Context, expense Expense) (Expense, *budget.Period, budget.ApplyResult, error)
	Get(ctx context.Context, id string) (Expense, error)
	// Update reverses the stored expense from the ledger and applies the
	// new values, then persists the changed record.
	Update(ctx context.Context, expense Expense) (Expense, *budget.Period, budget.ApplyResult, error)
	Delete(ctx context.Context, id string) (Expense, *budget.Period, error)
	List(ctx context.Context, filter Filter) ([]Expense, error)
	Analytics(ctx context.Context) (Analytics, error)
}

// Analytics summarizes the stored expenses for reporting screens.
type Analytics struct {
	CategoryTotals map[budget.Category]float64
	// MonthlyTrend maps "Jan 2026" style keys to the month's total.
	MonthlyTrend map[string]float64
	Count        int
	Average      float64
}

type ServiceImpl struct {
	repo          Repo
	budgetService budget.Service
	clock         utils.Clock
}

func NewService(repo Repo, budgetService budget.Service, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, budgetService: budgetService, clock: clock}
}

func (s *ServiceImpl) Log(ctx context.Context, expense Expense) (Expense, *budget.Period, budget.ApplyResult, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Expense{}, nil, budget.ApplyResult{}, fmt.Errorf("failed to get current user: %w", err)
	}

	expense.Id = uuid.New().String()
	if expense.Date.IsZero() {
		expense.Date = s.clock.Now()
	}
	if expense.EntryMethod == "" {
		expense.EntryMethod = EntryText
	}
	if err := expense.Validate(); err != nil {
		return Expense{}, nil, budget.ApplyResult{}, err
	}

	if err := s.repo.Store(ctx, userId, expense); err != nil {
		return Expense{}, nil, budget.ApplyResult{}, err
	}

	period, result, err := s.budgetService.ApplyNewExpense(ctx, expense.Amount, expense.Category)
	if err != nil {
		// The record and the ledger move together; undo the insert so a
		// failed ledger write does not leave an uncounted expense behind.
		if deleteErr := s.repo.Delete(ctx, userId, expense.Id); deleteErr != nil {
			log.Errorf("could not roll back expense %s after ledger failure: %v", expense.Id, deleteErr)
		}
		return Expense{}, nil, budget.ApplyResult{}, err
	}
	return expense, period, result, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Expense, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Expense{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.FindById(ctx, userId, id)
}

func (s *ServiceImpl) Update(ctx context.Context, expense Expense) (Expense, *budget.Period, budget.ApplyResult, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Expense{}, nil, budget.ApplyResult{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := expense.Validate(); err != nil {
		return Expense{}, nil, budget.ApplyResult{}, err
	}

	existing, err := s.repo.FindById(ctx, userId, expense.Id)
	if err != nil {
		return Expense{}, nil, budget.ApplyResult{}, err
	}

	expense.Date = existing.Date
	expense.EntryMethod = existing.EntryMethod
	expense.Confidence = existing.Confidence
	if err := s.repo.Update(ctx, userId, expense); err != nil {
		return Expense{}, nil, budget.ApplyResult{}, err
	}

	period, result, err := s.budgetService.ApplyExpenseChange(ctx, existing.Amount, existing.Category, expense.Amount, expense.Category)
	if err != nil {
		if restoreErr := s.repo.Update(ctx, userId, existing); restoreErr != nil {
			log.Errorf("could not roll back expense %s after ledger failure: %v", expense.Id, restoreErr)
		}
		return Expense{}, nil, budget.ApplyResult{}, err
	}
	return expense, period, result, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) (Expense, *budget.Period, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Expense{}, nil, fmt.Errorf("failed to get current user: %w", err)
	}

	existing, err := s.repo.FindById(ctx, userId, id)
	if err != nil {
		return Expense{}, nil, err
	}
	if err := s.repo.Delete(ctx, userId, id); err != nil {
		return Expense{}, nil, err
	}

	period, err := s.budgetService.ReverseExpense(ctx, existing.Amount, existing.Category)
	if err != nil {
		if restoreErr := s.repo.Store(ctx, userId, existing); restoreErr != nil {
			log.Errorf("could not roll back expense %s deletion after ledger failure: %v", id, restoreErr)
		}
		return Expense{}, nil, err
	}
	return existing, period, nil
}

func (s *ServiceImpl) List(ctx context.Context, filter Filter) ([]Expense, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.List(ctx, userId, filter)
}

func (s *ServiceImpl) Analytics(ctx context.Context) (Analytics, error) {
	expenses, err := s.List(ctx, Filter{})
	if err != nil {
		return Analytics{}, err
	}

	analytics := Analytics{
		CategoryTotals: make(map[budget.Category]float64),
		MonthlyTrend:   make(map[string]float64),
		Count:          len(expenses),
	}
	total := 0.0
	for _, expense := range expenses {
		analytics.CategoryTotals[expense.Category] += expense.Amount
		monthKey := expense.Date.Format("Jan 2006")
		analytics.MonthlyTrend[monthKey] += expense.Amount
		total += expense.Amount
	}
	if analytics.Count > 0 {
		analytics.Average = math.Round(total/float64(analytics.Count)*100) / 100
	}
	return analytics, nil
}
