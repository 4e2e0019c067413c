package suggestion

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/fintalk/fintalk/pkg/budget"
	"github.com/fintalk/fintalk/pkg/currency"
	"github.com/fintalk/fintalk/pkg/expense"
	"github.com/fintalk/fintalk/pkg/user"
	log "github.com/sirupsen/logrus"
)

// maxSuggestions caps how many suggestions are surfaced at once.
const maxSuggestions = 3

type Service interface {
	// Current recomputes the rule set against the live budget period and
	// filters out suggestions the user has dismissed.
	Current(ctx context.Context) ([]Suggestion, error)
	// Act executes a suggestion and dismisses it. The returned text is the
	// confirmation shown to the user.
	Act(ctx context.Context, id string) (string, error)
	Dismiss(ctx context.Context, id string) error
}

type ServiceImpl struct {
	budgetService  budget.Service
	userService    user.Service
	expenseService expense.Service
	converter      *currency.Converter

	// Dismissals are a per-process UI state, not domain data; they reset
	// on restart and are never persisted.
	mu        sync.Mutex
	dismissed map[int]map[string]bool
}

func NewService(budgetService budget.Service, userService user.Service, expenseService expense.Service, converter *currency.Converter) *ServiceImpl {
	return &ServiceImpl{
		budgetService:  budgetService,
		userService:    userService,
		expenseService: expenseService,
		converter:      converter,
		dismissed:      make(map[int]map[string]bool),
	}
}

func (s *ServiceImpl) Current(ctx context.Context) ([]Suggestion, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	suggestions, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	dismissed := s.dismissed[userId]
	s.mu.Unlock()

	// Cap before filtering: a dismissal shrinks the surfaced trio, it does
	// not pull the next rule in until the rules are recomputed.
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	visible := make([]Suggestion, 0, maxSuggestions)
	for _, suggestion := range suggestions {
		if dismissed[suggestion.Id] {
			continue
		}
		visible = append(visible, suggestion)
	}
	return visible, nil
}

// compute evaluates every rule in priority order against the current
// period and settings. Rules are independent; capping happens in Current.
func (s *ServiceImpl) compute(ctx context.Context) ([]Suggestion, error) {
	period, err := s.budgetService.CurrentPeriod(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.userService.Settings(ctx)
	if err != nil {
		return nil, err
	}
	format := func(amount float64) string {
		return s.converter.Format(amount, settings.Currency)
	}

	var suggestions []Suggestion

	remaining := period.Remaining()
	if remaining > 1000 {
		amount := math.Floor(remaining * 0.3)
		suggestions = append(suggestions, Suggestion{
			Id:      "invest-1",
			Kind:    KindInvestment,
			Amount:  amount,
			Message: fmt.Sprintf("You have %s left this month. Investing 30%% of it (%s) would grow your savings.", format(remaining), format(amount)),
		})
	}

	if food := period.Category(budget.CategoryFood); food.Limit > 0 && food.Spent > 0.7*food.Limit {
		amount := math.Round(food.Spent * 0.2)
		suggestions = append(suggestions, Suggestion{
			Id:      "save-food-1",
			Kind:    KindSavings,
			Amount:  amount,
			Message: fmt.Sprintf("You've used over 70%% of your Food budget. Cutting food spending by 20%% saves about %s.", format(amount)),
		})
	}

	if transport := period.Category(budget.CategoryTransport); transport.Limit > 0 && transport.Spent > 0.6*transport.Limit {
		amount := math.Round(transport.Spent * 0.25)
		suggestions = append(suggestions, Suggestion{
			Id:      "save-transport-1",
			Kind:    KindSavings,
			Amount:  amount,
			Message: fmt.Sprintf("Transport is over 60%% of its limit. Trimming rides by 25%% saves about %s.", format(amount)),
		})
	}

	if gap := settings.SavingsGoal - settings.CurrentSavings; gap > 0 && remaining >= gap {
		suggestions = append(suggestions, Suggestion{
			Id:      "goal-1",
			Kind:    KindGoal,
			Amount:  gap,
			Message: fmt.Sprintf("You're %s away from your savings goal and your remaining budget covers it. Move %s to savings?", format(gap), format(gap)),
		})
	}

	if period.TotalSpent > 0 && period.SpentPercentage() < 50 {
		suggestions = append(suggestions, Suggestion{
			Id:      "celebrate-1",
			Kind:    KindCelebration,
			Message: "Nice work! You've spent less than half of your budget this month.",
		})
	}

	if period.TotalSpent > 0 && period.Category(budget.CategoryInvestment).Spent == 0 {
		suggestions = append(suggestions, Suggestion{
			Id:      "invest-2",
			Kind:    KindInvestment,
			Amount:  500,
			Message: fmt.Sprintf("You haven't invested anything this month. A small SIP of %s is a good start.", format(500)),
		})
	}

	return suggestions, nil
}

func (s *ServiceImpl) Act(ctx context.Context, id string) (string, error) {
	suggestions, err := s.Current(ctx)
	if err != nil {
		return "", err
	}
	var suggestion *Suggestion
	for i := range suggestions {
		if suggestions[i].Id == id {
			suggestion = &suggestions[i]
			break
		}
	}
	if suggestion == nil {
		return "", ErrSuggestionNotFound
	}

	settings, err := s.userService.Settings(ctx)
	if err != nil {
		return "", err
	}
	format := func(amount float64) string {
		return s.converter.Format(amount, settings.Currency)
	}

	var reply string
	switch suggestion.Kind {
	case KindInvestment:
		_, _, _, err := s.expenseService.Log(ctx, expense.Expense{
			Amount:      suggestion.Amount,
			Category:    budget.CategoryInvestment,
			Description: "Suggested investment",
		})
		if err != nil {
			return "", err
		}
		reply = fmt.Sprintf("Done! %s moved to Investment.", format(suggestion.Amount))
	case KindGoal:
		_, _, _, err := s.expenseService.Log(ctx, expense.Expense{
			Amount:      suggestion.Amount,
			Category:    budget.CategoryInvestment,
			Description: "Savings goal contribution",
		})
		if err != nil {
			return "", err
		}
		updated, err := s.userService.AddSavings(ctx, suggestion.Amount)
		if err != nil {
			return "", err
		}
		reply = fmt.Sprintf("Great! %s added to your savings. You're now at %s of your %s goal.",
			format(suggestion.Amount), format(updated.CurrentSavings), format(updated.SavingsGoal))
	case KindSavings:
		reply = "Got it! Keep an eye on that category for the rest of the month."
	case KindCelebration:
		reply = "Keep it up!"
	default:
		return "", fmt.Errorf("unhandled suggestion kind %q", suggestion.Kind)
	}

	if err := s.Dismiss(ctx, id); err != nil {
		log.Errorf("could not dismiss suggestion %s after acting on it: %v", id, err)
	}
	return reply, nil
}

func (s *ServiceImpl) Dismiss(ctx context.Context, id string) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dismissed[userId] == nil {
		s.dismissed[userId] = make(map[string]bool)
	}
	s.dismissed[userId][id] = true
	return nil
}
