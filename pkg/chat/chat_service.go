package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/fintalk/fintalk/pkg/budget"
	"github.com/fintalk/fintalk/pkg/command"
	"github.com/fintalk/fintalk/pkg/currency"
	"github.com/fintalk/fintalk/pkg/expense"
	"github.com/fintalk/fintalk/pkg/user"
	log "github.com/sirupsen/logrus"
)

const helpReply = `Here's what you can say:
- "Spent 250 on lunch" or "Paid 600 for a cab" to log an expense
- "Show budget" to see where you stand this month
- "How much have I spent?" or "Remaining budget" for quick numbers
- "Set food budget to 3000" to change a category limit
- "Set monthly budget to 10000" to change the total budget
- "Save 5000" or "Set savings goal to 5000" for your savings goal
- "Switch to USD" or "Use INR" to change the display currency
- "Show expenses", "Open settings" and friends to move around`

type Service interface {
	// Respond parses one utterance and executes the resulting command.
	Respond(ctx context.Context, text string, entryMethod expense.EntryMethod, confidence int) (Reply, error)
}

type ServiceImpl struct {
	parser         *command.Parser
	budgetService  budget.Service
	userService    user.Service
	expenseService expense.Service
	converter      *currency.Converter
}

func NewService(parser *command.Parser, budgetService budget.Service, userService user.Service, expenseService expense.Service, converter *currency.Converter) *ServiceImpl {
	return &ServiceImpl{
		parser:         parser,
		budgetService:  budgetService,
		userService:    userService,
		expenseService: expenseService,
		converter:      converter,
	}
}

func (s *ServiceImpl) Respond(ctx context.Context, text string, entryMethod expense.EntryMethod, confidence int) (Reply, error) {
	cmd := s.parser.Parse(text)
	log.Debugf("dispatching command type %s", cmd.Type)

	settings, err := s.userService.Settings(ctx)
	if err != nil {
		return Reply{}, err
	}
	format := func(amount float64) string {
		return s.converter.Format(amount, settings.Currency)
	}

	switch cmd.Type {
	case command.TypeNavigate:
		return Reply{Text: fmt.Sprintf("Opening %s...", cmd.Screen), Screen: cmd.Screen}, nil

	case command.TypeSetCurrency:
		code, ok := currency.ParseCode(cmd.Currency)
		if !ok {
			return Reply{Text: fmt.Sprintf("Sorry, %s is not a supported currency. Try INR or USD.", cmd.Currency)}, nil
		}
		if _, err := s.userService.SetCurrency(ctx, code); err != nil {
			return Reply{}, err
		}
		name := "rupees"
		if code == currency.USD {
			name = "dollars"
		}
		return Reply{Text: fmt.Sprintf("Currency switched to %s. Amounts are now shown in %s.", code, name)}, nil

	case command.TypeSetCategoryLimit:
		period, err := s.budgetService.SetCategoryLimit(ctx, cmd.Category, cmd.Limit)
		if err != nil {
			return Reply{}, err
		}
		return Reply{
			Text:   fmt.Sprintf("%s budget set to %s.", cmd.Category, format(cmd.Limit)),
			Period: period,
		}, nil

	case command.TypeSetSavingsGoal:
		if _, err := s.userService.SetSavingsGoal(ctx, cmd.Goal); err != nil {
			return Reply{}, err
		}
		return Reply{Text: fmt.Sprintf("Savings goal set to %s.", format(cmd.Goal))}, nil

	case command.TypeSetTotalBudget:
		period, err := s.budgetService.SetTotalLimit(ctx, cmd.Total)
		if err != nil {
			return Reply{}, err
		}
		return Reply{
			Text:   fmt.Sprintf("Total monthly budget set to %s.", format(cmd.Total)),
			Period: period,
		}, nil

	case command.TypeLogExpense:
		logged, period, result, err := s.expenseService.Log(ctx, expense.Expense{
			Amount:      cmd.Amount,
			Category:    cmd.Category,
			Description: cmd.Description,
			EntryMethod: entryMethod,
			Confidence:  confidence,
		})
		if err != nil {
			return Reply{}, err
		}
		reply := result.Message(format)
		for _, alert := range result.NewAlerts {
			reply += " " + alert.Message
		}
		return Reply{Text: reply, Period: period, Expense: &logged}, nil

	case command.TypeInfo:
		return s.answer(ctx, cmd, format)

	default:
		return Reply{Text: cmd.Message}, nil
	}
}

func (s *ServiceImpl) answer(ctx context.Context, cmd command.Command, format func(float64) string) (Reply, error) {
	switch cmd.Query {
	case command.QueryTotalSpent:
		period, err := s.budgetService.CurrentPeriod(ctx)
		if err != nil {
			return Reply{}, err
		}
		return Reply{
			Text: fmt.Sprintf("You've spent %s this month out of your %s budget.",
				format(period.TotalSpent), format(period.TotalLimit)),
		}, nil

	case command.QueryShowBudget:
		period, err := s.budgetService.CurrentPeriod(ctx)
		if err != nil {
			return Reply{}, err
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Here's your budget for %s %d: %s spent of %s.",
			period.Month, period.Year, format(period.TotalSpent), format(period.TotalLimit))
		for _, category := range budget.Categories() {
			cb := period.Category(category)
			if cb.Limit == 0 && cb.Spent == 0 {
				continue
			}
			fmt.Fprintf(&b, "\n%s: %s of %s", category, format(cb.Spent), format(cb.Limit))
		}
		return Reply{Text: b.String(), Period: period}, nil

	case command.QueryRemaining:
		period, err := s.budgetService.CurrentPeriod(ctx)
		if err != nil {
			return Reply{}, err
		}
		return Reply{
			Text: fmt.Sprintf("You have %s remaining out of your %s budget this month.",
				format(period.Remaining()), format(period.TotalLimit)),
		}, nil

	case command.QueryListExpenses:
		expenses, err := s.expenseService.List(ctx, expense.Filter{Limit: 5})
		if err != nil {
			return Reply{}, err
		}
		if len(expenses) == 0 {
			return Reply{Text: "You haven't logged any expenses yet."}, nil
		}
		var b strings.Builder
		b.WriteString("Here are your recent expenses:")
		for _, e := range expenses {
			fmt.Fprintf(&b, "\n%s - %s - %s", format(e.Amount), e.Category, e.Description)
		}
		return Reply{Text: b.String(), Screen: "expenses"}, nil

	case command.QueryCategorySpent:
		period, err := s.budgetService.CurrentPeriod(ctx)
		if err != nil {
			return Reply{}, err
		}
		cb := period.Category(cmd.Category)
		lowered := strings.ToLower(string(cmd.Category))
		if cb.Limit > 0 {
			return Reply{
				Text: fmt.Sprintf("You've spent %s on %s this month (%d%% of your %s limit).",
					format(cb.Spent), lowered, budget.Percentage(cb.Spent, cb.Limit), format(cb.Limit)),
			}, nil
		}
		return Reply{
			Text: fmt.Sprintf("You've spent %s on %s this month.", format(cb.Spent), lowered),
		}, nil

	case command.QueryHelp:
		return Reply{Text: helpReply}, nil
	}
	return Reply{Text: unknownQueryReply()}, nil
}

func unknownQueryReply() string {
	return `I'm not sure what you're asking. Say "Help" to see what I can do.`
}
