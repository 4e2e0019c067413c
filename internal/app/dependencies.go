package app

import (
	"database/sql"

	"github.com/fintalk/fintalk/internal/config"
	"github.com/fintalk/fintalk/internal/utils"
	"github.com/fintalk/fintalk/pkg/budget"
	"github.com/fintalk/fintalk/pkg/chat"
	"github.com/fintalk/fintalk/pkg/command"
	"github.com/fintalk/fintalk/pkg/currency"
	"github.com/fintalk/fintalk/pkg/expense"
	"github.com/fintalk/fintalk/pkg/suggestion"
	"github.com/fintalk/fintalk/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock     utils.Clock
	Converter *currency.Converter
	Parser    *command.Parser

	UserRepo    user.Repo
	UserService user.Service
	UserHandler *user.Handler

	BudgetRepo    budget.Repo
	BudgetService budget.Service
	BudgetHandler *budget.Handler

	ExpenseRepo    expense.Repo
	ExpenseService expense.Service
	ExpenseHandler *expense.Handler

	SuggestionService suggestion.Service
	SuggestionHandler *suggestion.Handler

	ChatService chat.Service
	ChatHandler *chat.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.Converter = currency.NewConverter(cfg.Currency.Rate)
	deps.Parser = command.NewParser()

	defaultCurrency, ok := currency.ParseCode(cfg.Currency.Default)
	if !ok {
		defaultCurrency = currency.INR
	}
	deps.UserRepo = user.NewRepo(db, defaultCurrency)
	deps.UserService = user.NewService(deps.UserRepo)
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.BudgetRepo = budget.NewRepo(db)
	deps.BudgetService = budget.NewService(deps.BudgetRepo, cfg.Budget, deps.Clock)
	deps.BudgetHandler = budget.NewHandler(deps.BudgetService)

	deps.ExpenseRepo = expense.NewRepo(db)
	deps.ExpenseService = expense.NewService(deps.ExpenseRepo, deps.BudgetService, deps.Clock)
	deps.ExpenseHandler = expense.NewHandler(deps.ExpenseService)

	deps.SuggestionService = suggestion.NewService(deps.BudgetService, deps.UserService, deps.ExpenseService, deps.Converter)
	deps.SuggestionHandler = suggestion.NewHandler(deps.SuggestionService)

	deps.ChatService = chat.NewService(deps.Parser, deps.BudgetService, deps.UserService, deps.ExpenseService, deps.Converter)
	deps.ChatHandler = chat.NewHandler(deps.ChatService)

	return deps
}
