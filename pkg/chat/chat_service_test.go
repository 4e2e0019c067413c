package chat

import (
	"context"
	"testing"
	"time"

	"github.com/fintalk/fintalk/internal/config"
	"github.com/fintalk/fintalk/internal/utils"
	"github.com/fintalk/fintalk/pkg/budget"
	"github.com/fintalk/fintalk/pkg/command"
	"github.com/fintalk/fintalk/pkg/currency"
	"github.com/fintalk/fintalk/pkg/expense"
	"github.com/fintalk/fintalk/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = user.WithId(context.Background(), 1)

var (
	budgetRepoStub  = budget.NewStubRepo()
	userRepoStub    = user.NewStubRepo()
	expenseRepoStub = expense.NewStubRepo()
)

var (
	service        Service
	budgetService  budget.Service
	expenseService expense.Service
)

func setup(t *testing.T) func() {
	clock := &utils.MockClock{FixedNow: time.Date(2026, time.September, 10, 10, 0, 0, 0, time.UTC)}
	template := config.Budget{
		TotalLimit: 8500,
		Categories: map[string]float64{
			"Food":          3000,
			"Transport":     1500,
			"Entertainment": 1000,
			"Shopping":      2000,
			"Health":        1000,
			"Investment":    0,
		},
	}
	budgetService = budget.NewService(budgetRepoStub, template, clock)
	userService := user.NewService(userRepoStub)
	expenseService = expense.NewService(expenseRepoStub, budgetService, clock)
	service = NewService(command.NewParser(), budgetService, userService, expenseService, currency.NewConverter(83))
	return func() {
		t.Log("Teardown after test")
		budgetRepoStub.Cleanup()
		userRepoStub.Cleanup()
		expenseRepoStub.Cleanup()
	}
}

func respond(t *testing.T, text string) Reply {
	t.Helper()
	reply, err := service.Respond(ctx, text, expense.EntryText, 0)
	require.NoError(t, err)
	return reply
}

func TestServiceImpl_Respond_LogExpense(t *testing.T) {
	t.Run("should log the expense and confirm with the ledger state", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		reply := respond(t, "Spent 250 on lunch")

		// then
		assert.Equal(t, "Logged! ₹250 added to Food category. You've spent ₹250 on food (8% of budget).", reply.Text)
		require.NotNil(t, reply.Expense)
		assert.Equal(t, 250.0, reply.Expense.Amount)
		assert.Equal(t, "Spent 250 on lunch", reply.Expense.Description)

		// the reply carries the updated budget snapshot alongside the expense
		require.NotNil(t, reply.Period)
		assert.Equal(t, 250.0, reply.Period.TotalSpent)
		assert.Equal(t, 250.0, reply.Period.Category(budget.CategoryFood).Spent)
	})

	t.Run("should append a threshold alert when one fires", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when a single expense jumps straight to 95% of the food budget
		reply := respond(t, "Spent 2850 on groceries")

		// then only the highest crossed threshold is mentioned
		assert.Contains(t, reply.Text, "Logged! ₹2850 added to Food category.")
		assert.Contains(t, reply.Text, "Warning: You've used 80% of your Food budget (₹2850 of ₹3000)")
		assert.NotContains(t, reply.Text, "50%")
	})

	t.Run("should format amounts in the selected currency", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		respond(t, "Switch to USD")

		// when
		reply := respond(t, "Spent 250 on lunch")

		// then amounts render in dollars at the fixed rate
		assert.Contains(t, reply.Text, "$3.01")
	})
}

func TestServiceImpl_Respond_BudgetCommands(t *testing.T) {
	t.Run("should set a category limit", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		reply := respond(t, "Set food budget to 4000")

		// then
		assert.Equal(t, "Food budget set to ₹4000.", reply.Text)
		require.NotNil(t, reply.Period)
		assert.Equal(t, 4000.0, reply.Period.Category(budget.CategoryFood).Limit)
		// the total limit is re-derived from the category limits
		assert.Equal(t, 9500.0, reply.Period.TotalLimit)
	})

	t.Run("should set the total budget", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		reply := respond(t, "Set monthly budget to 12000")

		// then
		assert.Equal(t, "Total monthly budget set to ₹12000.", reply.Text)
		require.NotNil(t, reply.Period)
		assert.Equal(t, 12000.0, reply.Period.TotalLimit)
	})

	t.Run("should set the savings goal", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		reply := respond(t, "Save 5000")

		assert.Equal(t, "Savings goal set to ₹5000.", reply.Text)
	})
}

func TestServiceImpl_Respond_InfoQueries(t *testing.T) {
	t.Run("should answer the total spent question", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		respond(t, "Spent 250 on lunch")

		// when
		reply := respond(t, "How much have I spent?")

		// then
		assert.Equal(t, "You've spent ₹250 this month out of your ₹8500 budget.", reply.Text)
	})

	t.Run("should answer the remaining question", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		respond(t, "Spent 500 on fuel")

		// when
		reply := respond(t, "remaining budget")

		// then
		assert.Equal(t, "You have ₹8000 remaining out of your ₹8500 budget this month.", reply.Text)
	})

	t.Run("should show the budget with the period attached", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		reply := respond(t, "Show budget")

		assert.Contains(t, reply.Text, "Here's your budget for September 2026")
		require.NotNil(t, reply.Period)
		assert.Equal(t, 8500.0, reply.Period.TotalLimit)
	})

	t.Run("should answer a per-category question", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		respond(t, "Spent 250 on lunch")

		// when
		reply := respond(t, "how much did i spent on food")

		// then
		assert.Equal(t, "You've spent ₹250 on food this month (8% of your ₹3000 limit).", reply.Text)
	})

	t.Run("should list recent expenses", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		respond(t, "Spent 250 on lunch")
		respond(t, "Paid 600 for a cab")

		// when
		reply := respond(t, "list expenses")

		// then
		assert.Contains(t, reply.Text, "Spent 250 on lunch")
		assert.Contains(t, reply.Text, "Paid 600 for a cab")
	})
}

func TestServiceImpl_Respond_Navigation(t *testing.T) {
	teardown := setup(t)
	defer teardown()

	reply := respond(t, "open settings")

	assert.Equal(t, "Opening settings...", reply.Text)
	assert.Equal(t, "settings", reply.Screen)
}

func TestServiceImpl_Respond_Currency(t *testing.T) {
	teardown := setup(t)
	defer teardown()

	reply := respond(t, "Switch to USD")

	assert.Equal(t, "Currency switched to USD. Amounts are now shown in dollars.", reply.Text)
}

func TestServiceImpl_Respond_Unknown(t *testing.T) {
	t.Run("should return guidance for gibberish", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		reply := respond(t, "xyzzy")

		assert.Contains(t, reply.Text, "I didn't understand that")
	})

	t.Run("should not log ambiguous budget talk as an expense", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		reply := respond(t, "budget spent too much")

		// then no expense was created
		assert.Contains(t, reply.Text, "I didn't understand that")
		expenses, err := expenseService.List(ctx, expense.Filter{})
		assert.NoError(t, err)
		assert.Empty(t, expenses)
	})
}
