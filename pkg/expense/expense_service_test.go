package expense

import (
	"context"
	"testing"
	"time"

	"github.com/fintalk/fintalk/internal/config"
	"github.com/fintalk/fintalk/internal/utils"
	"github.com/fintalk/fintalk/pkg/budget"
	"github.com/fintalk/fintalk/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = user.WithId(context.Background(), 1)

var (
	expenseRepoStub = NewStubRepo()
	budgetRepoStub  = budget.NewStubRepo()
)

var (
	service       Service
	budgetService budget.Service
	clock         *utils.MockClock
)

func setup(t *testing.T) func() {
	clock = &utils.MockClock{FixedNow: time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)}
	template := config.Budget{
		TotalLimit: 8500,
		Categories: map[string]float64{
			"Food":       3000,
			"Transport":  1500,
			"Investment": 0,
		},
	}
	budgetService = budget.NewService(budgetRepoStub, template, clock)
	service = NewService(expenseRepoStub, budgetService, clock)
	return func() {
		t.Log("Teardown after test")
		expenseRepoStub.Cleanup()
		budgetRepoStub.Cleanup()
	}
}

func TestServiceImpl_Log(t *testing.T) {
	t.Run("should store the expense and credit the ledger", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		logged, period, result, err := service.Log(ctx, Expense{
			Amount:      250,
			Category:    budget.CategoryFood,
			Description: "Spent 250 on lunch",
		})

		// then
		assert.NoError(t, err)
		assert.NotEmpty(t, logged.Id)
		assert.Equal(t, clock.FixedNow, logged.Date)
		assert.Equal(t, EntryText, logged.EntryMethod)
		assert.Equal(t, 8, result.Percentage)

		// the returned snapshot already reflects the credit
		require.NotNil(t, period)
		assert.Equal(t, 250.0, period.Category(budget.CategoryFood).Spent)
		assert.Equal(t, 250.0, period.TotalSpent)
	})

	t.Run("should reject invalid amounts", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, _, _, err := service.Log(ctx, Expense{Amount: -10, Category: budget.CategoryFood, Description: "bad"})

		// then nothing was stored
		assert.ErrorIs(t, err, ErrInvalidAmount)
		expenses, listErr := service.List(ctx, Filter{})
		assert.NoError(t, listErr)
		assert.Empty(t, expenses)
	})

	t.Run("should roll back the stored expense when the ledger write fails", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given a created period and a failing budget store
		_, err := budgetService.CurrentPeriod(ctx)
		require.NoError(t, err)
		budgetRepoStub.FailWrites = true

		// when
		_, _, _, err = service.Log(ctx, Expense{Amount: 250, Category: budget.CategoryFood, Description: "Spent 250 on lunch"})

		// then the expense record is gone again
		assert.Error(t, err)
		expenses, listErr := service.List(ctx, Filter{})
		assert.NoError(t, listErr)
		assert.Empty(t, expenses)
	})
}

func TestServiceImpl_Update(t *testing.T) {
	t.Run("should move the ledger delta to the new category", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		logged, _, _, err := service.Log(ctx, Expense{Amount: 250, Category: budget.CategoryFood, Description: "Spent 250 on lunch"})
		require.NoError(t, err)

		// when
		logged.Amount = 400
		logged.Category = budget.CategoryTransport
		updated, period, result, err := service.Update(ctx, logged)

		// then the returned snapshot reflects the move
		assert.NoError(t, err)
		assert.Equal(t, 400.0, updated.Amount)
		assert.Equal(t, budget.CategoryTransport, result.Category)
		require.NotNil(t, period)
		assert.Equal(t, 0.0, period.Category(budget.CategoryFood).Spent)
		assert.Equal(t, 400.0, period.Category(budget.CategoryTransport).Spent)
		assert.Equal(t, 400.0, period.TotalSpent)
	})

	t.Run("should return not found for an unknown id", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, _, _, err := service.Update(ctx, Expense{Id: "missing", Amount: 100, Category: budget.CategoryFood, Description: "x"})

		// then
		assert.ErrorIs(t, err, ErrExpenseNotFound)
	})
}

func TestServiceImpl_Delete(t *testing.T) {
	t.Run("should remove the record and reverse the ledger", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		logged, _, _, err := service.Log(ctx, Expense{Amount: 250, Category: budget.CategoryFood, Description: "Spent 250 on lunch"})
		require.NoError(t, err)

		// when
		deleted, period, err := service.Delete(ctx, logged.Id)

		// then the returned snapshot reflects the reversal
		assert.NoError(t, err)
		assert.Equal(t, logged.Id, deleted.Id)
		require.NotNil(t, period)
		assert.Equal(t, 0.0, period.TotalSpent)

		_, err = service.Get(ctx, logged.Id)
		assert.ErrorIs(t, err, ErrExpenseNotFound)
	})

	t.Run("should return not found for an unknown id", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		_, _, err := service.Delete(ctx, "missing")

		assert.ErrorIs(t, err, ErrExpenseNotFound)
	})
}

func TestServiceImpl_Analytics(t *testing.T) {
	t.Run("should aggregate totals, trend, count and average", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given expenses in two months
		_, _, _, err := service.Log(ctx, Expense{Amount: 250, Category: budget.CategoryFood, Description: "lunch"})
		require.NoError(t, err)
		_, _, _, err = service.Log(ctx, Expense{Amount: 600, Category: budget.CategoryTransport, Description: "cab"})
		require.NoError(t, err)
		clock.SetNow(time.Date(2026, time.October, 1, 10, 0, 0, 0, time.UTC))
		_, _, _, err = service.Log(ctx, Expense{Amount: 150, Category: budget.CategoryFood, Description: "coffee"})
		require.NoError(t, err)

		// when
		analytics, err := service.Analytics(ctx)

		// then
		assert.NoError(t, err)
		assert.Equal(t, 3, analytics.Count)
		assert.Equal(t, 400.0, analytics.CategoryTotals[budget.CategoryFood])
		assert.Equal(t, 600.0, analytics.CategoryTotals[budget.CategoryTransport])
		assert.Equal(t, 850.0, analytics.MonthlyTrend["Sep 2026"])
		assert.Equal(t, 150.0, analytics.MonthlyTrend["Oct 2026"])
		assert.InDelta(t, 333.33, analytics.Average, 0.01)
	})

	t.Run("should be empty without expenses", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		analytics, err := service.Analytics(ctx)

		assert.NoError(t, err)
		assert.Zero(t, analytics.Count)
		assert.Zero(t, analytics.Average)
	})
}
