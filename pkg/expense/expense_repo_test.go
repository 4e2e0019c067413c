package expense

import (
	"context"
	"testing"
	"time"

	"github.com/fintalk/fintalk/internal/test_utils"
	"github.com/fintalk/fintalk/pkg/budget"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepo(t *testing.T) (context.Context, Repo) {
	db := test_utils.SetupTestDB(t)
	return context.Background(), NewRepo(db)
}

func storedExpense(amount float64, category budget.Category, date time.Time) Expense {
	return Expense{
		Id:          uuid.New().String(),
		Amount:      amount,
		Category:    category,
		Description: "test expense",
		Date:        date,
		EntryMethod: EntryText,
	}
}

func TestRepoImpl_StoreAndFindById(t *testing.T) {
	// given
	ctx, repo := setupTestRepo(t)
	expense := storedExpense(250, budget.CategoryFood, time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC))

	// when
	err := repo.Store(ctx, 1, expense)
	require.NoError(t, err)

	stored, err := repo.FindById(ctx, 1, expense.Id)

	// then
	assert.NoError(t, err)
	assert.Equal(t, expense.Id, stored.Id)
	assert.Equal(t, 250.0, stored.Amount)
	assert.Equal(t, budget.CategoryFood, stored.Category)
	assert.Equal(t, EntryText, stored.EntryMethod)
}

func TestRepoImpl_FindById_NotFound(t *testing.T) {
	ctx, repo := setupTestRepo(t)

	_, err := repo.FindById(ctx, 1, uuid.New().String())

	assert.ErrorIs(t, err, ErrExpenseNotFound)
}

func TestRepoImpl_FindById_ScopedToUser(t *testing.T) {
	// given an expense stored for user 1
	ctx, repo := setupTestRepo(t)
	expense := storedExpense(250, budget.CategoryFood, time.Now())
	require.NoError(t, repo.Store(ctx, 1, expense))

	// when queried for user 2
	_, err := repo.FindById(ctx, 2, expense.Id)

	// then
	assert.ErrorIs(t, err, ErrExpenseNotFound)
}

func TestRepoImpl_Update(t *testing.T) {
	// given
	ctx, repo := setupTestRepo(t)
	expense := storedExpense(250, budget.CategoryFood, time.Now())
	require.NoError(t, repo.Store(ctx, 1, expense))

	// when
	expense.Amount = 400
	expense.Category = budget.CategoryTransport
	err := repo.Update(ctx, 1, expense)

	// then
	assert.NoError(t, err)
	stored, err := repo.FindById(ctx, 1, expense.Id)
	assert.NoError(t, err)
	assert.Equal(t, 400.0, stored.Amount)
	assert.Equal(t, budget.CategoryTransport, stored.Category)
}

func TestRepoImpl_Update_NotFound(t *testing.T) {
	ctx, repo := setupTestRepo(t)

	err := repo.Update(ctx, 1, storedExpense(100, budget.CategoryFood, time.Now()))

	assert.ErrorIs(t, err, ErrExpenseNotFound)
}

func TestRepoImpl_Delete(t *testing.T) {
	// given
	ctx, repo := setupTestRepo(t)
	expense := storedExpense(250, budget.CategoryFood, time.Now())
	require.NoError(t, repo.Store(ctx, 1, expense))

	// when
	err := repo.Delete(ctx, 1, expense.Id)

	// then
	assert.NoError(t, err)
	_, err = repo.FindById(ctx, 1, expense.Id)
	assert.ErrorIs(t, err, ErrExpenseNotFound)
}

func TestRepoImpl_List(t *testing.T) {
	// given three expenses on different days
	ctx, repo := setupTestRepo(t)
	base := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	first := storedExpense(100, budget.CategoryFood, base)
	second := storedExpense(200, budget.CategoryTransport, base.AddDate(0, 0, 1))
	third := storedExpense(300, budget.CategoryFood, base.AddDate(0, 0, 2))
	for _, e := range []Expense{first, second, third} {
		require.NoError(t, repo.Store(ctx, 1, e))
	}

	t.Run("returns newest first", func(t *testing.T) {
		expenses, err := repo.List(ctx, 1, Filter{})

		assert.NoError(t, err)
		require.Len(t, expenses, 3)
		assert.Equal(t, third.Id, expenses[0].Id)
		assert.Equal(t, first.Id, expenses[2].Id)
	})

	t.Run("filters by category", func(t *testing.T) {
		expenses, err := repo.List(ctx, 1, Filter{Category: budget.CategoryFood})

		assert.NoError(t, err)
		assert.Len(t, expenses, 2)
	})

	t.Run("filters by date range", func(t *testing.T) {
		expenses, err := repo.List(ctx, 1, Filter{From: base.AddDate(0, 0, 1), To: base.AddDate(0, 0, 1)})

		assert.NoError(t, err)
		require.Len(t, expenses, 1)
		assert.Equal(t, second.Id, expenses[0].Id)
	})

	t.Run("applies the limit", func(t *testing.T) {
		expenses, err := repo.List(ctx, 1, Filter{Limit: 2})

		assert.NoError(t, err)
		assert.Len(t, expenses, 2)
	})

	t.Run("is scoped to the user", func(t *testing.T) {
		expenses, err := repo.List(ctx, 2, Filter{})

		assert.NoError(t, err)
		assert.Empty(t, expenses)
	})
}
