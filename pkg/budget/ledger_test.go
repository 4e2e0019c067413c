package budget

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testPeriod() *Period {
	return &Period{
		Month:      time.September,
		Year:       2026,
		TotalLimit: 8500,
		Categories: map[Category]*CategoryBudget{
			CategoryFood:          {Limit: 3000},
			CategoryTransport:     {Limit: 1500},
			CategoryEntertainment: {Limit: 1000},
			CategoryShopping:      {Limit: 2000},
			CategoryHealth:        {Limit: 1000},
			CategoryInvestment:    {Limit: 0},
		},
	}
}

func assertTotalsConsistent(t *testing.T, p *Period) {
	t.Helper()
	sum := 0.0
	for _, cb := range p.Categories {
		sum += cb.Spent
	}
	assert.Equal(t, sum, p.TotalSpent)
}

func TestPeriod_ApplyExpense(t *testing.T) {
	// given
	p := testPeriod()
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

	// when
	result := p.ApplyExpense(250, CategoryFood, now)

	// then
	assert.Equal(t, 250.0, p.Category(CategoryFood).Spent)
	assert.Equal(t, 250.0, p.TotalSpent)
	assert.Equal(t, 8, result.Percentage)
	assertTotalsConsistent(t, p)
}

func TestPeriod_ApplyThenReverseIsIdentity(t *testing.T) {
	// given
	p := testPeriod()
	now := time.Now()
	p.ApplyExpense(700, CategoryTransport, now)

	// when
	p.ReverseExpense(700, CategoryTransport, now)

	// then
	assert.Equal(t, 0.0, p.Category(CategoryTransport).Spent)
	assert.Equal(t, 0.0, p.TotalSpent)
	assertTotalsConsistent(t, p)
}

func TestPeriod_ReverseClampsToZero(t *testing.T) {
	// given a period with less recorded spend than the reversal amount
	p := testPeriod()
	now := time.Now()
	p.ApplyExpense(100, CategoryFood, now)

	// when
	p.ReverseExpense(500, CategoryFood, now)

	// then values clamp to zero instead of going negative
	assert.Equal(t, 0.0, p.Category(CategoryFood).Spent)
	assert.Equal(t, 0.0, p.TotalSpent)
}

func TestPeriod_ApplyToUnknownCategoryCreatesBucket(t *testing.T) {
	// given
	p := &Period{Month: time.January, Year: 2026}

	// when
	result := p.ApplyExpense(100, CategoryFood, time.Now())

	// then a zero-limit bucket appears and no percentage is reported
	assert.Equal(t, 100.0, p.Category(CategoryFood).Spent)
	assert.Equal(t, 0, result.Percentage)
	assertTotalsConsistent(t, p)
}

func TestPeriod_SetCategoryLimitRecomputesTotal(t *testing.T) {
	// given
	p := testPeriod()

	// when
	p.SetCategoryLimit(CategoryFood, 4000, time.Now())

	// then the total limit is the sum of category limits again
	assert.Equal(t, 4000.0, p.Category(CategoryFood).Limit)
	assert.Equal(t, 9500.0, p.TotalLimit)
}

func TestPeriod_SetTotalLimitOverridesUntilNextCategoryEdit(t *testing.T) {
	// given
	p := testPeriod()

	// when an explicit total is set
	p.SetTotalLimit(12000, time.Now())

	// then it holds
	assert.Equal(t, 12000.0, p.TotalLimit)

	// and a later category edit re-derives the total from the sum
	p.SetCategoryLimit(CategoryFood, 3000, time.Now())
	assert.Equal(t, 8500.0, p.TotalLimit)
}

func TestPeriod_ApplyExpenseRecordsAlerts(t *testing.T) {
	// given
	p := testPeriod()

	// when an expense crosses the halfway threshold
	result := p.ApplyExpense(1600, CategoryFood, time.Now())

	// then the alert is returned and stored on the period
	assert.Len(t, result.NewAlerts, 1)
	assert.Equal(t, AlertThreshold50, result.NewAlerts[0].Kind)
	assert.Len(t, p.Alerts, 1)
}

func TestApplyResult_Message(t *testing.T) {
	format := func(amount float64) string { return "₹" + strconv.FormatFloat(amount, 'f', -1, 64) }

	t.Run("includes percentage when the category has a limit", func(t *testing.T) {
		result := ApplyResult{Category: CategoryFood, Amount: 250, Spent: 250, Limit: 3000, Percentage: 8}

		msg := result.Message(format)

		assert.Equal(t, "Logged! ₹250 added to Food category. You've spent ₹250 on food (8% of budget).", msg)
	})

	t.Run("omits percentage without a limit", func(t *testing.T) {
		result := ApplyResult{Category: CategoryInvestment, Amount: 500, Spent: 500}

		msg := result.Message(format)

		assert.Equal(t, "Logged! ₹500 added to Investment category. You've spent ₹500 on investment.", msg)
	})
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 8, Percentage(250, 3000))
	assert.Equal(t, 50, Percentage(1500, 3000))
	assert.Equal(t, 100, Percentage(3000, 3000))
	assert.Equal(t, 0, Percentage(100, 0))
}

func TestPeriod_CloneIsIndependent(t *testing.T) {
	// given
	p := testPeriod()
	p.ApplyExpense(100, CategoryFood, time.Now())

	// when
	clone := p.Clone()
	clone.ApplyExpense(900, CategoryFood, time.Now())

	// then the original is untouched
	assert.Equal(t, 100.0, p.Category(CategoryFood).Spent)
	assert.Equal(t, 1000.0, clone.Category(CategoryFood).Spent)
}
