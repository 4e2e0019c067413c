package budget

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// ApplyResult describes the outcome of crediting one expense to the ledger.
type ApplyResult struct {
	Category   Category
	Amount     float64
	Spent      float64 // category spent after the credit
	Limit      float64
	Percentage int
	NewAlerts  []Alert
}

// Message renders the user-facing confirmation. The reply for a logged
// expense is always sourced from here, never rebuilt by callers.
// The percentage clause is omitted when the category has no limit.
func (r ApplyResult) Message(format func(float64) string) string {
	if r.Limit > 0 {
		return fmt.Sprintf("Logged! %s added to %s category. You've spent %s on %s (%d%% of budget).",
			format(r.Amount), r.Category, format(r.Spent), strings.ToLower(string(r.Category)), r.Percentage)
	}
	return fmt.Sprintf("Logged! %s added to %s category. You've spent %s on %s.",
		format(r.Amount), r.Category, format(r.Spent), strings.ToLower(string(r.Category)))
}

// ApplyExpense credits an expense to the category and total aggregates,
// evaluates the alert thresholds for the touched category, and appends any
// newly fired alert to the period.
func (p *Period) ApplyExpense(amount float64, category Category, now time.Time) ApplyResult {
	cb := p.Category(category)
	cb.Spent += amount
	p.TotalSpent += amount
	p.UpdatedAt = now

	newAlerts := CheckThresholds(category, cb.Spent, cb.Limit, p.Alerts, now)
	p.Alerts = append(p.Alerts, newAlerts...)

	return ApplyResult{
		Category:   category,
		Amount:     amount,
		Spent:      cb.Spent,
		Limit:      cb.Limit,
		Percentage: Percentage(cb.Spent, cb.Limit),
		NewAlerts:  newAlerts,
	}
}

// ReverseExpense removes a previously applied expense from the aggregates.
// Reversal that would drive a value below zero clamps to zero, so a
// reversal after earlier clamping can lose part of the delta.
func (p *Period) ReverseExpense(amount float64, category Category, now time.Time) {
	cb := p.Category(category)
	cb.Spent -= amount
	if cb.Spent < 0 {
		cb.Spent = 0
	}
	p.TotalSpent -= amount
	if p.TotalSpent < 0 {
		p.TotalSpent = 0
	}
	p.UpdatedAt = now
}

// SetCategoryLimit updates one category limit and recomputes the total
// limit as the sum of all category limits. This clears any explicit total
// set earlier via SetTotalLimit.
func (p *Period) SetCategoryLimit(category Category, limit float64, now time.Time) {
	p.Category(category).Limit = limit

	total := 0.0
	for _, cb := range p.Categories {
		total += cb.Limit
	}
	p.TotalLimit = total
	p.UpdatedAt = now
}

// SetTotalLimit sets the total limit explicitly, independent of the sum of
// category limits. The override holds until the next category limit edit.
func (p *Period) SetTotalLimit(limit float64, now time.Time) {
	p.TotalLimit = limit
	p.UpdatedAt = now
}

// ClearAlerts drops all alerts for the period.
func (p *Period) ClearAlerts(now time.Time) {
	p.Alerts = nil
	p.UpdatedAt = now
}

// Percentage is the rounded share of limit spent; 0 when there is no limit.
func Percentage(spent, limit float64) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Round(spent / limit * 100))
}
