package budget

import (
	"strings"
	"time"
)

// Category is a closed spending dimension. Unknown names fall back to
// Shopping so that ad-hoc input can never grow the aggregate's key space.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryEntertainment Category = "Entertainment"
	CategoryShopping      Category = "Shopping"
	CategoryHealth        Category = "Health"
	CategoryInvestment    Category = "Investment"
)

// Categories returns all known categories in stable order.
func Categories() []Category {
	return []Category{
		CategoryFood,
		CategoryTransport,
		CategoryEntertainment,
		CategoryShopping,
		CategoryHealth,
		CategoryInvestment,
	}
}

// ParseCategory normalizes a category name. Unknown categories default to Shopping.
func ParseCategory(s string) Category {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories() {
		if strings.ToLower(string(c)) == normalized {
			return c
		}
	}
	return CategoryShopping
}

type AlertKind string

const (
	AlertThreshold50  AlertKind = "threshold_50"
	AlertThreshold80  AlertKind = "threshold_80"
	AlertThreshold100 AlertKind = "threshold_100"
	// AlertPredictedOverspend is a reserved kind with no emission rule yet.
	AlertPredictedOverspend AlertKind = "predicted_overspend"
)

type Alert struct {
	Kind      AlertKind
	Category  Category
	Message   string
	CreatedAt time.Time
}

type CategoryBudget struct {
	Limit float64
	Spent float64
}

// Period is the budget aggregate for one (user, month, year) scope.
// Invariant: TotalSpent equals the sum of all category Spent values
// after every mutation settles.
type Period struct {
	Id         int
	Month      time.Month
	Year       int
	TotalLimit float64
	TotalSpent float64
	Categories map[Category]*CategoryBudget
	Alerts     []Alert
	UpdatedAt  time.Time
}

func (p *Period) Remaining() float64 {
	return p.TotalLimit - p.TotalSpent
}

// SpentPercentage is the share of the total limit already spent, in percent.
func (p *Period) SpentPercentage() float64 {
	if p.TotalLimit <= 0 {
		return 0
	}
	return p.TotalSpent / p.TotalLimit * 100
}

// Category returns the budget for a category, inserting a zero-limit
// bucket when the category is not part of the period yet.
func (p *Period) Category(category Category) *CategoryBudget {
	if p.Categories == nil {
		p.Categories = make(map[Category]*CategoryBudget)
	}
	cb, ok := p.Categories[category]
	if !ok {
		cb = &CategoryBudget{}
		p.Categories[category] = cb
	}
	return cb
}

// Clone returns a deep copy of the period so callers can hand out
// snapshots without exposing the service's owned aggregate.
func (p *Period) Clone() *Period {
	clone := *p
	clone.Categories = make(map[Category]*CategoryBudget, len(p.Categories))
	for category, cb := range p.Categories {
		copied := *cb
		clone.Categories[category] = &copied
	}
	clone.Alerts = make([]Alert, len(p.Alerts))
	copy(clone.Alerts, p.Alerts)
	return &clone
}
