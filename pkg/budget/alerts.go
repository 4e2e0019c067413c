package budget

import (
	"fmt"
	"time"
)

// CheckThresholds decides whether crossing a spending threshold must fire a
// new alert. It is a pure function: the only output is the returned slice.
//
// At most one alert is returned per call. The branches mirror an
// if/else-if precedence: when a single expense jumps across several
// thresholds at once only the highest newly crossed one fires, lower
// thresholds are not retroactively emitted. An alert kind fires at most
// once per category per period, however often the threshold is re-crossed.
func CheckThresholds(category Category, spent, limit float64, existing []Alert, now time.Time) []Alert {
	if limit <= 0 {
		// Percentage is undefined without a limit.
		return nil
	}

	pct := spent / limit * 100

	switch {
	case pct >= 100 && !hasAlert(existing, AlertThreshold100, category):
		return []Alert{{
			Kind:      AlertThreshold100,
			Category:  category,
			Message:   fmt.Sprintf("You've exceeded your %s budget limit of ₹%.0f!", category, limit),
			CreatedAt: now,
		}}
	case pct >= 80 && pct < 100 && !hasAlert(existing, AlertThreshold80, category):
		return []Alert{{
			Kind:      AlertThreshold80,
			Category:  category,
			Message:   fmt.Sprintf("Warning: You've used 80%% of your %s budget (₹%.0f of ₹%.0f)", category, spent, limit),
			CreatedAt: now,
		}}
	case pct >= 50 && pct < 80 && !hasAlert(existing, AlertThreshold50, category):
		return []Alert{{
			Kind:      AlertThreshold50,
			Category:  category,
			Message:   fmt.Sprintf("You've used 50%% of your %s budget (₹%.0f of ₹%.0f)", category, spent, limit),
			CreatedAt: now,
		}}
	}

	return nil
}

func hasAlert(alerts []Alert, kind AlertKind, category Category) bool {
	for _, a := range alerts {
		if a.Kind == kind && a.Category == category {
			return true
		}
	}
	return false
}
