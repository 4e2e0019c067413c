package user

import "github.com/fintalk/fintalk/pkg/currency"

// DefaultUserId is the single built-in user. There is no real identity
// system; every request without an explicit X-User-Id acts as this user.
const DefaultUserId = 1

type User struct {
	Id          int
	DisplayName string
	Settings    Settings
}

type Settings struct {
	Currency currency.Code
	// SavingsGoal is the target amount the user wants to put aside this month.
	SavingsGoal float64
	// CurrentSavings tracks progress towards SavingsGoal.
	CurrentSavings float64
}
