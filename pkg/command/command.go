package command

import "github.com/fintalk/fintalk/pkg/budget"

// Type discriminates the closed set of command variants a parsed
// utterance can resolve to.
type Type string

const (
	TypeNavigate         Type = "navigate"
	TypeSetCurrency      Type = "setCurrency"
	TypeSetCategoryLimit Type = "setCategoryLimit"
	TypeSetSavingsGoal   Type = "setSavingsGoal"
	TypeSetTotalBudget   Type = "setTotalBudget"
	TypeLogExpense       Type = "logExpense"
	TypeInfo             Type = "info"
	TypeUnknown          Type = "unknown"
)

// Query identifies which informational question an Info command asks.
type Query string

const (
	QueryTotalSpent    Query = "totalSpent"
	QueryShowBudget    Query = "showBudget"
	QueryRemaining     Query = "remaining"
	QueryListExpenses  Query = "listExpenses"
	QueryCategorySpent Query = "categorySpent"
	QueryHelp          Query = "help"
)

// Command is the parsed, typed representation of one utterance. It is
// transient: produced by the Parser and consumed exactly once, never
// persisted. Only the fields relevant to Type are populated.
type Command struct {
	Type Type

	Screen      string          // TypeNavigate
	Currency    string          // TypeSetCurrency
	Category    budget.Category // TypeSetCategoryLimit, TypeLogExpense, QueryCategorySpent
	Limit       float64         // TypeSetCategoryLimit
	Goal        float64         // TypeSetSavingsGoal
	Total       float64         // TypeSetTotalBudget
	Amount      float64         // TypeLogExpense
	Description string          // TypeLogExpense: the original utterance
	Query       Query           // TypeInfo
	Message     string          // TypeUnknown: canned guidance
}
