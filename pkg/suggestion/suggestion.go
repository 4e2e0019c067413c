package suggestion

import "errors"

// Kind determines what acting on a suggestion does: investment and goal
// kinds move money, savings and celebration kinds are advice only.
type Kind string

const (
	KindInvestment  Kind = "investment"
	KindSavings     Kind = "savings"
	KindGoal        Kind = "goal"
	KindCelebration Kind = "celebration"
)

var ErrSuggestionNotFound = errors.New("suggestion not found")

// Suggestion is a recomputed piece of advice. Ids are stable per rule so
// a dismissal survives recomputation within the same month.
type Suggestion struct {
	Id      string
	Kind    Kind
	Message string
	// Amount is the money the suggestion proposes to move; zero for
	// advice-only suggestions.
	Amount float64
}
