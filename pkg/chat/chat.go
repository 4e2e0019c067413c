package chat

import (
	"github.com/fintalk/fintalk/pkg/budget"
	"github.com/fintalk/fintalk/pkg/expense"
)

// Reply is the assistant's answer to one utterance. Screen is set only for
// navigation commands; Period and Expense are attached when the reply is
// about them so clients can refresh without a second request.
type Reply struct {
	Text    string
	Screen  string
	Period  *budget.Period
	Expense *expense.Expense
}
