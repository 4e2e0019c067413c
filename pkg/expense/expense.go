package expense

import (
	"errors"
	"time"

	"github.com/fintalk/fintalk/pkg/budget"
)

type EntryMethod string

const (
	EntryVoice EntryMethod = "voice"
	EntryText  EntryMethod = "text"
)

var (
	ErrInvalidAmount      = errors.New("amount must be a positive number")
	ErrMissingCategory    = errors.New("category is required")
	ErrMissingDescription = errors.New("description is required")
	ErrExpenseNotFound    = errors.New("expense not found")
)

type Expense struct {
	Id       string
	Amount   float64
	Category budget.Category
	// Description keeps the original command utterance.
	Description string
	Date        time.Time
	EntryMethod EntryMethod
	// Confidence is the recognition confidence (0-100) for voice entries.
	Confidence int
}

func (e Expense) Validate() error {
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if e.Category == "" {
		return ErrMissingCategory
	}
	if e.Description == "" {
		return ErrMissingDescription
	}
	return nil
}

// Filter narrows expense listings.
type Filter struct {
	Category budget.Category
	From     time.Time
	To       time.Time
	Limit    int
}
