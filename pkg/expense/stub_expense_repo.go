package expense

import (
	"context"
	"errors"
	"sort"
)

var errStubWrite = errors.New("stub write failure")

type StubRepo struct {
	expenses   map[int]map[string]Expense
	FailWrites bool
}

func NewStubRepo() *StubRepo {
	return &StubRepo{expenses: make(map[int]map[string]Expense)}
}

func (r *StubRepo) Cleanup() {
	r.expenses = make(map[int]map[string]Expense)
	r.FailWrites = false
}

func (r *StubRepo) Store(_ context.Context, userId int, expense Expense) error {
	if r.FailWrites {
		return errStubWrite
	}
	if r.expenses[userId] == nil {
		r.expenses[userId] = make(map[string]Expense)
	}
	r.expenses[userId][expense.Id] = expense
	return nil
}

func (r *StubRepo) FindById(_ context.Context, userId int, id string) (Expense, error) {
	expense, ok := r.expenses[userId][id]
	if !ok {
		return Expense{}, ErrExpenseNotFound
	}
	return expense, nil
}

func (r *StubRepo) Update(_ context.Context, userId int, expense Expense) error {
	if r.FailWrites {
		return errStubWrite
	}
	if _, ok := r.expenses[userId][expense.Id]; !ok {
		return ErrExpenseNotFound
	}
	r.expenses[userId][expense.Id] = expense
	return nil
}

func (r *StubRepo) Delete(_ context.Context, userId int, id string) error {
	if _, ok := r.expenses[userId][id]; !ok {
		return ErrExpenseNotFound
	}
	delete(r.expenses[userId], id)
	return nil
}

func (r *StubRepo) List(_ context.Context, userId int, filter Filter) ([]Expense, error) {
	var expenses []Expense
	for _, expense := range r.expenses[userId] {
		if filter.Category != "" && expense.Category != filter.Category {
			continue
		}
		if !filter.From.IsZero() && expense.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && expense.Date.After(filter.To) {
			continue
		}
		expenses = append(expenses, expense)
	}
	sort.Slice(expenses, func(i, j int) bool {
		return expenses[i].Date.After(expenses[j].Date)
	})
	if filter.Limit > 0 && len(expenses) > filter.Limit {
		expenses = expenses[:filter.Limit]
	}
	return expenses, nil
}
