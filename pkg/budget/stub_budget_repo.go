package budget

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// StubRepo is an in-memory Repo implementation for tests.
type StubRepo struct {
	mu      sync.Mutex
	periods map[string]*Period
	nextId  int

	// FailWrites makes every write return an error, for persistence
	// failure scenarios.
	FailWrites bool
}

func NewStubRepo() *StubRepo {
	return &StubRepo{periods: make(map[string]*Period)}
}

func stubKey(userId int, month time.Month, year int) string {
	return fmt.Sprintf("%d-%d-%d", userId, year, int(month))
}

func (r *StubRepo) FindPeriod(_ context.Context, userId int, month time.Month, year int) (*Period, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	period, ok := r.periods[stubKey(userId, month, year)]
	if !ok {
		return nil, ErrPeriodNotFound
	}
	return period.Clone(), nil
}

func (r *StubRepo) StorePeriod(_ context.Context, userId int, period *Period) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWrites {
		return 0, fmt.Errorf("stub write failure")
	}
	r.nextId++
	period.Id = r.nextId
	r.periods[stubKey(userId, period.Month, period.Year)] = period.Clone()
	return period.Id, nil
}

func (r *StubRepo) UpdatePeriod(_ context.Context, userId int, period *Period) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWrites {
		return fmt.Errorf("stub write failure")
	}
	key := stubKey(userId, period.Month, period.Year)
	if _, ok := r.periods[key]; !ok {
		return ErrPeriodNotFound
	}
	r.periods[key] = period.Clone()
	return nil
}

func (r *StubRepo) Cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.periods = make(map[string]*Period)
	r.nextId = 0
	r.FailWrites = false
}
