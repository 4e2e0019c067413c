package user

import (
	"context"
	"sync"

	"github.com/fintalk/fintalk/pkg/currency"
)

// StubRepo is an in-memory Repo implementation for tests.
type StubRepo struct {
	mu       sync.Mutex
	settings map[int]Settings
}

func NewStubRepo() *StubRepo {
	return &StubRepo{settings: make(map[int]Settings)}
}

func (r *StubRepo) GetSettings(_ context.Context, userId int) (Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	settings, ok := r.settings[userId]
	if !ok {
		settings = Settings{Currency: currency.INR, SavingsGoal: 5000}
		r.settings[userId] = settings
	}
	return settings, nil
}

func (r *StubRepo) UpdateSettings(_ context.Context, userId int, settings Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings[userId] = settings
	return nil
}

func (r *StubRepo) Cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = make(map[int]Settings)
}
