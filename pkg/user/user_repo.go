package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fintalk/fintalk/pkg/currency"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	// GetSettings returns the stored settings for a user, creating the
	// default row on first access.
	GetSettings(ctx context.Context, userId int) (Settings, error)
	UpdateSettings(ctx context.Context, userId int, settings Settings) error
}

type RepoImpl struct {
	db              *sql.DB
	defaultCurrency currency.Code
}

func NewRepo(db *sql.DB, defaultCurrency currency.Code) *RepoImpl {
	return &RepoImpl{db: db, defaultCurrency: defaultCurrency}
}

func (r *RepoImpl) GetSettings(ctx context.Context, userId int) (Settings, error) {
	query := "SELECT currency, savings_goal, current_savings FROM user_settings WHERE user_id = ?"
	row := r.db.QueryRowContext(ctx, query, userId)

	var settings Settings
	var code string
	err := row.Scan(&code, &settings.SavingsGoal, &settings.CurrentSavings)
	if errors.Is(err, sql.ErrNoRows) {
		return r.createDefaultSettings(ctx, userId)
	}
	if err != nil {
		err := fmt.Errorf("could not query user settings: %w", err)
		log.Error(err)
		return Settings{}, err
	}
	settings.Currency = currency.Code(code)
	return settings, nil
}

func (r *RepoImpl) createDefaultSettings(ctx context.Context, userId int) (Settings, error) {
	settings := Settings{
		Currency:       r.defaultCurrency,
		SavingsGoal:    5000,
		CurrentSavings: 0,
	}
	query := "INSERT INTO user_settings (user_id, currency, savings_goal, current_savings) VALUES (?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query, userId, string(settings.Currency), settings.SavingsGoal, settings.CurrentSavings)
	if err != nil {
		err := fmt.Errorf("could not create default user settings: %w", err)
		log.Error(err)
		return Settings{}, err
	}
	return settings, nil
}

func (r *RepoImpl) UpdateSettings(ctx context.Context, userId int, settings Settings) error {
	query := "UPDATE user_settings SET currency = ?, savings_goal = ?, current_savings = ? WHERE user_id = ?"
	result, err := r.db.ExecContext(ctx, query, string(settings.Currency), settings.SavingsGoal, settings.CurrentSavings, userId)
	if err != nil {
		err := fmt.Errorf("could not update user settings: %w", err)
		log.Error(err)
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return err
	}
	if rowsAffected == 0 {
		// First write for a user that never read its settings.
		query := "INSERT INTO user_settings (user_id, currency, savings_goal, current_savings) VALUES (?, ?, ?, ?)"
		if _, err := r.db.ExecContext(ctx, query, userId, string(settings.Currency), settings.SavingsGoal, settings.CurrentSavings); err != nil {
			err := fmt.Errorf("could not insert user settings: %w", err)
			log.Error(err)
			return err
		}
	}
	return nil
}
