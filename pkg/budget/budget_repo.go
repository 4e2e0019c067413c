package budget

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

var ErrPeriodNotFound = errors.New("budget period not found")

type Repo interface {
	// FindPeriod loads a full period aggregate. Returns ErrPeriodNotFound
	// when no period exists for the scope.
	FindPeriod(ctx context.Context, userId int, month time.Month, year int) (*Period, error)
	// StorePeriod persists a new period and returns its id.
	StorePeriod(ctx context.Context, userId int, period *Period) (int, error)
	// UpdatePeriod replaces the stored aggregate with the given one
	// (last-write-wins on the whole document).
	UpdatePeriod(ctx context.Context, userId int, period *Period) error
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) FindPeriod(ctx context.Context, userId int, month time.Month, year int) (*Period, error) {
	query := "SELECT id, total_limit, total_spent, updated_at FROM budget_period WHERE user_id = ? AND month = ? AND year = ?"
	row := r.db.QueryRowContext(ctx, query, userId, int(month), year)

	period := &Period{Month: month, Year: year, Categories: make(map[Category]*CategoryBudget)}
	var updatedAt sql.NullTime
	err := row.Scan(&period.Id, &period.TotalLimit, &period.TotalSpent, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPeriodNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not query budget period: %w", err)
		log.Error(err)
		return nil, err
	}
	if updatedAt.Valid {
		period.UpdatedAt = updatedAt.Time
	}

	if err := r.loadCategories(ctx, period); err != nil {
		return nil, err
	}
	if err := r.loadAlerts(ctx, period); err != nil {
		return nil, err
	}
	return period, nil
}

func (r *RepoImpl) loadCategories(ctx context.Context, period *Period) error {
	rows, err := r.db.QueryContext(ctx, "SELECT category, spend_limit, spent FROM budget_category WHERE period_id = ?", period.Id)
	if err != nil {
		err := fmt.Errorf("could not query budget categories: %w", err)
		log.Error(err)
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		cb := &CategoryBudget{}
		if err := rows.Scan(&name, &cb.Limit, &cb.Spent); err != nil {
			err := fmt.Errorf("could not scan budget category: %w", err)
			log.Error(err)
			return err
		}
		period.Categories[Category(name)] = cb
	}
	return rows.Err()
}

func (r *RepoImpl) loadAlerts(ctx context.Context, period *Period) error {
	rows, err := r.db.QueryContext(ctx,
		"SELECT kind, category, message, created_at FROM budget_alert WHERE period_id = ? ORDER BY id", period.Id)
	if err != nil {
		err := fmt.Errorf("could not query budget alerts: %w", err)
		log.Error(err)
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var alert Alert
		var kind, category string
		if err := rows.Scan(&kind, &category, &alert.Message, &alert.CreatedAt); err != nil {
			err := fmt.Errorf("could not scan budget alert: %w", err)
			log.Error(err)
			return err
		}
		alert.Kind = AlertKind(kind)
		alert.Category = Category(category)
		period.Alerts = append(period.Alerts, alert)
	}
	return rows.Err()
}

func (r *RepoImpl) StorePeriod(ctx context.Context, userId int, period *Period) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		err := fmt.Errorf("could not begin transaction: %w", err)
		log.Error(err)
		return 0, err
	}
	defer tx.Rollback()

	query := "INSERT INTO budget_period (user_id, month, year, total_limit, total_spent, updated_at) VALUES (?, ?, ?, ?, ?, ?)"
	result, err := tx.ExecContext(ctx, query, userId, int(period.Month), period.Year, period.TotalLimit, period.TotalSpent, period.UpdatedAt)
	if err != nil {
		err := fmt.Errorf("could not insert budget period: %w", err)
		log.Error(err)
		return 0, err
	}
	lastInsertId, err := result.LastInsertId()
	if err != nil {
		err := fmt.Errorf("could not retrieve last insert id: %w", err)
		log.Error(err)
		return 0, err
	}
	period.Id = int(lastInsertId)

	if err := writeCategoriesAndAlerts(ctx, tx, period); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		err := fmt.Errorf("could not commit transaction: %w", err)
		log.Error(err)
		return 0, err
	}
	return period.Id, nil
}

func (r *RepoImpl) UpdatePeriod(ctx context.Context, userId int, period *Period) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		err := fmt.Errorf("could not begin transaction: %w", err)
		log.Error(err)
		return err
	}
	defer tx.Rollback()

	query := "UPDATE budget_period SET total_limit = ?, total_spent = ?, updated_at = ? WHERE id = ? AND user_id = ?"
	result, err := tx.ExecContext(ctx, query, period.TotalLimit, period.TotalSpent, period.UpdatedAt, period.Id, userId)
	if err != nil {
		err := fmt.Errorf("could not update budget period: %w", err)
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
		return ErrPeriodNotFound
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM budget_category WHERE period_id = ?", period.Id); err != nil {
		err := fmt.Errorf("could not clear budget categories: %w", err)
		log.Error(err)
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM budget_alert WHERE period_id = ?", period.Id); err != nil {
		err := fmt.Errorf("could not clear budget alerts: %w", err)
		log.Error(err)
		return err
	}
	if err := writeCategoriesAndAlerts(ctx, tx, period); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		err := fmt.Errorf("could not commit transaction: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func writeCategoriesAndAlerts(ctx context.Context, tx *sql.Tx, period *Period) error {
	for category, cb := range period.Categories {
		query := "INSERT INTO budget_category (period_id, category, spend_limit, spent) VALUES (?, ?, ?, ?)"
		if _, err := tx.ExecContext(ctx, query, period.Id, string(category), cb.Limit, cb.Spent); err != nil {
			err := fmt.Errorf("could not insert budget category: %w", err)
			log.Error(err)
			return err
		}
	}
	for _, alert := range period.Alerts {
		query := "INSERT INTO budget_alert (period_id, kind, category, message, created_at) VALUES (?, ?, ?, ?, ?)"
		if _, err := tx.ExecContext(ctx, query, period.Id, string(alert.Kind), string(alert.Category), alert.Message, alert.CreatedAt); err != nil {
			err := fmt.Errorf("could not insert budget alert: %w", err)
			log.Error(err)
			return err
		}
	}
	return nil
}
