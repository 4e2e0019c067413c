package expense

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fintalk/fintalk/pkg/budget"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	Store(ctx context.Context, userId int, expense Expense) error
	FindById(ctx context.Context, userId int, id string) (Expense, error)
	Update(ctx context.Context, userId int, expense Expense) error
	Delete(ctx context.Context, userId int, id string) error
	// List returns expenses newest first, narrowed by the filter.
	List(ctx context.Context, userId int, filter Filter) ([]Expense, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Store(ctx context.Context, userId int, expense Expense) error {
	query := `INSERT INTO expense (id, user_id, amount, category, description, date, entry_method, confidence)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		expense.Id,
		userId,
		expense.Amount,
		string(expense.Category),
		expense.Description,
		expense.Date,
		string(expense.EntryMethod),
		expense.Confidence,
	)
	if err != nil {
		err := fmt.Errorf("could not insert expense: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepoImpl) FindById(ctx context.Context, userId int, id string) (Expense, error) {
	query := `SELECT id, amount, category, description, date, entry_method, confidence
				FROM expense WHERE user_id = ? AND id = ?`
	row := r.db.QueryRowContext(ctx, query, userId, id)

	expense, err := scanExpense(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Expense{}, ErrExpenseNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not query expense: %w", err)
		log.Error(err)
		return Expense{}, err
	}
	return expense, nil
}

func (r *RepoImpl) Update(ctx context.Context, userId int, expense Expense) error {
	query := `UPDATE expense SET amount = ?, category = ?, description = ? WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query,
		expense.Amount,
		string(expense.Category),
		expense.Description,
		expense.Id,
		userId,
	)
	if err != nil {
		err := fmt.Errorf("could not update expense: %w", err)
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
		return ErrExpenseNotFound
	}
	return nil
}

func (r *RepoImpl) Delete(ctx context.Context, userId int, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM expense WHERE id = ? AND user_id = ?", id, userId)
	if err != nil {
		err := fmt.Errorf("could not delete expense: %w", err)
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
		return ErrExpenseNotFound
	}
	return nil
}

func (r *RepoImpl) List(ctx context.Context, userId int, filter Filter) ([]Expense, error) {
	query := `SELECT id, amount, category, description, date, entry_method, confidence
				FROM expense WHERE user_id = ?`
	args := []any{userId}

	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, string(filter.Category))
	}
	if !filter.From.IsZero() {
		query += " AND date >= ?"
		args = append(args, filter.From)
	}
	if !filter.To.IsZero() {
		query += " AND date <= ?"
		args = append(args, filter.To)
	}
	query += " ORDER BY date DESC"
	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	query += " LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query expenses: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		expense, err := scanExpense(rows.Scan)
		if err != nil {
			err := fmt.Errorf("could not scan expense: %w", err)
			log.Error(err)
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return expenses, nil
}

func scanExpense(scan func(dest ...any) error) (Expense, error) {
	var expense Expense
	var category, entryMethod string
	err := scan(
		&expense.Id,
		&expense.Amount,
		&category,
		&expense.Description,
		&expense.Date,
		&entryMethod,
		&expense.Confidence,
	)
	if err != nil {
		return Expense{}, err
	}
	expense.Category = budget.Category(category)
	expense.EntryMethod = EntryMethod(entryMethod)
	return expense, nil
}
