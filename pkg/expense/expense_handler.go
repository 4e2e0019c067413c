package expense

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fintalk/fintalk/pkg/budget"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type ExpenseDTO struct {
	Id          string    `json:"id"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	EntryMethod string    `json:"entryMethod"`
	Confidence  int       `json:"confidence,omitempty"`
}

// expenseResponseDTO pairs the touched expense with the updated budget
// snapshot so clients can re-render without a follow-up request.
type expenseResponseDTO struct {
	Expense ExpenseDTO       `json:"expense"`
	Budget  budget.PeriodDTO `json:"budget"`
}

type AnalyticsDTO struct {
	CategoryTotals map[string]float64 `json:"categoryTotals"`
	MonthlyTrend   map[string]float64 `json:"monthlyTrend"`
	Count          int                `json:"count"`
	Average        float64            `json:"average"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (handler *Handler) LogExpense(w http.ResponseWriter, r *http.Request) {
	log.Debug("Logging new expense")
	w.Header().Set("Content-Type", "application/json")

	var dto ExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	expense, period, _, err := handler.service.Log(r.Context(), dtoToExpense(dto))
	if err != nil {
		if isValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	response := expenseResponseDTO{Expense: expenseToDTO(expense), Budget: budget.PeriodToDTO(period)}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	expense, err := handler.service.Get(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, ErrExpenseNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(expenseToDTO(expense)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating expense")
	w.Header().Set("Content-Type", "application/json")

	var dto ExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	dto.Id = mux.Vars(r)["id"]

	expense, period, _, err := handler.service.Update(r.Context(), dtoToExpense(dto))
	if errors.Is(err, ErrExpenseNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		if isValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	response := expenseResponseDTO{Expense: expenseToDTO(expense), Budget: budget.PeriodToDTO(period)}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	log.Debug("Deleting expense")
	w.Header().Set("Content-Type", "application/json")

	expense, period, err := handler.service.Delete(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, ErrExpenseNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	response := expenseResponseDTO{Expense: expenseToDTO(expense), Budget: budget.PeriodToDTO(period)}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	filter, err := filterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	expenses, err := handler.service.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]ExpenseDTO, 0, len(expenses))
	for _, expense := range expenses {
		dtos = append(dtos, expenseToDTO(expense))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	analytics, err := handler.service.Analytics(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dto := AnalyticsDTO{
		CategoryTotals: make(map[string]float64, len(analytics.CategoryTotals)),
		MonthlyTrend:   analytics.MonthlyTrend,
		Count:          analytics.Count,
		Average:        analytics.Average,
	}
	for category, total := range analytics.CategoryTotals {
		dto.CategoryTotals[string(category)] = total
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func filterFromQuery(r *http.Request) (Filter, error) {
	var filter Filter
	query := r.URL.Query()
	if category := query.Get("category"); category != "" {
		filter.Category = budget.ParseCategory(category)
	}
	if from := query.Get("from"); from != "" {
		parsed, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return Filter{}, err
		}
		filter.From = parsed
	}
	if to := query.Get("to"); to != "" {
		parsed, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return Filter{}, err
		}
		filter.To = parsed
	}
	if limit := query.Get("limit"); limit != "" {
		parsed, err := strconv.Atoi(limit)
		if err != nil {
			return Filter{}, err
		}
		filter.Limit = parsed
	}
	return filter, nil
}

func isValidationError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrMissingCategory) ||
		errors.Is(err, ErrMissingDescription)
}

func dtoToExpense(dto ExpenseDTO) Expense {
	return Expense{
		Id:          dto.Id,
		Amount:      dto.Amount,
		Category:    budget.ParseCategory(dto.Category),
		Description: dto.Description,
		Date:        dto.Date,
		EntryMethod: EntryMethod(dto.EntryMethod),
		Confidence:  dto.Confidence,
	}
}

func expenseToDTO(expense Expense) ExpenseDTO {
	return ExpenseDTO{
		Id:          expense.Id,
		Amount:      expense.Amount,
		Category:    string(expense.Category),
		Description: expense.Description,
		Date:        expense.Date,
		EntryMethod: string(expense.EntryMethod),
		Confidence:  expense.Confidence,
	}
}
