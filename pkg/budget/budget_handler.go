package budget

import (
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

type CategoryBudgetDTO struct {
	Limit float64 `json:"limit"`
	Spent float64 `json:"spent"`
}

type AlertDTO struct {
	Kind      string    `json:"type"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type PeriodDTO struct {
	Month      string                       `json:"month"`
	Year       int                          `json:"year"`
	TotalLimit float64                      `json:"totalBudget"`
	TotalSpent float64                      `json:"totalSpent"`
	Categories map[string]CategoryBudgetDTO `json:"categories"`
	Alerts     []AlertDTO                   `json:"alerts"`
	UpdatedAt  time.Time                    `json:"updatedAt"`
}

type updateBudgetDTO struct {
	TotalLimit *float64                     `json:"totalBudget"`
	Categories map[string]CategoryBudgetDTO `json:"categories"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (handler *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	period, err := handler.service.CurrentPeriod(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(PeriodToDTO(period)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// UpdateBudget updates category limits; when the request carries an explicit
// totalBudget it overrides the sum derived from category limits.
func (handler *Handler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating budget limits")
	w.Header().Set("Content-Type", "application/json")

	var dto updateBudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	limits := make(map[Category]float64, len(dto.Categories))
	for name, cb := range dto.Categories {
		if cb.Limit < 0 {
			http.Error(w, "category limit cannot be negative", http.StatusBadRequest)
			return
		}
		limits[ParseCategory(name)] = cb.Limit
	}

	period, err := handler.service.SetLimits(r.Context(), limits, dto.TotalLimit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(PeriodToDTO(period)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// ResetBudget discards the current period's limits, spend and alerts and
// rebuilds it from the configured template.
func (handler *Handler) ResetBudget(w http.ResponseWriter, r *http.Request) {
	log.Debug("Resetting budget period")
	w.Header().Set("Content-Type", "application/json")

	period, err := handler.service.ResetPeriod(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(PeriodToDTO(period)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *Handler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	period, err := handler.service.CurrentPeriod(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	alerts := make([]AlertDTO, 0, len(period.Alerts))
	for _, alert := range period.Alerts {
		alerts = append(alerts, alertToDTO(alert))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(alerts); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *Handler) ClearAlerts(w http.ResponseWriter, r *http.Request) {
	if _, err := handler.service.ClearAlerts(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func PeriodToDTO(period *Period) PeriodDTO {
	categories := make(map[string]CategoryBudgetDTO, len(period.Categories))
	for category, cb := range period.Categories {
		categories[string(category)] = CategoryBudgetDTO{Limit: cb.Limit, Spent: cb.Spent}
	}
	alerts := make([]AlertDTO, 0, len(period.Alerts))
	for _, alert := range period.Alerts {
		alerts = append(alerts, alertToDTO(alert))
	}
	return PeriodDTO{
		Month:      period.Month.String(),
		Year:       period.Year,
		TotalLimit: period.TotalLimit,
		TotalSpent: period.TotalSpent,
		Categories: categories,
		Alerts:     alerts,
		UpdatedAt:  period.UpdatedAt,
	}
}

func alertToDTO(alert Alert) AlertDTO {
	return AlertDTO{
		Kind:      string(alert.Kind),
		Category:  string(alert.Category),
		Message:   alert.Message,
		CreatedAt: alert.CreatedAt,
	}
}
