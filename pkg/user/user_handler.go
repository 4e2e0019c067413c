package user

import (
	"encoding/json"
	"net/http"

	"github.com/fintalk/fintalk/pkg/currency"
	log "github.com/sirupsen/logrus"
)

type SettingsDTO struct {
	Currency       string  `json:"currency"`
	SavingsGoal    float64 `json:"savingsGoal"`
	CurrentSavings float64 `json:"currentSavings"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (handler *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	settings, err := handler.service.Settings(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(settingsToDTO(settings)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating user settings")
	w.Header().Set("Content-Type", "application/json")

	var dto SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	code, ok := currency.ParseCode(dto.Currency)
	if !ok {
		http.Error(w, "unsupported currency code", http.StatusBadRequest)
		return
	}

	settings, err := handler.service.SetCurrency(r.Context(), code)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if dto.SavingsGoal != settings.SavingsGoal {
		settings, err = handler.service.SetSavingsGoal(r.Context(), dto.SavingsGoal)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(settingsToDTO(settings)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func settingsToDTO(settings Settings) SettingsDTO {
	return SettingsDTO{
		Currency:       string(settings.Currency),
		SavingsGoal:    settings.SavingsGoal,
		CurrentSavings: settings.CurrentSavings,
	}
}
