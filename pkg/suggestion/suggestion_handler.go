package suggestion

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
)

type SuggestionDTO struct {
	Id      string  `json:"id"`
	Kind    string  `json:"type"`
	Message string  `json:"message"`
	Amount  float64 `json:"amount,omitempty"`
}

type actReplyDTO struct {
	Reply string `json:"reply"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (handler *Handler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	suggestions, err := handler.service.Current(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]SuggestionDTO, 0, len(suggestions))
	for _, suggestion := range suggestions {
		dtos = append(dtos, SuggestionDTO{
			Id:      suggestion.Id,
			Kind:    string(suggestion.Kind),
			Message: suggestion.Message,
			Amount:  suggestion.Amount,
		})
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *Handler) ActOnSuggestion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	reply, err := handler.service.Act(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, ErrSuggestionNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(actReplyDTO{Reply: reply}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *Handler) DismissSuggestion(w http.ResponseWriter, r *http.Request) {
	if err := handler.service.Dismiss(r.Context(), mux.Vars(r)["id"]); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
