package chat

import (
	"encoding/json"
	"net/http"

	"github.com/fintalk/fintalk/pkg/budget"
	"github.com/fintalk/fintalk/pkg/expense"
	log "github.com/sirupsen/logrus"
)

type chatRequestDTO struct {
	Message     string `json:"message"`
	EntryMethod string `json:"entryMethod"`
	Confidence  int    `json:"confidence"`
}

type chatReplyDTO struct {
	Reply   string              `json:"reply"`
	Screen  string              `json:"screen,omitempty"`
	Budget  *budget.PeriodDTO   `json:"budget,omitempty"`
	Expense *expense.ExpenseDTO `json:"expense,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (handler *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	log.Debug("Handling chat message")
	w.Header().Set("Content-Type", "application/json")

	var dto chatRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}
	entryMethod := expense.EntryMethod(dto.EntryMethod)
	if entryMethod != expense.EntryVoice {
		entryMethod = expense.EntryText
	}

	reply, err := handler.service.Respond(r.Context(), dto.Message, entryMethod, dto.Confidence)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := chatReplyDTO{Reply: reply.Text, Screen: reply.Screen}
	if reply.Period != nil {
		periodDTO := budget.PeriodToDTO(reply.Period)
		response.Budget = &periodDTO
	}
	if reply.Expense != nil {
		expenseDTO := expenseToDTO(*reply.Expense)
		response.Expense = &expenseDTO
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func expenseToDTO(e expense.Expense) expense.ExpenseDTO {
	return expense.ExpenseDTO{
		Id:          e.Id,
		Amount:      e.Amount,
		Category:    string(e.Category),
		Description: e.Description,
		Date:        e.Date,
		EntryMethod: string(e.EntryMethod),
		Confidence:  e.Confidence,
	}
}
