package app

import (
	"encoding/json"
	"net/http"

	"github.com/fintalk/fintalk/internal/config"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	r.HandleFunc("/api/health", healthCheck).Methods("GET")

	// Conversation
	r.HandleFunc("/api/chat", deps.ChatHandler.Chat).Methods("POST")

	// Budget
	r.HandleFunc("/api/budget", deps.BudgetHandler.GetBudget).Methods("GET")
	r.HandleFunc("/api/budget", deps.BudgetHandler.UpdateBudget).Methods("PUT")
	r.HandleFunc("/api/budget/reset", deps.BudgetHandler.ResetBudget).Methods("DELETE")
	r.HandleFunc("/api/alerts", deps.BudgetHandler.GetAlerts).Methods("GET")
	r.HandleFunc("/api/alerts", deps.BudgetHandler.ClearAlerts).Methods("DELETE")

	// Expenses
	r.HandleFunc("/api/expense", deps.ExpenseHandler.LogExpense).Methods("POST")
	r.HandleFunc("/api/expense", deps.ExpenseHandler.ListExpenses).Methods("GET")
	r.HandleFunc("/api/expense/{id}", deps.ExpenseHandler.GetExpense).Methods("GET")
	r.HandleFunc("/api/expense/{id}", deps.ExpenseHandler.UpdateExpense).Methods("PUT")
	r.HandleFunc("/api/expense/{id}", deps.ExpenseHandler.DeleteExpense).Methods("DELETE")
	r.HandleFunc("/api/analytics", deps.ExpenseHandler.GetAnalytics).Methods("GET")

	// Suggestions
	r.HandleFunc("/api/suggestions", deps.SuggestionHandler.GetSuggestions).Methods("GET")
	r.HandleFunc("/api/suggestions/{id}/action", deps.SuggestionHandler.ActOnSuggestion).Methods("POST")
	r.HandleFunc("/api/suggestions/{id}", deps.SuggestionHandler.DismissSuggestion).Methods("DELETE")

	// User settings
	r.HandleFunc("/api/user/settings", deps.UserHandler.GetSettings).Methods("GET")
	r.HandleFunc("/api/user/settings", deps.UserHandler.UpdateSettings).Methods("PUT")
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
