package handlers

import (
	"budget-server/middleware"
	"encoding/json"
	"net/http"
)

// Summary serves the dashboard's summary cards.
func (h *ReminderHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	summary, err := h.store.SummaryForUser(userID)
	if err != nil {
		http.Error(w, "Failed to build summary", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}
