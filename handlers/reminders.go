package handlers

import (
	"budget-server/middleware"
	"budget-server/models"
	"budget-server/store"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

type ReminderHandler struct {
	store *store.Store
	hub   *Hub
}

func NewReminderHandler(s *store.Store, h *Hub) *ReminderHandler {
	return &ReminderHandler{store: s, hub: h}
}

// ReminderResponse is a persisted reminder plus the presenter's display
// object. Display is recomputed from the due date and paid/overdue flags at
// response time, not read from the stored status field, so the two can
// disagree: a record persisted as overdue can still render "Due soon" when
// the flags the renderer saw were stale. That mirrors what the browser client
// does on every render and is intentional.
type ReminderResponse struct {
	models.Reminder
	Display models.DisplayStatus `json:"display"`
}

func presentReminder(r models.Reminder, now time.Time) ReminderResponse {
	snap := models.ReminderSnapshot{
		DueDate:  r.DueDate,
		Amount:   r.Amount.Decimal,
		Category: r.Category,
		Paid:     r.Status == models.StatusCompleted,
		Overdue:  r.Status == models.StatusOverdue,
	}
	display := models.DisplayFor(snap, now)
	if !r.Amount.Valid {
		// No amount means no monetary figure: the presenter's Amount input
		// is a required part of its contract, so a reminder without one gets
		// no display amount rather than a fabricated "$0.00".
		display.Amount = ""
	}
	return ReminderResponse{Reminder: r, Display: display}
}

func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	var req models.CreateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		http.Error(w, "Invalid due date: "+err.Error(), http.StatusBadRequest)
		return
	}

	reminder := &models.Reminder{
		UserID:            userID,
		Title:             req.Title,
		Description:       req.Description,
		DueDate:           dueDate,
		Category:          req.Category,
		Amount:            req.Amount,
		IsRecurring:       req.IsRecurring,
		RecurringInterval: req.RecurringInterval,
		Status:            req.Status,
	}

	created, err := h.store.CreateReminder(reminder)
	if err != nil {
		writeReminderError(w, err)
		return
	}

	h.hub.NotifyRemindersChanged(userID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(presentReminder(*created, time.Now()))
}

func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	reminders, err := h.store.GetRemindersForUser(userID)
	if err != nil {
		http.Error(w, "Failed to fetch reminders", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	responses := make([]ReminderResponse, len(reminders))
	for i, rem := range reminders {
		responses[i] = presentReminder(rem, now)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

func (h *ReminderHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	reminderID := r.PathValue("id")

	reminder, err := h.store.GetReminder(reminderID, userID)
	if err != nil {
		writeReminderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(presentReminder(*reminder, time.Now()))
}

func (h *ReminderHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	reminderID := r.PathValue("id")

	reminder, err := h.store.GetReminder(reminderID, userID)
	if err != nil {
		writeReminderError(w, err)
		return
	}

	var req models.UpdateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Title != nil {
		reminder.Title = *req.Title
	}
	if req.Description != nil {
		reminder.Description = *req.Description
	}
	if req.DueDate != nil {
		dueDate, err := parseDueDate(*req.DueDate)
		if err != nil {
			http.Error(w, "Invalid due date: "+err.Error(), http.StatusBadRequest)
			return
		}
		reminder.DueDate = dueDate
	}
	if req.Category != nil {
		reminder.Category = *req.Category
	}
	if req.Amount != nil {
		reminder.Amount = *req.Amount
	}
	if req.IsRecurring != nil {
		reminder.IsRecurring = *req.IsRecurring
	}
	if req.RecurringInterval != nil {
		reminder.RecurringInterval = *req.RecurringInterval
	}
	if req.Status != nil {
		reminder.Status = *req.Status
	}

	updated, err := h.store.UpdateReminder(reminder)
	if err != nil {
		writeReminderError(w, err)
		return
	}

	h.hub.NotifyRemindersChanged(userID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(presentReminder(*updated, time.Now()))
}

func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	reminderID := r.PathValue("id")

	if reminderID == "" {
		http.Error(w, "Reminder ID required", http.StatusBadRequest)
		return
	}

	if err := h.store.DeleteReminder(reminderID, userID); err != nil {
		writeReminderError(w, err)
		return
	}

	h.hub.NotifyRemindersChanged(userID)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
}

// Complete marks a reminder as paid. For recurring reminders the response
// also carries the successor spawned for the next billing cycle.
func (h *ReminderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	reminderID := r.PathValue("id")

	completed, successor, err := h.store.CompleteReminder(reminderID, userID)
	if err != nil {
		writeReminderError(w, err)
		return
	}

	h.hub.NotifyRemindersChanged(userID)

	now := time.Now()
	resp := struct {
		Reminder  ReminderResponse  `json:"reminder"`
		Successor *ReminderResponse `json:"successor,omitempty"`
	}{Reminder: presentReminder(*completed, now)}
	if successor != nil {
		s := presentReminder(*successor, now)
		resp.Successor = &s
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func writeReminderError(w http.ResponseWriter, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		http.Error(w, ve.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrOwnerNotFound):
		http.Error(w, "Owner not found", http.StatusNotFound)
	case errors.Is(err, models.ErrNotFound):
		http.Error(w, "Reminder not found", http.StatusNotFound)
	default:
		http.Error(w, "Failed to save reminder", http.StatusInternalServerError)
	}
}

// parseDueDate accepts ISO 8601 plus a few common date formats.
func parseDueDate(input string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t, nil
	}

	formats := []string{
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, input); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %q", input)
}
