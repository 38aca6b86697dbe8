package store

import (
	"budget-server/models"
	"database/sql"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type Store struct {
	db *sql.DB

	// now is swapped out in tests to pin the derivation clock.
	now func() time.Time
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &Store{db: db, now: time.Now}
	if err := store.init(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *Store) init() error {
	if _, err := s.db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		display_name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS reminders (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		title TEXT NOT NULL,
		description TEXT,
		due_date DATETIME NOT NULL,
		category TEXT NOT NULL DEFAULT 'bill',
		amount TEXT,
		is_recurring BOOLEAN NOT NULL DEFAULT FALSE,
		recurring_interval TEXT NOT NULL DEFAULT 'monthly',
		status TEXT NOT NULL DEFAULT 'pending',
		spawned_from TEXT UNIQUE REFERENCES reminders(id),
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_reminders_user ON reminders(user_id);
	CREATE INDEX IF NOT EXISTS idx_reminders_due ON reminders(due_date);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// User operations

func (s *Store) CreateUser(username, displayName, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}

	_, err = s.db.Exec(`
		INSERT INTO users (id, username, display_name, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, user.ID, user.Username, user.DisplayName, user.PasswordHash, user.CreatedAt)

	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Store) GetUserByID(id string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRow(`
		SELECT id, username, display_name, password_hash, created_at
		FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Username, &u.DisplayName, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(username string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRow(`
		SELECT id, username, display_name, password_hash, created_at
		FROM users WHERE username = ?
	`, username).Scan(&u.ID, &u.Username, &u.DisplayName, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetAllUsers() ([]models.User, error) {
	rows, err := s.db.Query(`
		SELECT id, username, display_name, password_hash, created_at
		FROM users ORDER BY username ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.DisplayName, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) UpdateUserDisplayName(id, displayName string) error {
	_, err := s.db.Exec("UPDATE users SET display_name = ? WHERE id = ?", displayName, id)
	return err
}

func (s *Store) ValidatePassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

func (s *Store) userExists(id string) (bool, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM users WHERE id = ?", id).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Reminder operations
//
// Every persisted write runs models.DeriveStatus first, so a reminder can
// never be saved pending once its due date has elapsed. The stored status may
// therefore differ from what the caller supplied.

func (s *Store) CreateReminder(r *models.Reminder) (*models.Reminder, error) {
	r.ApplyDefaults()
	if err := r.Validate(); err != nil {
		return nil, err
	}

	ok, err := s.userExists(r.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.ErrOwnerNotFound
	}

	r.ID = uuid.New().String()
	r.CreatedAt = s.now()
	r.Status = models.DeriveStatus(r.Status, r.DueDate, s.now())

	_, err = s.db.Exec(`
		INSERT INTO reminders (id, user_id, title, description, due_date, category,
			amount, is_recurring, recurring_interval, status, spawned_from, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULLIF(?, ''), ?)
	`, r.ID, r.UserID, r.Title, r.Description, r.DueDate, r.Category,
		r.Amount, r.IsRecurring, r.RecurringInterval, r.Status, r.SpawnedFrom, r.CreatedAt)

	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Store) GetReminder(id, userID string) (*models.Reminder, error) {
	return scanReminder(s.db.QueryRow(`
		SELECT id, user_id, title, description, due_date, category, amount,
			is_recurring, recurring_interval, status, COALESCE(spawned_from, ''), created_at
		FROM reminders WHERE id = ? AND user_id = ?
	`, id, userID))
}

func (s *Store) GetRemindersForUser(userID string) ([]models.Reminder, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, title, description, due_date, category, amount,
			is_recurring, recurring_interval, status, COALESCE(spawned_from, ''), created_at
		FROM reminders
		WHERE user_id = ?
		ORDER BY due_date ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []models.Reminder
	for rows.Next() {
		var r models.Reminder
		err := rows.Scan(&r.ID, &r.UserID, &r.Title, &r.Description, &r.DueDate, &r.Category,
			&r.Amount, &r.IsRecurring, &r.RecurringInterval, &r.Status, &r.SpawnedFrom, &r.CreatedAt)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

// UpdateReminder persists the full record r, which must already carry ID and
// UserID. Validation and the derivation guard run the same as on create.
func (s *Store) UpdateReminder(r *models.Reminder) (*models.Reminder, error) {
	r.ApplyDefaults()
	if err := r.Validate(); err != nil {
		return nil, err
	}

	r.Status = models.DeriveStatus(r.Status, r.DueDate, s.now())

	res, err := s.db.Exec(`
		UPDATE reminders
		SET title = ?, description = ?, due_date = ?, category = ?, amount = ?,
			is_recurring = ?, recurring_interval = ?, status = ?
		WHERE id = ? AND user_id = ?
	`, r.Title, r.Description, r.DueDate, r.Category, r.Amount,
		r.IsRecurring, r.RecurringInterval, r.Status, r.ID, r.UserID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, models.ErrNotFound
	}
	return r, nil
}

func (s *Store) DeleteReminder(id, userID string) error {
	res, err := s.db.Exec("DELETE FROM reminders WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// CompleteReminder marks the reminder completed and, when it is recurring,
// spawns the successor in the same transaction: same owner, title,
// description, category, amount and interval, status pending, due date
// advanced by one interval. The successor records the original's id in
// spawned_from, and the UNIQUE constraint on that column means a replayed
// completion finds the existing successor instead of inserting a second one.
//
// Returns the completed reminder and the successor (nil for non-recurring
// reminders).
func (s *Store) CompleteReminder(id, userID string) (*models.Reminder, *models.Reminder, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	r, err := scanReminder(tx.QueryRow(`
		SELECT id, user_id, title, description, due_date, category, amount,
			is_recurring, recurring_interval, status, COALESCE(spawned_from, ''), created_at
		FROM reminders WHERE id = ? AND user_id = ?
	`, id, userID))
	if err != nil {
		return nil, nil, err
	}

	alreadyCompleted := r.Status == models.StatusCompleted
	if !alreadyCompleted {
		if _, err := tx.Exec("UPDATE reminders SET status = ? WHERE id = ?", models.StatusCompleted, id); err != nil {
			return nil, nil, err
		}
		r.Status = models.StatusCompleted
	}

	var successor *models.Reminder
	if r.IsRecurring {
		successor, err = scanReminder(tx.QueryRow(`
			SELECT id, user_id, title, description, due_date, category, amount,
				is_recurring, recurring_interval, status, COALESCE(spawned_from, ''), created_at
			FROM reminders WHERE spawned_from = ?
		`, id))
		if err == models.ErrNotFound {
			nextDue := models.NextDueDate(r.DueDate, r.RecurringInterval)
			successor = &models.Reminder{
				ID:                uuid.New().String(),
				UserID:            r.UserID,
				Title:             r.Title,
				Description:       r.Description,
				DueDate:           nextDue,
				Category:          r.Category,
				Amount:            r.Amount,
				IsRecurring:       true,
				RecurringInterval: r.RecurringInterval,
				// The derivation guard applies to this insert like any other
				// write: a successor whose advanced due date is still in the
				// past lands directly in overdue.
				Status:      models.DeriveStatus(models.StatusPending, nextDue, s.now()),
				SpawnedFrom: r.ID,
				CreatedAt:   s.now(),
			}
			_, err = tx.Exec(`
				INSERT INTO reminders (id, user_id, title, description, due_date, category,
					amount, is_recurring, recurring_interval, status, spawned_from, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, successor.ID, successor.UserID, successor.Title, successor.Description,
				successor.DueDate, successor.Category, successor.Amount, successor.IsRecurring,
				successor.RecurringInterval, successor.Status, successor.SpawnedFrom, successor.CreatedAt)
		}
		if err != nil {
			return nil, nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return r, successor, nil
}

// SummaryForUser aggregates the user's reminders for the dashboard summary
// cards. Sums run over decimals in Go rather than in SQL, since amounts are
// stored as decimal strings.
func (s *Store) SummaryForUser(userID string) (*models.Summary, error) {
	reminders, err := s.GetRemindersForUser(userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	summary := &models.Summary{ByCategory: make(map[string]decimal.Decimal)}
	for _, r := range reminders {
		switch r.Status {
		case models.StatusPending:
			summary.Pending++
		case models.StatusOverdue:
			summary.Overdue++
		case models.StatusCompleted:
			summary.Completed++
		}

		if r.Status == models.StatusCompleted {
			continue
		}
		if !r.DueDate.Before(now) && r.DueDate.Before(now.AddDate(0, 0, 7)) {
			summary.DueWithinWeek++
		}
		if r.Amount.Valid {
			summary.TotalOutstanding = summary.TotalOutstanding.Add(r.Amount.Decimal)
			summary.ByCategory[r.Category] = summary.ByCategory[r.Category].Add(r.Amount.Decimal)
		}
	}
	return summary, nil
}

type reminderRow interface {
	Scan(dest ...interface{}) error
}

func scanReminder(row reminderRow) (*models.Reminder, error) {
	var r models.Reminder
	err := row.Scan(&r.ID, &r.UserID, &r.Title, &r.Description, &r.DueDate, &r.Category,
		&r.Amount, &r.IsRecurring, &r.RecurringInterval, &r.Status, &r.SpawnedFrom, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
