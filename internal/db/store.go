package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/avelis/duecal/internal/model"
)

// ErrDuplicateUsername reports a violation of the users.username unique
// constraint.
var ErrDuplicateUsername = errors.New("username already exists")

type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateUser(ctx context.Context, username, password string) (int64, error) {
	result, err := s.DB.ExecContext(ctx,
		"INSERT INTO users (username, password) VALUES (?, ?)",
		username, password,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, ErrDuplicateUsername
		}
		return 0, err
	}
	return result.LastInsertId()
}

// FindUser returns the id of the user with exactly this username and
// password, or found == false when no row matches.
func (s *Store) FindUser(ctx context.Context, username, password string) (int64, bool, error) {
	var id int64
	err := s.DB.QueryRowContext(ctx,
		"SELECT id FROM users WHERE username = ? AND password = ?",
		username, password,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (s *Store) InsertDeadline(ctx context.Context, userID int64, name, date, reminder string) (int64, error) {
	result, err := s.DB.ExecContext(ctx,
		"INSERT INTO deadlines (user_id, event_name, event_date, reminder_time) VALUES (?, ?, ?, ?)",
		userID, name, date, reminder,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *Store) ListDeadlines(ctx context.Context, userID int64) ([]model.Deadline, error) {
	rows, err := s.DB.QueryContext(ctx,
		"SELECT id, user_id, event_name, event_date, reminder_time FROM deadlines WHERE user_id = ? ORDER BY event_date, id",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDeadlines(rows)
}

// DeleteDeadlines removes every deadline of the user matching both the
// event name and the stored date text, and reports how many rows went.
func (s *Store) DeleteDeadlines(ctx context.Context, userID int64, name, date string) (int64, error) {
	result, err := s.DB.ExecContext(ctx,
		"DELETE FROM deadlines WHERE user_id = ? AND event_name = ? AND event_date = ?",
		userID, name, date,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// FindDeadlinesInRange returns the user's deadlines with start <= event_date
// <= end. Dates are ISO strings, so BETWEEN compares them in date order.
func (s *Store) FindDeadlinesInRange(ctx context.Context, userID int64, start, end string) ([]model.Deadline, error) {
	rows, err := s.DB.QueryContext(ctx,
		"SELECT id, user_id, event_name, event_date, reminder_time FROM deadlines WHERE user_id = ? AND event_date BETWEEN ? AND ? ORDER BY event_date, id",
		userID, start, end,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDeadlines(rows)
}

func scanDeadlines(rows *sql.Rows) ([]model.Deadline, error) {
	result := make([]model.Deadline, 0)
	for rows.Next() {
		var d model.Deadline
		if err := rows.Scan(&d.ID, &d.UserID, &d.EventName, &d.EventDate, &d.ReminderTime); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}
