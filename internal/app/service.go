// Package app implements the authentication and deadline operations on top
// of the store. Every operation takes input from a single user action and
// either succeeds or returns one of the error kinds in errors.go; nothing
// here retries or logs.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avelis/duecal/internal/db"
	"github.com/avelis/duecal/internal/model"
)

const (
	// DateLayout is the stored form of every event date.
	DateLayout = "2006-01-02"

	// HorizonDays is the lookahead window for upcoming deadlines,
	// inclusive on both ends.
	HorizonDays = 7
)

type Service struct {
	store *db.Store
}

func NewService(store *db.Store) *Service {
	return &Service{store: store}
}

// Register creates a new account. Credentials are stored verbatim; this is
// a single-user desktop utility, not a hardened login system.
func (s *Service) Register(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrEmptyInput
	}

	if _, err := s.store.CreateUser(ctx, username, password); err != nil {
		if errors.Is(err, db.ErrDuplicateUsername) {
			return ErrDuplicateUsername
		}
		return err
	}
	return nil
}

// Login verifies the exact username/password pair and returns the session
// value every subsequent deadline operation is keyed by.
func (s *Service) Login(ctx context.Context, username, password string) (model.Session, error) {
	id, found, err := s.store.FindUser(ctx, username, password)
	if err != nil {
		return model.Session{}, err
	}
	if !found {
		return model.Session{}, ErrInvalidCredentials
	}
	return model.Session{UserID: id, Username: username}, nil
}

// AddDeadline validates and persists a new deadline. The date must parse as
// YYYY-MM-DD and is stored canonically re-formatted; an empty date fails the
// parse and reports ErrInvalidDate, matching the name and reminder checks
// coming after it.
func (s *Service) AddDeadline(ctx context.Context, session model.Session, name, dateStr, reminder string) (model.Deadline, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(dateStr))
	if err != nil {
		return model.Deadline{}, ErrInvalidDate
	}

	name = strings.TrimSpace(name)
	reminder = strings.TrimSpace(reminder)
	if name == "" || reminder == "" {
		return model.Deadline{}, ErrEmptyInput
	}

	date := parsed.Format(DateLayout)
	id, err := s.store.InsertDeadline(ctx, session.UserID, name, date, reminder)
	if err != nil {
		return model.Deadline{}, err
	}

	return model.Deadline{
		ID:           id,
		UserID:       session.UserID,
		EventName:    name,
		EventDate:    date,
		ReminderTime: reminder,
	}, nil
}

func (s *Service) ListDeadlines(ctx context.Context, session model.Session) ([]model.Deadline, error) {
	return s.store.ListDeadlines(ctx, session.UserID)
}

// RemoveDeadline deletes every deadline of the session's user matching the
// name and stored date text. Duplicate rows go together; zero matches is
// ErrNotFound.
func (s *Service) RemoveDeadline(ctx context.Context, session model.Session, name, date string) (int64, error) {
	deleted, err := s.store.DeleteDeadlines(ctx, session.UserID, name, date)
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		return 0, ErrNotFound
	}
	return deleted, nil
}

// Upcoming returns the deadlines falling inside [today, today+HorizonDays].
// It recomputes from the store on every call; nothing is cached.
func (s *Service) Upcoming(ctx context.Context, session model.Session, today time.Time) ([]model.Deadline, error) {
	start := today.Format(DateLayout)
	end := today.AddDate(0, 0, HorizonDays).Format(DateLayout)
	return s.store.FindDeadlinesInRange(ctx, session.UserID, start, end)
}

// UpcomingMessage renders the notification text shown under the deadline
// list. Both front ends use it so the wording stays identical.
func UpcomingMessage(deadlines []model.Deadline) string {
	if len(deadlines) == 0 {
		return fmt.Sprintf("You have no deadlines in the next %d days.", HorizonDays)
	}

	lines := make([]string, 0, len(deadlines))
	for _, d := range deadlines {
		lines = append(lines, fmt.Sprintf("%s - %s", d.EventName, d.EventDate))
	}
	return "The following deadlines are approaching:\n\n" + strings.Join(lines, "\n")
}

// FormatDeadline is the single-line list form of a deadline.
func FormatDeadline(d model.Deadline) string {
	return fmt.Sprintf("%s - %s (Reminder: %s)", d.EventName, d.EventDate, d.ReminderTime)
}
