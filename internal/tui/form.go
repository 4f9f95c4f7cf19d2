package tui

import (
	"errors"
	"strings"

	"github.com/avelis/duecal/internal/app"
)

type formField struct {
	Label  string
	Value  string
	Masked bool
}

const (
	fieldUsername = iota
	fieldPassword
)

const (
	fieldEventName = iota
	fieldEventDate
	fieldReminder
)

func buildLoginFields() []formField {
	return []formField{
		{Label: "Username"},
		{Label: "Password", Masked: true},
	}
}

func buildDeadlineFields() []formField {
	return []formField{
		{Label: "Event Name"},
		{Label: "Event Date (YYYY-MM-DD)"},
		{Label: "Reminder Time (e.g., 09:00 AM)"},
	}
}

func clearFields(fields []formField) {
	for i := range fields {
		fields[i].Value = ""
	}
}

func maskValue(field formField) string {
	if !field.Masked {
		return field.Value
	}
	return strings.Repeat("*", len([]rune(field.Value)))
}

// loginMessage and deadlineMessage translate the service error kinds into
// the text shown in the status line. Every error stops here.
func loginMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrEmptyInput):
		return "Please provide both username and password."
	case errors.Is(err, app.ErrDuplicateUsername):
		return "Username already exists."
	case errors.Is(err, app.ErrInvalidCredentials):
		return "Invalid username or password."
	default:
		return err.Error()
	}
}

func deadlineMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrInvalidDate):
		return "Please enter the date in YYYY-MM-DD format."
	case errors.Is(err, app.ErrEmptyInput):
		return "Please provide an event name and reminder time."
	case errors.Is(err, app.ErrNotFound):
		return "No matching deadline found."
	case errors.Is(err, app.ErrSelectionRequired):
		return "Please select a deadline to delete."
	default:
		return err.Error()
	}
}
