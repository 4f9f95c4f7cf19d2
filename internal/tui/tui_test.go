package tui

import (
	"context"
	"testing"

	"github.com/avelis/duecal/internal/app"
	"github.com/avelis/duecal/internal/db"
)

func TestRegisterThenLoginTransitionsToMainScreen(t *testing.T) {
	ui, cleanup := newTestUI(t)
	defer cleanup()

	ui.loginFields[fieldUsername].Value = "alice"
	ui.loginFields[fieldPassword].Value = "pw1"
	if err := ui.submitRegister(nil, nil); err != nil {
		t.Fatalf("register: %v", err)
	}
	if ui.status != "Registration successful! Please log in." {
		t.Fatalf("unexpected status %q", ui.status)
	}
	if ui.session != nil {
		t.Fatalf("expected no session after register")
	}
	if ui.loginFields[fieldUsername].Value != "" {
		t.Fatalf("expected login fields to be cleared")
	}

	ui.loginFields[fieldUsername].Value = "alice"
	ui.loginFields[fieldPassword].Value = "wrong"
	if err := ui.submitLogin(nil, nil); err != nil {
		t.Fatalf("login: %v", err)
	}
	if ui.session != nil {
		t.Fatalf("expected failed login to keep login screen")
	}
	if ui.status != "Invalid username or password." {
		t.Fatalf("unexpected status %q", ui.status)
	}

	ui.loginFields[fieldUsername].Value = "alice"
	ui.loginFields[fieldPassword].Value = "pw1"
	if err := ui.submitLogin(nil, nil); err != nil {
		t.Fatalf("login: %v", err)
	}
	if ui.session == nil || ui.session.Username != "alice" {
		t.Fatalf("expected session for alice, got %+v", ui.session)
	}
	if ui.focus != viewForm {
		t.Fatalf("expected focus on form after login, got %q", ui.focus)
	}
	if ui.status != "Welcome, alice!" {
		t.Fatalf("unexpected status %q", ui.status)
	}
}

func TestSubmitDeadlineRefreshesListAndNotice(t *testing.T) {
	ui, cleanup := newTestUI(t)
	defer cleanup()
	loginTestUser(t, ui)

	ui.formFields[fieldEventName].Value = "Midterm"
	ui.formFields[fieldEventDate].Value = "not-a-date"
	ui.formFields[fieldReminder].Value = "09:00 AM"
	if err := ui.submitDeadline(nil, nil); err != nil {
		t.Fatalf("submit deadline: %v", err)
	}
	if ui.status != "Please enter the date in YYYY-MM-DD format." {
		t.Fatalf("unexpected status %q", ui.status)
	}
	if len(ui.deadlines) != 0 {
		t.Fatalf("expected no deadlines after rejected input, got %d", len(ui.deadlines))
	}

	ui.formFields[fieldEventDate].Value = "2030-01-02"
	if err := ui.submitDeadline(nil, nil); err != nil {
		t.Fatalf("submit deadline: %v", err)
	}
	if ui.status != "Deadline added successfully!" {
		t.Fatalf("unexpected status %q", ui.status)
	}
	if len(ui.deadlines) != 1 {
		t.Fatalf("expected 1 deadline, got %d", len(ui.deadlines))
	}
	if ui.formFields[fieldEventName].Value != "" {
		t.Fatalf("expected form fields to be cleared")
	}
}

func TestDeleteSelectedRequiresSelection(t *testing.T) {
	ui, cleanup := newTestUI(t)
	defer cleanup()
	loginTestUser(t, ui)
	ui.focus = viewList

	if err := ui.deleteSelected(nil, nil); err != nil {
		t.Fatalf("delete with empty list: %v", err)
	}
	if ui.status != "Please select a deadline to delete." {
		t.Fatalf("unexpected status %q", ui.status)
	}

	if _, err := ui.service.AddDeadline(context.Background(), *ui.session, "Midterm", "2030-01-02", "09:00 AM"); err != nil {
		t.Fatalf("add deadline: %v", err)
	}
	if err := ui.refresh(); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	ui.selected = 0

	if err := ui.deleteSelected(nil, nil); err != nil {
		t.Fatalf("delete selected: %v", err)
	}
	if ui.status != "Deadline deleted successfully!" {
		t.Fatalf("unexpected status %q", ui.status)
	}
	if len(ui.deadlines) != 0 {
		t.Fatalf("expected empty list after delete, got %d", len(ui.deadlines))
	}
}

func TestDeleteIgnoredWhileTypingInForm(t *testing.T) {
	ui, cleanup := newTestUI(t)
	defer cleanup()
	loginTestUser(t, ui)
	ui.focus = viewForm
	ui.status = ""

	if err := ui.deleteSelected(nil, nil); err != nil {
		t.Fatalf("delete while editing: %v", err)
	}
	if ui.status != "" {
		t.Fatalf("expected delete to be ignored while editing, got status %q", ui.status)
	}
}

func loginTestUser(t *testing.T, ui *UI) {
	t.Helper()
	ui.loginFields[fieldUsername].Value = "alice"
	ui.loginFields[fieldPassword].Value = "pw1"
	if err := ui.submitRegister(nil, nil); err != nil {
		t.Fatalf("register: %v", err)
	}
	ui.loginFields[fieldUsername].Value = "alice"
	ui.loginFields[fieldPassword].Value = "pw1"
	if err := ui.submitLogin(nil, nil); err != nil {
		t.Fatalf("login: %v", err)
	}
	if ui.session == nil {
		t.Fatalf("expected session after login")
	}
}

func newTestUI(t *testing.T) (*UI, func()) {
	t.Helper()
	conn, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return newUI(app.NewService(db.NewStore(conn))), func() {
		_ = conn.Close()
	}
}
