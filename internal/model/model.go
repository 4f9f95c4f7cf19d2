package model

type User struct {
	ID       int64
	Username string
	Password string
}

// Deadline keeps EventDate as the stored ISO YYYY-MM-DD text; it is the
// value delete-by-match compares against, so it is never re-parsed after
// insertion.
type Deadline struct {
	ID           int64
	UserID       int64
	EventName    string
	EventDate    string
	ReminderTime string
}

// Session identifies the authenticated user for the current run. It is
// passed explicitly to every deadline operation and is never persisted.
type Session struct {
	UserID   int64
	Username string
}
