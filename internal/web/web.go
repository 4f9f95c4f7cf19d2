// Package web serves the login and deadlines screens over http for use from
// a browser instead of the terminal. It talks to the same app.Service as the
// TUI; sessions are held in memory and die with the process.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avelis/duecal/internal/app"
	"github.com/avelis/duecal/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	loginTemplate = template.Must(template.ParseFS(templateFS, "templates/login.tmpl"))
	indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.tmpl"))
)

const sessionCookie = "duecal_session"

type Server struct {
	service *app.Service

	mu       sync.Mutex
	sessions map[string]model.Session
}

func NewServer(service *app.Service) *Server {
	return &Server{
		service:  service,
		sessions: make(map[string]model.Session),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.loginPageHandler)
	mux.HandleFunc("/login", s.loginHandler)
	mux.HandleFunc("/register", s.registerHandler)
	mux.HandleFunc("/logout", s.logoutHandler)
	mux.HandleFunc("/deadlines", s.deadlinesHandler)
	mux.HandleFunc("/deadlines/add", s.addHandler)
	mux.HandleFunc("/deadlines/delete", s.deleteHandler)
	mux.HandleFunc("/api/deadlines", s.apiDeadlinesHandler)
	mux.HandleFunc("/api/upcoming", s.apiUpcomingHandler)
	return mux
}

func (s *Server) loginPageHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if _, ok := s.sessionFromRequest(r); ok {
		http.Redirect(w, r, "/deadlines", http.StatusSeeOther)
		return
	}

	data := struct {
		Message string
	}{Message: r.URL.Query().Get("msg")}

	if err := loginTemplate.Execute(w, data); err != nil {
		writeError(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	session, err := s.service.Login(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		redirectMessage(w, r, "/", flashMessage(err))
		return
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = session
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
	redirectMessage(w, r, "/deadlines", fmt.Sprintf("Welcome, %s!", session.Username))
}

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := s.service.Register(r.Context(), r.FormValue("username"), r.FormValue("password")); err != nil {
		redirectMessage(w, r, "/", flashMessage(err))
		return
	}
	redirectMessage(w, r, "/", "Registration successful! Please log in.")
}

func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		s.mu.Lock()
		delete(s.sessions, cookie.Value)
		s.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) deadlinesHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessionFromRequest(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	deadlines, upcoming, err := s.loadScreen(r.Context(), session)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	data := struct {
		Username  string
		Message   string
		Deadlines []model.Deadline
		Notice    string
	}{
		Username:  session.Username,
		Message:   r.URL.Query().Get("msg"),
		Deadlines: deadlines,
		Notice:    app.UpcomingMessage(upcoming),
	}

	if err := indexTemplate.Execute(w, data); err != nil {
		writeError(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) addHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessionFromRequest(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	_, err := s.service.AddDeadline(r.Context(), session,
		r.FormValue("name"), r.FormValue("date"), r.FormValue("reminder"))
	if err != nil {
		redirectMessage(w, r, "/deadlines", flashMessage(err))
		return
	}
	redirectMessage(w, r, "/deadlines", "Deadline added successfully!")
}

func (s *Server) deleteHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessionFromRequest(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	date := strings.TrimSpace(r.FormValue("date"))
	if name == "" || date == "" {
		redirectMessage(w, r, "/deadlines", flashMessage(app.ErrSelectionRequired))
		return
	}

	if _, err := s.service.RemoveDeadline(r.Context(), session, name, date); err != nil {
		redirectMessage(w, r, "/deadlines", flashMessage(err))
		return
	}
	redirectMessage(w, r, "/deadlines", "Deadline deleted successfully!")
}

func (s *Server) apiDeadlinesHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessionFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, errors.New("login required"))
		return
	}

	deadlines, err := s.service.ListDeadlines(r.Context(), session)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, deadlines)
}

func (s *Server) apiUpcomingHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessionFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, errors.New("login required"))
		return
	}

	upcoming, err := s.service.Upcoming(r.Context(), session, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, upcoming)
}

func (s *Server) loadScreen(ctx context.Context, session model.Session) ([]model.Deadline, []model.Deadline, error) {
	deadlines, err := s.service.ListDeadlines(ctx, session)
	if err != nil {
		return nil, nil, err
	}
	upcoming, err := s.service.Upcoming(ctx, session, time.Now())
	if err != nil {
		return nil, nil, err
	}
	return deadlines, upcoming, nil
}

func (s *Server) sessionFromRequest(r *http.Request) (model.Session, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return model.Session{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[cookie.Value]
	return session, ok
}

func flashMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrEmptyInput):
		return "Please fill in all fields."
	case errors.Is(err, app.ErrInvalidDate):
		return "Please enter the date in YYYY-MM-DD format."
	case errors.Is(err, app.ErrDuplicateUsername):
		return "Username already exists."
	case errors.Is(err, app.ErrInvalidCredentials):
		return "Invalid username or password."
	case errors.Is(err, app.ErrNotFound):
		return "No matching deadline found."
	case errors.Is(err, app.ErrSelectionRequired):
		return "Please select a deadline to delete."
	default:
		return err.Error()
	}
}

func redirectMessage(w http.ResponseWriter, r *http.Request, path, message string) {
	http.Redirect(w, r, path+"?msg="+url.QueryEscape(message), http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.WriteHeader(status)
	_, _ = w.Write([]byte(err.Error()))
}
