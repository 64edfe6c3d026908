package server

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck/internal/middleware"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/service"
)

type authPageData struct {
	Email string
	Error string
}

type dashboardData struct {
	Email  string
	Tasks  []models.Task
	Filter string
	Sort   string
	Error  string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, "login", authPageData{})
}

func (s *Server) handleSignupPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, "signup", authPageData{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := s.auth.SignIn(r.Context(), email, password)
	if err != nil {
		s.renderPage(w, "login", authPageData{Email: email, Error: err.Error()})
		return
	}

	s.startSession(w, r, user.ID.String(), user.Email)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := s.auth.SignUp(r.Context(), email, password)
	if err != nil {
		s.renderPage(w, "signup", authPageData{Email: email, Error: err.Error()})
		return
	}

	s.startSession(w, r, user.ID.String(), user.Email)
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request, userID, email string) {
	accessToken, refreshToken, err := s.tokens.GenerateTokenPair(userID, email)
	if err != nil {
		s.logger.Error("issue session tokens", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	middleware.SetSessionCookies(w, accessToken, refreshToken, s.tokens, s.secure)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.SignOut(r.Context()); err != nil {
		s.logger.Warn("logout without session", slog.Any("error", err))
	}

	middleware.ClearSessionCookies(w, s.secure)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := s.auth.CurrentUser(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	filter := r.URL.Query().Get("filter")
	if filter != service.StatusFilterAll && !models.ValidTaskStatus(filter) {
		filter = service.StatusFilterAll
	}
	sort := r.URL.Query().Get("sort")
	if sort != "asc" && sort != "desc" {
		sort = ""
	}
	flash := r.URL.Query().Get("error")

	// A flash message makes the page user-specific in a way the cache
	// key does not capture, so those renders bypass the cache.
	if flash == "" {
		if page, ok := s.cache.Get(user.ID, filter, sort); ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(page)
			return
		}
	}

	tasks, err := s.tasks.GetTasks(r.Context(), filter, sort)
	if err != nil {
		s.renderPage(w, "dashboard", dashboardData{
			Email:  user.Email,
			Filter: filter,
			Sort:   sort,
			Error:  err.Error(),
		})
		return
	}

	data := dashboardData{
		Email:  user.Email,
		Tasks:  tasks,
		Filter: filter,
		Sort:   sort,
		Error:  flash,
	}

	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, "dashboard", data); err != nil {
		s.logger.Error("render dashboard", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if flash == "" {
		s.cache.Put(user.ID, filter, sort, buf.Bytes())
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	input := service.CreateTaskInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		DueDate:     r.FormValue("due_date"),
		Status:      r.FormValue("status"),
	}

	if _, err := s.tasks.CreateTask(r.Context(), input); err != nil {
		s.redirectDashboard(w, r, err)
		return
	}

	s.redirectDashboard(w, r, nil)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid task id", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	patch := service.UpdateTaskInput{}
	if v, ok := formValue(r, "title"); ok {
		patch.Title = &v
	}
	if v, ok := formValue(r, "description"); ok {
		patch.Description = &v
	}
	if v, ok := formValue(r, "due_date"); ok {
		patch.DueDate = &v
	}
	if v, ok := formValue(r, "status"); ok {
		patch.Status = &v
	}

	if _, err := s.tasks.UpdateTask(r.Context(), id, patch); err != nil {
		s.redirectDashboard(w, r, err)
		return
	}

	s.redirectDashboard(w, r, nil)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid task id", http.StatusBadRequest)
		return
	}

	if err := s.tasks.DeleteTask(r.Context(), id); err != nil {
		s.redirectDashboard(w, r, err)
		return
	}

	s.redirectDashboard(w, r, nil)
}

func (s *Server) redirectDashboard(w http.ResponseWriter, r *http.Request, err error) {
	target := "/dashboard"
	if err != nil {
		target += "?error=" + url.QueryEscape(err.Error())
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) renderPage(w http.ResponseWriter, name string, data interface{}) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("render template", slog.String("template", name), slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func formValue(r *http.Request, name string) (string, bool) {
	values, ok := r.PostForm[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}
