package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/fooddiary/internal/server/models"
)

type rolesRequest struct {
	Roles []string `json:"roles" validate:"required"`
}

type blockedRequest struct {
	Blocked bool `json:"blocked"`
}

type templateRequest struct {
	Subject  string `json:"subject" validate:"required"`
	HTMLBody string `json:"html_body"`
	TextBody string `json:"text_body"`
}

type testEmailRequest struct {
	To string `json:"to" validate:"required,email"`
}

// quotaRequest sets a per-user token limit; a null limit restores the default.
type quotaRequest struct {
	MonthlyTokenLimit *int `json:"monthly_token_limit" validate:"omitempty,gte=0"`
}

type userListResponse struct {
	Users []*models.User `json:"users"`
	Total int            `json:"total"`
}

func (s *Server) adminRoutes(r chi.Router) {
	r.Get("/users", s.adminListUsers)
	r.Get("/users/{id}", s.adminGetUser)
	r.Put("/users/{id}/roles", s.adminSetRoles)
	r.Put("/users/{id}/blocked", s.adminSetBlocked)
	r.Delete("/users/{id}", s.adminDeleteUser)

	r.Get("/email-templates", s.adminListTemplates)
	r.Get("/email-templates/{key}", s.adminGetTemplate)
	r.Put("/email-templates/{key}", s.adminPutTemplate)
	r.Post("/email-templates/{key}/test", s.adminTestTemplate)

	r.Get("/ai/usage", s.adminAIUsage)
	r.Get("/ai/quotas/{userID}", s.adminGetQuota)
	r.Put("/ai/quotas/{userID}", s.adminSetQuota)
}

func (s *Server) adminListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := queryPage(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	users, total, err := s.svc.Admin.ListUsers(r.Context(), r.URL.Query().Get("search"), page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userListResponse{Users: users, Total: total})
}

func (s *Server) adminGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.svc.Admin.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) adminSetRoles(w http.ResponseWriter, r *http.Request) {
	var req rolesRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := s.svc.Admin.SetRoles(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"), req.Roles)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) adminSetBlocked(w http.ResponseWriter, r *http.Request) {
	var req blockedRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := s.svc.Admin.SetBlocked(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"), req.Blocked)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) adminDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Admin.DeleteUser(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) adminListTemplates(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Admin.ListTemplates(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) adminGetTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Admin.GetTemplate(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) adminPutTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := s.svc.Admin.UpsertTemplate(r.Context(), &models.EmailTemplate{
		Key:      chi.URLParam(r, "key"),
		Subject:  req.Subject,
		HTMLBody: req.HTMLBody,
		TextBody: req.TextBody,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) adminTestTemplate(w http.ResponseWriter, r *http.Request) {
	var req testEmailRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.Admin.SendTestEmail(r.Context(), chi.URLParam(r, "key"), req.To); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) adminAIUsage(w http.ResponseWriter, r *http.Request) {
	from, to, err := queryRange(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	usage, err := s.svc.Admin.AIUsage(r.Context(), from, to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, usage)
}

func (s *Server) adminGetQuota(w http.ResponseWriter, r *http.Request) {
	q, err := s.svc.Admin.GetQuota(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) adminSetQuota(w http.ResponseWriter, r *http.Request) {
	var req quotaRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	q, err := s.svc.Admin.SetQuota(r.Context(), chi.URLParam(r, "userID"), req.MonthlyTokenLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}
