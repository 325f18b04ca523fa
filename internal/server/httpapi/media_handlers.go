package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/fooddiary/internal/server/models"
	"github.com/dmitrijs2005/fooddiary/internal/server/services"
)

type uploadRequest struct {
	ContentType string `json:"content_type" validate:"required"`
	Size        int64  `json:"size" validate:"gt=0"`
}

type recognizeRequest struct {
	AssetID  string `json:"asset_id"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
	Note     string `json:"note" validate:"max=500"`
}

type estimateRequest struct {
	Description string `json:"description" validate:"required,max=2000"`
}

func (s *Server) imageRoutes(r chi.Router) {
	r.Post("/", s.createUpload)
	r.Post("/{id}/confirm", s.confirmUpload)
	r.Get("/{id}/url", s.imageURL)
	r.Delete("/{id}", s.deleteImage)
}

func (s *Server) aiRoutes(r chi.Router) {
	r.Get("/quota", s.aiQuota)
	r.Group(func(r chi.Router) {
		r.Use(s.requireRole(models.RolePremium, models.RoleAdmin))
		r.Use(s.rateLimit(s.aiLimiter))
		r.Post("/recognize", s.recognizeFood)
		r.Post("/estimate", s.estimateNutrition)
	})
}

func (s *Server) createUpload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	up, err := s.svc.Assets.CreateUpload(r.Context(), userIDFrom(r.Context()), req.ContentType, req.Size)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, up)
}

func (s *Server) confirmUpload(w http.ResponseWriter, r *http.Request) {
	a, err := s.svc.Assets.ConfirmUpload(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) imageURL(w http.ResponseWriter, r *http.Request) {
	url, err := s.svc.Assets.GetURL(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (s *Server) deleteImage(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Assets.Delete(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) aiQuota(w http.ResponseWriter, r *http.Request) {
	q, err := s.svc.AI.Quota(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) recognizeFood(w http.ResponseWriter, r *http.Request) {
	var req recognizeRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.svc.AI.RecognizeFood(r.Context(), userIDFrom(r.Context()), services.RecognizeRequest{
		AssetID:  req.AssetID,
		ImageURL: req.ImageURL,
		Note:     req.Note,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) estimateNutrition(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.svc.AI.EstimateNutrition(r.Context(), userIDFrom(r.Context()), req.Description)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
