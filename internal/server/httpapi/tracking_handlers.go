package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/fooddiary/internal/server/models"
)

type measurementRequest struct {
	Date  string  `json:"date" validate:"required"`
	Value float64 `json:"value"`
}

type cycleRequest struct {
	StartDate string `json:"start_date" validate:"required"`
	Notes     string `json:"notes"`
}

type cycleDayRequest struct {
	Date     string   `json:"date" validate:"required"`
	IsPeriod bool     `json:"is_period"`
	Flow     int      `json:"flow"`
	Symptoms []string `json:"symptoms"`
	Notes    string   `json:"notes"`
}

type hydrationRequest struct {
	Timestamp *time.Time `json:"timestamp"`
	AmountML  int        `json:"amount_ml"`
}

func (s *Server) measurementRoutes(svc MeasurementService) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			from, to, err := queryRange(r)
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			list, err := svc.List(r.Context(), userIDFrom(r.Context()), from, to)
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, list)
		})
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var req measurementRequest
			if err := decode(w, r, &req); err != nil {
				s.writeError(w, r, err)
				return
			}
			date, err := models.ParseDate(req.Date)
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			m, err := svc.Upsert(r.Context(), userIDFrom(r.Context()), date, req.Value)
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, m)
		})
		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			if err := svc.Delete(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
				s.writeError(w, r, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	}
}

func (s *Server) cycleRoutes(r chi.Router) {
	r.Get("/", s.listCycles)
	r.Post("/", s.createCycle)
	r.Get("/prediction", s.predictCycle)
	r.Get("/{id}", s.getCycle)
	r.Delete("/{id}", s.deleteCycle)
	r.Put("/{id}/days", s.putCycleDay)
	r.Delete("/{id}/days/{date}", s.deleteCycleDay)
}

func (s *Server) listCycles(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Cycles.List(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) createCycle(w http.ResponseWriter, r *http.Request) {
	var req cycleRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	start, err := models.ParseDate(req.StartDate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.svc.Cycles.Create(r.Context(), userIDFrom(r.Context()), start, req.Notes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) predictCycle(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Cycles.Predict(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) getCycle(w http.ResponseWriter, r *http.Request) {
	c, err := s.svc.Cycles.Get(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) deleteCycle(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Cycles.Delete(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) putCycleDay(w http.ResponseWriter, r *http.Request) {
	var req cycleDayRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.svc.Cycles.AddOrUpdateDay(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"), models.CycleDay{
		Date:     date,
		IsPeriod: req.IsPeriod,
		Flow:     req.Flow,
		Symptoms: req.Symptoms,
		Notes:    req.Notes,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) deleteCycleDay(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r, "date")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.Cycles.RemoveDay(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"), date); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) hydrationRoutes(r chi.Router) {
	r.Post("/", s.addHydration)
	r.Get("/daily", s.dailyHydration)
	r.Delete("/{id}", s.deleteHydration)
}

func (s *Server) addHydration(w http.ResponseWriter, r *http.Request) {
	var req hydrationRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	var ts time.Time
	if req.Timestamp != nil {
		ts = *req.Timestamp
	}
	e, err := s.svc.Hydration.Add(r.Context(), userIDFrom(r.Context()), ts, req.AmountML)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) dailyHydration(w http.ResponseWriter, r *http.Request) {
	date, err := queryDate(r, "date")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	d, err := s.svc.Hydration.Daily(r.Context(), userIDFrom(r.Context()), date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) deleteHydration(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Hydration.Delete(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) statisticsRoutes(r chi.Router) {
	r.Get("/daily", s.dailyStatistics)
	r.Get("/weight", s.weightStatistics)
	r.Get("/summary", s.summaryStatistics)
}

func (s *Server) dailyStatistics(w http.ResponseWriter, r *http.Request) {
	from, to, err := queryRange(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	days, err := s.svc.Statistics.DailyNutrition(r.Context(), userIDFrom(r.Context()), from, to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func (s *Server) weightStatistics(w http.ResponseWriter, r *http.Request) {
	from, to, err := queryRange(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	points, err := s.svc.Statistics.WeightTrend(r.Context(), userIDFrom(r.Context()), from, to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (s *Server) summaryStatistics(w http.ResponseWriter, r *http.Request) {
	from, to, err := queryRange(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sum, err := s.svc.Statistics.Summary(r.Context(), userIDFrom(r.Context()), from, to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
