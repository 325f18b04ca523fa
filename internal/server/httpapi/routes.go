package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dmitrijs2005/fooddiary/internal/server/metrics"
	"github.com/dmitrijs2005/fooddiary/internal/server/models"
)

const requestTimeout = 60 * time.Second

// Handler builds the router with all middleware and routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(metrics.InstrumentHandler)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		r.Route("/auth", s.authRoutes)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Route("/profile", s.profileRoutes)
			r.Route("/products", s.productRoutes)
			r.Route("/recipes", s.recipeRoutes)
			r.Route("/meals", s.mealRoutes)
			r.Route("/shopping-lists", s.shoppingListRoutes)
			r.Route("/weights", s.measurementRoutes(s.svc.Weights))
			r.Route("/waists", s.measurementRoutes(s.svc.Waists))
			r.Route("/cycles", s.cycleRoutes)
			r.Route("/hydration", s.hydrationRoutes)
			r.Route("/statistics", s.statisticsRoutes)
			r.Route("/images", s.imageRoutes)
			r.Route("/ai", s.aiRoutes)

			r.Route("/admin", func(r chi.Router) {
				r.Use(s.requireRole(models.RoleAdmin))
				s.adminRoutes(r)
			})
		})
	})

	return r
}
