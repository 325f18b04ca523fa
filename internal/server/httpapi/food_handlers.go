package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/fooddiary/internal/server/models"
)

// mealRequest mirrors models.Meal with the date as a plain YYYY-MM-DD string.
type mealRequest struct {
	Date            string            `json:"date" validate:"required"`
	TimeOfDay       string            `json:"time_of_day"`
	Type            models.MealType   `json:"type"`
	Comment         string            `json:"comment"`
	SatietyBefore   int               `json:"satiety_before"`
	SatietyAfter    int               `json:"satiety_after"`
	ImageAssetID    *string           `json:"image_asset_id"`
	ManualNutrition bool              `json:"manual_nutrition"`
	Manual          models.Nutrition  `json:"manual"`
	Items           []models.MealItem `json:"items"`
}

func (m mealRequest) toModel(id string) (*models.Meal, error) {
	date, err := models.ParseDate(m.Date)
	if err != nil {
		return nil, err
	}
	return &models.Meal{
		ID:              id,
		Date:            date,
		TimeOfDay:       m.TimeOfDay,
		Type:            m.Type,
		Comment:         m.Comment,
		SatietyBefore:   m.SatietyBefore,
		SatietyAfter:    m.SatietyAfter,
		ImageAssetID:    m.ImageAssetID,
		ManualNutrition: m.ManualNutrition,
		Manual:          m.Manual,
		Items:           m.Items,
	}, nil
}

func (s *Server) productRoutes(r chi.Router) {
	r.Get("/", s.listProducts)
	r.Post("/", s.createProduct)
	r.Get("/{id}", s.getProduct)
	r.Put("/{id}", s.updateProduct)
	r.Delete("/{id}", s.deleteProduct)
}

func (s *Server) recipeRoutes(r chi.Router) {
	r.Get("/", s.listRecipes)
	r.Post("/", s.createRecipe)
	r.Get("/{id}", s.getRecipe)
	r.Put("/{id}", s.updateRecipe)
	r.Delete("/{id}", s.deleteRecipe)
}

func (s *Server) mealRoutes(r chi.Router) {
	r.Get("/", s.listMeals)
	r.Post("/", s.createMeal)
	r.Get("/{id}", s.getMeal)
	r.Put("/{id}", s.updateMeal)
	r.Delete("/{id}", s.deleteMeal)
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	page, err := queryPage(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	list, err := s.svc.Products.List(r.Context(), userIDFrom(r.Context()), r.URL.Query().Get("search"), page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if err := decode(w, r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.svc.Products.Create(r.Context(), userIDFrom(r.Context()), &p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Products.Get(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if err := decode(w, r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}
	p.ID = chi.URLParam(r, "id")
	res, err := s.svc.Products.Update(r.Context(), userIDFrom(r.Context()), &p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Products.Delete(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listRecipes(w http.ResponseWriter, r *http.Request) {
	page, err := queryPage(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	list, err := s.svc.Recipes.List(r.Context(), userIDFrom(r.Context()), r.URL.Query().Get("search"), page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) createRecipe(w http.ResponseWriter, r *http.Request) {
	var rec models.Recipe
	if err := decode(w, r, &rec); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.svc.Recipes.Create(r.Context(), userIDFrom(r.Context()), &rec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) getRecipe(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Recipes.Get(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) updateRecipe(w http.ResponseWriter, r *http.Request) {
	var rec models.Recipe
	if err := decode(w, r, &rec); err != nil {
		s.writeError(w, r, err)
		return
	}
	rec.ID = chi.URLParam(r, "id")
	res, err := s.svc.Recipes.Update(r.Context(), userIDFrom(r.Context()), &rec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Recipes.Delete(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listMeals(w http.ResponseWriter, r *http.Request) {
	from, to, err := queryRange(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	list, err := s.svc.Meals.ListByRange(r.Context(), userIDFrom(r.Context()), from, to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) createMeal(w http.ResponseWriter, r *http.Request) {
	var req mealRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	m, err := req.toModel("")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.svc.Meals.Create(r.Context(), userIDFrom(r.Context()), m)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) getMeal(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Meals.Get(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) updateMeal(w http.ResponseWriter, r *http.Request) {
	var req mealRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	m, err := req.toModel(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.svc.Meals.Update(r.Context(), userIDFrom(r.Context()), m)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) deleteMeal(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Meals.Delete(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
