package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/fooddiary/internal/server/models"
)

type checkedRequest struct {
	Checked bool `json:"checked"`
}

type addRecipeRequest struct {
	RecipeID string  `json:"recipe_id" validate:"required"`
	Servings float64 `json:"servings" validate:"gt=0"`
}

func (s *Server) shoppingListRoutes(r chi.Router) {
	r.Get("/", s.listShoppingLists)
	r.Post("/", s.createShoppingList)
	r.Get("/current", s.currentShoppingList)
	r.Get("/{id}", s.getShoppingList)
	r.Put("/{id}", s.updateShoppingList)
	r.Delete("/{id}", s.deleteShoppingList)
	r.Post("/{id}/current", s.setCurrentShoppingList)
	r.Put("/{id}/items/{itemID}/checked", s.setShoppingItemChecked)
	r.Post("/{id}/recipes", s.addRecipeToShoppingList)
}

func (s *Server) listShoppingLists(w http.ResponseWriter, r *http.Request) {
	lists, err := s.svc.ShoppingLists.List(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

func (s *Server) createShoppingList(w http.ResponseWriter, r *http.Request) {
	var l models.ShoppingList
	if err := decode(w, r, &l); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.svc.ShoppingLists.Create(r.Context(), userIDFrom(r.Context()), &l)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) currentShoppingList(w http.ResponseWriter, r *http.Request) {
	l, err := s.svc.ShoppingLists.GetCurrent(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) getShoppingList(w http.ResponseWriter, r *http.Request) {
	l, err := s.svc.ShoppingLists.Get(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) updateShoppingList(w http.ResponseWriter, r *http.Request) {
	var l models.ShoppingList
	if err := decode(w, r, &l); err != nil {
		s.writeError(w, r, err)
		return
	}
	l.ID = chi.URLParam(r, "id")
	res, err := s.svc.ShoppingLists.Update(r.Context(), userIDFrom(r.Context()), &l)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) deleteShoppingList(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.ShoppingLists.Delete(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setCurrentShoppingList(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.ShoppingLists.SetCurrent(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setShoppingItemChecked(w http.ResponseWriter, r *http.Request) {
	var req checkedRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	err := s.svc.ShoppingLists.SetItemChecked(r.Context(), userIDFrom(r.Context()),
		chi.URLParam(r, "id"), chi.URLParam(r, "itemID"), req.Checked)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addRecipeToShoppingList(w http.ResponseWriter, r *http.Request) {
	var req addRecipeRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	l, err := s.svc.ShoppingLists.AddFromRecipe(r.Context(), userIDFrom(r.Context()),
		chi.URLParam(r, "id"), req.RecipeID, req.Servings)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}
