package handlers

import (
	"errors"
	"net/http"
	"strings"

	"pulperia-go/internal/service"
	"pulperia-go/internal/store"

	"github.com/go-chi/chi/v5"
)

type ingredienteCreateRequest struct {
	Nombre   string  `json:"nombre"`
	Unidad   string  `json:"unidad"`
	Cantidad float64 `json:"cantidad"`
}

type ingredienteReponerRequest struct {
	Cantidad float64 `json:"cantidad"`
}

type ingredienteRead struct {
	ID       string  `json:"id"`
	Nombre   string  `json:"nombre"`
	Unidad   string  `json:"unidad"`
	Cantidad float64 `json:"cantidad"`
}

func toIngredienteRead(i store.Ingredient) ingredienteRead {
	return ingredienteRead{ID: i.ID, Nombre: i.Nombre, Unidad: i.Unidad, Cantidad: i.Cantidad}
}

func (s *Server) IngredientesGet(w http.ResponseWriter, r *http.Request) {
	items := s.App.Inventory().List()
	out := make([]ingredienteRead, 0, len(items))
	for _, ing := range items {
		out = append(out, toIngredienteRead(ing))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) IngredienteCreatePost(w http.ResponseWriter, r *http.Request) {
	var req ingredienteCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Cuerpo JSON inválido")
		return
	}
	if strings.TrimSpace(req.Nombre) == "" || strings.TrimSpace(req.Unidad) == "" {
		s.writeError(w, http.StatusBadRequest, "Nombre y unidad son obligatorios")
		return
	}
	if req.Cantidad < 0 {
		s.writeError(w, http.StatusBadRequest, "La cantidad no puede ser negativa")
		return
	}

	ing, err := s.App.Inventory().Add(strings.TrimSpace(req.Nombre), strings.TrimSpace(req.Unidad), req.Cantidad)
	if err != nil {
		s.App.Log().Error("create ingredient", "err", err)
		s.writeError(w, http.StatusInternalServerError, "No se pudo crear el ingrediente")
		return
	}
	s.writeJSON(w, http.StatusCreated, toIngredienteRead(ing))
}

func (s *Server) IngredienteReponerPatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ingredienteReponerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Cuerpo JSON inválido")
		return
	}
	if req.Cantidad <= 0 {
		s.writeError(w, http.StatusBadRequest, "La cantidad a reponer debe ser positiva")
		return
	}

	ing, err := s.App.Inventory().Replenish(id, req.Cantidad)
	if err != nil {
		if errors.Is(err, service.ErrIngredienteNoEncontrado) {
			s.writeError(w, http.StatusNotFound, "Ingrediente no encontrado")
			return
		}
		s.App.Log().Error("replenish ingredient", "err", err)
		s.writeError(w, http.StatusInternalServerError, "No se pudo reponer el stock")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":         "Stock repuesto correctamente",
		"ingrediente":     ing.Nombre,
		"cantidad_actual": ing.Cantidad,
	})
}
