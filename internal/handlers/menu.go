package handlers

import (
	"errors"
	"net/http"
	"strings"

	"pulperia-go/internal/service"
	"pulperia-go/internal/store"

	"github.com/go-chi/chi/v5"
)

type productoCreateRequest struct {
	Nombre      string  `json:"nombre"`
	Precio      float64 `json:"precio"`
	Tipo        string  `json:"tipo"`
	Descripcion string  `json:"descripcion"`
}

type productoRead struct {
	ID          string  `json:"id"`
	Nombre      string  `json:"nombre"`
	Precio      float64 `json:"precio"`
	Tipo        string  `json:"tipo"`
	Descripcion string  `json:"descripcion"`
}

func toProductoRead(p store.Product) productoRead {
	return productoRead{
		ID:          p.ID,
		Nombre:      p.Nombre,
		Precio:      p.Precio,
		Tipo:        p.Tipo,
		Descripcion: p.Descripcion,
	}
}

// ProductosGet lists the menu. Optional filters: ?tipo=plato|bebida and
// ?buscar=<substring> (case-insensitive).
func (s *Server) ProductosGet(w http.ResponseWriter, r *http.Request) {
	var productos []store.Product
	switch {
	case r.URL.Query().Get("buscar") != "":
		productos = s.App.Menu().Search(r.URL.Query().Get("buscar"))
	case r.URL.Query().Get("tipo") != "":
		productos = s.App.Menu().ListByTipo(r.URL.Query().Get("tipo"))
	default:
		productos = s.App.Menu().List()
	}

	out := make([]productoRead, 0, len(productos))
	for _, p := range productos {
		out = append(out, toProductoRead(p))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) ProductoCreatePost(w http.ResponseWriter, r *http.Request) {
	var req productoCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Cuerpo JSON inválido")
		return
	}
	if strings.TrimSpace(req.Nombre) == "" {
		s.writeError(w, http.StatusBadRequest, "El nombre es obligatorio")
		return
	}
	if req.Precio < 0 {
		s.writeError(w, http.StatusBadRequest, "El precio no puede ser negativo")
		return
	}

	p, err := s.App.Menu().Add(req.Tipo, strings.TrimSpace(req.Nombre), req.Precio, req.Descripcion)
	if err != nil {
		if errors.Is(err, service.ErrTipoProducto) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.App.Log().Error("create product", "err", err)
		s.writeError(w, http.StatusInternalServerError, "No se pudo crear el producto")
		return
	}
	s.writeJSON(w, http.StatusCreated, toProductoRead(p))
}

func (s *Server) ProductoDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.App.Menu().Delete(id) {
		s.writeError(w, http.StatusNotFound, "Producto no encontrado")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
