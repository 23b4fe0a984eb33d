package handlers

import (
	"errors"
	"net/http"
	"time"

	"pulperia-go/internal/app"
	"pulperia-go/internal/service"
	"pulperia-go/internal/store"

	"github.com/go-chi/chi/v5"
)

type cobrarRequest struct {
	MetodoPago string `json:"metodo_pago"`
}

type facturaRead struct {
	ID         string  `json:"id"`
	PedidoID   string  `json:"pedido_id"`
	Fecha      string  `json:"fecha"`
	Total      float64 `json:"total"`
	MetodoPago string  `json:"metodo_pago"`
}

func toFacturaRead(f store.Invoice) facturaRead {
	return facturaRead{
		ID:         f.ID,
		PedidoID:   f.PedidoID,
		Fecha:      f.Fecha.Format(time.RFC3339),
		Total:      f.Total,
		MetodoPago: f.MetodoPago,
	}
}

func (s *Server) CobrarPost(w http.ResponseWriter, r *http.Request) {
	pedidoID := chi.URLParam(r, "pedido_id")

	var req cobrarRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, "Cuerpo JSON inválido")
			return
		}
	}

	f, err := s.App.Cashier().Charge(pedidoID, req.MetodoPago)
	if err != nil {
		if errors.Is(err, service.ErrPedidoNoEncontrado) {
			s.writeError(w, http.StatusNotFound, "Pedido no encontrado")
			return
		}
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.App.SSE().BroadcastCaja(app.SSEEvent{Type: "invoice:created", Data: map[string]any{
		"factura_id": f.ID,
		"pedido_id":  f.PedidoID,
		"total":      f.Total,
	}})

	s.writeJSON(w, http.StatusCreated, toFacturaRead(f))
}

func (s *Server) FacturasGet(w http.ResponseWriter, r *http.Request) {
	facturas := s.App.Cashier().List()
	out := make([]facturaRead, 0, len(facturas))
	for _, f := range facturas {
		out = append(out, toFacturaRead(f))
	}
	s.writeJSON(w, http.StatusOK, out)
}

// CajaEstadoGet summarizes the day's takings by payment method.
func (s *Server) CajaEstadoGet(w http.ResponseWriter, r *http.Request) {
	sum := s.App.Cashier().SummaryToday()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"total_dia":          sum.Total,
		"total_facturas":     sum.Facturas,
		"totales_por_metodo": sum.PorMetodo,
	})
}
