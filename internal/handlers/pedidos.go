package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pulperia-go/internal/app"
	"pulperia-go/internal/service"
	"pulperia-go/internal/store"

	"github.com/go-chi/chi/v5"
)

type pedidoItemCreate struct {
	ProductoID string `json:"producto_id"`
	Cantidad   int    `json:"cantidad"`
}

type pedidoMesaCreateRequest struct {
	NumeroMesa int                `json:"numero_mesa"`
	Items      []pedidoItemCreate `json:"items"`
}

type pedidoDeliveryCreateRequest struct {
	Direccion string             `json:"direccion"`
	Telefono  string             `json:"telefono"`
	Items     []pedidoItemCreate `json:"items"`
}

type pedidoItemRead struct {
	ProductoID string  `json:"producto_id"`
	Nombre     string  `json:"nombre"`
	Cantidad   int     `json:"cantidad"`
	Subtotal   float64 `json:"subtotal"`
}

type pedidoRead struct {
	ID         string           `json:"id"`
	Tipo       string           `json:"tipo"`
	Estado     string           `json:"estado"`
	Fecha      string           `json:"fecha"`
	Total      float64          `json:"total"`
	Items      []pedidoItemRead `json:"items"`
	NumeroMesa int              `json:"numero_mesa,omitempty"`
	Direccion  string           `json:"direccion,omitempty"`
}

type mesaRead struct {
	Numero         int      `json:"numero"`
	Capacidad      int      `json:"capacidad"`
	Ocupada        bool     `json:"ocupada"`
	PedidosActivos []string `json:"pedidos_activos"`
}

func (s *Server) toPedidoRead(o store.Order) pedidoRead {
	items := make([]pedidoItemRead, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, pedidoItemRead{
			ProductoID: it.ProductoID,
			Nombre:     it.NombreProducto,
			Cantidad:   it.Cantidad,
			Subtotal:   it.Subtotal(),
		})
	}
	pr := pedidoRead{
		ID:     o.ID,
		Tipo:   o.Tipo,
		Estado: o.Estado,
		Fecha:  o.Fecha.Format(time.RFC3339),
		Total:  o.Total(),
		Items:  items,
	}
	if o.Tipo == store.PedidoMesa && o.MesaID != "" {
		for _, m := range s.App.Orders().Tables() {
			if m.ID == o.MesaID {
				pr.NumeroMesa = m.Numero
				break
			}
		}
	}
	if o.Tipo == store.PedidoDelivery {
		pr.Direccion = o.DireccionDelivery
	}
	return pr
}

func validLines(items []pedidoItemCreate) ([]service.OrderLine, string) {
	if len(items) == 0 {
		return nil, "El pedido debe tener al menos un ítem"
	}
	lines := make([]service.OrderLine, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.ProductoID) == "" {
			return nil, "Cada ítem necesita un producto_id"
		}
		if it.Cantidad < 1 {
			return nil, "La cantidad de cada ítem debe ser al menos 1"
		}
		lines = append(lines, service.OrderLine{ProductoID: it.ProductoID, Cantidad: it.Cantidad})
	}
	return lines, ""
}

func (s *Server) PedidoMesaPost(w http.ResponseWriter, r *http.Request) {
	var req pedidoMesaCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Cuerpo JSON inválido")
		return
	}
	lines, msg := validLines(req.Items)
	if msg != "" {
		s.writeError(w, http.StatusBadRequest, msg)
		return
	}

	o, err := s.App.Orders().CreateTableOrder(req.NumeroMesa, lines)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.broadcastOrderCreated(o)
	s.writeJSON(w, http.StatusCreated, s.toPedidoRead(o))
}

func (s *Server) PedidoDeliveryPost(w http.ResponseWriter, r *http.Request) {
	var req pedidoDeliveryCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Cuerpo JSON inválido")
		return
	}
	if strings.TrimSpace(req.Direccion) == "" || strings.TrimSpace(req.Telefono) == "" {
		s.writeError(w, http.StatusBadRequest, "Dirección y teléfono son obligatorios")
		return
	}
	lines, msg := validLines(req.Items)
	if msg != "" {
		s.writeError(w, http.StatusBadRequest, msg)
		return
	}

	o, err := s.App.Orders().CreateDeliveryOrder(req.Direccion, req.Telefono, lines)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.broadcastOrderCreated(o)
	s.writeJSON(w, http.StatusCreated, s.toPedidoRead(o))
}

// PedidosGet lists orders, optionally filtered by ?estado=<token>.
func (s *Server) PedidosGet(w http.ResponseWriter, r *http.Request) {
	pedidos := s.App.Orders().List(r.URL.Query().Get("estado"))
	out := make([]pedidoRead, 0, len(pedidos))
	for _, o := range pedidos {
		out = append(out, s.toPedidoRead(o))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) PedidoEstadoPatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	nuevoEstado := r.URL.Query().Get("nuevo_estado")

	o, err := s.App.Orders().ChangeState(id, nuevoEstado)
	if err != nil {
		if errors.Is(err, service.ErrPedidoNoEncontrado) {
			s.writeError(w, http.StatusNotFound, "Pedido no encontrado")
			return
		}
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ev := app.SSEEvent{Type: "order:updated", Data: map[string]any{"pedido_id": o.ID, "estado": o.Estado}}
	s.App.SSE().BroadcastOrders(ev)
	s.App.SSE().BroadcastRole(store.RolAdministrador, ev)

	s.writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Estado del pedido %s cambiado a %s", id, nuevoEstado),
	})
}

func (s *Server) MesasGet(w http.ResponseWriter, r *http.Request) {
	mesas := s.App.Orders().Tables()
	out := make([]mesaRead, 0, len(mesas))
	for _, m := range mesas {
		out = append(out, mesaRead{
			Numero:         m.Numero,
			Capacidad:      m.Capacidad,
			Ocupada:        m.Ocupada,
			PedidosActivos: m.PedidosActivos,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) MesaLiberarPost(w http.ResponseWriter, r *http.Request) {
	numero, err := strconv.Atoi(chi.URLParam(r, "numero"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Número de mesa inválido")
		return
	}
	if err := s.App.Orders().ReleaseTable(numero); err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Mesa %d liberada", numero),
	})
}

func (s *Server) broadcastOrderCreated(o store.Order) {
	ev := app.SSEEvent{Type: "order:created", Data: map[string]any{
		"pedido_id": o.ID,
		"tipo":      o.Tipo,
		"total":     o.Total(),
	}}
	s.App.SSE().BroadcastOrders(ev)
	s.App.SSE().BroadcastRole(store.RolAdministrador, ev)

	// Stock may have crossed the alert threshold while this order deducted.
	if alertas := s.App.Reports().LowStockAlerts(0); len(alertas) > 0 {
		s.App.SSE().BroadcastInventory(app.SSEEvent{Type: "inventory:low_stock", Data: alertas})
	}
}
