package handlers

import (
	"time"

	"pulperia-go/internal/app"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the full route table. The binary and the tests share it.
func NewRouter(a *app.App) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))

	r.Use(a.MiddlewareLoadCurrentUser)

	h := &Server{App: a}

	// Public
	r.Get("/health", h.Health)
	r.Post("/auth/register", h.RegisterPost)
	r.Post("/auth/login", h.LoginPost)
	r.Get("/menu/productos", h.ProductosGet)

	// Authenticated common
	r.Group(func(ar chi.Router) {
		ar.Use(a.RequireAuth)

		ar.Get("/auth/users", h.UsersGet)
		ar.Get("/auth/me", h.MeGet)

		ar.Get("/inventario/ingredientes", h.IngredientesGet)

		ar.Post("/pedidos/mesa", h.PedidoMesaPost)
		ar.Post("/pedidos/delivery", h.PedidoDeliveryPost)
		ar.Get("/pedidos", h.PedidosGet)
		ar.Patch("/pedidos/{id}/estado", h.PedidoEstadoPatch)
		ar.Get("/pedidos/mesas", h.MesasGet)
		ar.Post("/pedidos/mesas/{numero}/liberar", h.MesaLiberarPost)

		ar.Post("/caja/cobrar/{pedido_id}", h.CobrarPost)
		ar.Get("/caja/facturas", h.FacturasGet)

		ar.Get("/sse", h.SSEGet)
	})

	// Admin
	r.Group(func(ad chi.Router) {
		ad.Use(a.RequireAdmin)

		ad.Post("/menu/productos", h.ProductoCreatePost)
		ad.Delete("/menu/productos/{id}", h.ProductoDelete)

		ad.Post("/inventario/ingredientes", h.IngredienteCreatePost)
		ad.Patch("/inventario/ingredientes/{id}/reponer", h.IngredienteReponerPatch)

		ad.Get("/caja/estado", h.CajaEstadoGet)

		ad.Get("/reportes/ventas", h.ReporteVentasGet)
		ad.Get("/reportes/productos-mas-vendidos", h.ReporteTopProductosGet)
		ad.Get("/reportes/alertas-stock", h.ReporteAlertasStockGet)
		ad.Get("/reportes/mesas", h.ReporteMesasGet)
	})

	return r
}
