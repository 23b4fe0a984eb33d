package service

import (
	"sort"
	"time"

	"pulperia-go/internal/store"
)

// Alert severity levels.
const (
	NivelBajo    = "BAJO"
	NivelCritico = "CRÍTICO"
)

type DailySalesReport struct {
	Fecha           string         `json:"fecha"`
	TotalVentas     float64        `json:"total_ventas"`
	CantidadPedidos int            `json:"cantidad_pedidos"`
	TicketPromedio  float64        `json:"ticket_promedio"`
	MetodosPago     map[string]int `json:"metodos_pago"`
}

type PeriodSalesReport struct {
	FechaInicio     string  `json:"fecha_inicio"`
	FechaFin        string  `json:"fecha_fin"`
	TotalVentas     float64 `json:"total_ventas"`
	CantidadPedidos int     `json:"cantidad_pedidos"`
	TicketPromedio  float64 `json:"ticket_promedio"`
}

type TopProduct struct {
	Nombre   string  `json:"nombre"`
	Cantidad int     `json:"cantidad"`
	Ingresos float64 `json:"ingresos"`
}

type StockAlert struct {
	ID             string  `json:"id"`
	Nombre         string  `json:"nombre"`
	CantidadActual float64 `json:"cantidad_actual"`
	Unidad         string  `json:"unidad"`
	Nivel          string  `json:"nivel"`
}

type TableOccupancyReport struct {
	TotalMesas          int           `json:"total_mesas"`
	MesasOcupadas       int           `json:"mesas_ocupadas"`
	MesasLibres         int           `json:"mesas_libres"`
	OcupacionPorcentaje float64       `json:"ocupacion_porcentaje"`
	DetalleOcupadas     []TableDetail `json:"detalle_ocupadas"`
}

type TableDetail struct {
	Numero    int `json:"numero"`
	Capacidad int `json:"capacidad"`
}

// ReportsService is read-only aggregation over the other services.
type ReportsService struct {
	cashier   *CashierService
	inventory *InventoryService
	orders    *OrdersService
}

func NewReports(cashier *CashierService, inventory *InventoryService, orders *OrdersService) *ReportsService {
	return &ReportsService{cashier: cashier, inventory: inventory, orders: orders}
}

// DailySales aggregates today's invoices: total, count, average ticket
// (0 when there are none) and a count per payment method.
func (s *ReportsService) DailySales() DailySalesReport {
	hoy := time.Now().Format("2006-01-02")

	rep := DailySalesReport{
		Fecha:       hoy,
		MetodosPago: map[string]int{},
	}
	for _, f := range s.cashier.List() {
		if f.Fecha.Format("2006-01-02") != hoy {
			continue
		}
		rep.TotalVentas += f.Total
		rep.CantidadPedidos++
		rep.MetodosPago[f.MetodoPago]++
	}
	if rep.CantidadPedidos > 0 {
		rep.TicketPromedio = rep.TotalVentas / float64(rep.CantidadPedidos)
	}
	return rep
}

func (s *ReportsService) PeriodSales(desde, hasta time.Time) PeriodSalesReport {
	rep := PeriodSalesReport{
		FechaInicio: desde.Format("2006-01-02"),
		FechaFin:    hasta.Format("2006-01-02"),
	}
	for _, f := range s.cashier.List() {
		if f.Fecha.Before(desde) || f.Fecha.After(hasta) {
			continue
		}
		rep.TotalVentas += f.Total
		rep.CantidadPedidos++
	}
	if rep.CantidadPedidos > 0 {
		rep.TicketPromedio = rep.TotalVentas / float64(rep.CantidadPedidos)
	}
	return rep
}

// TopProducts accumulates quantity and revenue per product over COBRADO
// orders only, sorted by quantity descending. Ties keep the order in which
// products first appeared (stable sort over creation-ordered orders).
func (s *ReportsService) TopProducts(limit int) []TopProduct {
	if limit <= 0 {
		limit = 10
	}

	type acc struct {
		nombre   string
		cantidad int
		ingresos float64
	}
	byProduct := map[string]*acc{}
	var seen []string

	for _, o := range s.orders.List(store.EstadoCobrado) {
		for _, it := range o.Items {
			a, ok := byProduct[it.ProductoID]
			if !ok {
				a = &acc{nombre: it.NombreProducto}
				byProduct[it.ProductoID] = a
				seen = append(seen, it.ProductoID)
			}
			a.cantidad += it.Cantidad
			a.ingresos += it.Subtotal()
		}
	}

	out := make([]TopProduct, 0, len(seen))
	for _, id := range seen {
		a := byProduct[id]
		out = append(out, TopProduct{Nombre: a.nombre, Cantidad: a.cantidad, Ingresos: a.ingresos})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Cantidad > out[j].Cantidad })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// LowStockAlerts labels each low-stock ingredient: CRÍTICO below 5 units,
// BAJO otherwise. A non-positive umbral means the inventory default (10).
func (s *ReportsService) LowStockAlerts(umbral float64) []StockAlert {
	low := s.inventory.LowStock(umbral)
	out := make([]StockAlert, 0, len(low))
	for _, ing := range low {
		nivel := NivelBajo
		if ing.Cantidad < CriticalStockThreshold {
			nivel = NivelCritico
		}
		out = append(out, StockAlert{
			ID:             ing.ID,
			Nombre:         ing.Nombre,
			CantidadActual: ing.Cantidad,
			Unidad:         ing.Unidad,
			Nivel:          nivel,
		})
	}
	return out
}

func (s *ReportsService) TableOccupancy() TableOccupancyReport {
	mesas := s.orders.Tables()

	rep := TableOccupancyReport{
		TotalMesas:      len(mesas),
		DetalleOcupadas: []TableDetail{},
	}
	for _, m := range mesas {
		if m.Ocupada {
			rep.MesasOcupadas++
			rep.DetalleOcupadas = append(rep.DetalleOcupadas, TableDetail{Numero: m.Numero, Capacidad: m.Capacidad})
		} else {
			rep.MesasLibres++
		}
	}
	if rep.TotalMesas > 0 {
		rep.OcupacionPorcentaje = float64(rep.MesasOcupadas) / float64(rep.TotalMesas) * 100
	}
	return rep
}
