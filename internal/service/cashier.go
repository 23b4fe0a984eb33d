package service

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"pulperia-go/internal/store"

	"github.com/lucsky/cuid"
)

// CashierService owns invoices. Charging delegates the state check to the
// orders service so an order can be invoiced exactly once.
type CashierService struct {
	mu       sync.Mutex
	st       *store.Store
	log      *slog.Logger
	orders   *OrdersService
	invoices map[string]*store.Invoice
}

func NewCashier(st *store.Store, orders *OrdersService, log *slog.Logger) (*CashierService, error) {
	items, err := st.LoadInvoices()
	if err != nil {
		return nil, fmt.Errorf("load facturas: %w", err)
	}
	m := make(map[string]*store.Invoice, len(items))
	for _, f := range items {
		m[f.ID] = f
	}
	log.Info("invoices loaded", "invoices", len(m))
	return &CashierService{st: st, log: log, orders: orders, invoices: m}, nil
}

func (s *CashierService) persistLocked() error {
	items := make([]*store.Invoice, 0, len(s.invoices))
	for _, f := range s.invoices {
		items = append(items, f)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Fecha.Before(items[j].Fecha) })
	return s.st.SaveInvoices(items)
}

// Charge invoices a LISTO order: the total comes from the order's captured
// item subtotals and the order moves to COBRADO.
func (s *CashierService) Charge(pedidoID, metodoPago string) (store.Invoice, error) {
	if metodoPago == "" {
		metodoPago = "efectivo"
	}

	o, err := s.orders.MarkCharged(pedidoID)
	if err != nil {
		return store.Invoice{}, err
	}

	f := &store.Invoice{
		ID:         cuid.New(),
		PedidoID:   o.ID,
		Fecha:      time.Now(),
		Total:      o.Total(),
		MetodoPago: metodoPago,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[f.ID] = f
	if err := s.persistLocked(); err != nil {
		return store.Invoice{}, err
	}
	s.log.Info("order charged", "pedido", o.ID, "factura", f.ID, "total", f.Total)
	return *f, nil
}

func (s *CashierService) Get(id string) (store.Invoice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.invoices[id]
	if !ok {
		return store.Invoice{}, false
	}
	return *f, true
}

func (s *CashierService) List() []store.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]store.Invoice, 0, len(s.invoices))
	for _, f := range s.invoices {
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fecha.Before(out[j].Fecha) })
	return out
}

// RevenueBetween sums invoice totals with desde <= fecha <= hasta.
func (s *CashierService) RevenueBetween(desde, hasta time.Time) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, f := range s.invoices {
		if !f.Fecha.Before(desde) && !f.Fecha.After(hasta) {
			total += f.Total
		}
	}
	return total
}

// DailySummary aggregates the invoices whose date equals today's local date:
// total taken, invoice count and a total per payment method.
type DailySummary struct {
	Total     float64
	Facturas  int
	PorMetodo map[string]float64
}

func (s *CashierService) SummaryToday() DailySummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaryTodayLocked()
}

func (s *CashierService) summaryTodayLocked() DailySummary {
	hoy := time.Now().Format("2006-01-02")

	sum := DailySummary{PorMetodo: map[string]float64{}}
	for _, f := range s.invoices {
		if f.Fecha.Format("2006-01-02") != hoy {
			continue
		}
		sum.Total += f.Total
		sum.Facturas++
		sum.PorMetodo[f.MetodoPago] += f.Total
	}
	return sum
}

// RevenueToday sums invoices whose date equals today's local date.
func (s *CashierService) RevenueToday() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaryTodayLocked().Total
}
