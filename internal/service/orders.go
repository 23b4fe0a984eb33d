package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"pulperia-go/internal/store"

	"github.com/lucsky/cuid"
)

var (
	ErrPedidoNoEncontrado = errors.New("Pedido no encontrado")
	ErrEstadoNoValido     = errors.New("Estado no válido")
	ErrMesaNoEncontrada   = errors.New("Mesa no encontrada")
	ErrPedidoSinItems     = errors.New("El pedido debe tener al menos un ítem")
)

// OrderLine is one requested position: a product and how many units of it.
type OrderLine struct {
	ProductoID string
	Cantidad   int
}

// OrdersService owns orders and the fixed table set. Creating an order
// aggregates the recipe requirement across all items and hands it to the
// inventory service, which deducts all-or-nothing.
type OrdersService struct {
	mu        sync.Mutex
	st        *store.Store
	log       *slog.Logger
	inventory *InventoryService
	menu      *MenuService
	orders    map[string]*store.Order
	tables    map[string]*store.Table
}

func NewOrders(st *store.Store, inventory *InventoryService, menu *MenuService, log *slog.Logger) (*OrdersService, error) {
	items, err := st.LoadOrders()
	if err != nil {
		return nil, fmt.Errorf("load pedidos: %w", err)
	}
	m := make(map[string]*store.Order, len(items))
	for _, o := range items {
		m[o.ID] = o
	}
	s := &OrdersService{
		st:        st,
		log:       log,
		inventory: inventory,
		menu:      menu,
		orders:    m,
		tables:    map[string]*store.Table{},
	}
	s.seedTables()
	log.Info("orders loaded", "orders", len(m), "tables", len(s.tables))
	return s, nil
}

// seedTables creates the fixed restaurant layout: tables 1-6 seat four,
// tables 7-10 seat six.
func (s *OrdersService) seedTables() {
	for n := 1; n <= 10; n++ {
		capacidad := 4
		if n > 6 {
			capacidad = 6
		}
		t := &store.Table{
			ID:             cuid.New(),
			Numero:         n,
			Capacidad:      capacidad,
			PedidosActivos: []string{},
		}
		s.tables[t.ID] = t
	}
}

func (s *OrdersService) persistLocked() error {
	items := make([]*store.Order, 0, len(s.orders))
	for _, o := range s.orders {
		items = append(items, o)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Fecha.Before(items[j].Fecha) })
	return s.st.SaveOrders(items)
}

func (s *OrdersService) CreateTableOrder(numeroMesa int, lines []OrderLine) (store.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mesa := s.tableByNumberLocked(numeroMesa)
	if mesa == nil {
		return store.Order{}, fmt.Errorf("Mesa %d no encontrada: %w", numeroMesa, ErrMesaNoEncontrada)
	}

	o, err := s.createLocked(store.PedidoMesa, lines, mesa.ID, "", "")
	if err != nil {
		return store.Order{}, err
	}

	if !mesa.Ocupada {
		mesa.Ocupada = true
	}
	mesa.PedidosActivos = append(mesa.PedidosActivos, o.ID)
	return *o, nil
}

func (s *OrdersService) CreateDeliveryOrder(direccion, telefono string, lines []OrderLine) (store.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, err := s.createLocked(store.PedidoDelivery, lines, "", direccion, telefono)
	if err != nil {
		return store.Order{}, err
	}
	return *o, nil
}

func (s *OrdersService) createLocked(tipo string, lines []OrderLine, mesaID, direccion, telefono string) (*store.Order, error) {
	if len(lines) == 0 {
		return nil, ErrPedidoSinItems
	}

	items := make([]store.OrderItem, 0, len(lines))
	receta := map[string]float64{}
	for _, ln := range lines {
		p, ok := s.menu.Get(ln.ProductoID)
		if !ok {
			return nil, fmt.Errorf("Producto %s no encontrado", ln.ProductoID)
		}
		items = append(items, store.OrderItem{
			ProductoID:     p.ID,
			NombreProducto: p.Nombre,
			Cantidad:       ln.Cantidad,
			PrecioUnitario: p.Precio,
		})
		for ingID, porUnidad := range p.Receta {
			receta[ingID] += porUnidad * float64(ln.Cantidad)
		}
	}

	// Verify and deduct the aggregate recipe in one critical section; on
	// failure nothing has been consumed and no order exists.
	if err := s.inventory.DeductRecipe(receta); err != nil {
		return nil, err
	}

	o := &store.Order{
		ID:                cuid.New(),
		Tipo:              tipo,
		Fecha:             time.Now(),
		Items:             items,
		Estado:            store.EstadoPendiente,
		MesaID:            mesaID,
		DireccionDelivery: direccion,
		TelefonoDelivery:  telefono,
	}
	s.orders[o.ID] = o
	if err := s.persistLocked(); err != nil {
		return nil, err
	}
	s.log.Info("order created", "pedido", o.ID, "tipo", tipo, "items", len(items))
	return o, nil
}

// ChangeState parses the token and overwrites the order state. Any known
// token is accepted from any state; there is no transition guard.
func (s *OrdersService) ChangeState(id, nuevoEstado string) (store.Order, error) {
	if !store.ValidEstado(nuevoEstado) {
		return store.Order{}, fmt.Errorf("%w: %s", ErrEstadoNoValido, nuevoEstado)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return store.Order{}, ErrPedidoNoEncontrado
	}
	o.Estado = nuevoEstado
	if err := s.persistLocked(); err != nil {
		return store.Order{}, err
	}
	return *o, nil
}

// MarkCharged atomically validates that the order is LISTO and flips it to
// COBRADO, so a second charge attempt can never pass the state check.
func (s *OrdersService) MarkCharged(id string) (store.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return store.Order{}, ErrPedidoNoEncontrado
	}
	if o.Estado == store.EstadoCobrado {
		return store.Order{}, errors.New("El pedido ya fue cobrado")
	}
	if o.Estado != store.EstadoListo {
		return store.Order{}, fmt.Errorf("El pedido debe estar LISTO para cobrarse (estado actual: %s)", o.Estado)
	}
	o.Estado = store.EstadoCobrado
	if err := s.persistLocked(); err != nil {
		return store.Order{}, err
	}
	return *o, nil
}

func (s *OrdersService) Get(id string) (store.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return store.Order{}, false
	}
	return *o, true
}

// List returns orders sorted by creation time, optionally filtered by state.
// An unknown state token yields an empty list.
func (s *OrdersService) List(estado string) []store.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]store.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if estado != "" && o.Estado != estado {
			continue
		}
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fecha.Before(out[j].Fecha) })
	return out
}

func (s *OrdersService) Tables() []store.Table {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]store.Table, 0, len(s.tables))
	for _, t := range s.tables {
		cp := *t
		cp.PedidosActivos = append([]string{}, t.PedidosActivos...)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Numero < out[j].Numero })
	return out
}

func (s *OrdersService) TableByNumber(numero int) (store.Table, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tableByNumberLocked(numero)
	if t == nil {
		return store.Table{}, false
	}
	cp := *t
	cp.PedidosActivos = append([]string{}, t.PedidosActivos...)
	return cp, true
}

// ReleaseTable clears the occupied flag and wipes the active order list.
// Tables are never auto-released on payment; this is the only way out.
func (s *OrdersService) ReleaseTable(numero int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tableByNumberLocked(numero)
	if t == nil {
		return fmt.Errorf("Mesa %d no encontrada: %w", numero, ErrMesaNoEncontrada)
	}
	t.Ocupada = false
	t.PedidosActivos = []string{}
	return nil
}

// Linear scan: the table set is tiny and fixed.
func (s *OrdersService) tableByNumberLocked(numero int) *store.Table {
	for _, t := range s.tables {
		if t.Numero == numero {
			return t
		}
	}
	return nil
}
