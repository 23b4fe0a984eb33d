package service

import (
	"errors"
	"strings"
	"testing"

	"pulperia-go/internal/store"
)

type fixture struct {
	inv    *InventoryService
	menu   *MenuService
	orders *OrdersService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := testStore(t)
	log := testLogger()

	inv, err := NewInventory(st, log)
	if err != nil {
		t.Fatalf("NewInventory: %v", err)
	}
	menu, err := NewMenu(st, log)
	if err != nil {
		t.Fatalf("NewMenu: %v", err)
	}
	orders, err := NewOrders(st, inv, menu, log)
	if err != nil {
		t.Fatalf("NewOrders: %v", err)
	}
	return &fixture{inv: inv, menu: menu, orders: orders}
}

// addProduct registers a product with a recipe keyed by ingredient names
// already present in the inventory.
func (f *fixture) addProduct(t *testing.T, nombre string, precio float64, receta map[string]float64) store.Product {
	t.Helper()
	p, err := f.menu.Add(store.TipoPlato, nombre, precio, "")
	if err != nil {
		t.Fatalf("menu.Add: %v", err)
	}
	byName := map[string]string{}
	for _, ing := range f.inv.List() {
		byName[ing.Nombre] = ing.ID
	}
	byID := map[string]float64{}
	for nombre, qty := range receta {
		id, ok := byName[nombre]
		if !ok {
			t.Fatalf("ingredient %q not in inventory", nombre)
		}
		byID[id] = qty
	}
	if err := f.menu.SetRecipe(p.ID, byID); err != nil {
		t.Fatalf("SetRecipe: %v", err)
	}
	p, _ = f.menu.Get(p.ID)
	return p
}

func TestTableOrderDeductsAndOccupies(t *testing.T) {
	f := newFixture(t)
	f.inv.Add("Pulpo", "kg", 50)
	p := f.addProduct(t, "Pulpo a la Gallega", 18.50, map[string]float64{"Pulpo": 0.3})

	o, err := f.orders.CreateTableOrder(3, []OrderLine{{ProductoID: p.ID, Cantidad: 2}})
	if err != nil {
		t.Fatalf("CreateTableOrder: %v", err)
	}
	if o.Estado != store.EstadoPendiente {
		t.Fatalf("Estado = %s, want PENDIENTE", o.Estado)
	}
	if !almostEqual(o.Total(), 37.0) {
		t.Fatalf("Total = %g, want 37", o.Total())
	}

	ing := f.inv.List()[0]
	if !almostEqual(ing.Cantidad, 49.4) {
		t.Fatalf("Pulpo = %g, want 49.4", ing.Cantidad)
	}

	mesa, ok := f.orders.TableByNumber(3)
	if !ok {
		t.Fatal("mesa 3 not found")
	}
	if !mesa.Ocupada {
		t.Fatal("mesa 3 should be occupied")
	}
	if len(mesa.PedidosActivos) != 1 || mesa.PedidosActivos[0] != o.ID {
		t.Fatalf("PedidosActivos = %v", mesa.PedidosActivos)
	}
}

func TestMixedOrderWithAndWithoutRecipe(t *testing.T) {
	f := newFixture(t)
	f.inv.Add("Pulpo", "kg", 50)
	conReceta := f.addProduct(t, "Pulpo a la Gallega", 18.50, map[string]float64{"Pulpo": 0.3})
	sinReceta, _ := f.menu.Add(store.TipoBebida, "Agua Mineral", 1.50, "")

	o, err := f.orders.CreateTableOrder(3, []OrderLine{
		{ProductoID: conReceta.ID, Cantidad: 1},
		{ProductoID: sinReceta.ID, Cantidad: 2},
	})
	if err != nil {
		t.Fatalf("CreateTableOrder: %v", err)
	}
	if !almostEqual(o.Total(), 18.50+2*1.50) {
		t.Fatalf("Total = %g, want 21.5", o.Total())
	}
	ing := f.inv.List()[0]
	if !almostEqual(ing.Cantidad, 49.7) {
		t.Fatalf("Pulpo = %g, want 49.7", ing.Cantidad)
	}
}

func TestOrderTotalSnapshotsPrices(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Gaseosa", 2.50, nil)

	o, err := f.orders.CreateDeliveryOrder("Calle 1", "555-0100", []OrderLine{{ProductoID: p.ID, Cantidad: 4}})
	if err != nil {
		t.Fatalf("CreateDeliveryOrder: %v", err)
	}

	// Removing the product from the menu must not change the order's total.
	f.menu.Delete(p.ID)

	got, _ := f.orders.Get(o.ID)
	if !almostEqual(got.Total(), 10.0) {
		t.Fatalf("Total = %g after menu delete, want 10", got.Total())
	}
	if got.Items[0].NombreProducto != "Gaseosa" {
		t.Fatalf("NombreProducto = %q, want snapshot kept", got.Items[0].NombreProducto)
	}
}

func TestOrderInsufficientStockCreatesNothing(t *testing.T) {
	f := newFixture(t)
	f.inv.Add("Pulpo", "kg", 0.5)
	p := f.addProduct(t, "Pulpo a la Gallega", 18.50, map[string]float64{"Pulpo": 0.3})

	_, err := f.orders.CreateTableOrder(1, []OrderLine{{ProductoID: p.ID, Cantidad: 2}})
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}
	if !strings.Contains(err.Error(), "Stock insuficiente") {
		t.Fatalf("err = %q", err)
	}

	if got := f.orders.List(""); len(got) != 0 {
		t.Fatalf("orders persisted after failure: %d", len(got))
	}
	ing := f.inv.List()[0]
	if !almostEqual(ing.Cantidad, 0.5) {
		t.Fatalf("Pulpo = %g after failed order, want 0.5", ing.Cantidad)
	}
	mesa, _ := f.orders.TableByNumber(1)
	if mesa.Ocupada {
		t.Fatal("mesa 1 must stay free after failed order")
	}
}

func TestOrderValidation(t *testing.T) {
	f := newFixture(t)

	if _, err := f.orders.CreateDeliveryOrder("Calle 1", "555", nil); !errors.Is(err, ErrPedidoSinItems) {
		t.Fatalf("empty items: err = %v", err)
	}
	if _, err := f.orders.CreateTableOrder(99, []OrderLine{{ProductoID: "x", Cantidad: 1}}); !errors.Is(err, ErrMesaNoEncontrada) {
		t.Fatalf("unknown mesa: err = %v", err)
	}

	p, _ := f.menu.Add(store.TipoBebida, "Agua", 1, "")
	o, err := f.orders.CreateDeliveryOrder("Calle 1", "555", []OrderLine{{ProductoID: p.ID, Cantidad: 1}})
	if err != nil {
		t.Fatalf("CreateDeliveryOrder: %v", err)
	}

	if _, err := f.orders.ChangeState(o.ID, "SERVIDO"); !errors.Is(err, ErrEstadoNoValido) {
		t.Fatalf("unknown estado: err = %v", err)
	}
	if _, err := f.orders.ChangeState("no-such-order", store.EstadoListo); !errors.Is(err, ErrPedidoNoEncontrado) {
		t.Fatalf("unknown order: err = %v", err)
	}

	got, err := f.orders.ChangeState(o.ID, store.EstadoEnPreparacion)
	if err != nil {
		t.Fatalf("ChangeState: %v", err)
	}
	if got.Estado != store.EstadoEnPreparacion {
		t.Fatalf("Estado = %s", got.Estado)
	}
}

func TestListFilterByEstado(t *testing.T) {
	f := newFixture(t)
	p, _ := f.menu.Add(store.TipoBebida, "Agua", 1, "")

	f.orders.CreateDeliveryOrder("a", "1", []OrderLine{{ProductoID: p.ID, Cantidad: 1}})
	o2, _ := f.orders.CreateDeliveryOrder("b", "2", []OrderLine{{ProductoID: p.ID, Cantidad: 1}})
	f.orders.ChangeState(o2.ID, store.EstadoListo)

	listos := f.orders.List(store.EstadoListo)
	if len(listos) != 1 || listos[0].ID != o2.ID {
		t.Fatalf("List(LISTO) = %v", listos)
	}
	if got := f.orders.List(""); len(got) != 2 {
		t.Fatalf("List all = %d, want 2", len(got))
	}
	if got := f.orders.List("NOPE"); len(got) != 0 {
		t.Fatalf("List unknown token = %d, want 0", len(got))
	}
}

func TestReleaseTable(t *testing.T) {
	f := newFixture(t)
	p, _ := f.menu.Add(store.TipoBebida, "Agua", 1, "")
	if _, err := f.orders.CreateTableOrder(2, []OrderLine{{ProductoID: p.ID, Cantidad: 1}}); err != nil {
		t.Fatalf("CreateTableOrder: %v", err)
	}

	if err := f.orders.ReleaseTable(2); err != nil {
		t.Fatalf("ReleaseTable: %v", err)
	}
	mesa, _ := f.orders.TableByNumber(2)
	if mesa.Ocupada || len(mesa.PedidosActivos) != 0 {
		t.Fatalf("mesa 2 not released: %+v", mesa)
	}

	if err := f.orders.ReleaseTable(42); !errors.Is(err, ErrMesaNoEncontrada) {
		t.Fatalf("ReleaseTable unknown: err = %v", err)
	}
}

func TestSeededTableLayout(t *testing.T) {
	f := newFixture(t)
	mesas := f.orders.Tables()
	if len(mesas) != 10 {
		t.Fatalf("tables = %d, want 10", len(mesas))
	}
	for _, m := range mesas {
		want := 4
		if m.Numero > 6 {
			want = 6
		}
		if m.Capacidad != want {
			t.Fatalf("mesa %d capacidad = %d, want %d", m.Numero, m.Capacidad, want)
		}
		if m.Ocupada {
			t.Fatalf("mesa %d starts occupied", m.Numero)
		}
	}
}
