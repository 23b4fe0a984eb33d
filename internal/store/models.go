package store

import "time"

// Order state tokens. The Spanish values are the wire format: the API accepts
// them verbatim and they are what gets persisted.
const (
	EstadoPendiente     = "PENDIENTE"
	EstadoEnPreparacion = "EN_PREPARACION"
	EstadoListo         = "LISTO"
	EstadoCobrado       = "COBRADO"
	EstadoCancelado     = "CANCELADO"
)

func ValidEstado(s string) bool {
	switch s {
	case EstadoPendiente, EstadoEnPreparacion, EstadoListo, EstadoCobrado, EstadoCancelado:
		return true
	}
	return false
}

// Product type discriminants (closed set, no subtype hierarchy).
const (
	TipoPlato  = "plato"
	TipoBebida = "bebida"
)

// Order type discriminants.
const (
	PedidoMesa     = "mesa"
	PedidoDelivery = "delivery"
)

// User roles. Only administrators are privileged; any other string is kept
// as-is and treated as an unprivileged employee role.
const (
	RolAdministrador = "administrador"
	RolMesero        = "mesero"
	RolCocinero      = "cocinero"
	RolEmpleado      = "empleado"
)

type Ingredient struct {
	ID       string  `json:"id"`
	Nombre   string  `json:"nombre"`
	Unidad   string  `json:"unidad"`
	Cantidad float64 `json:"cantidad"`
}

func (i *Ingredient) HaySuficiente(cantidad float64) bool {
	return i.Cantidad >= cantidad
}

// Product is a menu entry. Receta maps ingredient id to the quantity consumed
// per unit sold; an empty map means the product draws no stock.
type Product struct {
	ID          string             `json:"id"`
	Tipo        string             `json:"tipo"`
	Nombre      string             `json:"nombre"`
	Precio      float64            `json:"precio"`
	Descripcion string             `json:"descripcion"`
	Receta      map[string]float64 `json:"receta"`
}

type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Rol            string    `json:"rol"`
	HashedPassword string    `json:"hashed_password"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool { return u.Rol == RolAdministrador }

// OrderItem snapshots name and unit price at order time; later menu edits
// never change what an existing order is worth.
type OrderItem struct {
	ProductoID     string  `json:"producto_id"`
	NombreProducto string  `json:"nombre_producto"`
	Cantidad       int     `json:"cantidad"`
	PrecioUnitario float64 `json:"precio_unitario"`
}

func (it OrderItem) Subtotal() float64 {
	return float64(it.Cantidad) * it.PrecioUnitario
}

type Order struct {
	ID                string      `json:"id"`
	Tipo              string      `json:"tipo"`
	Fecha             time.Time   `json:"fecha"`
	Items             []OrderItem `json:"items"`
	Estado            string      `json:"estado"`
	MesaID            string      `json:"mesa_id,omitempty"`
	DireccionDelivery string      `json:"direccion_delivery,omitempty"`
	TelefonoDelivery  string      `json:"telefono_delivery,omitempty"`
}

// Total is always the sum of item subtotals over the captured unit prices.
func (o *Order) Total() float64 {
	var total float64
	for _, it := range o.Items {
		total += it.Subtotal()
	}
	return total
}

// Table is not persisted: the fixed set is seeded at startup and occupancy
// lives in memory only.
type Table struct {
	ID             string   `json:"id"`
	Numero         int      `json:"numero"`
	Capacidad      int      `json:"capacidad"`
	Ocupada        bool     `json:"ocupada"`
	PedidosActivos []string `json:"pedidos_activos"`
}

type Invoice struct {
	ID         string    `json:"id"`
	PedidoID   string    `json:"pedido_id"`
	Fecha      time.Time `json:"fecha"`
	Total      float64   `json:"total"`
	MetodoPago string    `json:"metodo_pago"`
}
