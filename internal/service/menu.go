package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"pulperia-go/internal/store"

	"github.com/lucsky/cuid"
)

var (
	ErrProductoNoEncontrado = errors.New("Producto no encontrado")
	ErrTipoProducto         = errors.New("Tipo de producto inválido. Use 'plato' o 'bebida'")
)

// MenuService owns the product collection.
type MenuService struct {
	mu       sync.Mutex
	st       *store.Store
	log      *slog.Logger
	products map[string]*store.Product
}

func NewMenu(st *store.Store, log *slog.Logger) (*MenuService, error) {
	items, err := st.LoadProducts()
	if err != nil {
		return nil, fmt.Errorf("load menu: %w", err)
	}
	m := make(map[string]*store.Product, len(items))
	for _, p := range items {
		if p.Receta == nil {
			p.Receta = map[string]float64{}
		}
		m[p.ID] = p
	}
	log.Info("menu loaded", "products", len(m))
	return &MenuService{st: st, log: log, products: m}, nil
}

func (s *MenuService) persistLocked() error {
	items := make([]*store.Product, 0, len(s.products))
	for _, p := range s.products {
		items = append(items, p)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Nombre < items[j].Nombre })
	return s.st.SaveProducts(items)
}

func (s *MenuService) Add(tipo, nombre string, precio float64, descripcion string) (store.Product, error) {
	tipo = strings.ToLower(strings.TrimSpace(tipo))
	if tipo != store.TipoPlato && tipo != store.TipoBebida {
		return store.Product{}, ErrTipoProducto
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := &store.Product{
		ID:          cuid.New(),
		Tipo:        tipo,
		Nombre:      nombre,
		Precio:      precio,
		Descripcion: descripcion,
		Receta:      map[string]float64{},
	}
	s.products[p.ID] = p
	if err := s.persistLocked(); err != nil {
		return store.Product{}, err
	}
	return *p, nil
}

// SetRecipe replaces a product's recipe (ingredient id -> quantity per unit).
// Not exposed over the API; used by seeding.
func (s *MenuService) SetRecipe(id string, receta map[string]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return ErrProductoNoEncontrado
	}
	if receta == nil {
		receta = map[string]float64{}
	}
	p.Receta = receta
	return s.persistLocked()
}

func (s *MenuService) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return false
	}
	delete(s.products, id)
	if err := s.persistLocked(); err != nil {
		s.log.Error("persist menu after delete", "err", err)
	}
	return true
}

func (s *MenuService) Get(id string) (store.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return store.Product{}, false
	}
	return cloneProduct(p), true
}

func (s *MenuService) List() []store.Product {
	return s.filter(func(*store.Product) bool { return true })
}

// ListByTipo filters by the tipo discriminant ("plato" or "bebida").
func (s *MenuService) ListByTipo(tipo string) []store.Product {
	tipo = strings.ToLower(strings.TrimSpace(tipo))
	return s.filter(func(p *store.Product) bool { return p.Tipo == tipo })
}

// Search matches product names by case-insensitive substring.
func (s *MenuService) Search(nombre string) []store.Product {
	needle := strings.ToLower(nombre)
	return s.filter(func(p *store.Product) bool {
		return strings.Contains(strings.ToLower(p.Nombre), needle)
	})
}

func (s *MenuService) filter(keep func(*store.Product) bool) []store.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]store.Product, 0, len(s.products))
	for _, p := range s.products {
		if keep(p) {
			out = append(out, cloneProduct(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out
}

func (s *MenuService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products)
}

func cloneProduct(p *store.Product) store.Product {
	cp := *p
	cp.Receta = make(map[string]float64, len(p.Receta))
	for k, v := range p.Receta {
		cp.Receta[k] = v
	}
	return cp
}
