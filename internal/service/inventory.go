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

const (
	// DefaultLowStockThreshold flags ingredients below this quantity.
	DefaultLowStockThreshold = 10.0
	// CriticalStockThreshold marks low-stock alerts as critical.
	CriticalStockThreshold = 5.0
)

var ErrIngredienteNoEncontrado = errors.New("Ingrediente no encontrado")

// InventoryService owns the ingredient collection. All check-then-act
// sequences (verify + deduct) run under a single lock so two orders cannot
// both pass verification against the same stale quantities.
type InventoryService struct {
	mu          sync.Mutex
	st          *store.Store
	log         *slog.Logger
	ingredients map[string]*store.Ingredient
	threshold   float64
}

func NewInventory(st *store.Store, log *slog.Logger) (*InventoryService, error) {
	items, err := st.LoadIngredients()
	if err != nil {
		return nil, fmt.Errorf("load inventario: %w", err)
	}
	m := make(map[string]*store.Ingredient, len(items))
	for _, ing := range items {
		m[ing.ID] = ing
	}
	log.Info("inventory loaded", "ingredients", len(m))
	return &InventoryService{
		st:          st,
		log:         log,
		ingredients: m,
		threshold:   DefaultLowStockThreshold,
	}, nil
}

func (s *InventoryService) persistLocked() error {
	items := make([]*store.Ingredient, 0, len(s.ingredients))
	for _, ing := range s.ingredients {
		items = append(items, ing)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Nombre < items[j].Nombre })
	return s.st.SaveIngredients(items)
}

func (s *InventoryService) Add(nombre, unidad string, cantidad float64) (store.Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ing := &store.Ingredient{
		ID:       cuid.New(),
		Nombre:   nombre,
		Unidad:   unidad,
		Cantidad: cantidad,
	}
	s.ingredients[ing.ID] = ing
	if err := s.persistLocked(); err != nil {
		return store.Ingredient{}, err
	}
	return *ing, nil
}

func (s *InventoryService) Get(id string) (store.Ingredient, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ing, ok := s.ingredients[id]
	if !ok {
		return store.Ingredient{}, false
	}
	return *ing, true
}

func (s *InventoryService) List() []store.Ingredient {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.Ingredient, 0, len(s.ingredients))
	for _, ing := range s.ingredients {
		out = append(out, *ing)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out
}

func (s *InventoryService) Replenish(id string, cantidad float64) (store.Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ing, ok := s.ingredients[id]
	if !ok {
		return store.Ingredient{}, ErrIngredienteNoEncontrado
	}
	ing.Cantidad += cantidad
	if err := s.persistLocked(); err != nil {
		return store.Ingredient{}, err
	}
	return *ing, nil
}

// VerifyRecipe checks an aggregate requirement (ingredient id -> quantity)
// against current stock and describes every shortage, both missing
// ingredients and insufficient quantities.
func (s *InventoryService) VerifyRecipe(receta map[string]float64) (bool, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verifyLocked(receta)
}

func (s *InventoryService) verifyLocked(receta map[string]float64) (bool, []string) {
	ids := make([]string, 0, len(receta))
	for id := range receta {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var faltantes []string
	for _, id := range ids {
		cantidad := receta[id]
		ing, ok := s.ingredients[id]
		if !ok {
			faltantes = append(faltantes, fmt.Sprintf("Ingrediente %s no existe en inventario", id))
			continue
		}
		if !ing.HaySuficiente(cantidad) {
			faltantes = append(faltantes, fmt.Sprintf("%s: necesita %g %s, disponible %g %s",
				ing.Nombre, cantidad, ing.Unidad, ing.Cantidad, ing.Unidad))
		}
	}
	return len(faltantes) == 0, faltantes
}

// DeductRecipe verifies and subtracts an aggregate requirement as one
// all-or-nothing operation: nothing is deducted unless every line verifies.
func (s *InventoryService) DeductRecipe(receta map[string]float64) error {
	if len(receta) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ok, faltantes := s.verifyLocked(receta)
	if !ok {
		return fmt.Errorf("Stock insuficiente: %s", strings.Join(faltantes, ", "))
	}
	for id, cantidad := range receta {
		s.ingredients[id].Cantidad -= cantidad
	}
	if err := s.persistLocked(); err != nil {
		return err
	}
	return nil
}

// LowStock lists ingredients strictly below the threshold. A non-positive
// umbral means the service default.
func (s *InventoryService) LowStock(umbral float64) []store.Ingredient {
	if umbral <= 0 {
		umbral = s.threshold
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []store.Ingredient
	for _, ing := range s.ingredients {
		if ing.Cantidad < umbral {
			out = append(out, *ing)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out
}

func (s *InventoryService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ingredients)
}
