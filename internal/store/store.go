package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists each collection as one JSON document in the data directory,
// a top-level array under a named key. Collections are loaded whole at
// startup and rewritten whole on every mutation. Writes go to a temp file in
// the same directory and are renamed over the target, so a crash mid-write
// leaves the previous document intact.
type Store struct {
	dir string
}

func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) load(file string, doc any) error {
	b, err := os.ReadFile(filepath.Join(s.dir, file))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", file, err)
	}
	if err := json.Unmarshal(b, doc); err != nil {
		return fmt.Errorf("decode %s: %w", file, err)
	}
	return nil
}

func (s *Store) save(file string, doc any) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", file, err)
	}
	tmp, err := os.CreateTemp(s.dir, file+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", file, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(s.dir, file))
}

/* ---------------- per-collection documents ---------------- */

type ingredientesDoc struct {
	Ingredientes []*Ingredient `json:"ingredientes"`
}

func (s *Store) LoadIngredients() ([]*Ingredient, error) {
	var doc ingredientesDoc
	if err := s.load("inventario.json", &doc); err != nil {
		return nil, err
	}
	return doc.Ingredientes, nil
}

func (s *Store) SaveIngredients(items []*Ingredient) error {
	if items == nil {
		items = []*Ingredient{}
	}
	return s.save("inventario.json", ingredientesDoc{Ingredientes: items})
}

type productosDoc struct {
	Productos []*Product `json:"productos"`
}

func (s *Store) LoadProducts() ([]*Product, error) {
	var doc productosDoc
	if err := s.load("menu.json", &doc); err != nil {
		return nil, err
	}
	return doc.Productos, nil
}

func (s *Store) SaveProducts(items []*Product) error {
	if items == nil {
		items = []*Product{}
	}
	return s.save("menu.json", productosDoc{Productos: items})
}

type usuariosDoc struct {
	Usuarios []*User `json:"usuarios"`
}

func (s *Store) LoadUsers() ([]*User, error) {
	var doc usuariosDoc
	if err := s.load("usuarios.json", &doc); err != nil {
		return nil, err
	}
	return doc.Usuarios, nil
}

func (s *Store) SaveUsers(items []*User) error {
	if items == nil {
		items = []*User{}
	}
	return s.save("usuarios.json", usuariosDoc{Usuarios: items})
}

type pedidosDoc struct {
	Pedidos []*Order `json:"pedidos"`
}

func (s *Store) LoadOrders() ([]*Order, error) {
	var doc pedidosDoc
	if err := s.load("pedidos.json", &doc); err != nil {
		return nil, err
	}
	return doc.Pedidos, nil
}

func (s *Store) SaveOrders(items []*Order) error {
	if items == nil {
		items = []*Order{}
	}
	return s.save("pedidos.json", pedidosDoc{Pedidos: items})
}

type facturasDoc struct {
	Facturas []*Invoice `json:"facturas"`
}

func (s *Store) LoadInvoices() ([]*Invoice, error) {
	var doc facturasDoc
	if err := s.load("facturas.json", &doc); err != nil {
		return nil, err
	}
	return doc.Facturas, nil
}

func (s *Store) SaveInvoices(items []*Invoice) error {
	if items == nil {
		items = []*Invoice{}
	}
	return s.save("facturas.json", facturasDoc{Facturas: items})
}
