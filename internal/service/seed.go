package service

import (
	"fmt"
	"log/slog"

	"pulperia-go/internal/store"
)

type seedIngredient struct {
	Nombre   string
	Unidad   string
	Cantidad float64
}

type seedProduct struct {
	Tipo        string
	Nombre      string
	Precio      float64
	Descripcion string
	Receta      map[string]float64 // keyed by ingredient name, resolved to ids at seed time
}

var seedIngredients = []seedIngredient{
	{"Pulpo", "kg", 50},
	{"Papas", "kg", 45},
	{"Aceite de oliva", "litros", 15},
	{"Pimentón", "kg", 8},
	{"Empanada (masa)", "unidades", 200},
	{"Carne picada", "kg", 20},
	{"Cebolla", "kg", 12},
	{"Pan", "unidades", 100},
	{"Jamón serrano", "kg", 15},
	{"Tomate", "kg", 8},
	{"Harina de almendra", "kg", 10},
	{"Azúcar", "kg", 15},
	{"Huevos", "docenas", 25},
	{"Grelos", "kg", 8},
	{"Chorizo", "kg", 6},
	{"Vino Albariño", "botellas", 30},
	{"Vino Ribeiro", "botellas", 25},
	{"Agua", "botellas", 100},
	{"Café", "kg", 5},
	{"Cerveza", "botellas", 80},
}

var seedProducts = []seedProduct{
	{store.TipoPlato, "Pulpo a la Gallega", 18.50, "Pulpo cocido con papas, aceite de oliva y pimentón",
		map[string]float64{"Pulpo": 0.3, "Papas": 0.4, "Aceite de oliva": 0.05, "Pimentón": 0.02}},
	{store.TipoPlato, "Empanada Gallega", 3.50, "Empanada tradicional de carne",
		map[string]float64{"Empanada (masa)": 1, "Carne picada": 0.15, "Cebolla": 0.05}},
	{store.TipoPlato, "Bocadillo de Jamón", 5.00, "Bocadillo de jamón serrano con tomate",
		map[string]float64{"Pan": 1, "Jamón serrano": 0.08, "Tomate": 0.05}},
	{store.TipoPlato, "Tarta de Santiago", 4.50, "Tarta tradicional de almendras",
		map[string]float64{"Harina de almendra": 0.2, "Azúcar": 0.15, "Huevos": 0.25}},
	{store.TipoPlato, "Caldo Gallego", 6.00, "Caldo tradicional gallego con grelos",
		map[string]float64{"Papas": 0.3, "Grelos": 0.2, "Chorizo": 0.1}},
	{store.TipoBebida, "Albariño", 12.00, "Vino blanco gallego",
		map[string]float64{"Vino Albariño": 1}},
	{store.TipoBebida, "Ribeiro", 10.00, "Vino tinto joven",
		map[string]float64{"Vino Ribeiro": 1}},
	{store.TipoBebida, "Agua Mineral", 1.50, "Agua mineral natural",
		map[string]float64{"Agua": 1}},
	{store.TipoBebida, "Café", 1.20, "Café expreso",
		map[string]float64{"Café": 0.01}},
	{store.TipoBebida, "Cerveza Estrella Galicia", 2.50, "Cerveza gallega",
		map[string]float64{"Cerveza": 1}},
}

// SeedCatalog loads the demo inventory and menu. Callers must only invoke it
// when both collections are empty; it never touches users.
func SeedCatalog(inventory *InventoryService, menu *MenuService, log *slog.Logger) error {
	ids := make(map[string]string, len(seedIngredients))
	for _, si := range seedIngredients {
		ing, err := inventory.Add(si.Nombre, si.Unidad, si.Cantidad)
		if err != nil {
			return fmt.Errorf("seed ingrediente %q: %w", si.Nombre, err)
		}
		ids[si.Nombre] = ing.ID
	}

	for _, sp := range seedProducts {
		p, err := menu.Add(sp.Tipo, sp.Nombre, sp.Precio, sp.Descripcion)
		if err != nil {
			return fmt.Errorf("seed producto %q: %w", sp.Nombre, err)
		}
		receta := make(map[string]float64, len(sp.Receta))
		for nombre, cantidad := range sp.Receta {
			id, ok := ids[nombre]
			if !ok {
				return fmt.Errorf("seed producto %q: ingrediente %q not seeded", sp.Nombre, nombre)
			}
			receta[id] = cantidad
		}
		if err := menu.SetRecipe(p.ID, receta); err != nil {
			return fmt.Errorf("seed receta %q: %w", sp.Nombre, err)
		}
	}

	log.Info("catalog seeded", "ingredients", len(seedIngredients), "products", len(seedProducts))
	return nil
}
