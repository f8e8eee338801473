package entity

import (
	"fmt"

	"github.com/jhoicas/skillbridge-business/internal/domain"
)

// Resource identifica una colección de negocio sincronizada con /business/*.
type Resource string

// Colecciones soportadas por el núcleo de sincronización.
const (
	ResourceInventory Resource = "inventory"
	ResourceCustomers Resource = "customers"
	ResourceSales     Resource = "sales"
	ResourceExpenses  Resource = "expenses"
	ResourceSuppliers Resource = "suppliers"
	ResourceReturns   Resource = "returns"
	ResourcePayments  Resource = "payments"
)

// resourceInfo nombres asociados a cada colección: clave en el espejo local
// y sufijos usados para nombrar operaciones (loadInventory, createSale...).
type resourceInfo struct {
	mirrorKey string
	plural    string // sufijo de load*
	singular  string // sufijo de create*/update*/delete*
}

var resources = map[Resource]resourceInfo{
	ResourceInventory: {mirrorKey: "businessInventory", plural: "Inventory", singular: "InventoryItem"},
	ResourceCustomers: {mirrorKey: "businessCustomers", plural: "Customers", singular: "Customer"},
	ResourceSales:     {mirrorKey: "businessSales", plural: "Sales", singular: "Sale"},
	ResourceExpenses:  {mirrorKey: "businessExpenses", plural: "Expenses", singular: "Expense"},
	ResourceSuppliers: {mirrorKey: "businessSuppliers", plural: "Suppliers", singular: "Supplier"},
	ResourceReturns:   {mirrorKey: "businessReturns", plural: "Returns", singular: "Return"},
	ResourcePayments:  {mirrorKey: "businessPayments", plural: "Payments", singular: "Payment"},
}

// AllResources devuelve las colecciones en orden estable (el de hidratación y refresco).
func AllResources() []Resource {
	return []Resource{
		ResourceInventory,
		ResourceCustomers,
		ResourceSales,
		ResourceExpenses,
		ResourceSuppliers,
		ResourceReturns,
		ResourcePayments,
	}
}

// ParseResource valida un nombre de colección recibido desde fuera (CLI, HTTP).
// Devuelve la constante registrada, nunca s: s puede apuntar a un buffer reutilizado.
func ParseResource(s string) (Resource, error) {
	for _, r := range AllResources() {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownResource, s)
}

// Valid indica si la colección es conocida.
func (r Resource) Valid() bool {
	_, ok := resources[r]
	return ok
}

// Path ruta relativa de la API remota (ej: /business/sales).
func (r Resource) Path() string { return "/business/" + string(r) }

// MirrorKey clave del snapshot de la colección en el espejo local.
func (r Resource) MirrorKey() string { return resources[r].mirrorKey }

// Plural sufijo de la operación de carga (loadSales).
func (r Resource) Plural() string { return resources[r].plural }

// Singular sufijo de las mutaciones (createSale, deleteExpense).
func (r Resource) Singular() string { return resources[r].singular }
