package synccore

import (
	"context"

	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
)

// Envoltorios tipados por colección (loadInventory, createSale, deleteExpense...).

func typedList[T entity.Record](recs []entity.Record) []T {
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		if v, ok := r.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func typed[T entity.Record](rec entity.Record) T {
	v, _ := rec.(T)
	return v
}

// ── Inventory ──

func (c *Core) LoadInventory(ctx context.Context, params map[string]string) ([]*entity.InventoryItem, error) {
	recs, err := c.Load(ctx, entity.ResourceInventory, params)
	return typedList[*entity.InventoryItem](recs), err
}

func (c *Core) CreateInventoryItem(ctx context.Context, v *entity.InventoryItem) (*entity.InventoryItem, error) {
	rec, err := c.Create(ctx, v)
	return typed[*entity.InventoryItem](rec), err
}

func (c *Core) UpdateInventoryItem(ctx context.Context, v *entity.InventoryItem) (*entity.InventoryItem, error) {
	rec, err := c.Update(ctx, v)
	return typed[*entity.InventoryItem](rec), err
}

func (c *Core) DeleteInventoryItem(ctx context.Context, key string) error {
	return c.Delete(ctx, entity.ResourceInventory, key)
}

// ── Customers ──

func (c *Core) LoadCustomers(ctx context.Context, params map[string]string) ([]*entity.Customer, error) {
	recs, err := c.Load(ctx, entity.ResourceCustomers, params)
	return typedList[*entity.Customer](recs), err
}

func (c *Core) CreateCustomer(ctx context.Context, v *entity.Customer) (*entity.Customer, error) {
	rec, err := c.Create(ctx, v)
	return typed[*entity.Customer](rec), err
}

func (c *Core) UpdateCustomer(ctx context.Context, v *entity.Customer) (*entity.Customer, error) {
	rec, err := c.Update(ctx, v)
	return typed[*entity.Customer](rec), err
}

func (c *Core) DeleteCustomer(ctx context.Context, key string) error {
	return c.Delete(ctx, entity.ResourceCustomers, key)
}

// ── Sales ──

func (c *Core) LoadSales(ctx context.Context, params map[string]string) ([]*entity.Sale, error) {
	recs, err := c.Load(ctx, entity.ResourceSales, params)
	return typedList[*entity.Sale](recs), err
}

func (c *Core) CreateSale(ctx context.Context, v *entity.Sale) (*entity.Sale, error) {
	rec, err := c.Create(ctx, v)
	return typed[*entity.Sale](rec), err
}

func (c *Core) UpdateSale(ctx context.Context, v *entity.Sale) (*entity.Sale, error) {
	rec, err := c.Update(ctx, v)
	return typed[*entity.Sale](rec), err
}

func (c *Core) DeleteSale(ctx context.Context, key string) error {
	return c.Delete(ctx, entity.ResourceSales, key)
}

// ── Expenses ──

func (c *Core) LoadExpenses(ctx context.Context, params map[string]string) ([]*entity.Expense, error) {
	recs, err := c.Load(ctx, entity.ResourceExpenses, params)
	return typedList[*entity.Expense](recs), err
}

func (c *Core) CreateExpense(ctx context.Context, v *entity.Expense) (*entity.Expense, error) {
	rec, err := c.Create(ctx, v)
	return typed[*entity.Expense](rec), err
}

func (c *Core) UpdateExpense(ctx context.Context, v *entity.Expense) (*entity.Expense, error) {
	rec, err := c.Update(ctx, v)
	return typed[*entity.Expense](rec), err
}

func (c *Core) DeleteExpense(ctx context.Context, key string) error {
	return c.Delete(ctx, entity.ResourceExpenses, key)
}

// ── Suppliers ──

func (c *Core) LoadSuppliers(ctx context.Context, params map[string]string) ([]*entity.Supplier, error) {
	recs, err := c.Load(ctx, entity.ResourceSuppliers, params)
	return typedList[*entity.Supplier](recs), err
}

func (c *Core) CreateSupplier(ctx context.Context, v *entity.Supplier) (*entity.Supplier, error) {
	rec, err := c.Create(ctx, v)
	return typed[*entity.Supplier](rec), err
}

func (c *Core) UpdateSupplier(ctx context.Context, v *entity.Supplier) (*entity.Supplier, error) {
	rec, err := c.Update(ctx, v)
	return typed[*entity.Supplier](rec), err
}

func (c *Core) DeleteSupplier(ctx context.Context, key string) error {
	return c.Delete(ctx, entity.ResourceSuppliers, key)
}

// ── Returns ──

func (c *Core) LoadReturns(ctx context.Context, params map[string]string) ([]*entity.Return, error) {
	recs, err := c.Load(ctx, entity.ResourceReturns, params)
	return typedList[*entity.Return](recs), err
}

func (c *Core) CreateReturn(ctx context.Context, v *entity.Return) (*entity.Return, error) {
	rec, err := c.Create(ctx, v)
	return typed[*entity.Return](rec), err
}

func (c *Core) UpdateReturn(ctx context.Context, v *entity.Return) (*entity.Return, error) {
	rec, err := c.Update(ctx, v)
	return typed[*entity.Return](rec), err
}

func (c *Core) DeleteReturn(ctx context.Context, key string) error {
	return c.Delete(ctx, entity.ResourceReturns, key)
}

// ── Payments ──

func (c *Core) LoadPayments(ctx context.Context, params map[string]string) ([]*entity.Payment, error) {
	recs, err := c.Load(ctx, entity.ResourcePayments, params)
	return typedList[*entity.Payment](recs), err
}

func (c *Core) CreatePayment(ctx context.Context, v *entity.Payment) (*entity.Payment, error) {
	rec, err := c.Create(ctx, v)
	return typed[*entity.Payment](rec), err
}

func (c *Core) UpdatePayment(ctx context.Context, v *entity.Payment) (*entity.Payment, error) {
	rec, err := c.Update(ctx, v)
	return typed[*entity.Payment](rec), err
}

func (c *Core) DeletePayment(ctx context.Context, key string) error {
	return c.Delete(ctx, entity.ResourcePayments, key)
}
