package httpapi

import (
	"context"

	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
)

// Métodos tipados por colección, sobre List/Create/Update/Delete.

func listAs[T entity.Record](recs []entity.Record, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		if v, ok := r.(T); ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func oneAs[T entity.Record](rec entity.Record, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	v, _ := rec.(T)
	return v, nil
}

// ── Inventory ──

func (c *Client) GetInventory(ctx context.Context, params map[string]string) ([]*entity.InventoryItem, error) {
	return listAs[*entity.InventoryItem](c.List(ctx, entity.ResourceInventory, params))
}

func (c *Client) CreateInventoryItem(ctx context.Context, v *entity.InventoryItem) (*entity.InventoryItem, error) {
	return oneAs[*entity.InventoryItem](c.Create(ctx, v))
}

func (c *Client) UpdateInventoryItem(ctx context.Context, v *entity.InventoryItem) (*entity.InventoryItem, error) {
	return oneAs[*entity.InventoryItem](c.Update(ctx, v))
}

func (c *Client) DeleteInventoryItem(ctx context.Context, id string) error {
	return c.Delete(ctx, entity.ResourceInventory, id)
}

// ── Customers ──

func (c *Client) GetCustomers(ctx context.Context, params map[string]string) ([]*entity.Customer, error) {
	return listAs[*entity.Customer](c.List(ctx, entity.ResourceCustomers, params))
}

func (c *Client) CreateCustomer(ctx context.Context, v *entity.Customer) (*entity.Customer, error) {
	return oneAs[*entity.Customer](c.Create(ctx, v))
}

func (c *Client) UpdateCustomer(ctx context.Context, v *entity.Customer) (*entity.Customer, error) {
	return oneAs[*entity.Customer](c.Update(ctx, v))
}

func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	return c.Delete(ctx, entity.ResourceCustomers, id)
}

// ── Sales ──

func (c *Client) GetSales(ctx context.Context, params map[string]string) ([]*entity.Sale, error) {
	return listAs[*entity.Sale](c.List(ctx, entity.ResourceSales, params))
}

func (c *Client) CreateSale(ctx context.Context, v *entity.Sale) (*entity.Sale, error) {
	return oneAs[*entity.Sale](c.Create(ctx, v))
}

func (c *Client) UpdateSale(ctx context.Context, v *entity.Sale) (*entity.Sale, error) {
	return oneAs[*entity.Sale](c.Update(ctx, v))
}

func (c *Client) DeleteSale(ctx context.Context, id string) error {
	return c.Delete(ctx, entity.ResourceSales, id)
}

// ── Expenses ──

func (c *Client) GetExpenses(ctx context.Context, params map[string]string) ([]*entity.Expense, error) {
	return listAs[*entity.Expense](c.List(ctx, entity.ResourceExpenses, params))
}

func (c *Client) CreateExpense(ctx context.Context, v *entity.Expense) (*entity.Expense, error) {
	return oneAs[*entity.Expense](c.Create(ctx, v))
}

func (c *Client) UpdateExpense(ctx context.Context, v *entity.Expense) (*entity.Expense, error) {
	return oneAs[*entity.Expense](c.Update(ctx, v))
}

func (c *Client) DeleteExpense(ctx context.Context, id string) error {
	return c.Delete(ctx, entity.ResourceExpenses, id)
}

// ── Suppliers ──

func (c *Client) GetSuppliers(ctx context.Context, params map[string]string) ([]*entity.Supplier, error) {
	return listAs[*entity.Supplier](c.List(ctx, entity.ResourceSuppliers, params))
}

func (c *Client) CreateSupplier(ctx context.Context, v *entity.Supplier) (*entity.Supplier, error) {
	return oneAs[*entity.Supplier](c.Create(ctx, v))
}

func (c *Client) UpdateSupplier(ctx context.Context, v *entity.Supplier) (*entity.Supplier, error) {
	return oneAs[*entity.Supplier](c.Update(ctx, v))
}

func (c *Client) DeleteSupplier(ctx context.Context, id string) error {
	return c.Delete(ctx, entity.ResourceSuppliers, id)
}

// ── Returns ──

func (c *Client) GetReturns(ctx context.Context, params map[string]string) ([]*entity.Return, error) {
	return listAs[*entity.Return](c.List(ctx, entity.ResourceReturns, params))
}

func (c *Client) CreateReturn(ctx context.Context, v *entity.Return) (*entity.Return, error) {
	return oneAs[*entity.Return](c.Create(ctx, v))
}

func (c *Client) UpdateReturn(ctx context.Context, v *entity.Return) (*entity.Return, error) {
	return oneAs[*entity.Return](c.Update(ctx, v))
}

func (c *Client) DeleteReturn(ctx context.Context, id string) error {
	return c.Delete(ctx, entity.ResourceReturns, id)
}

// ── Payments ──

func (c *Client) GetPayments(ctx context.Context, params map[string]string) ([]*entity.Payment, error) {
	return listAs[*entity.Payment](c.List(ctx, entity.ResourcePayments, params))
}

func (c *Client) CreatePayment(ctx context.Context, v *entity.Payment) (*entity.Payment, error) {
	return oneAs[*entity.Payment](c.Create(ctx, v))
}

func (c *Client) UpdatePayment(ctx context.Context, v *entity.Payment) (*entity.Payment, error) {
	return oneAs[*entity.Payment](c.Update(ctx, v))
}

func (c *Client) DeletePayment(ctx context.Context, id string) error {
	return c.Delete(ctx, entity.ResourcePayments, id)
}
