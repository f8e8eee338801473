package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/skillbridge-business/internal/domain"
	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
)

func TestValidate_GastoValido(t *testing.T) {
	err := entity.Validate(&entity.Expense{Category: "Rent", Description: "Office", Amount: decimal.NewFromInt(5000)})
	assert.NoError(t, err)
}

func TestValidate_GastoSinMonto(t *testing.T) {
	err := entity.Validate(&entity.Expense{Category: "Rent"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "amount")
}

func TestValidate_VentaSinLineas(t *testing.T) {
	err := entity.Validate(&entity.Sale{CustomerName: "Walk-in"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "items")
}

func TestValidate_LineaConCantidadCero(t *testing.T) {
	err := entity.Validate(&entity.Sale{Items: []entity.SaleItem{{Name: "Soap", UnitPrice: decimal.NewFromInt(50)}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "quantity")
}

func TestValidate_EmailDeCliente(t *testing.T) {
	assert.Error(t, entity.Validate(&entity.Customer{Name: "Amina", Email: "no-es-email"}))
	assert.NoError(t, entity.Validate(&entity.Customer{Name: "Amina", Email: "amina@example.com"}))
}

func TestValidate_RegistroNil(t *testing.T) {
	assert.ErrorIs(t, entity.Validate(nil), domain.ErrInvalidInput)
}

func TestIsLowStock_UsaUmbralCuandoNoHayPuntoDeReorden(t *testing.T) {
	item := entity.InventoryItem{Name: "Sugar", Quantity: decimal.NewFromInt(4)}
	assert.True(t, item.IsLowStock(decimal.NewFromInt(10)))

	item.ReorderLevel = decimal.NewFromInt(2)
	assert.False(t, item.IsLowStock(decimal.NewFromInt(10)))
}
