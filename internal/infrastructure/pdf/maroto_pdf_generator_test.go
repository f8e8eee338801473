package pdf_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/skillbridge-business/internal/application/dto"
	"github.com/jhoicas/skillbridge-business/internal/infrastructure/pdf"
)

func invoice(pending bool) *dto.InvoiceDTO {
	return &dto.InvoiceDTO{
		SaleKey:  "s1",
		Number:   "INV-0001",
		Date:     "03/10/2026",
		Issuer:   dto.InvoicePartyDTO{Name: "Mama Mboga Ltd", TaxPIN: "P051234567X"},
		Customer: dto.InvoicePartyDTO{Name: "Achieng"},
		Lines: []dto.InvoiceLineDTO{
			{Description: "Sukuma", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(58), Subtotal: decimal.NewFromInt(116)},
		},
		Currency:   "KES",
		VATRate:    decimal.RequireFromString("0.16"),
		NetTotal:   decimal.NewFromInt(100),
		VATTotal:   decimal.NewFromInt(16),
		GrandTotal: decimal.NewFromInt(116),
		Pending:    pending,
	}
}

func TestGenerateInvoicePDF(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator()

	for _, pending := range []bool{false, true} {
		raw, err := g.GenerateInvoicePDF(context.Background(), invoice(pending))
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")), "pending=%v", pending)
	}
}

func TestGenerateInvoicePDF_Nil(t *testing.T) {
	_, err := pdf.NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), nil)
	assert.Error(t, err)
}
