package repository

import (
	"context"

	"github.com/sangkips/invoice-dashboard/internal/domain/entity"
)

// InvoiceRepository defines read access to the invoice table
type InvoiceRepository interface {
	// FindAll returns every row of the invoice table
	FindAll(ctx context.Context) ([]entity.Invoice, error)
}
