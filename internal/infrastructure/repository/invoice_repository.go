package repository

import (
	"context"
	"fmt"

	"github.com/sangkips/invoice-dashboard/internal/domain/entity"
	domainRepo "github.com/sangkips/invoice-dashboard/internal/domain/repository"
	"gorm.io/gorm"
)

type invoiceRepository struct {
	db    *gorm.DB
	table string
}

// NewInvoiceRepository creates a repository reading from the given table
func NewInvoiceRepository(db *gorm.DB, table string) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db, table: table}
}

func (r *invoiceRepository) FindAll(ctx context.Context) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
	if err := r.db.WithContext(ctx).Table(r.table).Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.table, err)
	}
	return invoices, nil
}
