package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice represents one invoice line as stored in the invoice table.
// The table name is configurable, so Invoice has no TableName method;
// repositories select the table explicitly.
type Invoice struct {
	Entity        string              `gorm:"column:Entity;size:255" json:"entity"`
	Location      string              `gorm:"column:Location;size:255;index" json:"location"`
	InvoiceDate   *time.Time          `gorm:"column:Invoice_Date" json:"invoice_date"`
	InvoiceAmount decimal.NullDecimal `gorm:"column:Invoice_Amount;type:decimal(18,2)" json:"invoice_amount"`
	// Quantity carries the unpaid (receivable) part of the invoice amount.
	// The column name is historical.
	Quantity decimal.NullDecimal `gorm:"column:Quantity;type:decimal(18,2)" json:"quantity"`
}
