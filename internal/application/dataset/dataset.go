// Package dataset holds the invoice rows the dashboard aggregates over.
//
// A Dataset is built once at startup and never modified afterwards, so it
// can be shared between concurrent requests without locking.
package dataset

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sangkips/invoice-dashboard/internal/domain/entity"
	"github.com/sangkips/invoice-dashboard/internal/domain/repository"
)

// Record is an invoice row with its calendar fields derived.
type Record struct {
	Entity        string
	Location      string
	InvoiceDate   time.Time
	HasDate       bool
	InvoiceAmount decimal.Decimal
	// Receivable is the unpaid part of InvoiceAmount (the Quantity column).
	Receivable decimal.Decimal

	Year    int
	Quarter string
	Month   string
}

// NewRecord derives a Record from a stored invoice. NULL amounts count as
// zero; a NULL date leaves Year, Quarter and Month empty.
func NewRecord(inv entity.Invoice) Record {
	r := Record{
		Entity:        inv.Entity,
		Location:      inv.Location,
		InvoiceAmount: valueOrZero(inv.InvoiceAmount),
		Receivable:    valueOrZero(inv.Quantity),
	}
	if inv.InvoiceDate != nil {
		r.InvoiceDate = *inv.InvoiceDate
		r.HasDate = true
		r.Year = inv.InvoiceDate.Year()
		r.Quarter = QuarterLabel(*inv.InvoiceDate)
		r.Month = inv.InvoiceDate.Month().String()
	}
	return r
}

// QuarterLabel formats the calendar quarter of t as "2024Q1".
func QuarterLabel(t time.Time) string {
	return fmt.Sprintf("%dQ%d", t.Year(), (int(t.Month())-1)/3+1)
}

func valueOrZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

// Dataset is an immutable set of invoice records plus the distinct values
// offered by the dashboard filters.
type Dataset struct {
	records  []Record
	years    []string
	quarters []string
	months   []string
	loadedAt time.Time
}

// New builds a Dataset from records. The slice is copied.
func New(records []Record) *Dataset {
	d := &Dataset{
		records:  append([]Record(nil), records...),
		loadedAt: time.Now(),
	}
	d.buildLookups()
	return d
}

// FromInvoices derives records from stored invoices and builds a Dataset.
func FromInvoices(invoices []entity.Invoice) *Dataset {
	records := make([]Record, len(invoices))
	for i, inv := range invoices {
		records[i] = NewRecord(inv)
	}
	return New(records)
}

// Load reads the whole invoice table once.
func Load(ctx context.Context, repo repository.InvoiceRepository) (*Dataset, error) {
	invoices, err := repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load invoices: %w", err)
	}
	return FromInvoices(invoices), nil
}

func (d *Dataset) buildLookups() {
	yearSet := make(map[int]struct{})
	quarterSet := make(map[string]struct{})
	monthSeen := make(map[string]struct{})

	for _, r := range d.records {
		if !r.HasDate {
			continue
		}
		yearSet[r.Year] = struct{}{}
		quarterSet[r.Quarter] = struct{}{}
		if _, ok := monthSeen[r.Month]; !ok {
			monthSeen[r.Month] = struct{}{}
			d.months = append(d.months, r.Month)
		}
	}

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)
	d.years = make([]string, len(years))
	for i, y := range years {
		d.years[i] = strconv.Itoa(y)
	}

	d.quarters = make([]string, 0, len(quarterSet))
	for q := range quarterSet {
		d.quarters = append(d.quarters, q)
	}
	sort.Strings(d.quarters)
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// LoadedAt returns when the dataset was built.
func (d *Dataset) LoadedAt() time.Time {
	return d.loadedAt
}

// Each calls fn for every record in load order.
func (d *Dataset) Each(fn func(Record)) {
	for _, r := range d.records {
		fn(r)
	}
}

// Years returns the distinct invoice years in ascending order.
func (d *Dataset) Years() []string {
	return append([]string(nil), d.years...)
}

// Quarters returns the distinct quarter labels in ascending order.
func (d *Dataset) Quarters() []string {
	return append([]string(nil), d.quarters...)
}

// Months returns the distinct month names in the order they first appear.
func (d *Dataset) Months() []string {
	return append([]string(nil), d.months...)
}
