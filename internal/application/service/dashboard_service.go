package service

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/sangkips/invoice-dashboard/internal/application/dataset"
	"github.com/sangkips/invoice-dashboard/internal/domain/entity"
)

// TotalRowLabel names the synthetic row appended to the entity table
const TotalRowLabel = "Total"

var hundred = decimal.NewFromInt(100)

// DashboardService aggregates the cached invoice dataset for the dashboard.
// It never queries the database.
type DashboardService struct {
	dataset *dataset.Dataset
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(ds *dataset.Dataset) *DashboardService {
	return &DashboardService{dataset: ds}
}

// Filters holds the dropdown selections. An empty slice means the dimension
// is not restricted.
type Filters struct {
	Years    []string
	Quarters []string
	Months   []string
}

// Metrics are the five summary figures shown on the cards
type Metrics struct {
	InvoiceAmount      decimal.Decimal
	PaidAmount         decimal.Decimal
	PaidPercent        decimal.Decimal
	Receivables        decimal.Decimal
	ReceivablesPercent decimal.Decimal
}

// EntityRow is one line of the entity breakdown table
type EntityRow struct {
	Entity             string
	InvoiceAmount      decimal.Decimal
	PaidAmount         decimal.Decimal
	PaidPercent        decimal.Decimal
	Receivables        decimal.Decimal
	ReceivablesPercent decimal.Decimal
}

// YearPoint is one point of the yearly invoice/receivables chart
type YearPoint struct {
	Year          int
	InvoiceAmount decimal.Decimal
	Receivables   decimal.Decimal
}

// Dashboard is the numeric result of one aggregation pass. Entities always
// ends with the Total row.
type Dashboard struct {
	Metrics  Metrics
	Entities []EntityRow
	Series   []YearPoint
}

// FilterOptions are the values offered by the three dropdowns
type FilterOptions struct {
	Years    []string `json:"years"`
	Quarters []string `json:"quarters"`
	Months   []string `json:"months"`
}

// RecordCount returns the number of cached invoice records
func (s *DashboardService) RecordCount() int {
	return s.dataset.Len()
}

// FilterOptions returns the dropdown values of the whole dataset
func (s *DashboardService) FilterOptions() FilterOptions {
	return FilterOptions{
		Years:    s.dataset.Years(),
		Quarters: s.dataset.Quarters(),
		Months:   s.dataset.Months(),
	}
}

// Compute aggregates the records visible to username that match filters.
// It is a pure function of its arguments and the immutable dataset.
func (s *DashboardService) Compute(filters Filters, username string) *Dashboard {
	rows := s.selectRecords(filters, username)

	return &Dashboard{
		Metrics:  summarize(rows),
		Entities: entityBreakdown(rows),
		Series:   yearlySeries(rows),
	}
}

// selectRecords applies the access scope first, then the calendar filters
func (s *DashboardService) selectRecords(filters Filters, username string) []dataset.Record {
	admin := entity.IsAdmin(username)
	match := newMatcher(filters)

	var rows []dataset.Record
	s.dataset.Each(func(r dataset.Record) {
		if !admin && r.Location != username {
			return
		}
		if !match(r) {
			return
		}
		rows = append(rows, r)
	})
	return rows
}

func newMatcher(filters Filters) func(dataset.Record) bool {
	var years map[int]struct{}
	if len(filters.Years) > 0 {
		years = make(map[int]struct{}, len(filters.Years))
		for _, y := range filters.Years {
			// values that are not integers cannot match any record
			if n, err := strconv.Atoi(y); err == nil {
				years[n] = struct{}{}
			}
		}
	}
	quarters := toSet(filters.Quarters)
	months := toSet(filters.Months)

	return func(r dataset.Record) bool {
		if years != nil {
			if _, ok := years[r.Year]; !ok || !r.HasDate {
				return false
			}
		}
		if quarters != nil {
			if _, ok := quarters[r.Quarter]; !ok || !r.HasDate {
				return false
			}
		}
		if months != nil {
			if _, ok := months[r.Month]; !ok || !r.HasDate {
				return false
			}
		}
		return true
	}
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func summarize(rows []dataset.Record) Metrics {
	totalInvoice := decimal.Zero
	totalPaid := decimal.Zero
	for _, r := range rows {
		totalInvoice = totalInvoice.Add(r.InvoiceAmount)
		totalPaid = totalPaid.Add(r.InvoiceAmount.Sub(r.Receivable))
	}
	receivables := totalInvoice.Sub(totalPaid)

	return Metrics{
		InvoiceAmount:      totalInvoice,
		PaidAmount:         totalPaid,
		PaidPercent:        percentOf(totalPaid, totalInvoice),
		Receivables:        receivables,
		ReceivablesPercent: percentOf(receivables, totalInvoice),
	}
}

func entityBreakdown(rows []dataset.Record) []EntityRow {
	type sums struct {
		invoice    decimal.Decimal
		receivable decimal.Decimal
	}
	groups := make(map[string]*sums)
	for _, r := range rows {
		g, ok := groups[r.Entity]
		if !ok {
			g = &sums{}
			groups[r.Entity] = g
		}
		g.invoice = g.invoice.Add(r.InvoiceAmount)
		g.receivable = g.receivable.Add(r.Receivable)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	table := make([]EntityRow, 0, len(names)+1)
	total := EntityRow{Entity: TotalRowLabel}
	for _, name := range names {
		g := groups[name]
		row := newEntityRow(name, g.invoice, g.receivable)
		table = append(table, row)

		total.InvoiceAmount = total.InvoiceAmount.Add(row.InvoiceAmount)
		total.PaidAmount = total.PaidAmount.Add(row.PaidAmount)
		total.Receivables = total.Receivables.Add(row.Receivables)
	}
	total.PaidPercent = percentOf(total.PaidAmount, total.InvoiceAmount)
	total.ReceivablesPercent = percentOf(total.Receivables, total.InvoiceAmount)

	return append(table, total)
}

func newEntityRow(name string, invoice, receivable decimal.Decimal) EntityRow {
	paid := invoice.Sub(receivable)
	return EntityRow{
		Entity:             name,
		InvoiceAmount:      invoice,
		PaidAmount:         paid,
		PaidPercent:        percentOf(paid, invoice),
		Receivables:        receivable,
		ReceivablesPercent: percentOf(receivable, invoice),
	}
}

func yearlySeries(rows []dataset.Record) []YearPoint {
	byYear := make(map[int]*YearPoint)
	for _, r := range rows {
		if !r.HasDate {
			continue
		}
		p, ok := byYear[r.Year]
		if !ok {
			p = &YearPoint{Year: r.Year}
			byYear[r.Year] = p
		}
		p.InvoiceAmount = p.InvoiceAmount.Add(r.InvoiceAmount)
		p.Receivables = p.Receivables.Add(r.Receivable)
	}

	series := make([]YearPoint, 0, len(byYear))
	for _, p := range byYear {
		series = append(series, *p)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Year < series[j].Year })
	return series
}

// percentOf returns part/whole as a percentage rounded to two decimals,
// or zero when whole is zero.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}
