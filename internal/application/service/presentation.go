package service

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// EntityTableHeader lists the entity table columns in display order
var EntityTableHeader = []string{
	"Entity",
	"Invoice_Amount",
	"Paid_Amount",
	"Paid %",
	"Receivables",
	"Receivables %",
}

// Card is one formatted summary metric
type Card struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// DisplayTable is the entity breakdown with every cell formatted. The last
// row is the total row.
type DisplayTable struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// ChartTrace is one series of the yearly combo chart
type ChartTrace struct {
	Name  string    `json:"name"`
	Type  string    `json:"type"`
	Axis  string    `json:"axis"`
	Color string    `json:"color"`
	X     []int     `json:"x"`
	Y     []float64 `json:"y"`
}

// Chart is the yearly combo chart: invoice amount bars on the left axis and
// a receivables line on the right axis.
type Chart struct {
	Traces      []ChartTrace `json:"traces"`
	YAxisTitle  string       `json:"y_axis_title"`
	Y2AxisTitle string       `json:"y2_axis_title"`
}

// Cards returns the five summary cards in their fixed display order
func (d *Dashboard) Cards() []Card {
	m := d.Metrics
	return []Card{
		{ID: "invoice-amount", Label: "Invoice Amount", Value: FormatCurrency(m.InvoiceAmount)},
		{ID: "paid-amount", Label: "Paid Amount", Value: FormatCurrency(m.PaidAmount)},
		{ID: "paid-percent", Label: "Paid %", Value: FormatPercent(m.PaidPercent)},
		{ID: "receivables", Label: "Receivables", Value: FormatCurrency(m.Receivables)},
		{ID: "receivables-percent", Label: "Receivables %", Value: FormatPercent(m.ReceivablesPercent)},
	}
}

// DisplayTable formats the entity breakdown. The numeric rows are untouched.
func (d *Dashboard) DisplayTable() DisplayTable {
	rows := make([][]string, len(d.Entities))
	for i, e := range d.Entities {
		rows[i] = []string{
			e.Entity,
			FormatAmount(e.InvoiceAmount),
			FormatAmount(e.PaidAmount),
			FormatPercent(e.PaidPercent),
			FormatAmount(e.Receivables),
			FormatPercent(e.ReceivablesPercent),
		}
	}
	return DisplayTable{
		Header: append([]string(nil), EntityTableHeader...),
		Rows:   rows,
	}
}

// Chart builds the chart traces from the yearly series
func (d *Dashboard) Chart() Chart {
	years := make([]int, len(d.Series))
	invoiced := make([]float64, len(d.Series))
	receivables := make([]float64, len(d.Series))
	for i, p := range d.Series {
		years[i] = p.Year
		invoiced[i] = p.InvoiceAmount.InexactFloat64()
		receivables[i] = p.Receivables.InexactFloat64()
	}

	return Chart{
		Traces: []ChartTrace{
			{Name: "Invoice Amount", Type: "bar", Axis: "y", Color: "#00BFFF", X: years, Y: invoiced},
			{Name: "Receivables", Type: "line", Axis: "y2", Color: "orange", X: years, Y: receivables},
		},
		YAxisTitle:  "Invoice Amount",
		Y2AxisTitle: "Receivables",
	}
}

// FormatAmount renders d with thousands separators and no decimals,
// e.g. 1234567.5 -> "1,234,568". Halves round to even.
func FormatAmount(d decimal.Decimal) string {
	return humanize.Comma(d.RoundBank(0).IntPart())
}

// FormatCurrency is FormatAmount with a dollar sign
func FormatCurrency(d decimal.Decimal) string {
	return "$" + FormatAmount(d)
}

// FormatPercent renders d with two decimals and a percent sign
func FormatPercent(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}
