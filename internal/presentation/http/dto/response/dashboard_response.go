package response

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sangkips/invoice-dashboard/internal/application/service"
	"github.com/sangkips/invoice-dashboard/internal/domain/entity"
)

// DashboardResponse is the body of GET /dashboard
type DashboardResponse struct {
	Scope       string                `json:"scope"`
	Cards       []service.Card        `json:"cards"`
	EntityTable EntityTableResponse   `json:"entity_table"`
	Chart       service.Chart         `json:"chart"`
	Filters     FilterSelectionOutput `json:"filters"`
}

// EntityTableResponse carries the formatted rows next to the raw numbers
type EntityTableResponse struct {
	Header []string           `json:"header"`
	Rows   [][]string         `json:"rows"`
	Values []EntityRowPayload `json:"values"`
}

// EntityRowPayload is one entity row with numeric values
type EntityRowPayload struct {
	Entity             string          `json:"entity"`
	InvoiceAmount      decimal.Decimal `json:"invoice_amount"`
	PaidAmount         decimal.Decimal `json:"paid_amount"`
	PaidPercent        decimal.Decimal `json:"paid_percent"`
	Receivables        decimal.Decimal `json:"receivables"`
	ReceivablesPercent decimal.Decimal `json:"receivables_percent"`
}

// FilterSelectionOutput echoes the filters that were applied
type FilterSelectionOutput struct {
	Years    []string `json:"years"`
	Quarters []string `json:"quarters"`
	Months   []string `json:"months"`
}

// UserResponse is the public view of a dashboard account
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// NewDashboardResponse converts an aggregation result for the wire
func NewDashboardResponse(d *service.Dashboard, filters service.Filters, username string) DashboardResponse {
	table := d.DisplayTable()
	values := make([]EntityRowPayload, len(d.Entities))
	for i, e := range d.Entities {
		values[i] = EntityRowPayload{
			Entity:             e.Entity,
			InvoiceAmount:      e.InvoiceAmount,
			PaidAmount:         e.PaidAmount,
			PaidPercent:        e.PaidPercent,
			Receivables:        e.Receivables,
			ReceivablesPercent: e.ReceivablesPercent,
		}
	}

	scope := username
	if entity.IsAdmin(username) {
		scope = "all"
	}

	return DashboardResponse{
		Scope: scope,
		Cards: d.Cards(),
		EntityTable: EntityTableResponse{
			Header: table.Header,
			Rows:   table.Rows,
			Values: values,
		},
		Chart: d.Chart(),
		Filters: FilterSelectionOutput{
			Years:    nonNil(filters.Years),
			Quarters: nonNil(filters.Quarters),
			Months:   nonNil(filters.Months),
		},
	}
}

// NewUserResponse converts an account for the wire
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		IsAdmin:   u.IsAdmin(),
		CreatedAt: u.CreatedAt,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
