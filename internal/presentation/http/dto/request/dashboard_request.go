package request

import (
	"strings"

	"github.com/sangkips/invoice-dashboard/internal/application/service"
)

// DashboardFilterRequest holds the dropdown selections sent as query
// parameters. Each key may be repeated or carry a comma separated list:
// ?year=2023&year=2024 and ?year=2023,2024 are equivalent.
type DashboardFilterRequest struct {
	Years    []string `form:"year"`
	Quarters []string `form:"quarter"`
	Months   []string `form:"month"`
}

// Filters converts the request to service filters
func (r *DashboardFilterRequest) Filters() service.Filters {
	return service.Filters{
		Years:    splitValues(r.Years),
		Quarters: splitValues(r.Quarters),
		Months:   splitValues(r.Months),
	}
}

func splitValues(raw []string) []string {
	var values []string
	for _, item := range raw {
		for _, v := range strings.Split(item, ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
	}
	return values
}
