package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoice-dashboard/internal/application/service"
	"github.com/sangkips/invoice-dashboard/internal/presentation/http/dto/request"
	"github.com/sangkips/invoice-dashboard/internal/presentation/http/dto/response"
	"github.com/sangkips/invoice-dashboard/pkg/apperror"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
	exportService    *service.ExportService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService, exportService *service.ExportService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		exportService:    exportService,
	}
}

// GetDashboard returns cards, entity table and chart for the caller's scope
// @Summary Dashboard
// @Tags dashboard
// @Security BearerAuth
// @Produce json
// @Param year query []string false "Years" collectionFormat(multi)
// @Param quarter query []string false "Quarters, e.g. 2024Q1" collectionFormat(multi)
// @Param month query []string false "Month names" collectionFormat(multi)
// @Success 200 {object} response.APIResponse
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	filters, ok := bindFilters(c)
	if !ok {
		return
	}
	username := GetUsername(c)

	result := h.dashboardService.Compute(filters, username)
	response.OK(c, "Dashboard retrieved successfully", response.NewDashboardResponse(result, filters, username))
}

// GetFilters returns the values offered by the dropdowns
// @Summary Filter options
// @Tags dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /dashboard/filters [get]
func (h *DashboardHandler) GetFilters(c *gin.Context) {
	response.OK(c, "Filter options retrieved successfully", h.dashboardService.FilterOptions())
}

// Export downloads the entity table as an Excel workbook
// @Summary Export entity table
// @Tags dashboard
// @Security BearerAuth
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /dashboard/export [get]
func (h *DashboardHandler) Export(c *gin.Context) {
	filters, ok := bindFilters(c)
	if !ok {
		return
	}

	data, filename, err := h.exportService.ExportEntityTable(filters, GetUsername(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func bindFilters(c *gin.Context) (service.Filters, bool) {
	var req request.DashboardFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, apperror.ErrBadRequest)
		return service.Filters{}, false
	}
	return req.Filters(), true
}
