package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sangkips/invoice-dashboard/internal/application/dataset"
	"github.com/sangkips/invoice-dashboard/internal/application/service"
	"github.com/sangkips/invoice-dashboard/internal/config"
	"github.com/sangkips/invoice-dashboard/internal/domain/entity"
	"github.com/sangkips/invoice-dashboard/internal/infrastructure/database"
	"github.com/sangkips/invoice-dashboard/internal/infrastructure/repository"
	"github.com/sangkips/invoice-dashboard/internal/presentation/http/handler"
	"github.com/sangkips/invoice-dashboard/pkg/utils"
)

const adminPassword = "admin-pass"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	cfg := &config.Config{
		App:       config.AppConfig{Name: "invoice-dashboard-test"},
		Database:  config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:", LogLevel: "silent"},
		Invoices:  config.InvoiceConfig{Table: "invoices", Migrate: true},
		Admin:     config.AdminConfig{Password: adminPassword},
		RateLimit: config.RateLimitConfig{Requests: 1000, Duration: 1},
	}

	db, err := database.NewDB(&cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	require.NoError(t, database.AutoMigrate(db, cfg.Invoices))
	require.NoError(t, database.SeedDefaultData(ctx, db, cfg.Admin))

	invoice := func(name, location string, y int, m time.Month, amount, receivable int64) entity.Invoice {
		when := time.Date(y, m, 10, 0, 0, 0, 0, time.UTC)
		return entity.Invoice{
			Entity:        name,
			Location:      location,
			InvoiceDate:   &when,
			InvoiceAmount: decimal.NewNullDecimal(decimal.NewFromInt(amount)),
			Quantity:      decimal.NewNullDecimal(decimal.NewFromInt(receivable)),
		}
	}
	rows := []entity.Invoice{
		invoice("Entity A", "X", 2024, time.February, 1000, 200),
		invoice("Entity B", "Y", 2024, time.May, 500, 500),
		invoice("Entity A", "X", 2023, time.November, 3000, 0),
	}
	require.NoError(t, db.Table(cfg.Invoices.Table).Create(&rows).Error)

	ds, err := dataset.Load(ctx, repository.NewInvoiceRepository(db, cfg.Invoices.Table))
	require.NoError(t, err)

	jwtManager := utils.NewJWTManager("test-secret", time.Hour)
	userRepo := repository.NewUserRepository(db)
	dashboardService := service.NewDashboardService(ds)

	rateLimiter := NewRateLimiter(cfg.RateLimit)

	handlers := &Handlers{
		Health:    handler.NewHealthHandler(cfg.App.Name, dashboardService, rateLimiter, ds.LoadedAt()),
		Auth:      handler.NewAuthHandler(service.NewAuthService(userRepo, jwtManager)),
		Dashboard: handler.NewDashboardHandler(dashboardService, service.NewExportService(dashboardService)),
		User:      handler.NewUserHandler(service.NewUserService(userRepo)),
	}
	return Setup(handlers, &Deps{JWTManager: jwtManager, RateLimiter: rateLimiter, Cfg: cfg})
}

func do(t *testing.T, r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func login(t *testing.T, r http.Handler, username, password string) string {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, w, &out)
	require.NotEmpty(t, out.AccessToken)
	return out.AccessToken
}

type dashboardBody struct {
	Scope       string         `json:"scope"`
	Cards       []service.Card `json:"cards"`
	EntityTable struct {
		Header []string   `json:"header"`
		Rows   [][]string `json:"rows"`
	} `json:"entity_table"`
	Chart service.Chart `json:"chart"`
}

func TestHealth(t *testing.T) {
	r := newTestServer(t)

	w := do(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(3), body["records"])

	limits, ok := body["rate_limit"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1000), limits["burst_size"])
	assert.Equal(t, float64(0), limits["active_users"])
}

func TestHealthCountsRateLimitedAccounts(t *testing.T) {
	r := newTestServer(t)
	token := login(t, r, entity.AdminUsername, adminPassword)
	require.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/v1/dashboard", token, nil).Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(do(t, r, http.MethodGet, "/health", "", nil).Body.Bytes(), &body))
	limits := body["rate_limit"].(map[string]interface{})
	assert.Equal(t, float64(1), limits["active_users"])
}

func TestErrorEnvelopes(t *testing.T) {
	r := newTestServer(t)

	w := do(t, r, http.MethodGet, "/api/v1/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authorization header is required", decode(t, w, nil).Message)

	w = do(t, r, http.MethodGet, "/api/v1/dashboard", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", decode(t, w, nil).Message)

	w = do(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w, nil)
	assert.False(t, env.Success)
	assert.Equal(t, "Bad request", env.Message)
}

func TestIndexPage(t *testing.T) {
	r := newTestServer(t)

	w := do(t, r, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Invoice Dashboard")
}

func TestLoginFailures(t *testing.T) {
	r := newTestServer(t)

	w := do(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid username or password", decode(t, w, nil).Message)

	w = do(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardRequiresToken(t *testing.T) {
	r := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, do(t, r, http.MethodGet, "/api/v1/dashboard", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, r, http.MethodGet, "/api/v1/dashboard", "bad", nil).Code)
}

func TestAdminDashboard(t *testing.T) {
	r := newTestServer(t)
	token := login(t, r, entity.AdminUsername, adminPassword)

	w := do(t, r, http.MethodGet, "/api/v1/dashboard?year=2024", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body dashboardBody
	decode(t, w, &body)
	assert.Equal(t, "all", body.Scope)
	require.Len(t, body.Cards, 5)
	assert.Equal(t, "$1,500", body.Cards[0].Value)
	assert.Equal(t, "$800", body.Cards[1].Value)
	assert.Equal(t, "53.33%", body.Cards[2].Value)
	assert.Equal(t, "$700", body.Cards[3].Value)
	assert.Equal(t, "46.67%", body.Cards[4].Value)

	assert.Equal(t, service.EntityTableHeader, body.EntityTable.Header)
	assert.Equal(t, [][]string{
		{"Entity A", "1,000", "800", "80.00%", "200", "20.00%"},
		{"Entity B", "500", "0", "0.00%", "500", "100.00%"},
		{"Total", "1,500", "800", "53.33%", "700", "46.67%"},
	}, body.EntityTable.Rows)

	require.Len(t, body.Chart.Traces, 2)
	assert.Equal(t, []int{2024}, body.Chart.Traces[0].X)
}

func TestLocationDashboard(t *testing.T) {
	r := newTestServer(t)

	w := do(t, r, http.MethodPost, "/api/v1/users", login(t, r, entity.AdminUsername, adminPassword),
		gin.H{"username": "X", "password": "x-pass"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	token := login(t, r, "X", "x-pass")
	w = do(t, r, http.MethodGet, "/api/v1/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body dashboardBody
	decode(t, w, &body)
	assert.Equal(t, "X", body.Scope)
	assert.Equal(t, "$4,000", body.Cards[0].Value)
	require.Len(t, body.EntityTable.Rows, 2)
	assert.Equal(t, "Entity A", body.EntityTable.Rows[0][0])
	assert.Equal(t, []int{2023, 2024}, body.Chart.Traces[0].X)

	// comma separated and repeated parameters are equivalent
	w = do(t, r, http.MethodGet, "/api/v1/dashboard?quarter=2023Q4,2024Q2", token, nil)
	decode(t, w, &body)
	assert.Equal(t, "$3,000", body.Cards[0].Value)

	// location accounts cannot manage users
	assert.Equal(t, http.StatusForbidden, do(t, r, http.MethodGet, "/api/v1/users", token, nil).Code)
}

func TestFilterOptions(t *testing.T) {
	r := newTestServer(t)
	token := login(t, r, entity.AdminUsername, adminPassword)

	w := do(t, r, http.MethodGet, "/api/v1/dashboard/filters", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var opts service.FilterOptions
	decode(t, w, &opts)
	assert.Equal(t, []string{"2023", "2024"}, opts.Years)
	assert.Equal(t, []string{"2023Q4", "2024Q1", "2024Q2"}, opts.Quarters)
	assert.Equal(t, []string{"February", "May", "November"}, opts.Months)
}

func TestExport(t *testing.T) {
	r := newTestServer(t)
	token := login(t, r, entity.AdminUsername, adminPassword)

	w := do(t, r, http.MethodGet, "/api/v1/dashboard/export?year=2023", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "entity-breakdown_admin_")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Entities", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Entity A", "3000", "3000", "100", "0", "0"}, rows[1])
}

func TestUserManagement(t *testing.T) {
	r := newTestServer(t)
	token := login(t, r, entity.AdminUsername, adminPassword)

	w := do(t, r, http.MethodPost, "/api/v1/users", token, gin.H{"username": "admin", "password": "whatever"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodPost, "/api/v1/users", token, gin.H{"username": "Y", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/v1/users", token, gin.H{"username": "Y", "password": "y-pass-1"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/users", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []struct {
		Username string `json:"username"`
		IsAdmin  bool   `json:"is_admin"`
	}
	decode(t, w, &users)
	require.Len(t, users, 2)
	assert.Equal(t, "Y", users[0].Username)
	assert.Equal(t, "admin", users[1].Username)
	assert.True(t, users[1].IsAdmin)
}

func TestProfile(t *testing.T) {
	r := newTestServer(t)
	token := login(t, r, entity.AdminUsername, adminPassword)

	w := do(t, r, http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile struct {
		Username string `json:"username"`
	}
	decode(t, w, &profile)
	assert.Equal(t, "admin", profile.Username)
}
