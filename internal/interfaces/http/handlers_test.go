package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcerge/carexpenses-api-sub002/internal/domain/entity"
)

const testSecret = "test-secret"

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

type mockReportService struct {
	period      *entity.PeriodReport
	yearly      *entity.YearlyReport
	travel      *entity.TravelReport
	err         error
	lastAccount string
	lastFilter  entity.ReportFilter
}

func (m *mockReportService) BuildPeriodReport(_ context.Context, accountID string, filter entity.ReportFilter) (*entity.PeriodReport, error) {
	m.lastAccount = accountID
	m.lastFilter = filter
	return m.period, m.err
}

func (m *mockReportService) BuildYearlyReport(_ context.Context, accountID string, _ int, filter entity.ReportFilter) (*entity.YearlyReport, error) {
	m.lastAccount = accountID
	m.lastFilter = filter
	return m.yearly, m.err
}

func (m *mockReportService) BuildTravelReport(_ context.Context, accountID string, filter entity.ReportFilter) (*entity.TravelReport, error) {
	m.lastAccount = accountID
	m.lastFilter = filter
	return m.travel, m.err
}

type mockExportService struct {
	data     []byte
	filename string
	err      error
}

func (m *mockExportService) ExportTravelReport(_ context.Context, _ *entity.TravelReport, _ string) ([]byte, string, error) {
	return m.data, m.filename, m.err
}

func newTestServer(reports *mockReportService, exports *mockExportService) *Server {
	cfg := DefaultServerConfig()
	cfg.JWTSecret = testSecret
	return NewServer(cfg, reports, exports, &mockLogger{})
}

func signedToken(t *testing.T, accountID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"account_id": accountID,
		"exp":        time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestHealthCheck(t *testing.T) {
	server := newTestServer(&mockReportService{}, &mockExportService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestReportsRequireAuth(t *testing.T) {
	server := newTestServer(&mockReportService{}, &mockExportService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/period?dateFrom=2024-01-01&dateTo=2024-02-01", nil)
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReportsRejectBadToken(t *testing.T) {
	server := newTestServer(&mockReportService{}, &mockExportService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/period?dateFrom=2024-01-01&dateTo=2024-02-01", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetPeriodReport(t *testing.T) {
	reports := &mockReportService{period: &entity.PeriodReport{Currency: "CAD", TotalCost: 42}}
	server := newTestServer(reports, &mockExportService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/reports/period?dateFrom=2024-01-01&dateTo=2024-02-01&vehicleIds=veh-1,veh-2", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "acct-1"))
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "acct-1", reports.lastAccount)
	assert.Equal(t, []string{"veh-1", "veh-2"}, reports.lastFilter.VehicleIDs)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), reports.lastFilter.DateFrom)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestGetPeriodReportInvalidDates(t *testing.T) {
	server := newTestServer(&mockReportService{}, &mockExportService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/reports/period?dateFrom=2024-02-01&dateTo=2024-01-01", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "acct-1"))
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetYearlyReportRequiresYear(t *testing.T) {
	server := newTestServer(&mockReportService{yearly: &entity.YearlyReport{Year: 2024}}, &mockExportService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/yearly", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "acct-1"))
	server.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/reports/yearly?year=2024", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "acct-1"))
	server.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExportTravelReport(t *testing.T) {
	reports := &mockReportService{travel: &entity.TravelReport{Currency: "CAD"}}
	exports := &mockExportService{data: []byte("%PDF-fake"), filename: "travel-report.pdf"}
	server := newTestServer(reports, exports)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/reports/travel/export?dateFrom=2024-01-01&dateTo=2025-01-01&format=pdf", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "acct-1"))
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "travel-report.pdf")
	assert.Equal(t, "%PDF-fake", w.Body.String())
}

func TestExportTravelReportBadFormat(t *testing.T) {
	server := newTestServer(&mockReportService{}, &mockExportService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/reports/travel/export?dateFrom=2024-01-01&dateTo=2025-01-01&format=docx", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "acct-1"))
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
