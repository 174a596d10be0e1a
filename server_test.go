package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mmdatafocus/dailycash_backend/config"
	"github.com/mmdatafocus/dailycash_backend/models"
	"github.com/mmdatafocus/dailycash_backend/utils"
	"github.com/mmdatafocus/dailycash_backend/workflow"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.AutoMigrate(db))

	previous := config.GetDB()
	config.SetDB(db)
	t.Cleanup(func() { config.SetDB(previous) })

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	svc := workflow.NewDailyRecordService(models.NewGormStore(db), workflow.WithLocker(nil), workflow.WithLogger(quiet))

	token, err := utils.JwtGenerate(utils.NewSession("ana", "Ana", time.Now(), time.Hour))
	require.NoError(t, err)

	return &testServer{router: newRouter(svc, quiet), db: db, token: token}
}

func (s *testServer) do(t *testing.T, method string, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest), w.Body.String())
}

func dailyForm(ack ...string) map[string]interface{} {
	return map[string]interface{}{
		"date":                  "2024-03-04",
		"gross_sales":           "500.00",
		"surcharges":            "35.00",
		"net_sales":             "465.00",
		"cash":                  "300.00",
		"ath":                   "100.00",
		"debit":                 "50.00",
		"credit":                "50.00",
		"fixed_float":           "147.50",
		"deposit":               "100.00",
		"acknowledged_warnings": ack,
	}
}

type warningsResponse struct {
	Error           string `json:"error"`
	PendingWarnings []struct {
		Code string `json:"code"`
	} `json:"pending_warnings"`
}

func (r warningsResponse) codes() []string {
	out := make([]string, 0, len(r.PendingWarnings))
	for _, w := range r.PendingWarnings {
		out = append(out, w.Code)
	}
	return out
}

func createRecord(t *testing.T, s *testServer) int {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/daily-records", dailyForm("CONFIRM_SAVE"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var saved struct {
		ID int `json:"id"`
	}
	decodeBody(t, w, &saved)
	return saved.ID
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	s.token = ""
	w := s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get("x-correlation-id"))
}

func TestReadinessGate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(readinessGate())
	r.GET("/api/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	previous := config.GetDB()
	config.SetDB(nil)
	t.Cleanup(func() { config.SetDB(previous) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestReadinessGateIgnoresRedis(t *testing.T) {
	s := newTestServer(t)
	require.Nil(t, config.GetRedisDB())

	r := gin.New()
	r.Use(readinessGate())
	r.GET("/api/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// the full router answers on the database alone
	w = s.do(t, http.MethodGet, "/api/daily-records", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPrivateRoutesNeedSession(t *testing.T) {
	s := newTestServer(t)
	s.token = ""
	w := s.do(t, http.MethodGet, "/api/daily-records", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	s.token = "not-a-token"
	w = s.do(t, http.MethodGet, "/api/daily-records", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/nothing-here", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoginAndMe(t *testing.T) {
	s := newTestServer(t)
	_, _, err := models.UpsertUser(context.Background(), s.db, "admin", "Admin", "s3cret")
	require.NoError(t, err)

	s.token = ""
	w := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "admin", "password": "s3cret"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var info models.LoginInfo
	decodeBody(t, w, &info)
	require.NotEmpty(t, info.Token)

	s.token = info.Token
	w = s.do(t, http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me map[string]interface{}
	decodeBody(t, w, &me)
	assert.Equal(t, "admin", me["username"])
	assert.Equal(t, "Admin", me["name"])
}

func TestCreateDailyRecordAsksForConfirmation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/daily-records", dailyForm())
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	var pending warningsResponse
	decodeBody(t, w, &pending)
	assert.Equal(t, []string{"CONFIRM_SAVE"}, pending.codes())

	id := createRecord(t, s)

	// a second save on the same date also needs DUPLICATE_DATE
	w = s.do(t, http.MethodPost, "/api/daily-records", dailyForm("CONFIRM_SAVE"))
	require.Equal(t, http.StatusConflict, w.Code)
	decodeBody(t, w, &pending)
	assert.Equal(t, []string{"DUPLICATE_DATE"}, pending.codes())

	w = s.do(t, http.MethodGet, "/api/daily-records/"+strconv.Itoa(id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		Entry struct {
			DayName string `json:"day_name"`
			Derived struct {
				Balance string `json:"balance"`
			} `json:"derived"`
		} `json:"entry"`
		AuditLogs []struct {
			Action   string `json:"action"`
			UserName string `json:"user_name"`
		} `json:"audit_logs"`
		Stale bool `json:"stale"`
	}
	decodeBody(t, w, &view)
	assert.Equal(t, "Lunes", view.Entry.DayName)
	assert.Equal(t, "52.5", view.Entry.Derived.Balance)
	require.Len(t, view.AuditLogs, 1)
	assert.Equal(t, "CREATE", view.AuditLogs[0].Action)
	assert.Equal(t, "Ana", view.AuditLogs[0].UserName)
	assert.False(t, view.Stale)
}

func TestCreateDailyRecordValidation(t *testing.T) {
	s := newTestServer(t)

	form := dailyForm("CONFIRM_SAVE")
	form["gross_sales"] = ""
	w := s.do(t, http.MethodPost, "/api/daily-records", form)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	form = dailyForm("CONFIRM_SAVE")
	form["cash"] = "-5"
	w = s.do(t, http.MethodPost, "/api/daily-records", form)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	decodeBody(t, w, &body)
	assert.Equal(t, "cash", body["field"])

	w = s.do(t, http.MethodGet, "/api/daily-records", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestUpdateDailyRecord(t *testing.T) {
	s := newTestServer(t)
	id := createRecord(t, s)
	path := "/api/daily-records/" + strconv.Itoa(id)

	w := s.do(t, http.MethodPut, path, dailyForm())
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	form := dailyForm()
	form["deposit"] = "90.00"
	w = s.do(t, http.MethodPut, path, form)
	require.Equal(t, http.StatusConflict, w.Code)
	var pending warningsResponse
	decodeBody(t, w, &pending)
	assert.Equal(t, []string{"CONFIRM_UPDATE"}, pending.codes())

	form["acknowledged_warnings"] = []string{"CONFIRM_UPDATE"}
	w = s.do(t, http.MethodPut, path, form)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var saved struct {
		Changes map[string]struct {
			Old string `json:"old"`
			New string `json:"new"`
		} `json:"changes"`
	}
	decodeBody(t, w, &saved)
	require.Contains(t, saved.Changes, "deposit")
	assert.Equal(t, "100.00", saved.Changes["deposit"].Old)
	assert.Equal(t, "90.00", saved.Changes["deposit"].New)

	w = s.do(t, http.MethodPut, "/api/daily-records/999", form)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteDailyRecordRemovesAuditTrail(t *testing.T) {
	s := newTestServer(t)
	id := createRecord(t, s)
	path := "/api/daily-records/" + strconv.Itoa(id)

	w := s.do(t, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	require.NoError(t, s.db.Model(&models.AuditLog{}).Where("daily_record_id = ?", id).Count(&count).Error)
	assert.Zero(t, count)

	w = s.do(t, http.MethodDelete, "/api/daily-records/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPettyCashMakesSnapshotStale(t *testing.T) {
	s := newTestServer(t)
	id := createRecord(t, s)

	w := s.do(t, http.MethodPost, "/api/petty-cash", map[string]interface{}{
		"date": "2024-03-04", "category": "Payroll", "name": "Helper", "amount": "20.00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/petty-cash", map[string]interface{}{
		"date": "2024-03-04", "category": "Payroll", "name": "Refund", "amount": "0",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/petty-cash/sum?date=2024-03-04", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sum map[string]string
	decodeBody(t, w, &sum)
	assert.Equal(t, "20", sum["total"])

	w = s.do(t, http.MethodGet, "/api/petty-cash/sum", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/daily-records/"+strconv.Itoa(id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		PettyCashLive string `json:"petty_cash_live"`
		Stale         bool   `json:"stale"`
	}
	decodeBody(t, w, &view)
	assert.Equal(t, "20", view.PettyCashLive)
	assert.True(t, view.Stale)
}

func TestEmployeePaymentsEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/employees", map[string]string{"name": "Luis"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var employee models.Employee
	decodeBody(t, w, &employee)

	w = s.do(t, http.MethodPost, "/api/employee-payments", map[string]interface{}{
		"employee_id": employee.ID, "date": "2024-03-04", "payment_type": "transferencia", "amount": "80.00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/employee-payments", map[string]interface{}{
		"employee_id": employee.ID, "date": "2024-03-04", "payment_type": "cheque", "amount": "80.00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/employee-payments/totals?from=2024-03-01&to=2024-03-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var totals struct {
		BankTransfer string `json:"bank_transfer"`
		Total        string `json:"total"`
	}
	decodeBody(t, w, &totals)
	assert.Equal(t, "80", totals.BankTransfer)
	assert.Equal(t, "80", totals.Total)

	w = s.do(t, http.MethodGet, "/api/employee-payments?from=not-a-date", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaxesNetReportDownload(t *testing.T) {
	s := newTestServer(t)
	createRecord(t, s)

	w := s.do(t, http.MethodGet, "/api/reports/taxes-net?from=2024-03-01&to=2024-03-31&format=csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "reporte-impuestos-neto_2024-03-01_2024-03-31.csv")
	assert.Contains(t, w.Body.String(), "Fecha")
	assert.Contains(t, w.Body.String(), "TOTAL")

	w = s.do(t, http.MethodGet, "/api/reports/taxes-net?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/reports/caja-fuerte", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report models.CajaFuerteReport
	decodeBody(t, w, &report)
	assert.Len(t, report.Rows, 1)
}
