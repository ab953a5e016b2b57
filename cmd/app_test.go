package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerniceZTT/sales_end/config"
	"github.com/BerniceZTT/sales_end/service"
	"github.com/BerniceZTT/sales_end/utils"
)

const appCSV = "date,customer_name,AMOUNT,sales_agent,closing_agent,TEAM,DURATION,TYPE PROGRAM,INVOICE,ANY COMMENT ?\n" +
	"2025-01-10,Acme,1200,Ahmed Atef,Sara,Alpha,1 year,IBO PLAYER,paypal,new\n" +
	"2025-01-20,Globex,300,Bob,Sara,Beta,6 months,SMARTERS,,renewal\n" +
	"2025-02-02,Initech,79,Ahmed Atef,Lina,Alpha,TWO YEAR,IBO PLAYER,,\n"

const appSeed = `users:
  - id: admin
    username: admin
    name: Admin
    password: %s
    role: manager
  - id: Ahmed Atef
    username: ahmed
    name: Ahmed Atef
    password: %s
    role: salesman
  - id: Sara
    username: sara
    name: Sara
    password: %s
    role: customer-service
targets:
  - id: t-ahmed
    agentName: Ahmed Atef
    monthlyTarget: 1000
    dealsTarget: 5
    period: January 2025
`

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "deals.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(appCSV), 0o644))

	seedPath := filepath.Join(dir, "seed.yaml")
	seed := fmt.Sprintf(appSeed, utils.HashPassword("admin123"), utils.HashPassword("ahmed123"), utils.SimpleHash("sara123", ""))
	require.NoError(t, os.WriteFile(seedPath, []byte(seed), 0o644))

	cfg := &config.Config{
		JWTKey:      "integration-secret",
		DatasetURI:  csvPath,
		SeedFile:    seedPath,
		CORSOrigins: []string{"*"},
		MongoDB:     "sales",
	}
	ctx := context.Background()
	app, err := NewApp(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close(context.Background()) })

	_, err = app.Loader.Load(ctx)
	require.NoError(t, err)
	return app
}

func call(t *testing.T, app *App, method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return resp
}

func login(t *testing.T, app *App, username, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
	w := call(t, app, http.MethodPost, "/api/auth/login", "", strings.NewReader(body), "application/json")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Token string `json:"token"`
	}
	decode(t, w, &data)
	require.NotEmpty(t, data.Token)
	return data.Token
}

func upload(t *testing.T, app *App, token, name, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return call(t, app, http.MethodPost, "/api/dataset/upload", token, &buf, mw.FormDataContentType())
}

func TestApp_HealthAndLogin(t *testing.T) {
	app := newTestApp(t)

	w := call(t, app, http.MethodGet, "/api/health", "", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","deals":3}`, w.Body.String())

	w = call(t, app, http.MethodPost, "/api/auth/login", "", strings.NewReader(`{"username":"admin","password":"nope"}`), "application/json")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := login(t, app, "sara", "sara123")
	w = call(t, app, http.MethodGet, "/api/auth/validate", token, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"customer-service"`)

	w = call(t, app, http.MethodGet, "/api/deals", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestApp_DealsScopedByRole(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		username, password string
		want               []string
	}{
		{"admin", "admin123", []string{"Acme", "Globex", "Initech"}},
		{"ahmed", "ahmed123", []string{"Acme", "Initech"}},
		{"sara", "sara123", []string{"Acme", "Globex"}},
	}
	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			token := login(t, app, tt.username, tt.password)
			w := call(t, app, http.MethodGet, "/api/deals?sortBy=customerName", token, nil, "")
			require.Equal(t, http.StatusOK, w.Code)

			var resp struct {
				Data []struct {
					CustomerName string `json:"customerName"`
				} `json:"data"`
				Pagination struct {
					Total int `json:"total"`
				} `json:"pagination"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

			names := make([]string, 0)
			for _, d := range resp.Data {
				names = append(names, d.CustomerName)
			}
			assert.Equal(t, tt.want, names)
			assert.Equal(t, len(tt.want), resp.Pagination.Total)
		})
	}
}

func TestApp_DealFiltersAndOptions(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app, "admin", "admin123")

	w := call(t, app, http.MethodGet, "/api/deals?team=Alpha&sortBy=amount&order=desc&limit=1", token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"customerName":"Acme"`)
	assert.Contains(t, w.Body.String(), `"pages":2`)

	var options []string
	w = call(t, app, http.MethodGet, "/api/deals/options/team", token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &options)
	assert.Equal(t, []string{"Alpha", "Beta"}, options)

	w = call(t, app, http.MethodGet, "/api/deals/options/password", token, nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(t, app, http.MethodGet, "/api/deals?page=9223372036854775807", token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)

	w = call(t, app, http.MethodGet, "/api/deals?limit=9223372036854775807", token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"limit":1000`)
}

func TestApp_Metrics(t *testing.T) {
	app := newTestApp(t)

	var metrics struct {
		TotalRevenue float64 `json:"totalRevenue"`
		TotalDeals   int     `json:"totalDeals"`
		MonthlyTrend []struct {
			Month string `json:"month"`
		} `json:"monthlyTrend"`
	}

	w := call(t, app, http.MethodGet, "/api/dashboard/metrics", login(t, app, "admin", "admin123"), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &metrics)
	assert.Equal(t, 1579.0, metrics.TotalRevenue)
	assert.Equal(t, 3, metrics.TotalDeals)
	require.Len(t, metrics.MonthlyTrend, 2)
	assert.Equal(t, "January 2025", metrics.MonthlyTrend[0].Month)

	w = call(t, app, http.MethodGet, "/api/dashboard/metrics", login(t, app, "ahmed", "ahmed123"), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &metrics)
	assert.Equal(t, 1279.0, metrics.TotalRevenue)
	assert.Equal(t, 2, metrics.TotalDeals)
}

func TestApp_RoleRestrictions(t *testing.T) {
	app := newTestApp(t)
	sara := login(t, app, "sara", "sara123")
	ahmed := login(t, app, "ahmed", "ahmed123")

	w := call(t, app, http.MethodPost, "/api/deals", sara, strings.NewReader(`{"customerName":"X","amount":1,"salesAgent":"Sara"}`), "application/json")
	assert.Equal(t, http.StatusForbidden, w.Code)

	for _, path := range []string{"/api/deals/export", "/api/users"} {
		w = call(t, app, http.MethodGet, path, ahmed, nil, "")
		assert.Equal(t, http.StatusForbidden, w.Code, path)
	}

	w = call(t, app, http.MethodPost, "/api/dataset/reload", ahmed, nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestApp_UploadMalformedKeepsData(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app, "admin", "admin123")

	w := upload(t, app, token, "broken.csv", "customer_name,AMOUNT\n\"Acme,79\n")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	resp := decode(t, w, nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "PARSE_FAILURE", resp.Code)

	assert.Len(t, app.Store.Get(), 3)

	w = upload(t, app, token, "new.csv", "customer_name,AMOUNT,sales_agent\nHooli,500,Bob\n")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, app.Store.Get(), 1)
	assert.Equal(t, "upload://new.csv", app.Store.Status().Source)
}

func TestApp_ExportRoundTrip(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app, "admin", "admin123")

	w := call(t, app, http.MethodGet, "/api/deals/export", token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "deals-")

	deals, err := service.IngestCSV(w.Body, time.Now())
	require.NoError(t, err)
	assert.Equal(t, app.Store.Get(), deals)
}

func TestApp_CreateDealTargetsAndNotifications(t *testing.T) {
	app := newTestApp(t)
	admin := login(t, app, "admin", "admin123")
	ahmed := login(t, app, "ahmed", "ahmed123")

	var targets []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	w := call(t, app, http.MethodGet, "/api/targets", ahmed, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &targets)
	require.Len(t, targets, 1)
	assert.Equal(t, "exceeded", targets[0].Status)

	w = call(t, app, http.MethodGet, "/api/targets", login(t, app, "sara", "sara123"), nil, "")
	decode(t, w, &targets)
	assert.Empty(t, targets)

	w = call(t, app, http.MethodPost, "/api/deals", ahmed, strings.NewReader(`{"customerName":"Hooli","amount":240,"salesAgent":"Ahmed Atef"}`), "application/json")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(t, app, http.MethodPost, "/api/deals", ahmed, strings.NewReader(`{"customerName":"Hooli"}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_DEAL")

	w = call(t, app, http.MethodGet, "/api/deals", ahmed, nil, "")
	assert.Contains(t, w.Body.String(), `"total":3`)

	var inbox struct {
		Notifications []struct {
			Title string `json:"title"`
		} `json:"notifications"`
		UnreadCount int `json:"unreadCount"`
	}
	w = call(t, app, http.MethodGet, "/api/notifications", admin, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &inbox)
	require.NotEmpty(t, inbox.Notifications)
	assert.Equal(t, "新增成交", inbox.Notifications[0].Title)
	assert.Equal(t, len(inbox.Notifications), inbox.UnreadCount)

	w = call(t, app, http.MethodPost, "/api/notifications/missing/read", admin, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = call(t, app, http.MethodPost, "/api/notifications/read-all", admin, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	w = call(t, app, http.MethodGet, "/api/notifications", admin, nil, "")
	decode(t, w, &inbox)
	assert.Equal(t, 0, inbox.UnreadCount)

	w = call(t, app, http.MethodPost, "/api/targets", admin, strings.NewReader(`{"agentName":"Bob","monthlyTarget":200,"dealsTarget":1,"period":"January 2025"}`), "application/json")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(t, app, http.MethodPut, "/api/targets/unknown", admin, strings.NewReader(`{"agentName":"Bob","period":"January 2025"}`), "application/json")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApp_Users(t *testing.T) {
	app := newTestApp(t)

	var users []struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	w := call(t, app, http.MethodGet, "/api/users?role=salesman", login(t, app, "admin", "admin123"), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &users)
	require.Len(t, users, 1)
	assert.Equal(t, "ahmed", users[0].Username)
	assert.Empty(t, users[0].Password)
}
