package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/overtime-backend-go/internal/config"
	"github.com/cmlabs-hris/overtime-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/overtime-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/overtime-backend-go/internal/repository/blob"
	overtimeService "github.com/cmlabs-hris/overtime-backend-go/internal/service/overtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerScanLog = "1 2024-01-06 08:10:22 Alice IN\n2 2024-01-06 15:00:05 Alice OUT\n3 2024-01-09 07:55 Budi\n"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		TotalItems int64 `json:"total_items"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	hub := sse.NewHub(10)
	svc := overtimeService.NewOvertimeService(blob.NewRecordRepository(files), hub)
	router := NewRouter(config.AppConfig{
		Name:        "overtime-test",
		Env:         "test",
		LogLevel:    "error",
		CORSOrigins: []string{"http://localhost:3000"},
	}, NewOvertimeHandler(svc, hub))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any, headers ...string) (*http.Response, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	if resp.Header.Get("Content-Type") == "application/json" {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp, env
}

func importSample(t *testing.T, base string) {
	t.Helper()
	resp, env := doJSON(t, http.MethodPost, base+"/api/v1/overtime/imports/text", map[string]string{"text": handlerScanLog})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, env.Success)
}

func TestOvertimeHandler_ImportAndRecap(t *testing.T) {
	srv := newTestServer(t)

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/v1/overtime/imports/text", map[string]string{"text": handlerScanLog})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var imported struct {
		BatchID      string `json:"batch_id"`
		Accepted     int    `json:"accepted"`
		TotalRecords int    `json:"total_records"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &imported))
	assert.NotEmpty(t, imported.BatchID)
	assert.Equal(t, 3, imported.Accepted)
	assert.Equal(t, 2, imported.TotalRecords)

	resp, env = doJSON(t, http.MethodGet, srv.URL+"/api/v1/overtime/months", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var months []string
	require.NoError(t, json.Unmarshal(env.Data, &months))
	assert.Equal(t, []string{"2024-01"}, months)

	resp, env = doJSON(t, http.MethodGet, srv.URL+"/api/v1/overtime/months/2024-01/employees", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var employees []struct {
		Name                 string `json:"name"`
		TotalOvertimeMinutes int    `json:"total_overtime_minutes"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &employees))
	require.Len(t, employees, 2)
	assert.Equal(t, "Alice", employees[0].Name)
	assert.Equal(t, 50, employees[0].TotalOvertimeMinutes)

	resp, env = doJSON(t, http.MethodGet, srv.URL+"/api/v1/overtime/months/2024-01/employees/budi", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var recap struct {
		Name string            `json:"name"`
		Rows []json.RawMessage `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &recap))
	assert.Equal(t, "Budi", recap.Name)
	assert.Len(t, recap.Rows, 27)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/v1/overtime/months/2024-1/employees", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOvertimeHandler_ImportObservations_NameWithSpaces(t *testing.T) {
	srv := newTestServer(t)

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/v1/overtime/imports/observations", map[string]any{
		"observations": []map[string]string{
			{"name": "Budi Santoso", "date": "2024-01-09", "time": "07:55"},
			{"name": "Budi Santoso", "date": "2024-01-09", "time": "17:30"},
			{"name": "Budi Santoso", "date": "2024-01-09", "time": "25:00"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var imported struct {
		Accepted int               `json:"accepted"`
		Rejected []json.RawMessage `json:"rejected"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &imported))
	assert.Equal(t, 2, imported.Accepted)
	assert.Len(t, imported.Rejected, 1)

	resp, env = doJSON(t, http.MethodGet, srv.URL+"/api/v1/overtime/months/2024-01/employees/Budi%20Santoso", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var recap struct {
		Name    string `json:"name"`
		Summary struct {
			TotalOvertimeMinutes int `json:"total_overtime_minutes"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &recap))
	assert.Equal(t, "Budi Santoso", recap.Name)
	assert.Equal(t, 30, recap.Summary.TotalOvertimeMinutes)
}

func TestOvertimeHandler_ImportMultipart(t *testing.T) {
	srv := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "scan.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte(handlerScanLog))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/api/v1/overtime/imports/text", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestOvertimeHandler_ImportErrors(t *testing.T) {
	srv := newTestServer(t)

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/v1/overtime/imports/text", map[string]string{"text": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	resp, env = doJSON(t, http.MethodPost, srv.URL+"/api/v1/overtime/imports/text", map[string]string{"text": "nothing useful"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestOvertimeHandler_Records(t *testing.T) {
	srv := newTestServer(t)
	importSample(t, srv.URL)

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/v1/overtime/records", map[string]string{
		"name": "alice", "date": "2024-01-06", "clock_in": "08:00", "clock_out": "16:00",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var saved struct {
		Result struct {
			NetOvertimeMinutes int `json:"net_overtime_minutes"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &saved))
	assert.Equal(t, 120, saved.Result.NetOvertimeMinutes)

	resp, env = doJSON(t, http.MethodPost, srv.URL+"/api/v1/overtime/records", map[string]string{
		"name": "alice", "date": "2024-01-06", "clock_in": "18:00", "clock_out": "16:00",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, env.Error.Details, "clock_out")

	resp, env = doJSON(t, http.MethodGet, srv.URL+"/api/v1/overtime/records?month=2024-01&limit=1&page=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(2), env.Meta.TotalItems)
	assert.Equal(t, 2, env.Meta.TotalPages)
	var page []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page, 1)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/v1/overtime/records?page=0", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOvertimeHandler_ClearRequiresConfirmation(t *testing.T) {
	srv := newTestServer(t)
	importSample(t, srv.URL)

	resp, _ := doJSON(t, http.MethodDelete, srv.URL+"/api/v1/overtime/records", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/overtime/records", nil, "X-Confirm-Reset", "true")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, env := doJSON(t, http.MethodGet, srv.URL+"/api/v1/overtime/months", nil)
	var months []string
	require.NoError(t, json.Unmarshal(env.Data, &months))
	assert.Empty(t, months)
}

func TestOvertimeHandler_Calculate(t *testing.T) {
	srv := newTestServer(t)

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/v1/overtime/calculate", map[string]string{
		"date": "2024-01-06", "clock_in": "08:10", "clock_out": "15:00",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result struct {
		Status string `json:"status"`
		Net    int    `json:"net_overtime_minutes"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "has_overtime", result.Status)
	assert.Equal(t, 50, result.Net)

	resp, env = doJSON(t, http.MethodPost, srv.URL+"/api/v1/overtime/calculate", map[string]string{
		"date": "2024/01/06", "clock_in": "08:10",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, env.Error.Details, "date")
}

func TestOvertimeHandler_Export(t *testing.T) {
	srv := newTestServer(t)
	importSample(t, srv.URL)

	resp, err := http.Get(srv.URL + "/api/v1/overtime/months/2024-01/employees/Alice/export?format=xlsx")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "Overtime-Recap-Alice-2024-01.xlsx")

	missing, _ := doJSON(t, http.MethodGet, srv.URL+"/api/v1/overtime/months/2024-01/employees/Nobody/export", nil)
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)

	bad, _ := doJSON(t, http.MethodGet, srv.URL+"/api/v1/overtime/months/2024-01/employees/Alice/export?format=docx", nil)
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestOvertimeHandler_StreamReceivesImportEvent(t *testing.T) {
	srv := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/overtime/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: connected\n", line)

	importSample(t, srv.URL)

	var eventLine string
	for !strings.HasPrefix(eventLine, "event: records.") {
		eventLine, err = reader.ReadString('\n')
		require.NoError(t, err)
	}
	assert.Equal(t, "event: records.imported\n", eventLine)
}
