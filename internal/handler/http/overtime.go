package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cmlabs-hris/overtime-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/overtime-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/overtime-backend-go/internal/pkg/sse"
	"github.com/go-chi/chi/v5"
)

// maxUploadSize bounds scan-log uploads (10MB)
const maxUploadSize = 10 << 20

type OvertimeHandler interface {
	// Monthly views
	ListMonths(w http.ResponseWriter, r *http.Request)
	ListEmployees(w http.ResponseWriter, r *http.Request)
	GetRecap(w http.ResponseWriter, r *http.Request)
	ExportRecap(w http.ResponseWriter, r *http.Request)

	// Records
	ListRecords(w http.ResponseWriter, r *http.Request)
	UpsertRecord(w http.ResponseWriter, r *http.Request)
	ClearRecords(w http.ResponseWriter, r *http.Request)

	// Imports
	ImportText(w http.ResponseWriter, r *http.Request)
	ImportObservations(w http.ResponseWriter, r *http.Request)

	// Calculator
	Calculate(w http.ResponseWriter, r *http.Request)

	// Change events (SSE)
	Stream(w http.ResponseWriter, r *http.Request)
}

type overtimeHandlerImpl struct {
	overtimeService overtime.Service
	hub             *sse.Hub
	keepalive       time.Duration
}

func NewOvertimeHandler(overtimeService overtime.Service, hub *sse.Hub) OvertimeHandler {
	return &overtimeHandlerImpl{
		overtimeService: overtimeService,
		hub:             hub,
		keepalive:       30 * time.Second,
	}
}

// ListMonths handles GET /overtime/months
func (h *overtimeHandlerImpl) ListMonths(w http.ResponseWriter, r *http.Request) {
	months, err := h.overtimeService.ListMonths(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, months)
}

// ListEmployees handles GET /overtime/months/{month}/employees
func (h *overtimeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")

	summaries, err := h.overtimeService.ListEmployees(r.Context(), month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summaries)
}

// GetRecap handles GET /overtime/months/{month}/employees/{name}
func (h *overtimeHandlerImpl) GetRecap(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")
	name, ok := nameParam(w, r)
	if !ok {
		return
	}

	recap, err := h.overtimeService.GetMonthlyRecap(r.Context(), month, name)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, recap)
}

// ExportRecap handles GET /overtime/months/{month}/employees/{name}/export?format=pdf|xlsx
func (h *overtimeHandlerImpl) ExportRecap(w http.ResponseWriter, r *http.Request) {
	name, ok := nameParam(w, r)
	if !ok {
		return
	}

	req := overtime.ExportRequest{
		Month:  chi.URLParam(r, "month"),
		Name:   name,
		Format: overtime.ExportFormat(r.URL.Query().Get("format")),
	}

	file, err := h.overtimeService.ExportRecap(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.Filename, file.ContentType, file.Data)
}

// ListRecords handles GET /overtime/records?month=&name=&page=&limit=
func (h *overtimeHandlerImpl) ListRecords(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := overtime.RecordFilter{
		Month: query.Get("month"),
		Name:  query.Get("name"),
	}

	page, limit := 1, 0
	if v := query.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			response.BadRequest(w, "invalid page parameter", nil)
			return
		}
		page = n
	}
	if v := query.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			response.BadRequest(w, "invalid limit parameter", nil)
			return
		}
		limit = n
	}

	records, err := h.overtimeService.ListRecords(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	total := len(records)
	if limit == 0 {
		response.SuccessWithMeta(w, records, &response.Meta{TotalItems: int64(total)})
		return
	}

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	response.SuccessWithMeta(w, records[start:end], &response.Meta{
		Page:       page,
		Limit:      limit,
		TotalItems: int64(total),
		TotalPages: (total + limit - 1) / limit,
	})
}

// UpsertRecord handles POST /overtime/records
func (h *overtimeHandlerImpl) UpsertRecord(w http.ResponseWriter, r *http.Request) {
	var req overtime.ManualEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.overtimeService.UpsertRecord(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Record saved", result)
}

// ClearRecords handles DELETE /overtime/records
func (h *overtimeHandlerImpl) ClearRecords(w http.ResponseWriter, r *http.Request) {
	if err := h.overtimeService.ClearRecords(r.Context()); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "All records cleared", nil)
}

// ImportText handles POST /overtime/imports/text with either a JSON body
// {"text": "..."} or a multipart form carrying a "file" field.
func (h *overtimeHandlerImpl) ImportText(w http.ResponseWriter, r *http.Request) {
	var req overtime.ImportTextRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			slog.Error("Failed to parse multipart form", "error", err)
			response.BadRequest(w, "Failed to parse form data", nil)
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			if err == http.ErrMissingFile {
				response.BadRequest(w, "Field 'file' is required", nil)
				return
			}
			slog.Error("Failed to get file from form", "error", err)
			response.BadRequest(w, "Invalid file upload", nil)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			slog.Error("Failed to read uploaded file", "error", err)
			response.BadRequest(w, "Invalid file upload", nil)
			return
		}
		req.Text = string(data)
	} else {
		if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadSize)).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request body", nil)
			return
		}
	}

	result, err := h.overtimeService.ImportText(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Scan log imported", result)
}

// ImportObservations handles POST /overtime/imports/observations
func (h *overtimeHandlerImpl) ImportObservations(w http.ResponseWriter, r *http.Request) {
	var req overtime.ImportObservationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.overtimeService.ImportObservations(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Observations imported", result)
}

// Calculate handles POST /overtime/calculate
func (h *overtimeHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	var req overtime.CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.overtimeService.Calculate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Stream handles GET /overtime/events
func (h *overtimeHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe()
	defer cleanup()

	fmt.Fprint(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Error("Failed to encode event", "event", event.Event, "error", err)
				continue
			}
			fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", event.ID, event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func nameParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		response.BadRequest(w, "invalid name parameter", nil)
		return "", false
	}
	return name, true
}
