package api

import (
	"bytes"
	"net/http"
	"strconv"
	"sync"
	"time"

	"gapminder/internal/chart"
	"gapminder/internal/engine"
	"gapminder/internal/errors"
	"gapminder/internal/models"

	"github.com/labstack/echo/v4"
)

// Handler serves the unified table. It starts without data; every data
// endpoint answers 503 until SetData or SetError is called.
type Handler struct {
	mu       sync.RWMutex
	data     *engine.Dataset
	loadErr  error
	defaults []string
}

func NewHandler(data *engine.Dataset, defaults []string) *Handler {
	return &Handler{data: data, defaults: defaults}
}

// SetData publishes a loaded dataset and clears any earlier load error.
func (h *Handler) SetData(data *engine.Dataset) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.data = data
	h.loadErr = nil
}

// SetError records a failed load.
func (h *Handler) SetError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loadErr = err
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/status", h.GetStatus)
	api.GET("/countries", h.GetCountries)
	api.GET("/records", h.GetRecords)
	api.GET("/chart", h.GetChart)
	api.GET("/summary", h.GetSummary)
	api.GET("/export", h.GetExport)
}

func (h *Handler) dataset() (*engine.Dataset, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.data != nil {
		return h.data, nil
	}
	if h.loadErr != nil {
		return nil, h.loadErr
	}
	return nil, errors.NotReady("data is still loading")
}

// --- HANDLERS ---
func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func respondError(c echo.Context, err error) error {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.CodeNotReady:
		status = http.StatusServiceUnavailable
	case errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeNotFound:
		status = http.StatusNotFound
	}
	return c.JSON(status, map[string]string{"code": code, "error": err.Error()})
}

func (h *Handler) GetStatus(c echo.Context) error {
	ds, err := h.dataset()
	if err != nil {
		return c.JSON(http.StatusOK, models.LoadStatus{Error: err.Error(), Code: errors.GetCode(err)})
	}
	return c.JSON(http.StatusOK, models.LoadStatus{
		Ready:       true,
		Records:     len(ds.Records),
		Countries:   len(ds.Store.CountryDict),
		LoadedAt:    ds.LoadedAt.Format(time.RFC3339),
		DurationMS:  ds.Duration.Milliseconds(),
		Diagnostics: ds.Diagnostics,
	})
}

func (h *Handler) GetCountries(c echo.Context) error {
	ds, err := h.dataset()
	if err != nil {
		return respondError(c, err)
	}
	countries := ds.Countries()
	return c.JSON(http.StatusOK, models.CountryList{
		Countries: countries,
		Default:   chart.DefaultSelection(countries, h.defaults),
	})
}

// GetRecords returns unified rows, optionally restricted to ?country= and to
// complete rows with ?complete=true
func (h *Handler) GetRecords(c echo.Context) error {
	ds, err := h.dataset()
	if err != nil {
		return respondError(c, err)
	}

	records := ds.Records
	countries := c.QueryParams()["country"]
	complete, _ := strconv.ParseBool(c.QueryParam("complete"))
	if len(countries) > 0 {
		records = ds.Store.Select(countries, complete)
	} else if complete {
		records = chart.Filter(records, ds.Countries())
	}

	total := len(records)
	limit, offset := getPaginationParams(c, total)
	if offset >= total {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"data":   []engine.UnifiedRecord{},
			"total":  total,
			"limit":  limit,
			"offset": offset,
		})
	}

	end := offset + limit
	if end > total {
		end = total
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":   records[offset:end],
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// GetChart builds the bubble chart for ?country=..., falling back to the
// default selection
func (h *Handler) GetChart(c echo.Context) error {
	ds, err := h.dataset()
	if err != nil {
		return respondError(c, err)
	}

	selected := c.QueryParams()["country"]
	if len(selected) == 0 {
		selected = chart.DefaultSelection(ds.Countries(), h.defaults)
	}

	data, err := chart.Build(ds.Store.Select(selected, true), selected)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, data)
}

func (h *Handler) GetSummary(c echo.Context) error {
	ds, err := h.dataset()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ds.Store.Summarize())
}

// GetExport streams the unified table as arrow (default), xlsx or csv
func (h *Handler) GetExport(c echo.Context) error {
	ds, err := h.dataset()
	if err != nil {
		return respondError(c, err)
	}

	var (
		buf         bytes.Buffer
		contentType string
		filename    string
	)
	switch format := c.QueryParam("format"); format {
	case "", "arrow":
		err = ds.Store.WriteArrow(&buf)
		contentType, filename = "application/vnd.apache.arrow.stream", "gapminder.arrows"
	case "xlsx":
		err = ds.Store.WriteXLSX(&buf)
		contentType, filename = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "gapminder.xlsx"
	case "csv":
		err = ds.Store.WriteCSV(&buf)
		contentType, filename = "text/csv", "gapminder.csv"
	default:
		return respondError(c, errors.InvalidInput("unsupported export format "+strconv.Quote(format)))
	}
	if err != nil {
		return respondError(c, errors.Wrap(err, "export failed"))
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}
