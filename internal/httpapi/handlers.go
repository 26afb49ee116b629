package httpapi

import (
	"bytes"
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"call-tracker/internal/export"
	"call-tracker/internal/records"
	"call-tracker/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Records is the record store API the handlers depend on.
type Records interface {
	List(ctx context.Context, f records.Filter) ([]records.CallRecord, error)
	Create(ctx context.Context, in records.NewRecord) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	Stats(ctx context.Context, f records.Filter) (records.Stats, error)
	Clients(ctx context.Context) ([]string, error)
	Developers(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}

// Limiter caps concurrent executions of an expensive route.
type Limiter interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse input, call the record service, return JSON or CSV.
type Handlers struct {
	Records Records
	// Exports guards the CSV export; nil means uncapped.
	Exports Limiter
}

type createResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

type deleteResponse struct {
	Message string `json:"message"`
	Changes int64  `json:"changes"`
}

type errorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

func (h Handlers) ListRecords(c *gin.Context) {
	rows, err := h.Records.List(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h Handlers) CreateRecord(c *gin.Context) {
	var req records.NewRecord
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}
	id, err := h.Records.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, createResponse{ID: id, Message: "Record added successfully"})
}

// DeleteRecord removes one record by id. An id that does not name an integer cannot match a row,
// so it reports zero changes like any other unknown id.
func (h Handlers) DeleteRecord(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusOK, deleteResponse{Message: "Record deleted successfully", Changes: 0})
		return
	}
	n, err := h.Records.Delete(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, deleteResponse{Message: "Record deleted successfully", Changes: n})
}

func (h Handlers) Stats(c *gin.Context) {
	st, err := h.Records.Stats(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h Handlers) Clients(c *gin.Context) {
	out, err := h.Records.Clients(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) Developers(c *gin.Context) {
	out, err := h.Records.Developers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) ExportCSV(c *gin.Context) {
	ctx := c.Request.Context()
	if h.Exports != nil {
		ok, err := h.Exports.Acquire(ctx)
		if err != nil {
			h.fail(c, err)
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{Error: "too many exports in progress"})
			return
		}
		defer func() {
			// Release on a fresh context so a canceled request still frees its slot.
			if err := h.Exports.Release(context.WithoutCancel(ctx)); err != nil {
				logger.FromGin(c).Warn("export slot release failed", "err", err)
			}
		}()
	}

	rows, err := h.Records.List(ctx, records.Filter{})
	if err != nil {
		h.fail(c, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, rows); err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+export.FileName)
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

func (h Handlers) Health(c *gin.Context) {
	if err := h.Records.Ping(c.Request.Context()); err != nil {
		logger.FromGin(c).Error("health check failed", "err", err)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fail maps service errors to responses: validation → 400, anything else → 500 with the underlying message.
func (h Handlers) fail(c *gin.Context, err error) {
	var verr *records.ValidationError
	if errors.As(err, &verr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: verr.Error(), Fields: verr.Fields})
		return
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

// parseID accepts any numeric text with an integral value ("7", "7.0", "7e0"),
// matching how the integer id column compares against text.
func parseID(v string) (int64, bool) {
	if id, err := strconv.ParseInt(v, 10, 64); err == nil {
		return id, true
	}
	if strings.ContainsAny(v, "xX") {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func filterFromQuery(c *gin.Context) records.Filter {
	return records.Filter{
		Client:    c.Query("client"),
		Developer: c.Query("developer"),
		Month:     c.Query("month"),
	}
}
