package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/oms/backend/internal/domain/order"
	"github.com/oms/backend/internal/domain/sync"
)

// ImportService is the slice of the import application service the
// sync endpoints need
type ImportService interface {
	RunImport(ctx context.Context, trigger sync.Trigger) (*sync.ImportSummary, error)
	TestPlatformConnection(ctx context.Context, platform order.Source) error
	RecentImportLogs(ctx context.Context, limit int) ([]sync.ImportLogEntry, error)
}

// SyncHandler handles platform synchronization endpoints
type SyncHandler struct {
	BaseHandler
	service ImportService
	logger  *zap.Logger
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(service ImportService, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers sync routes on the given group
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	syncGroup := rg.Group("/sync")
	{
		syncGroup.POST("/imports", h.TriggerImport)
		syncGroup.GET("/imports", h.ListImportLogs)
		syncGroup.GET("/platforms/:platform/connection", h.TestConnection)
	}
}

// ImportLogResponse is one import log entry in API form
type ImportLogResponse struct {
	ID             string    `json:"id"`
	Trigger        string    `json:"trigger"`
	Platform       string    `json:"platform"`
	OrdersImported int       `json:"orders_imported"`
	OrdersSkipped  int       `json:"orders_skipped"`
	Status         string    `json:"status"`
	Message        string    `json:"message,omitempty"`
	RanAt          time.Time `json:"ran_at"`
}

// TriggerImport starts a manual import run across all platforms and
// returns the full summary. The run is synchronous; large stores take
// a while, which is acceptable for an operator-triggered action.
func (h *SyncHandler) TriggerImport(c *gin.Context) {
	summary, err := h.service.RunImport(c.Request.Context(), sync.TriggerManual)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// ListImportLogs returns the most recent import log entries, newest first
func (h *SyncHandler) ListImportLogs(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 200 {
			h.BadRequest(c, "limit must be an integer between 1 and 200")
			return
		}
		limit = parsed
	}

	entries, err := h.service.RecentImportLogs(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]ImportLogResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ImportLogResponse{
			ID:             e.ID.String(),
			Trigger:        e.Trigger.String(),
			Platform:       e.Platform,
			OrdersImported: e.OrdersImported,
			OrdersSkipped:  e.OrdersSkipped,
			Status:         string(e.Status),
			Message:        e.Message,
			RanAt:          e.RanAt,
		})
	}
	h.Success(c, out)
}

// TestConnection verifies one platform's credentials
func (h *SyncHandler) TestConnection(c *gin.Context) {
	platform := order.Source(c.Param("platform"))
	if !platform.IsExternal() {
		h.BadRequest(c, "unknown platform: "+c.Param("platform"))
		return
	}

	if err := h.service.TestPlatformConnection(c.Request.Context(), platform); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"platform": platform.String(), "reachable": true})
}
