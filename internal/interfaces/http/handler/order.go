package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oms/backend/internal/domain/order"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/oms/backend/internal/infrastructure/notification"
	"github.com/oms/backend/internal/interfaces/http/dto"
)

// OrderHandler handles order endpoints, in particular the shipped
// transition that kicks off the tracking sync-back
type OrderHandler struct {
	BaseHandler
	orders   order.Repository
	eventBus shared.EventPublisher
	notifier *notification.Gate
	logger   *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders order.Repository, eventBus shared.EventPublisher, notifier *notification.Gate, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		eventBus: eventBus,
		notifier: notifier,
		logger:   logger,
	}
}

// RegisterRoutes registers order routes on the given group
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.GET("/:id", h.GetOrder)
		orders.GET("/:id/notes", h.ListNotes)
		orders.POST("/:id/shipment", h.MarkShipped)
	}
}

// ShipmentRequest is the request body for marking an order shipped
type ShipmentRequest struct {
	TrackingNumber string `json:"tracking_number" binding:"required"`
	Carrier        string `json:"carrier"`
}

// OrderResponse is an order in API form
type OrderResponse struct {
	ID              string          `json:"id"`
	Number          string          `json:"number"`
	Status          string          `json:"status"`
	Imported        bool            `json:"imported"`
	OriginSource    string          `json:"origin_source"`
	OriginID        string          `json:"origin_external_id,omitempty"`
	GrandTotal      string          `json:"grand_total"`
	TrackingNumber  string          `json:"tracking_number,omitempty"`
	TrackingCarrier string          `json:"tracking_carrier,omitempty"`
	PlacedAt        time.Time       `json:"placed_at"`
	Items           []OrderItemResp `json:"items"`
}

// OrderItemResp is a line item in API form
type OrderItemResp struct {
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Total     string `json:"total"`
}

// NoteResponse is an order note in API form
type NoteResponse struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// GetOrder returns one order by id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid order id")
		return
	}

	o, err := h.orders.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toOrderResponse(o))
}

// ListNotes returns the audit notes for one order, oldest first
func (h *OrderHandler) ListNotes(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid order id")
		return
	}

	notes, err := h.orders.FindNotes(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]NoteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, NoteResponse{Text: n.Text, CreatedAt: n.CreatedAt})
	}
	h.Success(c, out)
}

// MarkShipped records tracking data and transitions the order to
// shipped. The sync-back to the origin platform runs via the shipped
// event; its outcome never affects this response.
func (h *OrderHandler) MarkShipped(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid order id")
		return
	}

	var req ShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "tracking_number is required")
		return
	}

	ctx := c.Request.Context()
	o, err := h.orders.FindByID(ctx, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := o.MarkShipped(req.TrackingNumber, req.Carrier); err != nil {
		switch {
		case errors.Is(err, order.ErrMissingTracking):
			h.BadRequest(c, err.Error())
		case errors.Is(err, order.ErrInvalidTransition):
			h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState, err.Error())
		default:
			h.HandleError(c, err)
		}
		return
	}

	if err := h.orders.Update(ctx, o); err != nil {
		h.HandleError(c, err)
		return
	}

	if err := h.eventBus.Publish(ctx, o.Events()...); err != nil {
		h.logger.Error("failed to publish order events",
			zap.String("order_id", o.ID.String()),
			zap.Error(err),
		)
	}
	o.ClearEvents()

	// shipment notifications go out for local and imported orders alike
	if err := h.notifier.OrderShipped(ctx, o); err != nil {
		h.logger.Warn("shipment notification failed",
			zap.String("order_id", o.ID.String()),
			zap.Error(err),
		)
	}

	h.Success(c, toOrderResponse(o))
}

func toOrderResponse(o *order.LocalOrder) OrderResponse {
	items := make([]OrderItemResp, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResp{
			Name:      item.Name,
			SKU:       item.SKU,
			Quantity:  item.Quantity.String(),
			UnitPrice: item.UnitPrice.String(),
			Total:     item.Total.String(),
		})
	}
	return OrderResponse{
		ID:              o.ID.String(),
		Number:          o.Number,
		Status:          o.Status.String(),
		Imported:        o.Imported,
		OriginSource:    o.Origin.Source.String(),
		OriginID:        o.Origin.ExternalID,
		GrandTotal:      o.GrandTotal.String(),
		TrackingNumber:  o.TrackingNumber,
		TrackingCarrier: o.TrackingCarrier,
		PlacedAt:        o.PlacedAt,
		Items:           items,
	}
}
