package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oms/backend/internal/domain/order"
)

// OrderModel is the persistence model for the LocalOrder aggregate.
// Addresses and charge lines are stored as JSON documents; line items
// live in their own table because they reference catalog products.
type OrderModel struct {
	BaseModel
	Number            string          `gorm:"type:varchar(50);not null;index"`
	Status            string          `gorm:"type:varchar(20);not null;index"`
	BillingJSON       string          `gorm:"type:jsonb;column:billing"`
	ShippingJSON      string          `gorm:"type:jsonb;column:shipping"`
	CustomerNote      string          `gorm:"type:text"`
	ShippingLinesJSON string          `gorm:"type:jsonb;column:shipping_lines"`
	FeeLinesJSON      string          `gorm:"type:jsonb;column:fee_lines"`
	DiscountsJSON     string          `gorm:"type:jsonb;column:discounts"`
	TaxTotal          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ShippingTotal     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	GrandTotal        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PaymentMethod     string          `gorm:"type:varchar(100)"`
	OriginSource      string          `gorm:"type:varchar(20);not null;default:'none';index:idx_orders_origin,priority:1"`
	OriginExternalID  string          `gorm:"type:varchar(100);index:idx_orders_origin,priority:2"`
	OriginNumber      string          `gorm:"type:varchar(100)"`
	Imported          bool            `gorm:"not null;default:false"`
	AssigneeID        *uuid.UUID      `gorm:"type:uuid;index"`
	PlacedAt          time.Time       `gorm:"not null;index"`
	TrackingNumber    string          `gorm:"type:varchar(100)"`
	TrackingCarrier   string          `gorm:"type:varchar(100)"`

	Items []OrderItemModel `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is the persistence model for an order line item
type OrderItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"type:varchar(255);not null"`
	SKU       string          `gorm:"type:varchar(100);not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// OrderNoteModel is the persistence model for append-only order audit notes
type OrderNoteModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Text      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderNoteModel) TableName() string {
	return "order_notes"
}

// ToDomain converts the persistence model to a domain LocalOrder
func (m *OrderModel) ToDomain() *order.LocalOrder {
	o := &order.LocalOrder{
		BaseEntity:    m.BaseModel.ToDomain(),
		Number:        m.Number,
		Status:        order.Status(m.Status),
		CustomerNote:  m.CustomerNote,
		TaxTotal:      m.TaxTotal,
		ShippingTotal: m.ShippingTotal,
		GrandTotal:    m.GrandTotal,
		PaymentMethod: m.PaymentMethod,
		Origin: order.Origin{
			Source:              order.Source(m.OriginSource),
			ExternalID:          m.OriginExternalID,
			ExternalOrderNumber: m.OriginNumber,
		},
		Imported:        m.Imported,
		AssigneeID:      m.AssigneeID,
		PlacedAt:        m.PlacedAt,
		TrackingNumber:  m.TrackingNumber,
		TrackingCarrier: m.TrackingCarrier,
	}

	if m.BillingJSON != "" {
		_ = json.Unmarshal([]byte(m.BillingJSON), &o.Billing)
	}
	if m.ShippingJSON != "" {
		_ = json.Unmarshal([]byte(m.ShippingJSON), &o.Shipping)
	}
	if m.ShippingLinesJSON != "" {
		_ = json.Unmarshal([]byte(m.ShippingLinesJSON), &o.ShippingLines)
	}
	if m.FeeLinesJSON != "" {
		_ = json.Unmarshal([]byte(m.FeeLinesJSON), &o.FeeLines)
	}
	if m.DiscountsJSON != "" {
		_ = json.Unmarshal([]byte(m.DiscountsJSON), &o.Discounts)
	}

	for _, item := range m.Items {
		o.Items = append(o.Items, order.LineItem{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.Total,
		})
	}

	return o
}

// FromDomain populates the persistence model from a domain LocalOrder
func (m *OrderModel) FromDomain(o *order.LocalOrder) {
	m.BaseModel.FromDomainBaseEntity(o.BaseEntity)
	m.Number = o.Number
	m.Status = o.Status.String()
	m.CustomerNote = o.CustomerNote
	m.TaxTotal = o.TaxTotal
	m.ShippingTotal = o.ShippingTotal
	m.GrandTotal = o.GrandTotal
	m.PaymentMethod = o.PaymentMethod
	m.OriginSource = o.Origin.Source.String()
	m.OriginExternalID = o.Origin.ExternalID
	m.OriginNumber = o.Origin.ExternalOrderNumber
	m.Imported = o.Imported
	m.AssigneeID = o.AssigneeID
	m.PlacedAt = o.PlacedAt
	m.TrackingNumber = o.TrackingNumber
	m.TrackingCarrier = o.TrackingCarrier

	m.BillingJSON = marshalJSON(o.Billing)
	m.ShippingJSON = marshalJSON(o.Shipping)
	m.ShippingLinesJSON = marshalJSON(o.ShippingLines)
	m.FeeLinesJSON = marshalJSON(o.FeeLines)
	m.DiscountsJSON = marshalJSON(o.Discounts)

	m.Items = m.Items[:0]
	for _, item := range o.Items {
		m.Items = append(m.Items, OrderItemModel{
			ID:        item.ID,
			OrderID:   o.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.Total,
		})
	}
}

// OrderModelFromDomain creates a new persistence model from a domain LocalOrder
func OrderModelFromDomain(o *order.LocalOrder) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// ToDomain converts the persistence model to a domain Note
func (m *OrderNoteModel) ToDomain() order.Note {
	return order.Note{
		ID:        m.ID,
		OrderID:   m.OrderID,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
}

func marshalJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
