package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oms/backend/internal/domain/order"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/oms/backend/internal/domain/sync"
	"github.com/oms/backend/internal/infrastructure/notification"
)

// TxRunner executes a function within a database transaction
type TxRunner interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Materializer converts RemoteOrders into persisted LocalOrders.
// Each materialization runs in one transaction under a notification
// suppression scope: the customer already ordered on the platform and
// must not receive a second confirmation from us.
type Materializer struct {
	tx              TxRunner
	orders          order.Repository
	products        order.ProductRepository
	gate            *notification.Gate
	defaultAssignee *uuid.UUID
	logger          *zap.Logger
}

// NewMaterializer creates a new order materializer
func NewMaterializer(
	tx TxRunner,
	orders order.Repository,
	products order.ProductRepository,
	gate *notification.Gate,
	defaultAssignee *uuid.UUID,
	logger *zap.Logger,
) *Materializer {
	return &Materializer{
		tx:              tx,
		orders:          orders,
		products:        products,
		gate:            gate,
		defaultAssignee: defaultAssignee,
		logger:          logger.Named("materializer"),
	}
}

// Materialize persists a remote order as a LocalOrder and returns its id.
// Addresses and totals are copied verbatim; nothing is recomputed. A
// concurrent import of the same remote order surfaces as
// shared.ErrAlreadyExists, which callers treat as a duplicate, not a
// failure.
func (m *Materializer) Materialize(ctx context.Context, remote *sync.RemoteOrder, status order.Status, platform order.Source) (uuid.UUID, error) {
	ctx, release := m.gate.Suppress(ctx)
	defer release()

	var orderID uuid.UUID
	err := m.tx.Do(ctx, func(ctx context.Context) error {
		number := remote.Number
		if number == "" {
			number = remote.ExternalID
		}

		o, err := order.NewImportedOrder(number, status, order.Origin{
			Source:              platform,
			ExternalID:          remote.ExternalID,
			ExternalOrderNumber: remote.Number,
		}, remote.CreatedAt)
		if err != nil {
			return err
		}

		o.Billing = toAddress(remote.Billing)
		o.Shipping = toAddress(remote.ShippingOrBilling())
		o.CustomerNote = remote.CustomerNote
		o.PaymentMethod = remote.PaymentMethod
		o.TaxTotal = remote.TaxTotal
		o.ShippingTotal = remote.ShippingTotal
		o.GrandTotal = remote.GrandTotal
		o.AssigneeID = m.defaultAssignee

		if len(remote.Items) == 0 {
			return order.ErrNoLineItems
		}
		for i, item := range remote.Items {
			product, err := m.resolveProduct(ctx, &item, platform, remote.ExternalID, i)
			if err != nil {
				return err
			}
			o.AddItem(product.ID, item.Name, product.SKU, item.Quantity, item.UnitPrice)
		}

		for _, line := range remote.ShippingLines {
			o.ShippingLines = append(o.ShippingLines, order.ShippingLine{
				Title:      line.Title,
				MethodCode: line.MethodCode,
				Amount:     line.Amount,
			})
		}
		for _, fee := range remote.FeeLines {
			o.FeeLines = append(o.FeeLines, order.FeeLine{Name: fee.Name, Amount: fee.Amount})
		}
		for _, discount := range remote.Discounts {
			o.Discounts = append(o.Discounts, order.DiscountLine{Code: discount.Code, Amount: discount.Amount})
		}

		if err := m.orders.Create(ctx, o); err != nil {
			return err
		}

		// runs through the gate so the suppression scope is what keeps
		// imported orders from emailing customers a second confirmation
		if err := m.gate.OrderCreated(ctx, o); err != nil {
			m.logger.Warn("order created notification failed",
				zap.String("order_id", o.ID.String()),
				zap.Error(err),
			)
		}

		orderID = o.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return orderID, nil
}

// resolveProduct finds the catalog product for a line item's SKU,
// creating a placeholder when the catalog has never seen it. Items
// without a SKU get a synthesized one so the placeholder is traceable
// back to its import.
func (m *Materializer) resolveProduct(ctx context.Context, item *sync.RemoteLineItem, platform order.Source, externalID string, index int) (*order.Product, error) {
	sku := strings.TrimSpace(item.SKU)
	if sku == "" {
		sku = fmt.Sprintf("%s-%s-%d", strings.ToUpper(platform.String()), externalID, index+1)
	}

	product, err := m.products.FindBySKU(ctx, sku)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	placeholder, err := order.NewPlaceholderProduct(item.Name, sku, item.UnitPrice)
	if err != nil {
		return nil, err
	}
	if err := m.products.Create(ctx, placeholder); err != nil {
		// lost a race against a sibling import; the winner's row serves
		if errors.Is(err, shared.ErrAlreadyExists) {
			return m.products.FindBySKU(ctx, sku)
		}
		return nil, err
	}

	m.logger.Warn("created placeholder product for unknown SKU",
		zap.String("sku", sku),
		zap.String("platform", platform.String()),
		zap.String("external_id", externalID),
	)
	return placeholder, nil
}

func toAddress(a sync.RemoteAddress) order.Address {
	return order.Address{
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		Company:    a.Company,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Email:      a.Email,
		Phone:      a.Phone,
	}
}
