package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/oms/backend/internal/domain/order"
	"github.com/oms/backend/internal/domain/sync"
)

const (
	wooAPIPath  = "/wp-json/wc/v3"
	wooPageSize = 100
	// wooDateCreatedLayout is the naive-UTC layout of *_gmt timestamps
	wooDateCreatedLayout = "2006-01-02T15:04:05"
	// wooTrackingMetaKey is the Shipment Tracking plugin's meta key
	wooTrackingMetaKey = "_wc_shipment_tracking_items"
)

// WooCommerceAdapter implements the PlatformAdapter port for a remote
// WooCommerce store over the wc/v3 REST API with Basic auth.
type WooCommerceAdapter struct {
	config     *WooCommerceConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewWooCommerceAdapter creates a new WooCommerce adapter
func NewWooCommerceAdapter(config *WooCommerceConfig, logger *zap.Logger) (*WooCommerceAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &WooCommerceAdapter{
		config:     config,
		httpClient: newHTTPClient(config.TimeoutSeconds),
		logger:     logger.Named("woocommerce"),
	}, nil
}

// Platform returns the source this adapter handles
func (a *WooCommerceAdapter) Platform() order.Source {
	return order.SourceWooCommerce
}

// MinimumDate returns the earliest-eligible-order cutover boundary
func (a *WooCommerceAdapter) MinimumDate() time.Time {
	return a.config.MinimumDate
}

// FetchOrders pulls orders created since the given time, paginating
// through the store's orders endpoint. Orders older than the minimum
// date are dropped defensively and counted as skipped even if the
// caller's cursor was wrong.
func (a *WooCommerceAdapter) FetchOrders(ctx context.Context, since time.Time, statusFilter []string) (*sync.FetchResult, error) {
	if since.Before(a.config.MinimumDate) {
		since = a.config.MinimumDate
	}

	result := &sync.FetchResult{Orders: make([]sync.RemoteOrder, 0)}

	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("after", since.UTC().Format(time.RFC3339))
		query.Set("per_page", strconv.Itoa(wooPageSize))
		query.Set("page", strconv.Itoa(page))
		query.Set("orderby", "date")
		query.Set("order", "desc")
		if len(statusFilter) > 0 {
			query.Set("status", strings.Join(statusFilter, ","))
		}

		body, err := a.doRequest(ctx, http.MethodGet, "/orders?"+query.Encode(), nil)
		if err != nil {
			return nil, err
		}

		var pageOrders []wooOrder
		if err := json.Unmarshal(body, &pageOrders); err != nil {
			return nil, fmt.Errorf("%w: woocommerce orders: %v", sync.ErrInvalidResponse, err)
		}

		for i := range pageOrders {
			remote := a.convertOrder(&pageOrders[i])
			if remote.CreatedAt.Before(a.config.MinimumDate) {
				result.Skipped++
				continue
			}
			result.Orders = append(result.Orders, remote)
		}

		if len(pageOrders) < wooPageSize {
			break
		}
	}

	a.logger.Debug("fetched orders",
		zap.Time("since", since),
		zap.Int("orders", len(result.Orders)),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// PushTracking writes a Shipment Tracking plugin meta entry onto the
// remote order. Single best-effort attempt; the failure reason is
// returned for the caller to record.
func (a *WooCommerceAdapter) PushTracking(ctx context.Context, externalID, trackingNumber, carrier string) error {
	update := wooOrderUpdate{
		MetaData: []wooMetaData{{
			Key: wooTrackingMetaKey,
			Value: []wooTrackingItem{{
				TrackingProvider: carrier,
				TrackingNumber:   trackingNumber,
				DateShipped:      time.Now().Unix(),
			}},
		}},
	}

	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("woocommerce: failed to marshal tracking payload: %w", err)
	}

	if _, err := a.doRequest(ctx, http.MethodPut, "/orders/"+url.PathEscape(externalID), payload); err != nil {
		return fmt.Errorf("%w: %v", sync.ErrTrackingPushFailed, err)
	}
	return nil
}

// TestConnection performs one lightweight authenticated GET
func (a *WooCommerceAdapter) TestConnection(ctx context.Context) error {
	_, err := a.doRequest(ctx, http.MethodGet, "/system_status", nil)
	return err
}

// doRequest performs an authenticated request against the wc/v3 API
func (a *WooCommerceAdapter) doRequest(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var body *bytes.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.config.BaseURL+wooAPIPath+path, body)
	if err != nil {
		return nil, fmt.Errorf("woocommerce: failed to create request: %w", err)
	}
	req.SetBasicAuth(a.config.ConsumerKey, a.config.ConsumerSecret)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sync.ErrPlatformUnavailable, err)
	}

	return readResponse(resp)
}

// convertOrder converts a WooCommerce wire order to the neutral shape
func (a *WooCommerceAdapter) convertOrder(o *wooOrder) sync.RemoteOrder {
	remote := sync.RemoteOrder{
		ExternalID:    strconv.FormatInt(o.ID, 10),
		Number:        o.Number,
		Status:        o.Status,
		Billing:       wooToRemoteAddress(o.Billing),
		CustomerNote:  o.CustomerNote,
		TaxTotal:      parseAmount(o.TotalTax),
		ShippingTotal: parseAmount(o.ShippingTotal),
		GrandTotal:    parseAmount(o.Total),
		PaymentMethod: o.PaymentMethodTitle,
	}

	if created, err := time.Parse(wooDateCreatedLayout, o.DateCreatedGMT); err == nil {
		remote.CreatedAt = created.UTC()
	}

	if shipping := wooToRemoteAddress(o.Shipping); !wooAddressEmpty(o.Shipping) {
		remote.Shipping = &shipping
	}

	for _, item := range o.LineItems {
		remote.Items = append(remote.Items, sync.RemoteLineItem{
			Name:      item.Name,
			SKU:       item.SKU,
			Quantity:  decimal.NewFromInt(int64(item.Quantity)),
			UnitPrice: parseAnyAmount(item.Price),
		})
	}
	for _, line := range o.ShippingLines {
		remote.ShippingLines = append(remote.ShippingLines, sync.RemoteShippingLine{
			Title:      line.MethodTitle,
			MethodCode: line.MethodID,
			Amount:     parseAmount(line.Total),
		})
	}
	for _, fee := range o.FeeLines {
		remote.FeeLines = append(remote.FeeLines, sync.RemoteFeeLine{
			Name:   fee.Name,
			Amount: parseAmount(fee.Total),
		})
	}
	for _, coupon := range o.CouponLines {
		remote.Discounts = append(remote.Discounts, sync.RemoteDiscount{
			Code:   coupon.Code,
			Amount: parseAmount(coupon.Discount),
		})
	}

	return remote
}

func wooToRemoteAddress(addr wooAddress) sync.RemoteAddress {
	return sync.RemoteAddress{
		FirstName:  addr.FirstName,
		LastName:   addr.LastName,
		Company:    addr.Company,
		Line1:      addr.Address1,
		Line2:      addr.Address2,
		City:       addr.City,
		State:      addr.State,
		PostalCode: addr.Postcode,
		Country:    addr.Country,
		Email:      addr.Email,
		Phone:      addr.Phone,
	}
}

func wooAddressEmpty(addr wooAddress) bool {
	return addr.FirstName == "" && addr.LastName == "" && addr.Address1 == "" && addr.City == ""
}

// Ensure WooCommerceAdapter implements PlatformAdapter
var _ sync.PlatformAdapter = (*WooCommerceAdapter)(nil)
