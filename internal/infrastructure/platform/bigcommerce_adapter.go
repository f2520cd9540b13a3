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
	bcPageSize = 100
	// bcDateLayout matches BigCommerce's RFC 1123 timestamps with a
	// numeric zone, e.g. "Wed, 13 Mar 2024 16:00:00 +0000"
	bcDateLayout = time.RFC1123Z
)

// BigCommerceAdapter implements the PlatformAdapter port for a remote
// BigCommerce store over the Orders v2 API with token auth.
type BigCommerceAdapter struct {
	config     *BigCommerceConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewBigCommerceAdapter creates a new BigCommerce adapter
func NewBigCommerceAdapter(config *BigCommerceConfig, logger *zap.Logger) (*BigCommerceAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &BigCommerceAdapter{
		config:     config,
		httpClient: newHTTPClient(config.TimeoutSeconds),
		logger:     logger.Named("bigcommerce"),
	}, nil
}

// Platform returns the source this adapter handles
func (a *BigCommerceAdapter) Platform() order.Source {
	return order.SourceBigCommerce
}

// MinimumDate returns the earliest-eligible-order cutover boundary
func (a *BigCommerceAdapter) MinimumDate() time.Time {
	return a.config.MinimumDate
}

// FetchOrders pulls orders created since the given time, paginating
// through the orders endpoint. Line items live on a sub-resource in
// v2, so each order costs one extra request. Status filtering happens
// client-side because v2 filters by numeric status id only.
func (a *BigCommerceAdapter) FetchOrders(ctx context.Context, since time.Time, statusFilter []string) (*sync.FetchResult, error) {
	if since.Before(a.config.MinimumDate) {
		since = a.config.MinimumDate
	}

	wanted := make(map[string]bool, len(statusFilter))
	for _, s := range statusFilter {
		wanted[strings.ToLower(s)] = true
	}

	result := &sync.FetchResult{Orders: make([]sync.RemoteOrder, 0)}

	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("min_date_created", since.UTC().Format(bcDateLayout))
		query.Set("limit", strconv.Itoa(bcPageSize))
		query.Set("page", strconv.Itoa(page))
		query.Set("sort", "date_created:asc")

		body, status, err := a.doRequest(ctx, http.MethodGet, "/orders?"+query.Encode(), nil)
		if err != nil {
			return nil, err
		}
		// v2 answers an empty page with 204 and no body
		if status == http.StatusNoContent || len(body) == 0 {
			break
		}

		var pageOrders []bcOrder
		if err := json.Unmarshal(body, &pageOrders); err != nil {
			return nil, fmt.Errorf("%w: bigcommerce orders: %v", sync.ErrInvalidResponse, err)
		}

		for i := range pageOrders {
			o := &pageOrders[i]
			createdAt, err := time.Parse(bcDateLayout, o.DateCreated)
			if err != nil || createdAt.Before(a.config.MinimumDate) {
				result.Skipped++
				continue
			}
			if len(wanted) > 0 && !wanted[strings.ToLower(o.Status)] {
				result.Skipped++
				continue
			}

			products, err := a.fetchOrderProducts(ctx, o.ID)
			if err != nil {
				return nil, err
			}
			result.Orders = append(result.Orders, a.convertOrder(o, createdAt.UTC(), products))
		}

		if len(pageOrders) < bcPageSize {
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

// PushTracking records a shipment on the remote order. BigCommerce
// requires the shipping address id and the order product lines, so two
// lookups precede the shipment POST.
func (a *BigCommerceAdapter) PushTracking(ctx context.Context, externalID, trackingNumber, carrier string) error {
	orderPath := "/orders/" + url.PathEscape(externalID)

	body, _, err := a.doRequest(ctx, http.MethodGet, orderPath+"/shipping_addresses", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", sync.ErrTrackingPushFailed, err)
	}
	var addresses []bcShippingAddress
	if err := json.Unmarshal(body, &addresses); err != nil || len(addresses) == 0 {
		return fmt.Errorf("%w: bigcommerce order %s has no shipping address", sync.ErrTrackingPushFailed, externalID)
	}

	body, _, err = a.doRequest(ctx, http.MethodGet, orderPath+"/products", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", sync.ErrTrackingPushFailed, err)
	}
	var lines []bcOrderProduct
	if err := json.Unmarshal(body, &lines); err != nil || len(lines) == 0 {
		return fmt.Errorf("%w: bigcommerce order %s has no product lines", sync.ErrTrackingPushFailed, externalID)
	}

	shipment := bcShipmentRequest{
		OrderAddressID:   addresses[0].ID,
		TrackingNumber:   trackingNumber,
		ShippingProvider: carrier,
	}
	for _, line := range lines {
		shipment.Items = append(shipment.Items, bcShipmentItem{
			OrderProductID: line.ID,
			Quantity:       line.Quantity,
		})
	}

	payload, err := json.Marshal(shipment)
	if err != nil {
		return fmt.Errorf("bigcommerce: failed to marshal shipment payload: %w", err)
	}
	if _, _, err := a.doRequest(ctx, http.MethodPost, orderPath+"/shipments", payload); err != nil {
		return fmt.Errorf("%w: %v", sync.ErrTrackingPushFailed, err)
	}
	return nil
}

// TestConnection asks for the store time, the cheapest authenticated call
func (a *BigCommerceAdapter) TestConnection(ctx context.Context) error {
	_, _, err := a.doRequest(ctx, http.MethodGet, "/time", nil)
	return err
}

func (a *BigCommerceAdapter) fetchOrderProducts(ctx context.Context, orderID int64) ([]bcOrderProduct, error) {
	body, status, err := a.doRequest(ctx, http.MethodGet, fmt.Sprintf("/orders/%d/products", orderID), nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNoContent || len(body) == 0 {
		return nil, nil
	}

	var products []bcOrderProduct
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("%w: bigcommerce order products: %v", sync.ErrInvalidResponse, err)
	}
	return products, nil
}

// doRequest performs an authenticated request against the Orders v2 API
func (a *BigCommerceAdapter) doRequest(ctx context.Context, method, path string, payload []byte) ([]byte, int, error) {
	endpoint := fmt.Sprintf("%s/stores/%s/v2%s", a.config.BaseURL, a.config.StoreHash, path)

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, fmt.Errorf("bigcommerce: failed to create request: %w", err)
	}
	req.Header.Set("X-Auth-Token", a.config.AccessToken)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", sync.ErrPlatformUnavailable, err)
	}

	body, err := readResponse(resp)
	return body, resp.StatusCode, err
}

// convertOrder converts a BigCommerce wire order plus its product lines
// to the neutral shape. Shipping address is left unset; the first
// shipping address is only resolved when a shipment is pushed.
func (a *BigCommerceAdapter) convertOrder(o *bcOrder, createdAt time.Time, products []bcOrderProduct) sync.RemoteOrder {
	remote := sync.RemoteOrder{
		ExternalID:   strconv.FormatInt(o.ID, 10),
		Number:       strconv.FormatInt(o.ID, 10),
		Status:       o.Status,
		CreatedAt:    createdAt,
		CustomerNote: o.CustomerMessage,
		Billing: sync.RemoteAddress{
			FirstName:  o.BillingAddress.FirstName,
			LastName:   o.BillingAddress.LastName,
			Company:    o.BillingAddress.Company,
			Line1:      o.BillingAddress.Street1,
			Line2:      o.BillingAddress.Street2,
			City:       o.BillingAddress.City,
			State:      o.BillingAddress.State,
			PostalCode: o.BillingAddress.Zip,
			Country:    o.BillingAddress.Country,
			Email:      o.BillingAddress.Email,
			Phone:      o.BillingAddress.Phone,
		},
		TaxTotal:      parseAmount(o.TotalTax),
		ShippingTotal: parseAmount(o.ShippingCostIncTax),
		GrandTotal:    parseAmount(o.TotalIncTax),
		PaymentMethod: o.PaymentMethod,
	}

	for _, p := range products {
		remote.Items = append(remote.Items, sync.RemoteLineItem{
			Name:      p.Name,
			SKU:       p.SKU,
			Quantity:  decimal.NewFromInt(int64(p.Quantity)),
			UnitPrice: parseAmount(p.BasePrice),
		})
	}

	if discount := parseAmount(o.DiscountAmount); discount.IsPositive() {
		remote.Discounts = append(remote.Discounts, sync.RemoteDiscount{Amount: discount})
	}

	return remote
}

// Ensure BigCommerceAdapter implements PlatformAdapter
var _ sync.PlatformAdapter = (*BigCommerceAdapter)(nil)
