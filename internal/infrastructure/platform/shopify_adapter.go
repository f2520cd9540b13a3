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

const shopifyPageSize = 250

// ShopifyAdapter implements the PlatformAdapter port for a remote
// Shopify store over the Admin REST API with token auth.
type ShopifyAdapter struct {
	config     *ShopifyConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewShopifyAdapter creates a new Shopify adapter
func NewShopifyAdapter(config *ShopifyConfig, logger *zap.Logger) (*ShopifyAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &ShopifyAdapter{
		config:     config,
		httpClient: newHTTPClient(config.TimeoutSeconds),
		logger:     logger.Named("shopify"),
	}, nil
}

// Platform returns the source this adapter handles
func (a *ShopifyAdapter) Platform() order.Source {
	return order.SourceShopify
}

// MinimumDate returns the earliest-eligible-order cutover boundary
func (a *ShopifyAdapter) MinimumDate() time.Time {
	return a.config.MinimumDate
}

// FetchOrders pulls orders created since the given time. Shopify
// paginates with an opaque page_info token carried in the Link header;
// filter parameters are only legal on the first request. The financial
// and fulfillment statuses are folded into one token before the status
// filter applies.
func (a *ShopifyAdapter) FetchOrders(ctx context.Context, since time.Time, statusFilter []string) (*sync.FetchResult, error) {
	if since.Before(a.config.MinimumDate) {
		since = a.config.MinimumDate
	}

	wanted := make(map[string]bool, len(statusFilter))
	for _, s := range statusFilter {
		wanted[strings.ToLower(s)] = true
	}

	result := &sync.FetchResult{Orders: make([]sync.RemoteOrder, 0)}

	query := url.Values{}
	query.Set("created_at_min", since.UTC().Format(time.RFC3339))
	query.Set("limit", strconv.Itoa(shopifyPageSize))
	query.Set("status", "any")

	for {
		body, header, err := a.doRequest(ctx, http.MethodGet, "/orders.json?"+query.Encode(), nil)
		if err != nil {
			return nil, err
		}

		var page shopifyOrdersResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("%w: shopify orders: %v", sync.ErrInvalidResponse, err)
		}

		for i := range page.Orders {
			o := &page.Orders[i]
			createdAt, err := time.Parse(time.RFC3339, o.CreatedAt)
			if err != nil || createdAt.Before(a.config.MinimumDate) {
				result.Skipped++
				continue
			}
			folded := foldShopifyStatus(o)
			if len(wanted) > 0 && !wanted[folded] {
				result.Skipped++
				continue
			}
			result.Orders = append(result.Orders, a.convertOrder(o, createdAt.UTC(), folded))
		}

		pageInfo := nextPageInfo(header.Get("Link"))
		if pageInfo == "" {
			break
		}
		query = url.Values{}
		query.Set("limit", strconv.Itoa(shopifyPageSize))
		query.Set("page_info", pageInfo)
	}

	a.logger.Debug("fetched orders",
		zap.Time("since", since),
		zap.Int("orders", len(result.Orders)),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// PushTracking attaches tracking info to the order's fulfillment,
// creating one when the order has none yet. Single best-effort attempt.
func (a *ShopifyAdapter) PushTracking(ctx context.Context, externalID, trackingNumber, carrier string) error {
	fulfillmentID, err := a.resolveFulfillment(ctx, externalID)
	if err != nil {
		return fmt.Errorf("%w: %v", sync.ErrTrackingPushFailed, err)
	}

	envelope := shopifyFulfillmentEnvelope{
		Fulfillment: shopifyFulfillmentUpdate{
			ID:             fulfillmentID,
			NotifyCustomer: false,
			TrackingInfo: &shopifyTrackingInfo{
				Number:  trackingNumber,
				Company: carrier,
			},
		},
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("shopify: failed to marshal tracking payload: %w", err)
	}

	path := fmt.Sprintf("/fulfillments/%d.json", fulfillmentID)
	if _, _, err := a.doRequest(ctx, http.MethodPut, path, payload); err != nil {
		return fmt.Errorf("%w: %v", sync.ErrTrackingPushFailed, err)
	}
	return nil
}

// TestConnection performs one lightweight authenticated GET
func (a *ShopifyAdapter) TestConnection(ctx context.Context) error {
	_, _, err := a.doRequest(ctx, http.MethodGet, "/shop.json", nil)
	return err
}

// resolveFulfillment returns the order's first fulfillment id, creating
// an empty fulfillment when none exists yet
func (a *ShopifyAdapter) resolveFulfillment(ctx context.Context, externalID string) (int64, error) {
	listPath := "/orders/" + url.PathEscape(externalID) + "/fulfillments.json"

	body, _, err := a.doRequest(ctx, http.MethodGet, listPath, nil)
	if err != nil {
		return 0, err
	}
	var existing shopifyFulfillmentsResponse
	if err := json.Unmarshal(body, &existing); err != nil {
		return 0, fmt.Errorf("%w: shopify fulfillments: %v", sync.ErrInvalidResponse, err)
	}
	if len(existing.Fulfillments) > 0 {
		return existing.Fulfillments[0].ID, nil
	}

	payload, err := json.Marshal(shopifyFulfillmentEnvelope{
		Fulfillment: shopifyFulfillmentUpdate{NotifyCustomer: false},
	})
	if err != nil {
		return 0, fmt.Errorf("shopify: failed to marshal fulfillment payload: %w", err)
	}
	body, _, err = a.doRequest(ctx, http.MethodPost, listPath, payload)
	if err != nil {
		return 0, err
	}
	var created shopifyFulfillmentCreated
	if err := json.Unmarshal(body, &created); err != nil || created.Fulfillment.ID == 0 {
		return 0, fmt.Errorf("%w: shopify fulfillment creation returned no id", sync.ErrInvalidResponse)
	}
	return created.Fulfillment.ID, nil
}

// doRequest performs an authenticated request against the Admin API.
// The response header is returned alongside the body because pagination
// state lives in the Link header.
func (a *ShopifyAdapter) doRequest(ctx context.Context, method, path string, payload []byte) ([]byte, http.Header, error) {
	endpoint := fmt.Sprintf("%s/admin/api/%s%s", a.config.BaseURL, a.config.APIVersion, path)

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, nil, fmt.Errorf("shopify: failed to create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", a.config.AccessToken)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", sync.ErrPlatformUnavailable, err)
	}

	body, err := readResponse(resp)
	return body, resp.Header, err
}

// foldShopifyStatus folds the two status dimensions into one token:
// a fulfilled order reads as fulfilled, anything else reads as its
// financial status.
func foldShopifyStatus(o *shopifyOrder) string {
	if strings.EqualFold(o.FulfillmentStatus, "fulfilled") {
		return "fulfilled"
	}
	if o.FinancialStatus == "" {
		return "pending"
	}
	return strings.ToLower(o.FinancialStatus)
}

// nextPageInfo extracts the page_info token of the rel="next" link, if any
func nextPageInfo(linkHeader string) string {
	for _, part := range strings.Split(linkHeader, ",") {
		if !strings.Contains(part, `rel="next"`) {
			continue
		}
		start := strings.Index(part, "<")
		end := strings.Index(part, ">")
		if start < 0 || end <= start {
			continue
		}
		u, err := url.Parse(part[start+1 : end])
		if err != nil {
			continue
		}
		return u.Query().Get("page_info")
	}
	return ""
}

// convertOrder converts a Shopify wire order to the neutral shape
func (a *ShopifyAdapter) convertOrder(o *shopifyOrder, createdAt time.Time, folded string) sync.RemoteOrder {
	remote := sync.RemoteOrder{
		ExternalID:    strconv.FormatInt(o.ID, 10),
		Number:        strings.TrimPrefix(o.Name, "#"),
		Status:        folded,
		CreatedAt:     createdAt,
		CustomerNote:  o.Note,
		TaxTotal:      parseAmount(o.TotalTax),
		GrandTotal:    parseAmount(o.TotalPrice),
		PaymentMethod: o.Gateway,
	}

	if o.BillingAddress != nil {
		remote.Billing = shopifyToRemoteAddress(o.BillingAddress, o.Email)
	} else {
		remote.Billing = sync.RemoteAddress{Email: o.Email}
	}
	if o.ShippingAddress != nil {
		shipping := shopifyToRemoteAddress(o.ShippingAddress, o.Email)
		remote.Shipping = &shipping
	}

	for _, item := range o.LineItems {
		remote.Items = append(remote.Items, sync.RemoteLineItem{
			Name:      item.Title,
			SKU:       item.SKU,
			Quantity:  decimal.NewFromInt(int64(item.Quantity)),
			UnitPrice: parseAmount(item.Price),
		})
	}

	shippingTotal := decimal.Zero
	for _, line := range o.ShippingLines {
		amount := parseAmount(line.Price)
		shippingTotal = shippingTotal.Add(amount)
		remote.ShippingLines = append(remote.ShippingLines, sync.RemoteShippingLine{
			Title:      line.Title,
			MethodCode: line.Code,
			Amount:     amount,
		})
	}
	remote.ShippingTotal = shippingTotal

	for _, code := range o.DiscountCodes {
		remote.Discounts = append(remote.Discounts, sync.RemoteDiscount{
			Code:   code.Code,
			Amount: parseAmount(code.Amount),
		})
	}

	return remote
}

func shopifyToRemoteAddress(addr *shopifyAddress, email string) sync.RemoteAddress {
	return sync.RemoteAddress{
		FirstName:  addr.FirstName,
		LastName:   addr.LastName,
		Company:    addr.Company,
		Line1:      addr.Address1,
		Line2:      addr.Address2,
		City:       addr.City,
		State:      addr.Province,
		PostalCode: addr.Zip,
		Country:    addr.Country,
		Email:      email,
		Phone:      addr.Phone,
	}
}

// Ensure ShopifyAdapter implements PlatformAdapter
var _ sync.PlatformAdapter = (*ShopifyAdapter)(nil)
