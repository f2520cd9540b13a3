package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oms/backend/internal/domain/order"
	"github.com/oms/backend/internal/domain/sync"
)

func newWooTestAdapter(t *testing.T, handler http.HandlerFunc) (*WooCommerceAdapter, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := NewWooCommerceConfig(server.URL, "ck_test", "cs_test")
	adapter, err := NewWooCommerceAdapter(config, zap.NewNop())
	require.NoError(t, err)
	return adapter, server
}

func wooSampleOrder(id int64, createdGMT string) map[string]any {
	return map[string]any{
		"id":                   id,
		"number":               fmt.Sprintf("%d", id),
		"status":               "processing",
		"date_created_gmt":     createdGMT,
		"total":                "59.80",
		"total_tax":            "4.80",
		"shipping_total":       "5.00",
		"payment_method_title": "Credit Card",
		"customer_note":        "leave at door",
		"billing": map[string]any{
			"first_name": "Ada", "last_name": "Lovelace",
			"address_1": "12 Analytical Way", "city": "London",
			"postcode": "N1 7AA", "country": "GB",
			"email": "ada@example.com",
		},
		"shipping": map[string]any{
			"first_name": "Ada", "last_name": "Lovelace",
			"address_1": "12 Analytical Way", "city": "London",
			"postcode": "N1 7AA", "country": "GB",
		},
		"line_items": []map[string]any{
			{"id": 1, "name": "Widget", "sku": "WID-1", "quantity": 2, "price": 25.0},
		},
		"shipping_lines": []map[string]any{
			{"method_title": "Flat rate", "method_id": "flat_rate", "total": "5.00"},
		},
		"coupon_lines": []map[string]any{
			{"code": "WELCOME", "discount": "2.50"},
		},
	}
}

func TestWooCommerceAdapter_Platform(t *testing.T) {
	adapter, _ := newWooTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {})
	assert.Equal(t, order.SourceWooCommerce, adapter.Platform())
}

func TestWooCommerceAdapter_FetchOrders(t *testing.T) {
	var gotAuth bool
	var gotAfter, gotStatus string

	adapter, _ := newWooTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wp-json/wc/v3/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		gotAuth = ok && user == "ck_test" && pass == "cs_test"
		gotAfter = r.URL.Query().Get("after")
		gotStatus = r.URL.Query().Get("status")

		orders := []map[string]any{
			wooSampleOrder(1001, "2024-03-10T12:00:00"),
			wooSampleOrder(1002, "2024-03-11T08:30:00"),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(orders)
	})

	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	result, err := adapter.FetchOrders(context.Background(), since, []string{"processing", "completed"})
	require.NoError(t, err)

	assert.True(t, gotAuth)
	assert.Equal(t, "2024-03-01T00:00:00Z", gotAfter)
	assert.Equal(t, "processing,completed", gotStatus)

	require.Len(t, result.Orders, 2)
	assert.Equal(t, 0, result.Skipped)

	first := result.Orders[0]
	assert.Equal(t, "1001", first.ExternalID)
	assert.Equal(t, "processing", first.Status)
	assert.Equal(t, time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC), first.CreatedAt)
	assert.Equal(t, "59.8", first.GrandTotal.String())
	require.Len(t, first.Items, 1)
	assert.Equal(t, "WID-1", first.Items[0].SKU)
	assert.Equal(t, "2", first.Items[0].Quantity.String())
	assert.Equal(t, "25", first.Items[0].UnitPrice.String())
	require.NotNil(t, first.Shipping)
	require.Len(t, first.Discounts, 1)
	assert.Equal(t, "WELCOME", first.Discounts[0].Code)
}

func TestWooCommerceAdapter_FetchOrders_Pagination(t *testing.T) {
	pagesServed := 0

	adapter, _ := newWooTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pagesServed++

		var orders []map[string]any
		if page == "1" {
			for i := 0; i < wooPageSize; i++ {
				orders = append(orders, wooSampleOrder(int64(2000+i), "2024-03-10T12:00:00"))
			}
		} else {
			orders = append(orders, wooSampleOrder(5000, "2024-03-11T12:00:00"))
		}
		json.NewEncoder(w).Encode(orders)
	})

	result, err := adapter.FetchOrders(context.Background(), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, pagesServed)
	assert.Len(t, result.Orders, wooPageSize+1)
}

func TestWooCommerceAdapter_FetchOrders_SkipsOrdersBeforeMinimumDate(t *testing.T) {
	adapter, _ := newWooTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		orders := []map[string]any{
			wooSampleOrder(1, "2023-12-31T23:59:59"),
			wooSampleOrder(2, "2024-03-10T12:00:00"),
		}
		json.NewEncoder(w).Encode(orders)
	})

	result, err := adapter.FetchOrders(context.Background(), time.Time{}, nil)
	require.NoError(t, err)
	require.Len(t, result.Orders, 1)
	assert.Equal(t, "2", result.Orders[0].ExternalID)
	assert.Equal(t, 1, result.Skipped)
}

func TestWooCommerceAdapter_FetchOrders_ServerError(t *testing.T) {
	adapter, _ := newWooTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"rest_forbidden"}`, http.StatusUnauthorized)
	})

	_, err := adapter.FetchOrders(context.Background(), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, sync.ErrPlatformRequestFailed)
}

func TestWooCommerceAdapter_FetchOrders_Unreachable(t *testing.T) {
	adapter, server := newWooTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := adapter.FetchOrders(context.Background(), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, sync.ErrPlatformUnavailable)
}

func TestWooCommerceAdapter_PushTracking(t *testing.T) {
	var gotMethod, gotPath string
	var gotUpdate wooOrderUpdate

	adapter, _ := newWooTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotUpdate))
		w.Write([]byte(`{"id":1001}`))
	})

	err := adapter.PushTracking(context.Background(), "1001", "1Z999AA10123456784", "UPS")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/wp-json/wc/v3/orders/1001", gotPath)
	require.Len(t, gotUpdate.MetaData, 1)
	assert.Equal(t, wooTrackingMetaKey, gotUpdate.MetaData[0].Key)

	items, ok := gotUpdate.MetaData[0].Value.([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	entry := items[0].(map[string]any)
	assert.Equal(t, "1Z999AA10123456784", entry["tracking_number"])
	assert.Equal(t, "UPS", entry["tracking_provider"])
}

func TestWooCommerceAdapter_PushTracking_Failure(t *testing.T) {
	adapter, _ := newWooTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"woocommerce_rest_shop_order_invalid_id"}`, http.StatusNotFound)
	})

	err := adapter.PushTracking(context.Background(), "9999", "TRACK1", "DHL")
	require.Error(t, err)
	assert.ErrorIs(t, err, sync.ErrTrackingPushFailed)
}

func TestWooCommerceAdapter_TestConnection(t *testing.T) {
	adapter, _ := newWooTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wp-json/wc/v3/system_status", r.URL.Path)
		w.Write([]byte(`{"environment":{}}`))
	})

	assert.NoError(t, adapter.TestConnection(context.Background()))
}

func TestNewWooCommerceAdapter_InvalidConfig(t *testing.T) {
	_, err := NewWooCommerceAdapter(&WooCommerceConfig{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrWooConfigMissingBaseURL)
}
