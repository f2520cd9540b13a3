package platform

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oms/backend/internal/domain/sync"
)

// maxResponseSize limits response bodies to prevent memory exhaustion
const maxResponseSize = 10 * 1024 * 1024 // 10MB

// readResponse drains a platform response, translating non-2xx statuses
// into typed failures with a short body excerpt for the operator.
func readResponse(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", sync.ErrInvalidResponse, err)
	}

	if resp.StatusCode >= 400 {
		excerpt := string(body)
		if len(excerpt) > 200 {
			excerpt = excerpt[:200]
		}
		return nil, fmt.Errorf("%w: HTTP %d: %s", sync.ErrPlatformRequestFailed, resp.StatusCode, excerpt)
	}

	return body, nil
}

// parseAmount parses a platform-reported monetary string, treating
// blank or malformed values as zero rather than failing the order.
func parseAmount(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// parseAnyAmount parses an amount that may arrive as a JSON number or string
func parseAnyAmount(v any) decimal.Decimal {
	switch t := v.(type) {
	case string:
		return parseAmount(t)
	case float64:
		return decimal.NewFromFloat(t)
	default:
		return decimal.Zero
	}
}

// newHTTPClient builds the per-adapter client with the fixed call timeout
func newHTTPClient(timeoutSeconds int) *http.Client {
	return &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second}
}
