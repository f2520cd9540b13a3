package platform

import (
	"errors"
	"strings"
	"time"
)

// BigCommerceConfig holds configuration for a remote BigCommerce store
type BigCommerceConfig struct {
	// StoreHash identifies the store on api.bigcommerce.com
	StoreHash string
	// AccessToken is the API account access token (X-Auth-Token)
	AccessToken string
	// BaseURL overrides the API host, mainly for tests. Empty uses the
	// public BigCommerce API host.
	BaseURL string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
	// MinimumDate is the earliest-eligible-order cutover boundary.
	// Zero value falls back to the built-in default.
	MinimumDate time.Time
}

// bigCommerceDefaultMinimumDate is the one-time cutover boundary for the
// remote BigCommerce store; orders created before it are never imported.
var bigCommerceDefaultMinimumDate = time.Date(2023, time.November, 15, 0, 0, 0, 0, time.UTC)

// Errors for BigCommerce configuration
var (
	ErrBigCommerceConfigMissingStoreHash   = errors.New("bigcommerce: store hash is required")
	ErrBigCommerceConfigMissingAccessToken = errors.New("bigcommerce: access token is required")
)

// NewBigCommerceConfig creates a new BigCommerce configuration with defaults
func NewBigCommerceConfig(storeHash, accessToken string) *BigCommerceConfig {
	return &BigCommerceConfig{
		StoreHash:      storeHash,
		AccessToken:    accessToken,
		TimeoutSeconds: 30,
		MinimumDate:    bigCommerceDefaultMinimumDate,
	}
}

// Validate validates the BigCommerce configuration and fills defaults
func (c *BigCommerceConfig) Validate() error {
	if c.StoreHash == "" {
		return ErrBigCommerceConfigMissingStoreHash
	}
	if c.AccessToken == "" {
		return ErrBigCommerceConfigMissingAccessToken
	}
	if c.BaseURL == "" {
		c.BaseURL = "https://api.bigcommerce.com"
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	if c.MinimumDate.IsZero() {
		c.MinimumDate = bigCommerceDefaultMinimumDate
	}
	return nil
}
