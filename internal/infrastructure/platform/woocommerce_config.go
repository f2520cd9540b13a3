package platform

import (
	"errors"
	"strings"
	"time"
)

// WooCommerceConfig holds configuration for a remote WooCommerce store
type WooCommerceConfig struct {
	// BaseURL is the store root, e.g. https://shop.example.com
	BaseURL string
	// ConsumerKey is the REST API consumer key (ck_...)
	ConsumerKey string
	// ConsumerSecret is the REST API consumer secret (cs_...)
	ConsumerSecret string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
	// MinimumDate is the earliest-eligible-order cutover boundary.
	// Zero value falls back to the built-in default.
	MinimumDate time.Time
}

// wooCommerceDefaultMinimumDate is the one-time cutover boundary for the
// remote WooCommerce store; orders created before it are never imported.
var wooCommerceDefaultMinimumDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Errors for WooCommerce configuration
var (
	ErrWooConfigMissingBaseURL        = errors.New("woocommerce: base URL is required")
	ErrWooConfigMissingConsumerKey    = errors.New("woocommerce: consumer key is required")
	ErrWooConfigMissingConsumerSecret = errors.New("woocommerce: consumer secret is required")
)

// NewWooCommerceConfig creates a new WooCommerce configuration with defaults
func NewWooCommerceConfig(baseURL, consumerKey, consumerSecret string) *WooCommerceConfig {
	return &WooCommerceConfig{
		BaseURL:        strings.TrimRight(baseURL, "/"),
		ConsumerKey:    consumerKey,
		ConsumerSecret: consumerSecret,
		TimeoutSeconds: 30,
		MinimumDate:    wooCommerceDefaultMinimumDate,
	}
}

// Validate validates the WooCommerce configuration and fills defaults
func (c *WooCommerceConfig) Validate() error {
	if c.BaseURL == "" {
		return ErrWooConfigMissingBaseURL
	}
	if c.ConsumerKey == "" {
		return ErrWooConfigMissingConsumerKey
	}
	if c.ConsumerSecret == "" {
		return ErrWooConfigMissingConsumerSecret
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	if c.MinimumDate.IsZero() {
		c.MinimumDate = wooCommerceDefaultMinimumDate
	}
	return nil
}
