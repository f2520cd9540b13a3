package platform

import (
	"errors"
	"strings"
	"time"
)

// ShopifyConfig holds configuration for a remote Shopify store
type ShopifyConfig struct {
	// ShopDomain is the myshopify domain, e.g. acme.myshopify.com
	ShopDomain string
	// AccessToken is the Admin API access token (shpat_...)
	AccessToken string
	// APIVersion is the Admin API version segment
	APIVersion string
	// BaseURL overrides the API host, mainly for tests. Empty derives
	// the host from ShopDomain.
	BaseURL string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
	// MinimumDate is the earliest-eligible-order cutover boundary.
	// Zero value falls back to the built-in default.
	MinimumDate time.Time
}

// shopifyDefaultMinimumDate is the one-time cutover boundary for the
// remote Shopify store; orders created before it are never imported.
var shopifyDefaultMinimumDate = time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

const shopifyDefaultAPIVersion = "2023-10"

// Errors for Shopify configuration
var (
	ErrShopifyConfigMissingShopDomain  = errors.New("shopify: shop domain is required")
	ErrShopifyConfigMissingAccessToken = errors.New("shopify: access token is required")
)

// NewShopifyConfig creates a new Shopify configuration with defaults
func NewShopifyConfig(shopDomain, accessToken string) *ShopifyConfig {
	return &ShopifyConfig{
		ShopDomain:     shopDomain,
		AccessToken:    accessToken,
		APIVersion:     shopifyDefaultAPIVersion,
		TimeoutSeconds: 30,
		MinimumDate:    shopifyDefaultMinimumDate,
	}
}

// Validate validates the Shopify configuration and fills defaults
func (c *ShopifyConfig) Validate() error {
	if c.ShopDomain == "" {
		return ErrShopifyConfigMissingShopDomain
	}
	if c.AccessToken == "" {
		return ErrShopifyConfigMissingAccessToken
	}
	if c.APIVersion == "" {
		c.APIVersion = shopifyDefaultAPIVersion
	}
	if c.BaseURL == "" {
		c.BaseURL = "https://" + c.ShopDomain
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	if c.MinimumDate.IsZero() {
		c.MinimumDate = shopifyDefaultMinimumDate
	}
	return nil
}
