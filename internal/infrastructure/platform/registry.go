package platform

import (
	"time"

	"go.uber.org/zap"

	"github.com/oms/backend/internal/domain/sync"
	"github.com/oms/backend/internal/infrastructure/config"
)

// BuildAdapters constructs an adapter per configured platform. Platforms
// without usable credentials are simply absent from the result; the
// orchestrator reports them as not configured.
func BuildAdapters(cfg *config.Config, logger *zap.Logger) ([]sync.PlatformAdapter, error) {
	timeoutSeconds := int(cfg.Sync.RequestTimeout / time.Second)
	adapters := make([]sync.PlatformAdapter, 0, 3)

	if cfg.WooCommerce.Configured() {
		wooCfg := NewWooCommerceConfig(cfg.WooCommerce.BaseURL, cfg.WooCommerce.ConsumerKey, cfg.WooCommerce.ConsumerSecret)
		wooCfg.TimeoutSeconds = timeoutSeconds
		if err := applyMinimumDate(&wooCfg.MinimumDate, cfg.WooCommerce.MinimumDate); err != nil {
			return nil, err
		}
		adapter, err := NewWooCommerceAdapter(wooCfg, logger)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, adapter)
	}

	if cfg.BigCommerce.Configured() {
		bcCfg := NewBigCommerceConfig(cfg.BigCommerce.StoreHash, cfg.BigCommerce.AccessToken)
		bcCfg.TimeoutSeconds = timeoutSeconds
		if err := applyMinimumDate(&bcCfg.MinimumDate, cfg.BigCommerce.MinimumDate); err != nil {
			return nil, err
		}
		adapter, err := NewBigCommerceAdapter(bcCfg, logger)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, adapter)
	}

	if cfg.Shopify.Configured() {
		shopCfg := NewShopifyConfig(cfg.Shopify.StoreName+".myshopify.com", cfg.Shopify.AccessToken)
		shopCfg.TimeoutSeconds = timeoutSeconds
		if err := applyMinimumDate(&shopCfg.MinimumDate, cfg.Shopify.MinimumDate); err != nil {
			return nil, err
		}
		adapter, err := NewShopifyAdapter(shopCfg, logger)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, adapter)
	}

	return adapters, nil
}

// applyMinimumDate overrides the built-in cutover floor when the
// operator configured one. Config validation already checked the format.
func applyMinimumDate(dst *time.Time, override string) error {
	if override == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, override)
	if err != nil {
		return err
	}
	*dst = parsed.UTC()
	return nil
}
