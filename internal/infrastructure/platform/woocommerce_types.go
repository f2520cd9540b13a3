package platform

// Wire types for the WooCommerce REST API (wc/v3). Monetary amounts come
// back as strings; timestamps as naive UTC ("2006-01-02T15:04:05") in
// the *_gmt variants.

type wooAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type wooLineItem struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
	Price    any    `json:"price"` // number in v3, string in some builds
	Total    string `json:"total"`
}

type wooShippingLine struct {
	MethodTitle string `json:"method_title"`
	MethodID    string `json:"method_id"`
	Total       string `json:"total"`
}

type wooFeeLine struct {
	Name  string `json:"name"`
	Total string `json:"total"`
}

type wooCouponLine struct {
	Code     string `json:"code"`
	Discount string `json:"discount"`
}

type wooOrder struct {
	ID                 int64             `json:"id"`
	Number             string            `json:"number"`
	Status             string            `json:"status"`
	DateCreatedGMT     string            `json:"date_created_gmt"`
	Total              string            `json:"total"`
	TotalTax           string            `json:"total_tax"`
	ShippingTotal      string            `json:"shipping_total"`
	PaymentMethodTitle string            `json:"payment_method_title"`
	CustomerNote       string            `json:"customer_note"`
	Billing            wooAddress        `json:"billing"`
	Shipping           wooAddress        `json:"shipping"`
	LineItems          []wooLineItem     `json:"line_items"`
	ShippingLines      []wooShippingLine `json:"shipping_lines"`
	FeeLines           []wooFeeLine      `json:"fee_lines"`
	CouponLines        []wooCouponLine   `json:"coupon_lines"`
}

// wooTrackingItem mirrors the WooCommerce Shipment Tracking plugin's
// meta schema so the store's plugin picks the entry up.
type wooTrackingItem struct {
	TrackingProvider string `json:"tracking_provider"`
	TrackingNumber   string `json:"tracking_number"`
	DateShipped      int64  `json:"date_shipped"`
}

type wooMetaData struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type wooOrderUpdate struct {
	MetaData []wooMetaData `json:"meta_data"`
}
