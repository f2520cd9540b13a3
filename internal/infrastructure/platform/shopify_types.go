package platform

// Wire types for the Shopify Admin REST API. Monetary amounts come back
// as strings; timestamps as RFC 3339 with zone offsets. List responses
// wrap their payload in a single-key envelope.

type shopifyAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2"`
	City      string `json:"city"`
	Province  string `json:"province"`
	Zip       string `json:"zip"`
	Country   string `json:"country_code"`
	Phone     string `json:"phone"`
}

type shopifyLineItem struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

type shopifyShippingLine struct {
	Title string `json:"title"`
	Code  string `json:"code"`
	Price string `json:"price"`
}

type shopifyDiscountCode struct {
	Code   string `json:"code"`
	Amount string `json:"amount"`
}

type shopifyOrder struct {
	ID                int64                 `json:"id"`
	Name              string                `json:"name"`
	Email             string                `json:"email"`
	CreatedAt         string                `json:"created_at"`
	Note              string                `json:"note"`
	FinancialStatus   string                `json:"financial_status"`
	FulfillmentStatus string                `json:"fulfillment_status"`
	TotalPrice        string                `json:"total_price"`
	TotalTax          string                `json:"total_tax"`
	Gateway           string                `json:"gateway"`
	BillingAddress    *shopifyAddress       `json:"billing_address"`
	ShippingAddress   *shopifyAddress       `json:"shipping_address"`
	LineItems         []shopifyLineItem     `json:"line_items"`
	ShippingLines     []shopifyShippingLine `json:"shipping_lines"`
	DiscountCodes     []shopifyDiscountCode `json:"discount_codes"`
}

type shopifyOrdersResponse struct {
	Orders []shopifyOrder `json:"orders"`
}

type shopifyFulfillment struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

type shopifyFulfillmentsResponse struct {
	Fulfillments []shopifyFulfillment `json:"fulfillments"`
}

type shopifyFulfillmentEnvelope struct {
	Fulfillment shopifyFulfillmentUpdate `json:"fulfillment"`
}

type shopifyFulfillmentUpdate struct {
	ID             int64                `json:"id,omitempty"`
	NotifyCustomer bool                 `json:"notify_customer"`
	TrackingInfo   *shopifyTrackingInfo `json:"tracking_info,omitempty"`
}

type shopifyTrackingInfo struct {
	Number  string `json:"number"`
	Company string `json:"company"`
}

type shopifyFulfillmentCreated struct {
	Fulfillment shopifyFulfillment `json:"fulfillment"`
}
