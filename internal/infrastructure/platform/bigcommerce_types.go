package platform

// Wire types for the BigCommerce Orders v2 API. Monetary amounts come
// back as strings; timestamps in RFC 1123 with a numeric zone.

type bcBillingAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Street1   string `json:"street_1"`
	Street2   string `json:"street_2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type bcOrder struct {
	ID                   int64            `json:"id"`
	Status               string           `json:"status"`
	DateCreated          string           `json:"date_created"`
	TotalIncTax          string           `json:"total_inc_tax"`
	TotalTax             string           `json:"total_tax"`
	ShippingCostIncTax   string           `json:"shipping_cost_inc_tax"`
	DiscountAmount       string           `json:"discount_amount"`
	CouponDiscount       string           `json:"coupon_discount"`
	PaymentMethod        string           `json:"payment_method"`
	CustomerMessage      string           `json:"customer_message"`
	ItemsTotal           int              `json:"items_total"`
	BillingAddress       bcBillingAddress `json:"billing_address"`
	ShippingAddressCount int              `json:"shipping_address_count"`
}

type bcOrderProduct struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
	BasePrice string `json:"base_price"`
}

type bcShippingAddress struct {
	ID             int64  `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Company        string `json:"company"`
	Street1        string `json:"street_1"`
	Street2        string `json:"street_2"`
	City           string `json:"city"`
	State          string `json:"state"`
	Zip            string `json:"zip"`
	Country        string `json:"country"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	ShippingMethod string `json:"shipping_method"`
	BaseCost       string `json:"base_cost"`
}

type bcShipmentItem struct {
	OrderProductID int64 `json:"order_product_id"`
	Quantity       int   `json:"quantity"`
}

// bcShipmentRequest is the POST /orders/{id}/shipments payload
type bcShipmentRequest struct {
	OrderAddressID   int64            `json:"order_address_id"`
	TrackingNumber   string           `json:"tracking_number"`
	ShippingProvider string           `json:"shipping_provider"`
	Items            []bcShipmentItem `json:"items"`
}
