package models

import "strings"

// Order statuses used by the backend.
const (
	OrderPending    = "Pending"
	OrderProcessing = "Processing"
	OrderShipped    = "Shipped"
	OrderDelivered  = "Delivered"
	OrderCancelled  = "Cancelled"
)

// OrderStatuses lists every status an admin may set.
var OrderStatuses = []string{OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled}

// IsTerminalStatus reports whether no further status changes are expected.
func IsTerminalStatus(status string) bool {
	return strings.EqualFold(status, OrderDelivered) || strings.EqualFold(status, OrderCancelled)
}

// ValidOrderStatus matches status against OrderStatuses case-insensitively
// and returns the canonical spelling.
func ValidOrderStatus(status string) (string, bool) {
	for _, s := range OrderStatuses {
		if strings.EqualFold(s, status) {
			return s, true
		}
	}
	return "", false
}

type Order struct {
	OrderID        int         `json:"orderId"`
	OrderNumber    string      `json:"orderNumber"`
	UserID         int         `json:"userId"`
	SubTotal       float64     `json:"subTotal"`
	ShippingCost   float64     `json:"shippingCost"`
	Tax            float64     `json:"tax"`
	DiscountAmount float64     `json:"discountAmount"`
	TotalAmount    float64     `json:"totalAmount"`
	OrderStatus    string      `json:"orderStatus"`
	PaymentStatus  string      `json:"paymentStatus,omitempty"`
	Notes          string      `json:"notes,omitempty"`
	OrderDate      string      `json:"orderDate,omitempty"`
	OrderItems     []OrderItem `json:"orderItems,omitempty"`
}

type OrderItem struct {
	OrderItemID int     `json:"orderItemId"`
	OrderID     int     `json:"orderId"`
	ProductID   int     `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
}

type CreateOrderRequest struct {
	ShippingAddressID int    `json:"shippingAddressId"`
	BillingAddressID  int    `json:"billingAddressId"`
	PromoCode         string `json:"promoCode,omitempty"`
	Notes             string `json:"notes,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// OrderStatistics is decoded loosely, the backend has changed its shape over time.
type OrderStatistics map[string]any

// DashboardStats backs the admin overview.
type DashboardStats map[string]any

// AdminOrder is a row of the admin recent orders listing.
type AdminOrder map[string]any

// TopProduct is a row of the admin top products listing.
type TopProduct map[string]any
