package models

// Cart holds the line items for the signed-in user.
type Cart struct {
	CartID    int        `json:"cartId"`
	UserID    int        `json:"userId"`
	CartItems []CartItem `json:"cartItems"`
	CreatedAt string     `json:"createdAt,omitempty"`
	UpdatedAt string     `json:"updatedAt,omitempty"`
}

type CartItem struct {
	CartItemID int          `json:"cartItemId"`
	CartID     int          `json:"cartId"`
	ProductID  int          `json:"productId"`
	Quantity   int          `json:"quantity"`
	Price      float64      `json:"price"`
	Product    *CartProduct `json:"product,omitempty"`
	AddedAt    string       `json:"addedAt,omitempty"`
}

// CartProduct is the product summary embedded in a cart item.
type CartProduct struct {
	ProductID     int            `json:"productId"`
	Name          string         `json:"name"`
	Slug          string         `json:"slug"`
	Price         float64        `json:"price"`
	StockQuantity int            `json:"stockQuantity"`
	ProductImages []ProductImage `json:"productImages,omitempty"`
}

// Name returns the product name, empty when the product was not embedded.
func (i CartItem) Name() string {
	if i.Product != nil && i.Product.Name != "" {
		return i.Product.Name
	}
	return ""
}

// UnitPrice prefers the price captured on the item over the live product price.
func (i CartItem) UnitPrice() float64 {
	if i.Price > 0 || i.Product == nil {
		return i.Price
	}
	return i.Product.Price
}

// LineTotal is unit price times quantity.
func (i CartItem) LineTotal() float64 {
	return i.UnitPrice() * float64(i.Quantity)
}

// Subtotal sums the line totals.
func (c *Cart) Subtotal() float64 {
	if c == nil {
		return 0
	}
	var total float64
	for _, item := range c.CartItems {
		total += item.LineTotal()
	}
	return total
}

// Quantity sums item quantities.
func (c *Cart) Quantity() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, item := range c.CartItems {
		n += item.Quantity
	}
	return n
}

// Empty reports whether the cart has no items.
func (c *Cart) Empty() bool {
	return c == nil || len(c.CartItems) == 0
}

type AddCartItemRequest struct {
	UserID    int `json:"userId,omitempty"`
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}
