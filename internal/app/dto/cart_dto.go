package dto

// AddToCartRequest represents POST /cart/items
type AddToCartRequest struct {
	ProductID string `json:"productId"`
}

// UpdateCartItemRequest represents PUT /cart/items/{id}
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartLine is one cart entry joined with its current product
type CartLine struct {
	ProductID string           `json:"productId"`
	Quantity  int              `json:"quantity"`
	Product   *ProductResponse `json:"product"`
	Subtotal  int64            `json:"subtotal"`
}

// CartDetails is the priced view of the cart
type CartDetails struct {
	Items     []CartLine `json:"items"`
	Total     int64      `json:"total"`
	ItemCount int        `json:"itemCount"`
}

// AddToCartResponse reports whether the add changed the cart
type AddToCartResponse struct {
	Added bool         `json:"added"`
	Cart  *CartDetails `json:"cart"`
}
