package models

// LineItem represents one named product in the cart
type LineItem struct {
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Weight float64 `json:"weight"`
}

// AddItemRequest is the body of POST /add-item
type AddItemRequest struct {
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Weight float64 `json:"weight"`
}

// DeleteItemRequest is the body of POST /delete-item
type DeleteItemRequest struct {
	Name string `json:"name"`
}

// CartResponse acknowledges a cart mutation and carries the updated cart
type CartResponse struct {
	Message  string     `json:"message"`
	Products []LineItem `json:"products"`
}

// MessageResponse is the body of plain acknowledgements and every error
type MessageResponse struct {
	Message string `json:"message"`
}
