package controllers

import (
	"errors"
	"log"
	"net/http"

	"smartwiz/cart"
	"smartwiz/models"
)

// CartController handles cart-related requests
type CartController struct {
	Store  *cart.Store
	Logger *log.Logger
}

// NewCartController creates a new CartController
func NewCartController(store *cart.Store, logger *log.Logger) *CartController {
	return &CartController{
		Store:  store,
		Logger: logger,
	}
}

// AddItem adds a product to the shared cart
func (cc *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	var req models.AddItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	products, err := cc.Store.Add(req.Name, req.Price, req.Weight)
	switch {
	case errors.Is(err, cart.ErrDuplicateItem):
		writeMessage(w, statusFor(err), "Product already exists in the cart.")
		return
	case errors.Is(err, cart.ErrInvalidItem):
		writeMessage(w, statusFor(err), "Product name is required.")
		return
	case err != nil:
		cc.Logger.Printf("add item %q: %v", req.Name, err)
		writeMessage(w, statusFor(err), "Failed to add product.")
		return
	}

	writeJSON(w, http.StatusOK, models.CartResponse{
		Message:  "Product added successfully.",
		Products: products,
	})
}

// DeleteItem removes a product from the shared cart by name
func (cc *CartController) DeleteItem(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	products, err := cc.Store.Remove(req.Name)
	if errors.Is(err, cart.ErrNotFound) {
		writeMessage(w, statusFor(err), "Product not found.")
		return
	}
	if err != nil {
		cc.Logger.Printf("delete item %q: %v", req.Name, err)
		writeMessage(w, statusFor(err), "Failed to delete product.")
		return
	}

	writeJSON(w, http.StatusOK, models.CartResponse{
		Message:  "Product deleted successfully.",
		Products: products,
	})
}

// GetItems returns the cart
func (cc *CartController) GetItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, cc.Store.List())
}
