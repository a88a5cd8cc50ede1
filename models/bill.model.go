package models

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// BillProduct is one line of an emailed bill
type BillProduct struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// BillProducts decodes a JSON array of products. Any other JSON value
// (object, string, null) leaves the list empty instead of failing the request.
type BillProducts []BillProduct

// UnmarshalJSON implements json.Unmarshaler
func (p *BillProducts) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		*p = nil
		return nil
	}
	var products []BillProduct
	if err := json.Unmarshal(trimmed, &products); err != nil {
		return err
	}
	*p = products
	return nil
}

// BillRequest is the body of POST /send-bill
type BillRequest struct {
	Email       string          `json:"email"`
	Name        string          `json:"name"`
	Products    BillProducts    `json:"products"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}
