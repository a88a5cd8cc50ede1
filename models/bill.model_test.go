package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillRequest_Unmarshal(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCount int
		wantTotal string
	}{
		{name: "numbers", body: `{"products":[{"name":"Rice","price":50},{"name":"Oil","price":120}],"totalAmount":170}`, wantCount: 2, wantTotal: "170"},
		{name: "numeric strings", body: `{"products":[{"name":"Tea","price":"12.50"}],"totalAmount":"12.50"}`, wantCount: 1, wantTotal: "12.5"},
		{name: "products missing", body: `{"totalAmount":1}`, wantCount: 0, wantTotal: "1"},
		{name: "products null", body: `{"products":null}`, wantCount: 0, wantTotal: "0"},
		{name: "products object", body: `{"products":{"name":"Rice"}}`, wantCount: 0, wantTotal: "0"},
		{name: "products string", body: `{"products":"Rice"}`, wantCount: 0, wantTotal: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req BillRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Len(t, req.Products, tt.wantCount)
			assert.Equal(t, tt.wantTotal, req.TotalAmount.String())
		})
	}
}

func TestBillRequest_UnmarshalBadProduct(t *testing.T) {
	var req BillRequest
	assert.Error(t, json.Unmarshal([]byte(`{"products":[{"name":"Rice","price":"cheap"}]}`), &req))
}
