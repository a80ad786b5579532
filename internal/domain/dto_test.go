package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRFQItemInput_NormalizeItemID(t *testing.T) {
	id := uuid.New()
	other := uuid.New()

	t.Run("flat itemId", func(t *testing.T) {
		in := RFQItemInput{ItemID: &id}
		assert.Equal(t, id, in.NormalizeItemID())
	})

	t.Run("catalogItemId alias", func(t *testing.T) {
		in := RFQItemInput{CatalogItemID: &id}
		assert.Equal(t, id, in.NormalizeItemID())
	})

	t.Run("nested item reference", func(t *testing.T) {
		in := RFQItemInput{Item: &ExternalRef{ID: id}}
		assert.Equal(t, id, in.NormalizeItemID())
	})

	t.Run("itemId wins over aliases", func(t *testing.T) {
		in := RFQItemInput{ItemID: &id, CatalogItemID: &other, Item: &ExternalRef{ID: other}}
		assert.Equal(t, id, in.NormalizeItemID())
	})

	t.Run("no reference", func(t *testing.T) {
		in := RFQItemInput{Description: "unreferenced"}
		assert.Equal(t, uuid.Nil, in.NormalizeItemID())
	})
}

func TestRFQVendorInput_NormalizeVendorID(t *testing.T) {
	id := uuid.New()

	assert.Equal(t, id, (&RFQVendorInput{VendorID: &id}).NormalizeVendorID())
	assert.Equal(t, id, (&RFQVendorInput{SupplierID: &id}).NormalizeVendorID())
	assert.Equal(t, id, (&RFQVendorInput{Vendor: &ExternalRef{ID: id}}).NormalizeVendorID())
	assert.Equal(t, uuid.Nil, (&RFQVendorInput{}).NormalizeVendorID())
}

func TestRFQQuoteInput_Normalize(t *testing.T) {
	itemID := uuid.New()
	vendorID := uuid.New()

	in := RFQQuoteInput{
		CatalogItemID: &itemID,
		SupplierID:    &vendorID,
	}
	assert.Equal(t, itemID, in.NormalizeItemID())
	assert.Equal(t, vendorID, in.NormalizeVendorID())
}

func TestUpdateRFQRequest_DecodesAliasPayload(t *testing.T) {
	// The shape the vendor editing UI actually submits: supplierId instead of
	// vendorId, quotes nested per vendor, item references nested as objects.
	payload := `{
		"items": [
			{"catalogItemId": "11111111-1111-1111-1111-111111111111", "quantity": 2, "unitPrice": 10},
			{"item": {"id": "22222222-2222-2222-2222-222222222222"}, "quantity": 1, "unitPrice": 5}
		],
		"vendors": [
			{
				"supplierId": "33333333-3333-3333-3333-333333333333",
				"quotes": [
					{"itemId": "11111111-1111-1111-1111-111111111111", "unitPrice": 9.5, "isSelected": true}
				]
			}
		]
	}`

	var req UpdateRFQRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &req))

	require.Len(t, req.Items, 2)
	assert.Equal(t, uuid.MustParse("11111111-1111-1111-1111-111111111111"), req.Items[0].NormalizeItemID())
	assert.Equal(t, uuid.MustParse("22222222-2222-2222-2222-222222222222"), req.Items[1].NormalizeItemID())

	require.Len(t, req.Vendors, 1)
	assert.Equal(t, uuid.MustParse("33333333-3333-3333-3333-333333333333"), req.Vendors[0].NormalizeVendorID())
	require.Len(t, req.Vendors[0].Quotes, 1)
	assert.True(t, req.Vendors[0].Quotes[0].IsSelected)
	// a nested quote usually omits its vendor; flattening supplies it later
	assert.Equal(t, uuid.Nil, req.Vendors[0].Quotes[0].NormalizeVendorID())
}
