// AngelaMos | 2026
// dto_test.go

package property

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const buildingJSON = `{
	"title": "Sunny 3BHK",
	"username": "Priya",
	"contact": "+91 987-654-3210",
	"address": "12 MG Road",
	"type": "building",
	"saleType": "sale",
	"price": 7500000,
	"discount": 5,
	"facing": "Not Specified",
	"isPremium": false,
	"area": 1200,
	"areaUnit": "sqft",
	"location": {"state": "Maharashtra", "city": "Pune", "lat": 18.52, "lng": 73.85},
	"images": ["https://cdn.example.com/a.jpg"],
	"landCategory": "Agricultural",
	"bedrooms": "3",
	"bathrooms": 2,
	"floors": "",
	"propertyAge": "<5 Years",
	"furnishing": "Semi-furnished"
}`

func decodeCreate(t *testing.T, raw string) CreateRequest {
	t.Helper()
	var req CreateRequest
	require.NoError(t, json.Unmarshal([]byte(raw), &req))
	return req
}

func TestCreateRequestToBuilding(t *testing.T) {
	req := decodeCreate(t, buildingJSON)
	assert.Empty(t, req.MissingFields())

	p := req.ToProperty("owner-1")

	assert.Equal(t, KindBuilding, p.Kind())
	assert.Equal(t, "sale", p.TransactionType)
	assert.Empty(t, p.Facing)
	assert.InDelta(t, 5, p.Discount, 0.001)
	assert.Equal(t, "owner-1", p.CreatedBy)

	b, ok := p.Building()
	require.True(t, ok)
	require.NotNil(t, b.Bedrooms)
	assert.Equal(t, 3, *b.Bedrooms)
	assert.Equal(t, 2, *b.Bathrooms)
	assert.Equal(t, 0, *b.Floors)
	assert.Nil(t, b.Parking)

	resp := ToResponse(p)
	assert.Empty(t, resp.LandCategory)
	assert.Equal(t, FacingNotSpecified, resp.Facing)
}

func TestCreateRequestToLandStripsBuildingFields(t *testing.T) {
	req := decodeCreate(t, buildingJSON)
	req.Type = "land"

	p := req.ToProperty("owner-1")

	land, ok := p.Land()
	require.True(t, ok)
	assert.Equal(t, "Agricultural", land.Category)
	assert.Zero(t, p.Discount)

	resp := ToResponse(p)
	assert.Nil(t, resp.Bedrooms)
	assert.Empty(t, resp.Furnishing)
}

func TestCreateRequestMissingFields(t *testing.T) {
	req := decodeCreate(t, `{"type": "land", "price": 0, "location": {"state": "Goa"}}`)

	missing := req.MissingFields()

	assert.Contains(t, missing, "title")
	assert.Contains(t, missing, "transactionType")
	assert.Contains(t, missing, "city")
	assert.Contains(t, missing, "isPremium")
	assert.Contains(t, missing, "images")
	assert.Contains(t, missing, "landCategory")
	assert.NotContains(t, missing, "price")
	assert.NotContains(t, missing, "state")
}

func TestTransactionTypeWinsOverSaleType(t *testing.T) {
	req := CreateRequest{TransactionType: "rent", SaleType: "sale"}
	assert.Equal(t, "rent", req.transaction())
}

func TestFlexIntRejectsGarbage(t *testing.T) {
	var req CreateRequest
	err := json.Unmarshal([]byte(`{"bedrooms": "three"}`), &req)
	assert.Error(t, err)
}
