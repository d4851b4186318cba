// AngelaMos | 2026
// dto.go

package property

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ploteasy/ploteasy-api/internal/user"
)

// FlexInt accepts 3 as well as "3"; listing forms post counts as text.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("not a whole number: %q", s)
		}
		*f = FlexInt(n)
		return nil
	}

	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexInt(n)
	return nil
}

func (f *FlexInt) intPtr() *int {
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}

type LocationRequest struct {
	State string   `json:"state"`
	City  string   `json:"city"`
	Lat   *float64 `json:"lat,omitempty"`
	Lng   *float64 `json:"lng,omitempty"`
}

// CreateRequest is the flat listing payload the add form posts. Pointer
// fields distinguish "absent" from a zero value.
type CreateRequest struct {
	Title           string           `json:"title"`
	Username        string           `json:"username"`
	Contact         string           `json:"contact"`
	Address         string           `json:"address"`
	Type            string           `json:"type"`
	SaleType        string           `json:"saleType"`
	TransactionType string           `json:"transactionType"`
	Price           *float64         `json:"price"`
	Discount        *float64         `json:"discount,omitempty"`
	Facing          string           `json:"facing,omitempty"`
	IsPremium       *bool            `json:"isPremium"`
	Area            *float64         `json:"area"`
	AreaUnit        string           `json:"areaUnit"`
	Location        *LocationRequest `json:"location"`
	Images          []string         `json:"images"`
	Description     string           `json:"description,omitempty"`
	LandCategory    string           `json:"landCategory,omitempty"`
	Floors          *FlexInt         `json:"floors,omitempty"`
	Parking         *FlexInt         `json:"parking,omitempty"`
	Bedrooms        *FlexInt         `json:"bedrooms,omitempty"`
	Bathrooms       *FlexInt         `json:"bathrooms,omitempty"`
	PropertyAge     string           `json:"propertyAge,omitempty"`
	Furnishing      string           `json:"furnishing,omitempty"`
	OtherDetails    string           `json:"otherDetails,omitempty"`
	BuiltYear       *FlexInt         `json:"builtYear,omitempty"`
}

func (r *CreateRequest) transaction() string {
	if r.TransactionType != "" {
		return r.TransactionType
	}
	return r.SaleType
}

// MissingFields lists the required fields the request does not carry.
func (r *CreateRequest) MissingFields() []string {
	var missing []string
	check := func(name string, present bool) {
		if !present {
			missing = append(missing, name)
		}
	}

	check("title", strings.TrimSpace(r.Title) != "")
	check("username", strings.TrimSpace(r.Username) != "")
	check("contact", strings.TrimSpace(r.Contact) != "")
	check("address", strings.TrimSpace(r.Address) != "")
	check("type", r.Type != "")
	check("transactionType", r.transaction() != "")
	check("area", r.Area != nil)
	check("areaUnit", r.AreaUnit != "")
	check("price", r.Price != nil)
	check("state", r.Location != nil && strings.TrimSpace(r.Location.State) != "")
	check("city", r.Location != nil && strings.TrimSpace(r.Location.City) != "")
	check("isPremium", r.IsPremium != nil)
	check("images", len(r.Images) > 0)
	if Kind(r.Type) == KindLand {
		check("landCategory", r.LandCategory != "")
	}

	return missing
}

// ToProperty builds the listing the request describes. Fields that belong
// to the other kind are dropped and "Not Specified" facing is not kept.
func (r *CreateRequest) ToProperty(ownerID string) *Property {
	p := &Property{
		Title:           strings.TrimSpace(r.Title),
		Username:        strings.TrimSpace(r.Username),
		Contact:         strings.TrimSpace(r.Contact),
		Address:         strings.TrimSpace(r.Address),
		TransactionType: r.transaction(),
		AreaUnit:        r.AreaUnit,
		Images:          r.Images,
		Description:     strings.TrimSpace(r.Description),
		CreatedBy:       ownerID,
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.Area != nil {
		p.Area = *r.Area
	}
	if r.IsPremium != nil {
		p.IsPremium = *r.IsPremium
	}
	if r.Facing != "" && r.Facing != FacingNotSpecified {
		p.Facing = r.Facing
	}
	if r.Location != nil {
		p.Location = Location{
			State: strings.TrimSpace(r.Location.State),
			City:  strings.TrimSpace(r.Location.City),
			Lat:   r.Location.Lat,
			Lng:   r.Location.Lng,
		}
	}

	switch Kind(r.Type) {
	case KindLand:
		p.Details = LandDetails{Category: r.LandCategory}
	case KindBuilding:
		if r.Discount != nil {
			p.Discount = *r.Discount
		}
		p.Details = BuildingDetails{
			Floors:       r.Floors.intPtr(),
			Parking:      r.Parking.intPtr(),
			Bedrooms:     r.Bedrooms.intPtr(),
			Bathrooms:    r.Bathrooms.intPtr(),
			PropertyAge:  r.PropertyAge,
			Furnishing:   r.Furnishing,
			OtherDetails: strings.TrimSpace(r.OtherDetails),
			BuiltYear:    r.BuiltYear.intPtr(),
		}
	}

	return p
}

type Response struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Username        string    `json:"username"`
	Contact         string    `json:"contact"`
	Address         string    `json:"address"`
	Type            Kind      `json:"type"`
	TransactionType string    `json:"transactionType"`
	Price           float64   `json:"price"`
	Discount        float64   `json:"discount"`
	Facing          string    `json:"facing"`
	IsPremium       bool      `json:"isPremium"`
	Area            float64   `json:"area"`
	AreaUnit        string    `json:"areaUnit"`
	Location        Location  `json:"location"`
	Images          []string  `json:"images"`
	Description     string    `json:"description,omitempty"`
	LandCategory    string    `json:"landCategory,omitempty"`
	Floors          *int      `json:"floors,omitempty"`
	Parking         *int      `json:"parking,omitempty"`
	Bedrooms        *int      `json:"bedrooms,omitempty"`
	Bathrooms       *int      `json:"bathrooms,omitempty"`
	PropertyAge     string    `json:"propertyAge,omitempty"`
	Furnishing      string    `json:"furnishing,omitempty"`
	OtherDetails    string    `json:"otherDetails,omitempty"`
	BuiltYear       *int      `json:"builtYear,omitempty"`
	CreatedBy       string    `json:"createdBy"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// DetailResponse is a listing with the public profile of its owner.
type DetailResponse struct {
	Property Response           `json:"property"`
	User     user.PublicProfile `json:"user"`
}

func ToResponse(p *Property) Response {
	facing := p.Facing
	if facing == "" {
		facing = FacingNotSpecified
	}

	resp := Response{
		ID:              p.ID,
		Title:           p.Title,
		Username:        p.Username,
		Contact:         p.Contact,
		Address:         p.Address,
		Type:            p.Kind(),
		TransactionType: p.TransactionType,
		Price:           p.Price,
		Discount:        p.Discount,
		Facing:          facing,
		IsPremium:       p.IsPremium,
		Area:            p.Area,
		AreaUnit:        p.AreaUnit,
		Location:        p.Location,
		Images:          p.Images,
		Description:     p.Description,
		CreatedBy:       p.CreatedBy,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}

	switch d := p.Details.(type) {
	case LandDetails:
		resp.LandCategory = d.Category
	case BuildingDetails:
		resp.Floors = d.Floors
		resp.Parking = d.Parking
		resp.Bedrooms = d.Bedrooms
		resp.Bathrooms = d.Bathrooms
		resp.PropertyAge = d.PropertyAge
		resp.Furnishing = d.Furnishing
		resp.OtherDetails = d.OtherDetails
		resp.BuiltYear = d.BuiltYear
	}

	return resp
}

func ToResponseList(ps []Property) []Response {
	out := make([]Response, 0, len(ps))
	for i := range ps {
		out = append(out, ToResponse(&ps[i]))
	}
	return out
}
