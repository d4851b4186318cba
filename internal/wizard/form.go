// AngelaMos | 2026
// form.go

package wizard

import (
	"github.com/ploteasy/ploteasy-api/internal/property"
)

const (
	PremiumYes = "yes"
	PremiumNo  = "no"
)

// DefaultLocation is where the map pin starts before the lister moves it.
var DefaultLocation = Location{Lat: 17.385044, Lng: 78.486671}

type Location struct {
	State string  `json:"state" validate:"required"`
	City  string  `json:"city"  validate:"required"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

// Form is everything the five screens collect. Counts are pointers so an
// untouched input stays absent in the payload.
type Form struct {
	Username string `json:"username" validate:"required,min=2"`
	Contact  string `json:"contact"  validate:"required,phone"`

	Address      string   `json:"address"      validate:"required,min=5"`
	Title        string   `json:"title"        validate:"required,min=3,max=100"`
	Type         string   `json:"type"         validate:"required,oneof=land building"`
	SaleType     string   `json:"saleType"     validate:"required,oneof=sale rent"`
	Area         *float64 `json:"area"         validate:"required,gte=0"`
	AreaUnit     string   `json:"areaUnit"     validate:"required,oneof=sqft sqyd sqm acres"`
	Price        *float64 `json:"price"        validate:"required,gte=0"`
	Discount     *float64 `json:"discount"     validate:"omitempty,gte=0,lte=100"`
	Facing       string   `json:"facing"       validate:"omitempty,oneof='Not Specified' North South East West North-East North-West South-East South-West"`
	IsPremium    string   `json:"isPremium"    validate:"omitempty,oneof=yes no"`
	Description  string   `json:"description"`
	LandCategory string   `json:"landCategory" validate:"omitempty,oneof=Agricultural Residential Commercial"`

	Floors       *int   `json:"floors"       validate:"omitempty,gte=0"`
	Parking      *int   `json:"parking"      validate:"omitempty,gte=0"`
	Bedrooms     *int   `json:"bedrooms"     validate:"omitempty,gte=0"`
	Bathrooms    *int   `json:"bathrooms"    validate:"omitempty,gte=0"`
	PropertyAge  string `json:"propertyAge"  validate:"omitempty,oneof=New '<5 Years' '5-10 Years' '>10 Years'"`
	Furnishing   string `json:"furnishing"   validate:"omitempty,oneof=Unfurnished Semi-furnished Fully-furnished"`
	OtherDetails string `json:"otherDetails"`

	Images []string `json:"images" validate:"min=1"`

	Location Location `json:"location"`
}

func defaultForm() Form {
	return Form{
		Type:      string(property.KindLand),
		SaleType:  property.TransactionSale,
		AreaUnit:  "sqft",
		IsPremium: PremiumNo,
		Facing:    property.FacingNotSpecified,
		Images:    []string{},
		Location:  DefaultLocation,
	}
}

func (f *Form) isLand() bool {
	return f.Type == string(property.KindLand)
}

// payload assembles the create request. Fields of the other kind are left
// out and an unspecified facing is sent as empty.
func (f *Form) payload() property.CreateRequest {
	premium := f.IsPremium == PremiumYes

	req := property.CreateRequest{
		Title:       f.Title,
		Username:    f.Username,
		Contact:     f.Contact,
		Address:     f.Address,
		Type:        f.Type,
		SaleType:    f.SaleType,
		Price:       f.Price,
		Discount:    f.Discount,
		IsPremium:   &premium,
		Area:        f.Area,
		AreaUnit:    f.AreaUnit,
		Images:      append([]string(nil), f.Images...),
		Description: f.Description,
		Location: &property.LocationRequest{
			State: f.Location.State,
			City:  f.Location.City,
			Lat:   &f.Location.Lat,
			Lng:   &f.Location.Lng,
		},
	}
	if f.Facing != property.FacingNotSpecified {
		req.Facing = f.Facing
	}

	if f.isLand() {
		req.LandCategory = f.LandCategory
		req.Discount = nil
		return req
	}

	req.Floors = flex(f.Floors)
	req.Parking = flex(f.Parking)
	req.Bedrooms = flex(f.Bedrooms)
	req.Bathrooms = flex(f.Bathrooms)
	req.PropertyAge = f.PropertyAge
	req.Furnishing = f.Furnishing
	req.OtherDetails = f.OtherDetails
	return req
}

func flex(n *int) *property.FlexInt {
	if n == nil {
		return nil
	}
	v := property.FlexInt(*n)
	return &v
}
