// AngelaMos | 2026
// entity.go

package property

import (
	"time"
)

type Kind string

const (
	KindLand     Kind = "land"
	KindBuilding Kind = "building"
)

const (
	TransactionSale = "sale"
	TransactionRent = "rent"
)

const (
	FacingNotSpecified = "Not Specified"
	FurnishingNone     = "Unfurnished"
)

const (
	AgeNew        = "New"
	AgeUnderFive  = "<5 Years"
	AgeFiveToTen  = "5-10 Years"
	AgeOverTen    = ">10 Years"
	ageNewLowered = "new"
)

type Location struct {
	State string   `json:"state"`
	City  string   `json:"city"`
	Lat   *float64 `json:"lat,omitempty"`
	Lng   *float64 `json:"lng,omitempty"`
}

// Details holds the fields that exist only for one kind of listing.
type Details interface {
	Kind() Kind
}

type LandDetails struct {
	Category string
}

func (LandDetails) Kind() Kind { return KindLand }

type BuildingDetails struct {
	Floors       *int
	Parking      *int
	Bedrooms     *int
	Bathrooms    *int
	PropertyAge  string
	Furnishing   string
	OtherDetails string
	BuiltYear    *int
}

func (BuildingDetails) Kind() Kind { return KindBuilding }

type Property struct {
	ID              string
	Title           string
	Username        string
	Contact         string
	Address         string
	TransactionType string
	Price           float64
	Discount        float64
	Facing          string
	IsPremium       bool
	Area            float64
	AreaUnit        string
	Location        Location
	Images          []string
	Description     string
	Details         Details
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (p *Property) Kind() Kind {
	if p.Details == nil {
		return ""
	}
	return p.Details.Kind()
}

func (p *Property) Land() (LandDetails, bool) {
	d, ok := p.Details.(LandDetails)
	return d, ok
}

func (p *Property) Building() (BuildingDetails, bool) {
	d, ok := p.Details.(BuildingDetails)
	return d, ok
}
