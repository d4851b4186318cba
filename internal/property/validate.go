// AngelaMos | 2026
// validate.go

package property

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ploteasy/ploteasy-api/internal/core"
)

type commonSchema struct {
	Title           string  `json:"title"           validate:"required,min=3,max=100"`
	Username        string  `json:"username"        validate:"required,min=2"`
	Contact         string  `json:"contact"         validate:"required,phone"`
	Address         string  `json:"address"         validate:"required,min=5"`
	Type            string  `json:"type"            validate:"required,oneof=land building"`
	TransactionType string  `json:"transactionType" validate:"required,oneof=sale rent"`
	Price           float64 `json:"price"           validate:"gte=0"`
	Discount        float64 `json:"discount"        validate:"gte=0,lte=100"`
	Facing          string  `json:"facing"          validate:"omitempty,oneof='Not Specified' North South East West North-East North-West South-East South-West"`
	Area            float64 `json:"area"            validate:"gte=0"`
	AreaUnit        string  `json:"areaUnit"        validate:"required,oneof=sqft sqyd sqm acres"`
	State           string  `json:"state"           validate:"required"`
	City            string  `json:"city"            validate:"required"`
}

type landSchema struct {
	LandCategory string `json:"landCategory" validate:"required,oneof=Agricultural Residential Commercial"`
}

type buildingSchema struct {
	Floors      *int   `json:"floors"      validate:"omitempty,gte=0"`
	Parking     *int   `json:"parking"     validate:"omitempty,gte=0"`
	Bedrooms    *int   `json:"bedrooms"    validate:"omitempty,gte=0"`
	Bathrooms   *int   `json:"bathrooms"   validate:"omitempty,gte=0"`
	PropertyAge string `json:"propertyAge" validate:"omitempty,oneof=New '<5 Years' '5-10 Years' '>10 Years'"`
	Furnishing  string `json:"furnishing"  validate:"omitempty,oneof=Unfurnished Semi-furnished Fully-furnished"`
	BuiltYear   *int   `json:"builtYear"   validate:"omitempty,gte=1800,lte=3000"`
}

// Validator checks a complete listing against the stored schema.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{v: core.NewValidator()}
}

// Validate reports every problem at once, joined into one message.
func (pv *Validator) Validate(p *Property) error {
	var msgs []string

	collect := func(s any) {
		if err := pv.v.Struct(s); err != nil {
			msgs = append(msgs, core.FormatValidationError(err))
		}
	}

	collect(commonSchema{
		Title:           p.Title,
		Username:        p.Username,
		Contact:         p.Contact,
		Address:         p.Address,
		Type:            string(p.Kind()),
		TransactionType: p.TransactionType,
		Price:           p.Price,
		Discount:        p.Discount,
		Facing:          p.Facing,
		Area:            p.Area,
		AreaUnit:        p.AreaUnit,
		State:           p.Location.State,
		City:            p.Location.City,
	})

	switch d := p.Details.(type) {
	case LandDetails:
		collect(landSchema{LandCategory: d.Category})
	case BuildingDetails:
		collect(buildingSchema{
			Floors:      d.Floors,
			Parking:     d.Parking,
			Bedrooms:    d.Bedrooms,
			Bathrooms:   d.Bathrooms,
			PropertyAge: d.PropertyAge,
			Furnishing:  d.Furnishing,
			BuiltYear:   d.BuiltYear,
		})
	}

	if len(p.Images) == 0 {
		msgs = append(msgs, "at least one image is required")
	}
	for _, img := range p.Images {
		if strings.TrimSpace(img) == "" {
			msgs = append(msgs, "images must not contain empty entries")
			break
		}
	}

	if len(msgs) > 0 {
		return core.ValidationError(strings.Join(msgs, ", "))
	}
	return nil
}
