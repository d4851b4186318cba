// AngelaMos | 2026
// row.go

package property

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

var propertyColumns = []string{
	"id", "title", "username", "contact", "address", "type",
	"transaction_type", "price", "discount", "facing", "is_premium", "area",
	"area_unit", "state", "city", "lat", "lng", "images", "description",
	"land_category", "floors", "parking", "bedrooms", "bathrooms",
	"property_age", "furnishing", "other_details", "built_year",
	"created_by", "created_at", "updated_at",
}

// propertyRow is the flat table shape of a listing. Variant columns are
// NULL for the kind that does not use them.
type propertyRow struct {
	ID              string          `db:"id"`
	Title           string          `db:"title"`
	Username        string          `db:"username"`
	Contact         string          `db:"contact"`
	Address         string          `db:"address"`
	Type            string          `db:"type"`
	TransactionType string          `db:"transaction_type"`
	Price           float64         `db:"price"`
	Discount        float64         `db:"discount"`
	Facing          string          `db:"facing"`
	IsPremium       bool            `db:"is_premium"`
	Area            float64         `db:"area"`
	AreaUnit        string          `db:"area_unit"`
	State           string          `db:"state"`
	City            string          `db:"city"`
	Lat             sql.NullFloat64 `db:"lat"`
	Lng             sql.NullFloat64 `db:"lng"`
	Images          pq.StringArray  `db:"images"`
	Description     string          `db:"description"`
	LandCategory    sql.NullString  `db:"land_category"`
	Floors          sql.NullInt64   `db:"floors"`
	Parking         sql.NullInt64   `db:"parking"`
	Bedrooms        sql.NullInt64   `db:"bedrooms"`
	Bathrooms       sql.NullInt64   `db:"bathrooms"`
	PropertyAge     sql.NullString  `db:"property_age"`
	Furnishing      sql.NullString  `db:"furnishing"`
	OtherDetails    sql.NullString  `db:"other_details"`
	BuiltYear       sql.NullInt64   `db:"built_year"`
	CreatedBy       string          `db:"created_by"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

func (r *propertyRow) toProperty() Property {
	p := Property{
		ID:              r.ID,
		Title:           r.Title,
		Username:        r.Username,
		Contact:         r.Contact,
		Address:         r.Address,
		TransactionType: r.TransactionType,
		Price:           r.Price,
		Discount:        r.Discount,
		Facing:          r.Facing,
		IsPremium:       r.IsPremium,
		Area:            r.Area,
		AreaUnit:        r.AreaUnit,
		Location: Location{
			State: r.State,
			City:  r.City,
			Lat:   nullFloat(r.Lat),
			Lng:   nullFloat(r.Lng),
		},
		Images:      []string(r.Images),
		Description: r.Description,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if p.Facing == FacingNotSpecified {
		p.Facing = ""
	}

	switch Kind(r.Type) {
	case KindLand:
		p.Details = LandDetails{Category: r.LandCategory.String}
	case KindBuilding:
		p.Details = BuildingDetails{
			Floors:       nullInt(r.Floors),
			Parking:      nullInt(r.Parking),
			Bedrooms:     nullInt(r.Bedrooms),
			Bathrooms:    nullInt(r.Bathrooms),
			PropertyAge:  r.PropertyAge.String,
			Furnishing:   r.Furnishing.String,
			OtherDetails: r.OtherDetails.String,
			BuiltYear:    nullInt(r.BuiltYear),
		}
	}

	return p
}

// columnValues maps a listing onto its writable columns. The variant not
// in use is written as NULL, which strips stale fields on a kind change.
func columnValues(p *Property) map[string]any {
	facing := p.Facing
	if facing == "" {
		facing = FacingNotSpecified
	}

	values := map[string]any{
		"title":            p.Title,
		"username":         p.Username,
		"contact":          p.Contact,
		"address":          p.Address,
		"type":             string(p.Kind()),
		"transaction_type": p.TransactionType,
		"price":            p.Price,
		"discount":         p.Discount,
		"facing":           facing,
		"is_premium":       p.IsPremium,
		"area":             p.Area,
		"area_unit":        p.AreaUnit,
		"state":            p.Location.State,
		"city":             p.Location.City,
		"lat":              toNullFloat(p.Location.Lat),
		"lng":              toNullFloat(p.Location.Lng),
		"images":           pq.StringArray(p.Images),
		"description":      p.Description,
		"land_category":    sql.NullString{},
		"floors":           sql.NullInt64{},
		"parking":          sql.NullInt64{},
		"bedrooms":         sql.NullInt64{},
		"bathrooms":        sql.NullInt64{},
		"property_age":     sql.NullString{},
		"furnishing":       sql.NullString{},
		"other_details":    sql.NullString{},
		"built_year":       sql.NullInt64{},
	}

	switch d := p.Details.(type) {
	case LandDetails:
		values["land_category"] = toNullString(d.Category)
	case BuildingDetails:
		values["floors"] = toNullInt(d.Floors)
		values["parking"] = toNullInt(d.Parking)
		values["bedrooms"] = toNullInt(d.Bedrooms)
		values["bathrooms"] = toNullInt(d.Bathrooms)
		values["property_age"] = toNullString(d.PropertyAge)
		values["furnishing"] = toNullString(d.Furnishing)
		values["other_details"] = toNullString(d.OtherDetails)
		values["built_year"] = toNullInt(d.BuiltYear)
	}

	return values
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func toNullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func toNullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
