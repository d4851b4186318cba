// AngelaMos | 2026
// filter.go

package property

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
)

const (
	relatedLimit  = 6
	featuredLimit = 15
)

type SearchParams struct {
	Location        string
	TransactionType string
	Type            string
	Furnishing      string
	Facing          string
	PropertyAge     string
	Bedrooms        *int
	Bathrooms       *int
	MaxPrice        *float64
}

// ParseSearchParams reads the search query string. Numbers that do not
// parse are ignored rather than rejected.
func ParseSearchParams(q url.Values) SearchParams {
	p := SearchParams{
		Location:        strings.TrimSpace(q.Get("location")),
		TransactionType: q.Get("transactionType"),
		Type:            q.Get("type"),
		Furnishing:      q.Get("furnishing"),
		Facing:          q.Get("facing"),
		PropertyAge:     q.Get("propertyAge"),
	}

	if n, err := strconv.Atoi(strings.TrimSpace(q.Get("bedrooms"))); err == nil {
		p.Bedrooms = &n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(q.Get("bathrooms"))); err == nil {
		p.Bathrooms = &n
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(q.Get("maxPrice")), 64); err == nil {
		p.MaxPrice = &f
	}

	return p
}

func (p SearchParams) Encode() url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("location", p.Location)
	set("transactionType", p.TransactionType)
	set("type", p.Type)
	set("furnishing", p.Furnishing)
	set("facing", p.Facing)
	set("propertyAge", p.PropertyAge)
	if p.Bedrooms != nil {
		q.Set("bedrooms", strconv.Itoa(*p.Bedrooms))
	}
	if p.Bathrooms != nil {
		q.Set("bathrooms", strconv.Itoa(*p.Bathrooms))
	}
	if p.MaxPrice != nil {
		q.Set("maxPrice", strconv.FormatFloat(*p.MaxPrice, 'f', -1, 64))
	}
	return q
}

// Filter turns the parameters into a WHERE clause. Age buckets are
// resolved to built_year ranges relative to now's calendar year.
func (p SearchParams) Filter(now time.Time) squirrel.And {
	filter := squirrel.And{}

	if p.Location != "" {
		filter = append(filter, squirrel.ILike{"city": "%" + escapeLike(p.Location) + "%"})
	}

	exact := []struct {
		column, value string
	}{
		{"transaction_type", p.TransactionType},
		{"type", p.Type},
		{"furnishing", p.Furnishing},
		{"facing", p.Facing},
	}
	for _, e := range exact {
		if e.value != "" {
			filter = append(filter, squirrel.Eq{e.column: e.value})
		}
	}

	if p.Bedrooms != nil {
		filter = append(filter, squirrel.GtOrEq{"bedrooms": *p.Bedrooms})
	}
	if p.Bathrooms != nil {
		filter = append(filter, squirrel.GtOrEq{"bathrooms": *p.Bathrooms})
	}
	if p.MaxPrice != nil {
		filter = append(filter, squirrel.LtOrEq{"price": *p.MaxPrice})
	}

	year := now.Year()
	switch p.PropertyAge {
	case ageNewLowered, AgeNew:
		filter = append(filter, squirrel.GtOrEq{"built_year": year - 1})
	case AgeUnderFive:
		filter = append(filter, squirrel.GtOrEq{"built_year": year - 5})
	case AgeFiveToTen:
		filter = append(filter,
			squirrel.GtOrEq{"built_year": year - 10},
			squirrel.LtOrEq{"built_year": year - 5},
		)
	case AgeOverTen:
		filter = append(filter, squirrel.LtOrEq{"built_year": year - 10})
	}

	return filter
}

// relatedFilter matches listings of the same kind, deal and city as p,
// narrowed by furnishing or land category when those say something.
func relatedFilter(p *Property) squirrel.And {
	filter := squirrel.And{
		squirrel.NotEq{"id": p.ID},
		squirrel.Eq{"type": string(p.Kind())},
		squirrel.Eq{"transaction_type": p.TransactionType},
		squirrel.Eq{"city": p.Location.City},
	}

	switch d := p.Details.(type) {
	case BuildingDetails:
		if d.Furnishing != "" && d.Furnishing != FurnishingNone {
			filter = append(filter, squirrel.Eq{"furnishing": d.Furnishing})
		}
	case LandDetails:
		if d.Category != "" {
			filter = append(filter, squirrel.Eq{"land_category": d.Category})
		}
	}

	return filter
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
