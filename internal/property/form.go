// AngelaMos | 2026
// form.go

package property

import (
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/ploteasy/ploteasy-api/internal/core"
)

const (
	existingImagesKey = "existingImages[]"
	newImagesKey      = "newImages"
	locationPrefix    = "location["
)

// UpdateForm is a parsed multipart edit of a listing. A nil value in
// Fields means the client sent "undefined" or "null" and the field is
// cleared.
type UpdateForm struct {
	Fields         map[string]*string
	Location       map[string]string
	ExistingImages []string
	NewImages      [][]byte
}

func ParseUpdateForm(r *http.Request, maxMemory int64) (*UpdateForm, error) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return nil, core.ValidationError("invalid multipart form")
	}

	form := &UpdateForm{
		Fields:   make(map[string]*string),
		Location: make(map[string]string),
	}

	for key, values := range r.MultipartForm.Value {
		switch {
		case key == existingImagesKey:
			for _, v := range values {
				if v = strings.TrimSpace(v); v != "" {
					form.ExistingImages = append(form.ExistingImages, v)
				}
			}
		case strings.HasPrefix(key, locationPrefix) && strings.HasSuffix(key, "]"):
			name := strings.TrimSuffix(strings.TrimPrefix(key, locationPrefix), "]")
			form.Location[name] = strings.TrimSpace(last(values))
		default:
			v := last(values)
			if v == "undefined" || v == "null" {
				form.Fields[key] = nil
				continue
			}
			form.Fields[key] = &v
		}
	}

	for _, fh := range r.MultipartForm.File[newImagesKey] {
		if fh.Size == 0 {
			continue
		}
		data, err := readPart(fh)
		if err != nil {
			return nil, err
		}
		form.NewImages = append(form.NewImages, data)
	}

	return form, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, core.ValidationError("could not read " + fh.Filename)
	}
	defer f.Close() //nolint:errcheck // read-only multipart part

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, core.ValidationError("could not read " + fh.Filename)
	}
	return data, nil
}

func last(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}

// draft is a listing flattened so that edits can move it between kinds.
type draft struct {
	Property
	kind         Kind
	landCategory string
	building     BuildingDetails
}

func newDraft(p Property) *draft {
	d := &draft{Property: p, kind: p.Kind()}
	switch det := p.Details.(type) {
	case LandDetails:
		d.landCategory = det.Category
	case BuildingDetails:
		d.building = det
	}
	return d
}

func (d *draft) property() *Property {
	p := d.Property
	switch d.kind {
	case KindLand:
		p.Details = LandDetails{Category: d.landCategory}
		p.Discount = 0
	case KindBuilding:
		p.Details = d.building
	default:
		p.Details = nil
	}
	return &p
}

// Apply merges the form over p and returns the edited listing. Images are
// replaced by the kept existing images; uploads are appended by the caller.
func (f *UpdateForm) Apply(p Property) (*Property, error) {
	d := newDraft(p)
	var errs []string

	for key, value := range f.Fields {
		if err := d.set(key, value); err != nil {
			errs = append(errs, err.Error())
		}
	}

	for key, value := range f.Location {
		if err := d.setLocation(key, value); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		slices.Sort(errs)
		return nil, core.ValidationError(strings.Join(errs, ", "))
	}

	d.Images = append([]string(nil), f.ExistingImages...)
	return d.property(), nil
}

func (d *draft) set(key string, value *string) error {
	s := ""
	if value != nil {
		s = strings.TrimSpace(*value)
	}

	switch key {
	case "title":
		d.Title = s
	case "username":
		d.Username = s
	case "contact":
		d.Contact = s
	case "address":
		d.Address = s
	case "description":
		d.Description = s
	case "type":
		d.kind = Kind(s)
	case "transactionType", "saleType":
		d.TransactionType = s
	case "areaUnit":
		d.AreaUnit = s
	case "facing":
		if s == FacingNotSpecified {
			s = ""
		}
		d.Facing = s
	case "isPremium":
		d.IsPremium = s == "true"
	case "price":
		return setFloat(key, s, &d.Price)
	case "discount":
		return setFloat(key, s, &d.Discount)
	case "area":
		return setFloat(key, s, &d.Area)
	case "landCategory":
		d.landCategory = s
	case "propertyAge":
		d.building.PropertyAge = s
	case "furnishing":
		d.building.Furnishing = s
	case "otherDetails":
		d.building.OtherDetails = s
	case "floors":
		return setCount(key, s, &d.building.Floors)
	case "parking":
		return setCount(key, s, &d.building.Parking)
	case "bedrooms":
		return setCount(key, s, &d.building.Bedrooms)
	case "bathrooms":
		return setCount(key, s, &d.building.Bathrooms)
	case "builtYear":
		return setCount(key, s, &d.building.BuiltYear)
	}
	return nil
}

func (d *draft) setLocation(key, value string) error {
	switch key {
	case "state":
		d.Location.State = value
	case "city":
		d.Location.City = value
	case "lat":
		return setOptionalFloat("location.lat", value, &d.Location.Lat)
	case "lng":
		return setOptionalFloat("location.lng", value, &d.Location.Lng)
	}
	return nil
}

func setFloat(key, s string, dst *float64) error {
	if s == "" {
		*dst = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%s must be a number", key)
	}
	*dst = f
	return nil
}

func setOptionalFloat(key, s string, dst **float64) error {
	if s == "" || s == "undefined" || s == "null" {
		*dst = nil
		return nil
	}
	var f float64
	if err := setFloat(key, s, &f); err != nil {
		return err
	}
	*dst = &f
	return nil
}

func setCount(key, s string, dst **int) error {
	if s == "" {
		*dst = nil
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%s must be a whole number", key)
	}
	n := int(f)
	*dst = &n
	return nil
}
