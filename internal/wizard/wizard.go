// AngelaMos | 2026
// wizard.go

package wizard

import (
	"errors"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ploteasy/ploteasy-api/internal/core"
	"github.com/ploteasy/ploteasy-api/internal/property"
)

type Step int

const (
	StepOwnerDetails Step = iota
	StepPropertyInfo
	StepUploadImages
	StepLocation
	StepReview
)

var stepNames = [...]string{
	StepOwnerDetails: "Owner Details",
	StepPropertyInfo: "Property Info",
	StepUploadImages: "Upload Images",
	StepLocation:     "Location",
	StepReview:       "Review & Submit",
}

func (s Step) String() string {
	if s < StepOwnerDetails || s > StepReview {
		return "Unknown"
	}
	return stepNames[s]
}

var (
	ErrLastStep  = errors.New("wizard: already at the review step")
	ErrNotReview = errors.New("wizard: submit is only allowed from the review step")
)

// stepFields names the struct fields each screen owns.
var stepFields = map[Step][]string{
	StepOwnerDetails: {"Username", "Contact"},
	StepPropertyInfo: {"Address", "Title", "Type", "SaleType", "Area", "AreaUnit", "Price"},
	StepUploadImages: {"Images"},
	StepLocation:     {"Location.State", "Location.City"},
}

var (
	optionalFields = []string{"Discount", "Facing", "IsPremium", "Description"}
	buildingFields = []string{
		"Floors", "Parking", "Bedrooms", "Bathrooms", "PropertyAge", "Furnishing",
	}
)

// Wizard walks a lister through the add-listing screens. It never moves
// forward past a screen whose fields do not validate.
type Wizard struct {
	Form Form

	step      Step
	validator *validator.Validate
}

func New() *Wizard {
	return &Wizard{
		Form:      defaultForm(),
		step:      StepOwnerDetails,
		validator: core.NewValidator(),
	}
}

func (w *Wizard) Step() Step {
	return w.step
}

// Progress is the share of the stepper line that is filled, 0 to 100.
func (w *Wizard) Progress() int {
	return int(w.step) * 100 / int(StepReview)
}

func (w *Wizard) Next() error {
	if w.step == StepReview {
		return ErrLastStep
	}
	if err := w.check(w.fieldsFor(w.step)); err != nil {
		return err
	}
	w.step++
	return nil
}

func (w *Wizard) Back() {
	if w.step > StepOwnerDetails {
		w.step--
	}
}

func (w *Wizard) AddImages(urls ...string) {
	w.Form.Images = append(w.Form.Images, urls...)
}

func (w *Wizard) RemoveImage(i int) {
	if i < 0 || i >= len(w.Form.Images) {
		return
	}
	w.Form.Images = slices.Delete(w.Form.Images, i, i+1)
}

// Submit validates every screen again and returns the create payload.
func (w *Wizard) Submit() (property.CreateRequest, error) {
	if w.step != StepReview {
		return property.CreateRequest{}, ErrNotReview
	}

	var fields []string
	for s := StepOwnerDetails; s < StepReview; s++ {
		fields = append(fields, w.fieldsFor(s)...)
	}
	fields = append(fields, optionalFields...)
	if !w.Form.isLand() {
		fields = append(fields, buildingFields...)
	}

	if err := w.check(fields); err != nil {
		return property.CreateRequest{}, err
	}
	return w.Form.payload(), nil
}

func (w *Wizard) fieldsFor(s Step) []string {
	fields := stepFields[s]
	if s == StepPropertyInfo && w.Form.isLand() {
		fields = append(slices.Clone(fields), "LandCategory")
	}
	return fields
}

func (w *Wizard) check(fields []string) error {
	var msgs []string

	if err := w.validator.StructPartial(w.Form, fields...); err != nil {
		msgs = append(msgs, core.FormatValidationError(err))
	}
	if slices.Contains(fields, "LandCategory") && w.Form.LandCategory == "" {
		msgs = append(msgs, "landCategory is required")
	}

	if len(msgs) > 0 {
		return core.ValidationError(strings.Join(msgs, ", "))
	}
	return nil
}
