// Package field describes what a rendered step presents: an ordered set of
// typed input fields bound to form keys.
package field

import "github.com/wael7705/khawam-pro-sub000/schema"

// Kind is the input widget kind of a field.
type Kind string

const (
	KindNumber      Kind = "number"
	KindText        Kind = "text"
	KindTextArea    Kind = "textarea"
	KindPhone       Kind = "phone"
	KindSelect      Kind = "select"
	KindMultiSelect Kind = "multiselect"
	KindToggle      Kind = "toggle"
	KindFiles       Kind = "files"
	KindColors      Kind = "colors"
	KindLocation    Kind = "location"
	KindInfo        Kind = "info"
)

// Form keys shared by builders, validators and the submission assembler.
const (
	KeyQuantity       = "quantity"
	KeyFiles          = "files"
	KeyWidth          = "dimensions.width"
	KeyHeight         = "dimensions.height"
	KeyWidthUnit      = "dimensions.width_unit"
	KeyHeightUnit     = "dimensions.height_unit"
	KeyColors         = "colors"
	KeyPages          = "pages"
	KeyPrintColor     = "print.print_color"
	KeyQuality        = "print.quality"
	KeyPaperSize      = "print.paper_size"
	KeyPaperType      = "print.paper_type"
	KeyLamination     = "print.lamination"
	KeySides          = "print.sides"
	KeyCustomerName   = "customer.name"
	KeyCustomerPhone  = "customer.phone"
	KeyWhatsApp       = "customer.whatsapp"
	KeyShopName       = "customer.shop_name"
	KeyDeliveryType   = "delivery.type"
	KeyDeliveryPlace  = "delivery.location"
	KeyDeliveryNotes  = "delivery.notes"
	KeyNotes          = "notes"
	KeyInvoiceSummary = "invoice.summary"
)

// Option is one choice of a select field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field is one presented input.
type Field struct {
	Key      string   `json:"key"`
	Kind     Kind     `json:"kind"`
	Label    string   `json:"label"`
	Required bool     `json:"required,omitempty"`
	Options  []Option `json:"options,omitempty"`
	Value    any      `json:"value,omitempty"`
	Min      int      `json:"min,omitempty"`
	Hint     string   `json:"hint,omitempty"`
}

// Set is the field set presented for one step.
type Set struct {
	Step        int         `json:"step"`
	Type        schema.Type `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Fields      []Field     `json:"fields"`

	// Overridden is true when a service handler produced the set.
	Overridden bool `json:"overridden,omitempty"`
}

// NewSet returns an empty set titled after step.
func NewSet(step schema.Step) *Set {
	return &Set{
		Step:        step.Number,
		Type:        step.Type,
		Title:       step.Name,
		Description: step.Description,
	}
}

// Add appends fields and returns the set.
func (s *Set) Add(fields ...Field) *Set {
	s.Fields = append(s.Fields, fields...)
	return s
}

// Field returns the field bound to key.
func (s *Set) Field(key string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Has reports whether a field bound to key is presented.
func (s *Set) Has(key string) bool {
	_, ok := s.Field(key)
	return ok
}

// Options builds plain options whose label equals their value.
func Options(values ...string) []Option {
	out := make([]Option, 0, len(values))
	for _, v := range values {
		out = append(out, Option{Value: v, Label: v})
	}
	return out
}
