package navigator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/wael7705/khawam-pro-sub000/field"
	"github.com/wael7705/khawam-pro-sub000/form"
	"github.com/wael7705/khawam-pro-sub000/schema"
)

const minPhoneDigits = 7

// Validate applies the generic required-field rule of step's type to st.
// Files are required when the step config says so or when fam requires
// them for every service in the family.
func Validate(step schema.Step, fam schema.Family, st *form.Store) error {
	switch c := step.Typed().(type) {
	case schema.QuantityConfig:
		q := st.Quantity()
		if q < max(c.Min, 1) {
			return invalid(step, field.KeyQuantity, fmt.Sprintf("must be at least %d", max(c.Min, 1)))
		}
		if c.Max > 0 && q > c.Max {
			return invalid(step, field.KeyQuantity, fmt.Sprintf("must be at most %d", c.Max))
		}

	case schema.FilesConfig:
		n := len(st.Files())
		if (c.Required || fam.RequireFiles) && n == 0 {
			return invalid(step, field.KeyFiles, "at least one file is required")
		}
		if c.MaxFiles > 0 && n > c.MaxFiles {
			return invalid(step, field.KeyFiles, fmt.Sprintf("at most %d files are allowed", c.MaxFiles))
		}

	case schema.DimensionsConfig:
		if !c.Required {
			return nil
		}
		d := st.Dimensions()
		if !positive(d.Width) {
			return invalid(step, field.KeyWidth, "must be greater than zero")
		}
		if !positive(d.Height) {
			return invalid(step, field.KeyHeight, "must be greater than zero")
		}

	case schema.ColorsConfig:
		n := len(st.Colors())
		if c.Required && n == 0 {
			return invalid(step, field.KeyColors, "pick at least one color")
		}
		if c.MaxColors > 0 && n > c.MaxColors {
			return invalid(step, field.KeyColors, fmt.Sprintf("pick at most %d colors", c.MaxColors))
		}

	case schema.PagesConfig:
		if c.Required && st.Pages() < 1 {
			return invalid(step, field.KeyPages, "must be at least 1")
		}

	case schema.PrintOptionsConfig:
		if !c.Required {
			return nil
		}
		p := st.Print()
		if len(c.PaperSizes) > 0 && p.PaperSize == "" {
			return invalid(step, field.KeyPaperSize, "pick a paper size")
		}
		if !c.ForceColor && p.PrintColor == "" {
			return invalid(step, field.KeyPrintColor, "pick a print color")
		}

	case schema.CustomerInfoConfig:
		cust := st.Customer()
		if strings.TrimSpace(cust.Name) == "" {
			return invalid(step, field.KeyCustomerName, "name is required")
		}
		if c.RequirePhone && !validPhone(cust.Phone) {
			return invalid(step, field.KeyCustomerPhone, "a valid phone number is required")
		}
		if c.ShowDelivery {
			if d := st.Delivery(); d.Type.RequiresLocation() && !d.HasLocation() {
				return invalid(step, field.KeyDeliveryPlace, "pick a delivery location")
			}
		}

	case schema.DeliveryConfig:
		if d := st.Delivery(); c.RequireLocation && d.Type.RequiresLocation() && !d.HasLocation() {
			return invalid(step, field.KeyDeliveryPlace, "pick a delivery location")
		}

	case schema.NotesConfig:
		n := strings.TrimSpace(st.Notes())
		if c.Required && n == "" {
			return invalid(step, field.KeyNotes, "notes are required")
		}
		if c.MaxLength > 0 && utf8.RuneCountInString(n) > c.MaxLength {
			return invalid(step, field.KeyNotes, fmt.Sprintf("at most %d characters", c.MaxLength))
		}
	}
	return nil
}

// positive reports whether s parses as a number greater than zero. A
// decimal comma is accepted.
func positive(s string) bool {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	return err == nil && v > 0 && !math.IsInf(v, 1)
}

func validPhone(s string) bool {
	digits := 0
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '+' || r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= minPhoneDigits
}
