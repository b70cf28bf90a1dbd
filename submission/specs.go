package submission

import (
	"maps"
	"slices"

	"github.com/wael7705/khawam-pro-sub000/form"
)

// Specifications builds the generic specifications map from the form
// fields. Empty values are left out.
func Specifications(f form.Fields, filesCount int) map[string]any {
	specs := map[string]any{
		"quantity": max(f.Quantity, 1),
	}

	d := f.Dimensions
	if d.Width != "" || d.Height != "" {
		dims := map[string]any{
			"width":  d.Width,
			"height": d.Height,
		}
		if d.WidthUnit != "" {
			dims["width_unit"] = d.WidthUnit
		}
		if d.HeightUnit != "" {
			dims["height_unit"] = d.HeightUnit
		}
		if d.WidthUnit != "" && d.WidthUnit == d.HeightUnit {
			dims["unit"] = d.WidthUnit
		}
		specs["dimensions"] = dims
	}

	if len(f.Colors) > 0 {
		specs["colors"] = slices.Clone(f.Colors)
	}
	if filesCount > 0 {
		specs["files_count"] = filesCount
	}
	if f.Pages > 0 {
		specs["pages"] = f.Pages
	}

	p := f.Print
	setString(specs, "paper_size", p.PaperSize)
	setString(specs, "paper_type", p.PaperType)
	setString(specs, "print_color", p.PrintColor)
	setString(specs, "quality", p.Quality)
	setString(specs, "print_sides", p.Sides)
	if p.Lamination {
		specs["lamination"] = true
	}
	setString(specs, "notes", f.Notes)

	// Service-specific extras never override the generic keys.
	for k, v := range maps.All(f.Extra) {
		if _, taken := specs[k]; !taken {
			specs[k] = v
		}
	}
	return specs
}

func setString(m map[string]any, k, v string) {
	if v != "" {
		m[k] = v
	}
}
