package render

import (
	"fmt"
	"slices"
	"strings"

	"github.com/wael7705/khawam-pro-sub000/field"
	"github.com/wael7705/khawam-pro-sub000/form"
	"github.com/wael7705/khawam-pro-sub000/schema"
)

// qualityPreference is the order in which a default print quality is
// picked from the configured options.
var qualityPreference = []string{"standard", "laser", "uv"}

func defaultBuilders() map[schema.Type]Builder {
	return map[schema.Type]Builder{
		schema.TypeQuantity:     buildQuantity,
		schema.TypeFiles:        buildFiles,
		schema.TypeDimensions:   buildDimensions,
		schema.TypeColors:       buildColors,
		schema.TypePages:        buildPages,
		schema.TypePrintOptions: buildPrintOptions,
		schema.TypePrintSides:   buildPrintSides,
		schema.TypeCustomerInfo: buildCustomerInfo,
		schema.TypeDelivery:     buildDelivery,
		schema.TypeInvoice:      buildInvoice,
		schema.TypeNotes:        buildNotes,
	}
}

func buildQuantity(step schema.Step, cfg schema.Config, env Env) *field.Set {
	c, _ := cfg.(schema.QuantityConfig)
	label := c.Label
	if label == "" {
		label = "Quantity"
	}
	return field.NewSet(step).Add(field.Field{
		Key:      field.KeyQuantity,
		Kind:     field.KindNumber,
		Label:    label,
		Required: true,
		Min:      max(c.Min, 1),
		Value:    env.Store.Quantity(),
	})
}

func buildFiles(step schema.Step, cfg schema.Config, env Env) *field.Set {
	c, _ := cfg.(schema.FilesConfig)
	f := field.Field{
		Key:      field.KeyFiles,
		Kind:     field.KindFiles,
		Label:    "Design files",
		Required: c.Required || env.Family.RequireFiles,
		Value:    len(env.Store.Files()),
	}
	if len(c.Accept) > 0 {
		f.Options = field.Options(c.Accept...)
	}
	if hints := env.Store.FileHints(); len(hints) > 0 && len(env.Store.Files()) == 0 {
		names := make([]string, 0, len(hints))
		for _, h := range hints {
			names = append(names, h.Name)
		}
		f.Hint = "previously selected: " + strings.Join(names, ", ") + "; select the files again"
	}
	set := field.NewSet(step).Add(f)
	if c.ShowPageCount {
		set.Add(field.Field{
			Key:   field.KeyPages,
			Kind:  field.KindInfo,
			Label: "Pages",
			Value: env.Store.Pages(),
		})
	}
	return set
}

func buildDimensions(step schema.Step, cfg schema.Config, env Env) *field.Set {
	c, _ := cfg.(schema.DimensionsConfig)
	d := env.Store.Dimensions()
	label := func(key, def string) string {
		if l := c.FieldLabels[key]; l != "" {
			return l
		}
		return def
	}

	set := field.NewSet(step).Add(
		field.Field{Key: field.KeyWidth, Kind: field.KindNumber, Label: label("width", "Width"), Required: c.Required, Value: d.Width},
		field.Field{Key: field.KeyHeight, Kind: field.KindNumber, Label: label("height", "Height"), Required: c.Required, Value: d.Height},
	)
	if len(c.Units) > 0 {
		wu, hu := d.WidthUnit, d.HeightUnit
		if wu == "" || hu == "" {
			wu, hu = orDefault(wu, c.DefaultUnit), orDefault(hu, c.DefaultUnit)
			env.Store.SetUnits(wu, hu)
		}
		set.Add(
			field.Field{Key: field.KeyWidthUnit, Kind: field.KindSelect, Label: label("width_unit", "Width unit"), Options: field.Options(c.Units...), Value: wu},
			field.Field{Key: field.KeyHeightUnit, Kind: field.KindSelect, Label: label("height_unit", "Height unit"), Options: field.Options(c.Units...), Value: hu},
		)
	}
	if !c.HidePages {
		set.Add(field.Field{Key: field.KeyPages, Kind: field.KindNumber, Label: label("pages", "Pages"), Value: env.Store.Pages()})
	}
	return set
}

func buildColors(step schema.Step, cfg schema.Config, env Env) *field.Set {
	c, _ := cfg.(schema.ColorsConfig)
	f := field.Field{
		Key:      field.KeyColors,
		Kind:     field.KindColors,
		Label:    "Colors",
		Required: c.Required,
		Value:    env.Store.Colors(),
	}
	if len(c.Palette) > 0 {
		f.Options = field.Options(c.Palette...)
	}
	if c.MaxColors > 0 {
		f.Hint = fmt.Sprintf("up to %d colors", c.MaxColors)
	}
	return field.NewSet(step).Add(f)
}

func buildPages(step schema.Step, cfg schema.Config, env Env) *field.Set {
	c, _ := cfg.(schema.PagesConfig)
	f := field.Field{
		Key:      field.KeyPages,
		Kind:     field.KindNumber,
		Label:    "Pages",
		Required: c.Required,
		Min:      1,
		Value:    env.Store.Pages(),
	}
	if c.AutoCount {
		f.Hint = "counted from the uploaded files"
	}
	return field.NewSet(step).Add(f)
}

func buildPrintOptions(step schema.Step, cfg schema.Config, env Env) *field.Set {
	c, _ := cfg.(schema.PrintOptionsConfig)
	st := env.Store
	set := field.NewSet(step)

	if len(c.PaperSizes) > 0 {
		set.Add(field.Field{Key: field.KeyPaperSize, Kind: field.KindSelect, Label: "Paper size",
			Required: c.Required, Options: field.Options(c.PaperSizes...), Value: st.Print().PaperSize})
	}
	if c.ShowPaperType || len(c.PaperTypes) > 0 {
		set.Add(field.Field{Key: field.KeyPaperType, Kind: field.KindSelect, Label: "Paper type",
			Options: field.Options(c.PaperTypes...), Value: st.Print().PaperType})
	}

	if c.ForceColor {
		if st.Print().PrintColor != form.PrintColorColor {
			st.SetPrintColor(form.PrintColorColor)
		}
	} else {
		set.Add(field.Field{Key: field.KeyPrintColor, Kind: field.KindSelect, Label: "Print color",
			Required: c.Required, Options: []field.Option{
				{Value: form.PrintColorColor, Label: "Color"},
				{Value: form.PrintColorBW, Label: "Black & white"},
			}, Value: st.Print().PrintColor})
	}

	if len(c.QualityOptions) > 0 {
		q := DefaultQuality(c.QualityOptions, st.Print().Quality)
		if q != st.Print().Quality {
			st.SetQuality(q)
		}
		set.Add(field.Field{Key: field.KeyQuality, Kind: field.KindSelect, Label: "Quality",
			Options: field.Options(c.QualityOptions...), Value: q})
	}

	if c.ShowLamination {
		set.Add(field.Field{Key: field.KeyLamination, Kind: field.KindToggle, Label: "Lamination", Value: st.Print().Lamination})
	}
	if c.ShowSides {
		set.Add(field.Field{Key: field.KeySides, Kind: field.KindSelect, Label: "Sides",
			Options: field.Options("single", "double"), Value: st.Print().Sides})
	}
	return set
}

// DefaultQuality picks the quality to preselect from options. A current
// value that is offered is kept. Otherwise the first of standard, laser
// and uv present in options wins, then the first option.
func DefaultQuality(options []string, current string) string {
	if len(options) == 0 {
		return current
	}
	if current != "" && slices.Contains(options, current) {
		return current
	}
	for _, pref := range qualityPreference {
		for _, o := range options {
			if strings.EqualFold(o, pref) {
				return o
			}
		}
	}
	return options[0]
}

func buildPrintSides(step schema.Step, cfg schema.Config, env Env) *field.Set {
	c, _ := cfg.(schema.PrintSidesConfig)
	sides := env.Store.Print().Sides
	if sides == "" || !slices.Contains(c.Options, sides) {
		sides = c.Default
		env.Store.SetSides(sides)
	}
	return field.NewSet(step).Add(field.Field{
		Key:      field.KeySides,
		Kind:     field.KindSelect,
		Label:    "Sides",
		Required: true,
		Options:  field.Options(c.Options...),
		Value:    sides,
	})
}

func buildCustomerInfo(step schema.Step, cfg schema.Config, env Env) *field.Set {
	c, _ := cfg.(schema.CustomerInfoConfig)
	cust := env.Store.Customer()
	set := field.NewSet(step).Add(
		field.Field{Key: field.KeyCustomerName, Kind: field.KindText, Label: "Name", Required: true, Value: cust.Name},
		field.Field{Key: field.KeyCustomerPhone, Kind: field.KindPhone, Label: "Phone", Required: c.RequirePhone, Value: cust.Phone},
	)
	if c.ShowWhatsApp {
		set.Add(field.Field{Key: field.KeyWhatsApp, Kind: field.KindPhone, Label: "WhatsApp", Value: cust.WhatsApp})
	}
	if c.ShowShopName {
		set.Add(field.Field{Key: field.KeyShopName, Kind: field.KindText, Label: "Shop name", Value: cust.ShopName})
	}
	if c.ShowDelivery {
		addDeliveryFields(set, env.Store, true)
	}
	return set
}

func buildDelivery(step schema.Step, cfg schema.Config, env Env) *field.Set {
	c, _ := cfg.(schema.DeliveryConfig)
	set := field.NewSet(step)
	addDeliveryFields(set, env.Store, c.AllowDelivery)
	if env.Store.Delivery().Type.RequiresLocation() {
		set.Add(field.Field{Key: field.KeyDeliveryNotes, Kind: field.KindTextArea, Label: "Delivery notes", Value: env.Store.Delivery().Notes})
	}
	return set
}

func addDeliveryFields(set *field.Set, st *form.Store, allowDelivery bool) {
	del := st.Delivery()
	opts := []field.Option{{Value: string(form.DeliverySelf), Label: "Pickup"}}
	if allowDelivery {
		opts = append(opts, field.Option{Value: string(form.DeliveryDelivery), Label: "Delivery"})
	}
	set.Add(field.Field{Key: field.KeyDeliveryType, Kind: field.KindSelect, Label: "Delivery", Required: true, Options: opts, Value: string(del.Type)})
	if allowDelivery && del.Type.RequiresLocation() {
		set.Add(field.Field{Key: field.KeyDeliveryPlace, Kind: field.KindLocation, Label: "Delivery location", Required: true, Value: del.Address})
	}
}

func buildInvoice(step schema.Step, cfg schema.Config, env Env) *field.Set {
	c, _ := cfg.(schema.InvoiceConfig)
	f := field.Field{Key: field.KeyInvoiceSummary, Kind: field.KindInfo, Label: "Summary", Value: env.Store.Fields()}
	if c.ShowPrices {
		f.Hint = "prices are confirmed after the order is placed"
	}
	return field.NewSet(step).Add(f)
}

func buildNotes(step schema.Step, cfg schema.Config, env Env) *field.Set {
	c, _ := cfg.(schema.NotesConfig)
	f := field.Field{Key: field.KeyNotes, Kind: field.KindTextArea, Label: "Notes", Required: c.Required, Value: env.Store.Notes(), Hint: c.Placeholder}
	return field.NewSet(step).Add(f)
}

func buildUnknown(step schema.Step, _ schema.Config, _ Env) *field.Set {
	return field.NewSet(step).Add(field.Field{
		Key:   "unknown." + string(step.Type),
		Kind:  field.KindInfo,
		Label: step.Name,
		Hint:  "unsupported step type " + string(step.Type),
	})
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
