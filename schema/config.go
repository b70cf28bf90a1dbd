package schema

// Config is the typed configuration of one step type. Exactly one
// concrete type exists per Type; unknown step types decode to
// UnknownConfig.
type Config interface {
	StepType() Type
}

// QuantityConfig configures a quantity step.
type QuantityConfig struct {
	Min     int
	Max     int
	Default int
	Label   string
}

// FilesConfig configures a files step.
type FilesConfig struct {
	Required      bool
	Multiple      bool
	Accept        []string
	MaxFiles      int
	ShowPageCount bool
}

// DimensionsConfig configures a dimensions step.
type DimensionsConfig struct {
	Required    bool
	FieldLabels map[string]string
	HidePages   bool
	Units       []string
	DefaultUnit string
}

// ColorsConfig configures a colors step.
type ColorsConfig struct {
	Required  bool
	MaxColors int
	Palette   []string
}

// PagesConfig configures a pages step.
type PagesConfig struct {
	Required  bool
	AutoCount bool
}

// PrintOptionsConfig configures a print options step.
type PrintOptionsConfig struct {
	PaperSizes     []string
	PaperTypes     []string
	QualityOptions []string
	ForceColor     bool
	ShowLamination bool
	ShowPaperType  bool
	ShowSides      bool
	Required       bool
}

// PrintSidesConfig configures a print sides step.
type PrintSidesConfig struct {
	Options []string
	Default string
}

// CustomerInfoConfig configures a customer info step.
type CustomerInfoConfig struct {
	SkipInvoice  bool
	RequirePhone bool
	ShowDelivery bool
	ShowWhatsApp bool
	ShowShopName bool
}

// DeliveryConfig configures a delivery step.
type DeliveryConfig struct {
	AllowDelivery   bool
	RequireLocation bool
}

// InvoiceConfig configures the final review step.
type InvoiceConfig struct {
	ShowPrices bool
}

// NotesConfig configures a notes step.
type NotesConfig struct {
	Required    bool
	Placeholder string
	MaxLength   int
}

// UnknownConfig carries the raw config of a step type this engine does
// not know.
type UnknownConfig struct {
	Type Type
	Raw  RawConfig
}

func (QuantityConfig) StepType() Type     { return TypeQuantity }
func (FilesConfig) StepType() Type        { return TypeFiles }
func (DimensionsConfig) StepType() Type   { return TypeDimensions }
func (ColorsConfig) StepType() Type       { return TypeColors }
func (PagesConfig) StepType() Type        { return TypePages }
func (PrintOptionsConfig) StepType() Type { return TypePrintOptions }
func (PrintSidesConfig) StepType() Type   { return TypePrintSides }
func (CustomerInfoConfig) StepType() Type { return TypeCustomerInfo }
func (DeliveryConfig) StepType() Type     { return TypeDelivery }
func (InvoiceConfig) StepType() Type      { return TypeInvoice }
func (NotesConfig) StepType() Type        { return TypeNotes }
func (u UnknownConfig) StepType() Type    { return u.Type }

// Typed decodes the step's raw config into the struct for its type.
// Absent keys take their defaults; values of unexpected type are coerced
// or ignored, never rejected.
func (s Step) Typed() Config {
	c := s.Config
	switch s.Type {
	case TypeQuantity:
		return QuantityConfig{
			Min:     c.Int("min", 1),
			Max:     c.Int("max", 0),
			Default: c.Int("default", 1),
			Label:   c.String("label"),
		}
	case TypeFiles:
		return FilesConfig{
			Required:      c.Bool("required"),
			Multiple:      c.BoolDefault("multiple", true),
			Accept:        c.Strings("accept"),
			MaxFiles:      c.Int("max_files", 0),
			ShowPageCount: c.Bool("show_page_count"),
		}
	case TypeDimensions:
		unit := c.String("default_unit")
		if unit == "" {
			unit = "cm"
		}
		return DimensionsConfig{
			Required:    c.Bool("required"),
			FieldLabels: c.StringMap("field_labels"),
			HidePages:   c.Bool("hide_pages"),
			Units:       c.Strings("units"),
			DefaultUnit: unit,
		}
	case TypeColors:
		return ColorsConfig{
			Required:  c.Bool("required"),
			MaxColors: c.Int("max_colors", 0),
			Palette:   c.Strings("palette"),
		}
	case TypePages:
		return PagesConfig{
			Required:  c.Bool("required"),
			AutoCount: c.BoolDefault("auto_count", true),
		}
	case TypePrintOptions:
		return PrintOptionsConfig{
			PaperSizes:     c.Strings("paper_sizes"),
			PaperTypes:     c.Strings("paper_types"),
			QualityOptions: c.Strings("quality_options"),
			ForceColor:     c.Bool("force_color"),
			ShowLamination: c.Bool("show_lamination"),
			ShowPaperType:  c.Bool("show_paper_type"),
			ShowSides:      c.Bool("show_sides"),
			Required:       c.Bool("required"),
		}
	case TypePrintSides:
		opts := c.Strings("options")
		if len(opts) == 0 {
			opts = []string{"single", "double"}
		}
		def := c.String("default")
		if def == "" {
			def = opts[0]
		}
		return PrintSidesConfig{Options: opts, Default: def}
	case TypeCustomerInfo:
		requirePhone := c.BoolDefault("require_phone", true)
		if c.Bool("phone_optional") {
			requirePhone = false
		}
		return CustomerInfoConfig{
			SkipInvoice:  c.Bool("skip_invoice"),
			RequirePhone: requirePhone,
			ShowDelivery: c.BoolDefault("show_delivery", true),
			ShowWhatsApp: c.Bool("show_whatsapp"),
			ShowShopName: c.Bool("show_shop_name"),
		}
	case TypeDelivery:
		return DeliveryConfig{
			AllowDelivery:   c.BoolDefault("allow_delivery", true),
			RequireLocation: c.BoolDefault("require_location", true),
		}
	case TypeInvoice:
		return InvoiceConfig{ShowPrices: c.BoolDefault("show_prices", true)}
	case TypeNotes:
		return NotesConfig{
			Required:    c.Bool("required"),
			Placeholder: c.String("placeholder"),
			MaxLength:   c.Int("max_length", 0),
		}
	default:
		return UnknownConfig{Type: s.Type, Raw: c}
	}
}
