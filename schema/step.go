package schema

// Type tags a step with the field set and validation rule it uses.
type Type string

const (
	TypeQuantity     Type = "quantity"
	TypeFiles        Type = "files"
	TypeDimensions   Type = "dimensions"
	TypeColors       Type = "colors"
	TypePages        Type = "pages"
	TypePrintOptions Type = "print_options"
	TypePrintSides   Type = "print_sides"
	TypeCustomerInfo Type = "customer_info"
	TypeDelivery     Type = "delivery"
	TypeInvoice      Type = "invoice"
	TypeNotes        Type = "notes"
)

var knownTypes = map[Type]struct{}{
	TypeQuantity: {}, TypeFiles: {}, TypeDimensions: {}, TypeColors: {},
	TypePages: {}, TypePrintOptions: {}, TypePrintSides: {},
	TypeCustomerInfo: {}, TypeDelivery: {}, TypeInvoice: {}, TypeNotes: {},
}

// Known reports whether t is one of the built-in step types.
func (t Type) Known() bool {
	_, ok := knownTypes[t]
	return ok
}

// Step is one entry of a service workflow.
type Step struct {
	Number      int       `json:"step_number"`
	Type        Type      `json:"step_type"`
	Name        string    `json:"step_name"`
	Description string    `json:"step_description,omitempty"`
	Config      RawConfig `json:"step_config,omitempty"`
}

// Service identifies the service a wizard is opened for.
type Service struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Family optionally pins the service family instead of matching by name.
	Family string `json:"family,omitempty"`
}

// Key returns the stable identity used to partition caches: the name when
// present, the ID otherwise.
func (s Service) Key() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}
