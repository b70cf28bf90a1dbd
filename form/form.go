// Package form holds the single source of truth for every value the order
// wizard collects. All reads and writes go through a [Store]'s named
// accessors; nothing copies the state and diverges.
package form

import "github.com/wael7705/khawam-pro-sub000/attachment"

// Dimensions holds width and height with their units. Unit is the legacy
// single-unit field kept for snapshots written before per-axis units.
type Dimensions struct {
	Width      string `json:"width" msgpack:"width"`
	Height     string `json:"height" msgpack:"height"`
	WidthUnit  string `json:"width_unit,omitempty" msgpack:"width_unit,omitempty"`
	HeightUnit string `json:"height_unit,omitempty" msgpack:"height_unit,omitempty"`
	Unit       string `json:"unit,omitempty" msgpack:"unit,omitempty"`
}

// PrintOptions holds the print configuration choices.
type PrintOptions struct {
	PaperSize  string `json:"paper_size,omitempty" msgpack:"paper_size,omitempty"`
	PaperType  string `json:"paper_type,omitempty" msgpack:"paper_type,omitempty"`
	PrintColor string `json:"print_color,omitempty" msgpack:"print_color,omitempty"`
	Quality    string `json:"quality,omitempty" msgpack:"quality,omitempty"`
	Sides      string `json:"sides,omitempty" msgpack:"sides,omitempty"`
	Lamination bool   `json:"lamination,omitempty" msgpack:"lamination,omitempty"`
}

// Print color values.
const (
	PrintColorColor = "color"
	PrintColorBW    = "bw"
)

// Customer holds the customer contact fields.
type Customer struct {
	Name     string `json:"name" msgpack:"name"`
	Phone    string `json:"phone" msgpack:"phone"`
	WhatsApp string `json:"whatsapp,omitempty" msgpack:"whatsapp,omitempty"`
	ShopName string `json:"shop_name,omitempty" msgpack:"shop_name,omitempty"`
}

// DeliveryType selects between pickup and delivery.
type DeliveryType string

const (
	// DeliverySelf means the customer picks the order up.
	DeliverySelf DeliveryType = "self"
	// DeliveryDelivery means the order is delivered to a picked location.
	DeliveryDelivery DeliveryType = "delivery"
)

// RequiresLocation reports whether the type needs an externally picked
// delivery location.
func (t DeliveryType) RequiresLocation() bool { return t == DeliveryDelivery }

// Delivery holds delivery fields.
type Delivery struct {
	Type      DeliveryType `json:"type" msgpack:"type"`
	Address   string       `json:"address,omitempty" msgpack:"address,omitempty"`
	Latitude  float64      `json:"latitude,omitempty" msgpack:"latitude,omitempty"`
	Longitude float64      `json:"longitude,omitempty" msgpack:"longitude,omitempty"`
	Notes     string       `json:"notes,omitempty" msgpack:"notes,omitempty"`
}

// HasLocation reports whether an address or coordinates were picked.
func (d Delivery) HasLocation() bool {
	return d.Address != "" || (d.Latitude != 0 && d.Longitude != 0)
}

// FileHint describes a previously selected file for display only. It is
// never resubmitted; the binary must be picked again.
type FileHint struct {
	Name     string            `json:"name" msgpack:"name"`
	Size     int64             `json:"size" msgpack:"size"`
	MimeType string            `json:"mime_type,omitempty" msgpack:"mime_type,omitempty"`
	Location string            `json:"location,omitempty" msgpack:"location,omitempty"`
	Source   attachment.Source `json:"source,omitempty" msgpack:"source,omitempty"`
}

// Fields is the serializable part of the form state. It excludes binary
// file handles.
type Fields struct {
	Quantity   int            `json:"quantity" msgpack:"quantity"`
	Dimensions Dimensions     `json:"dimensions" msgpack:"dimensions"`
	Colors     []string       `json:"colors,omitempty" msgpack:"colors,omitempty"`
	Pages      int            `json:"pages,omitempty" msgpack:"pages,omitempty"`
	Print      PrintOptions   `json:"print" msgpack:"print"`
	Customer   Customer       `json:"customer" msgpack:"customer"`
	Delivery   Delivery       `json:"delivery" msgpack:"delivery"`
	Notes      string         `json:"notes,omitempty" msgpack:"notes,omitempty"`
	// Extra holds service-specific values. They must be JSON-encodable;
	// whole numbers are restored as int, other numbers as float64.
	Extra      map[string]any `json:"extra,omitempty" msgpack:"extra,omitempty"`
	FileHints  []FileHint     `json:"file_hints,omitempty" msgpack:"file_hints,omitempty"`
}

// PlacedFile is a picked file plus the role it was picked for.
type PlacedFile struct {
	File     attachment.File
	Location string
	Source   attachment.Source
}

// Signature returns the content signature of the file.
func (p PlacedFile) Signature() attachment.Signature { return attachment.SignatureOf(p.File) }

// Tags returns the attachment tags matching the file's role.
func (p PlacedFile) Tags() []attachment.Tag {
	var tags []attachment.Tag
	if p.Location != "" {
		tags = append(tags, attachment.WithLocation(p.Location))
	}
	if p.Source != "" {
		tags = append(tags, attachment.WithSource(p.Source))
	}
	return tags
}
