package form

import (
	"maps"
	"math"
	"slices"
	"sync"

	"github.com/wael7705/khawam-pro-sub000/attachment"
)

// Store owns the form state of one wizard instance. It is safe for
// concurrent use, but the wizard holding focus is its only writer.
type Store struct {
	mu    sync.RWMutex
	f     Fields
	files []PlacedFile
}

// NewStore returns a Store with quantity 1 and self pickup.
func NewStore() *Store {
	return &Store{f: initialFields()}
}

func initialFields() Fields {
	return Fields{
		Quantity: 1,
		Delivery: Delivery{Type: DeliverySelf},
	}
}

// Reset returns the store to its initial state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.f = initialFields()
	s.files = nil
}

// Fields returns a copy of the serializable state. FileHints reflect the
// currently held files, or the restored hints when none are held.
func (s *Store) Fields() Fields {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := cloneFields(s.f)
	if len(s.files) > 0 {
		out.FileHints = make([]FileHint, 0, len(s.files))
		for _, pf := range s.files {
			out.FileHints = append(out.FileHints, FileHint{
				Name:     pf.File.Name(),
				Size:     pf.File.Size(),
				MimeType: pf.File.ContentType(),
				Location: pf.Location,
				Source:   pf.Source,
			})
		}
	}
	return out
}

// Restore replaces the state with f. Binary files are always cleared and
// must be picked again. A legacy single unit fills both axis units when
// neither was recorded. Whole numbers in Extra, which snapshot codecs
// decode as float64 or sized integers, come back as int.
func (s *Store) Restore(f Fields) {
	f = cloneFields(f)
	d := &f.Dimensions
	if d.Unit != "" && d.WidthUnit == "" && d.HeightUnit == "" {
		d.WidthUnit = d.Unit
		d.HeightUnit = d.Unit
	}
	if f.Delivery.Type == "" {
		f.Delivery.Type = DeliverySelf
	}
	for k, v := range f.Extra {
		f.Extra[k] = normalizeNumber(v)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.f = f
	s.files = nil
}

// ── Quantity / dimensions / pages ───────────────────

// Quantity returns the ordered quantity.
func (s *Store) Quantity() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.f.Quantity
}

// SetQuantity sets the ordered quantity.
func (s *Store) SetQuantity(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.f.Quantity = n
}

// Dimensions returns the dimensions.
func (s *Store) Dimensions() Dimensions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.f.Dimensions
}

// SetDimensions sets width and height.
func (s *Store) SetDimensions(width, height string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.f.Dimensions.Width = width
	s.f.Dimensions.Height = height
}

// SetUnits sets the per-axis units.
func (s *Store) SetUnits(widthUnit, heightUnit string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.f.Dimensions.WidthUnit = widthUnit
	s.f.Dimensions.HeightUnit = heightUnit
}

// Pages returns the page count.
func (s *Store) Pages() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.f.Pages
}

// SetPages sets the page count.
func (s *Store) SetPages(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.f.Pages = n
}

// ── Colors ──────────────────────────────────────────

// Colors returns a copy of the selected colors.
func (s *Store) Colors() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.f.Colors)
}

// SetColors replaces the selected colors.
func (s *Store) SetColors(colors []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.f.Colors = slices.Clone(colors)
}

// AddColor appends a color unless it is already selected.
func (s *Store) AddColor(c string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.f.Colors, c) {
		s.f.Colors = append(s.f.Colors, c)
	}
}

// ── Print options ───────────────────────────────────

// Print returns the print options.
func (s *Store) Print() PrintOptions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.f.Print
}

// UpdatePrint applies fn to the print options under the store lock.
func (s *Store) UpdatePrint(fn func(*PrintOptions)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.f.Print)
}

// SetPrintColor sets the print color.
func (s *Store) SetPrintColor(c string) { s.UpdatePrint(func(p *PrintOptions) { p.PrintColor = c }) }

// SetQuality sets the print quality.
func (s *Store) SetQuality(q string) { s.UpdatePrint(func(p *PrintOptions) { p.Quality = q }) }

// SetPaperSize sets the paper size.
func (s *Store) SetPaperSize(v string) { s.UpdatePrint(func(p *PrintOptions) { p.PaperSize = v }) }

// SetPaperType sets the paper type.
func (s *Store) SetPaperType(v string) { s.UpdatePrint(func(p *PrintOptions) { p.PaperType = v }) }

// SetSides sets single or double sided printing.
func (s *Store) SetSides(v string) { s.UpdatePrint(func(p *PrintOptions) { p.Sides = v }) }

// SetLamination toggles lamination.
func (s *Store) SetLamination(v bool) { s.UpdatePrint(func(p *PrintOptions) { p.Lamination = v }) }

// ── Customer / delivery / notes ─────────────────────

// Customer returns the customer fields.
func (s *Store) Customer() Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.f.Customer
}

// SetCustomer replaces the customer fields.
func (s *Store) SetCustomer(c Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.f.Customer = c
}

// Delivery returns the delivery fields.
func (s *Store) Delivery() Delivery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.f.Delivery
}

// SetDeliveryType sets the delivery type and reports whether it changed.
func (s *Store) SetDeliveryType(t DeliveryType) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f.Delivery.Type == t {
		return false
	}
	s.f.Delivery.Type = t
	return true
}

// SetDeliveryLocation records a picked address and coordinates.
func (s *Store) SetDeliveryLocation(address string, lat, lng float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.f.Delivery.Address = address
	s.f.Delivery.Latitude = lat
	s.f.Delivery.Longitude = lng
}

// SetDeliveryNotes sets courier notes.
func (s *Store) SetDeliveryNotes(n string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.f.Delivery.Notes = n
}

// Notes returns the order notes.
func (s *Store) Notes() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.f.Notes
}

// SetNotes sets the order notes.
func (s *Store) SetNotes(n string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.f.Notes = n
}

// Extra returns a service-specific value.
func (s *Store) Extra(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.f.Extra[key]
	return v, ok
}

// SetExtra stores a service-specific value. A nil value deletes the key.
func (s *Store) SetExtra(key string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v == nil {
		delete(s.f.Extra, key)
		return
	}
	if s.f.Extra == nil {
		s.f.Extra = make(map[string]any)
	}
	s.f.Extra[key] = v
}

// ── Files ───────────────────────────────────────────

// Files returns the held files.
func (s *Store) Files() []PlacedFile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.files)
}

// AddFile holds a newly picked file in the given role.
func (s *Store) AddFile(f attachment.File, location string, src attachment.Source) {
	if src == "" {
		src = attachment.SourceUploaded
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = append(s.files, PlacedFile{File: f, Location: location, Source: src})
	s.f.FileHints = nil
}

// RemoveFile drops the file at index i. Out-of-range indexes are ignored.
func (s *Store) RemoveFile(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.files) {
		return
	}
	s.files = slices.Delete(s.files, i, i+1)
}

// ClearFiles drops every held file.
func (s *Store) ClearFiles() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = nil
}

// FileHints returns the display hints restored from a snapshot.
func (s *Store) FileHints() []FileHint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.f.FileHints)
}

func cloneFields(f Fields) Fields {
	f.Colors = slices.Clone(f.Colors)
	f.FileHints = slices.Clone(f.FileHints)
	if f.Extra != nil {
		f.Extra = maps.Clone(f.Extra)
	}
	return f
}

// normalizeNumber maps decoded numbers back to int where no precision is
// lost. Lists are normalized element-wise.
func normalizeNumber(v any) any {
	switch n := v.(type) {
	case float64:
		if n == math.Trunc(n) && math.Abs(n) <= 1<<53 {
			return int(n)
		}
	case float32:
		if f := float64(n); f == math.Trunc(f) && math.Abs(f) <= 1<<24 {
			return int(f)
		}
	case int8:
		return int(n)
	case int16:
		return int(n)
	case int32:
		return int(n)
	case int64:
		return int(n)
	case uint8:
		return int(n)
	case uint16:
		return int(n)
	case uint32:
		return int(n)
	case []any:
		out := make([]any, len(n))
		for i, e := range n {
			out[i] = normalizeNumber(e)
		}
		return out
	}
	return v
}
