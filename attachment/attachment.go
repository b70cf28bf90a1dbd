package attachment

// Source tags the role an attachment was collected in.
type Source string

const (
	// SourceUploaded is a file picked on the generic files step.
	SourceUploaded Source = "uploaded"
	// SourcePrimary is the main design file of a service-specific step.
	SourcePrimary Source = "primary"
	// SourceClothing is a per-placement design on a clothing item.
	SourceClothing Source = "clothing"
)

// Attachment is the transport-ready representation of a file.
type Attachment struct {
	FileKey     string `json:"file_key" msgpack:"file_key"`
	Filename    string `json:"filename" msgpack:"filename"`
	URL         string `json:"url" msgpack:"url"`
	MimeType    string `json:"mime_type,omitempty" msgpack:"mime_type,omitempty"`
	SizeInBytes int64  `json:"size_in_bytes,omitempty" msgpack:"size_in_bytes,omitempty"`
	Location    string `json:"location,omitempty" msgpack:"location,omitempty"`
	Source      Source `json:"source,omitempty" msgpack:"source,omitempty"`
}

// Tag adjusts the role fields of an attachment copy.
type Tag func(*Attachment)

// WithLocation tags the attachment with a semantic placement.
func WithLocation(location string) Tag {
	return func(a *Attachment) { a.Location = location }
}

// WithSource tags the attachment with the role it was collected in.
func WithSource(src Source) Tag {
	return func(a *Attachment) { a.Source = src }
}

func (a Attachment) tagged(tags []Tag) Attachment {
	for _, t := range tags {
		t(&a)
	}
	return a
}

// Resolvable reports whether the attachment carries a usable reference.
func (a Attachment) Resolvable() bool { return a.URL != "" }
