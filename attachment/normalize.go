package attachment

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strconv"
	"strings"

	orderflow "github.com/wael7705/khawam-pro-sub000"
)

// UploadPrefix is the server path bare filenames are resolved under.
const UploadPrefix = "/uploads/"

// Normalize folds a submission entry into an Attachment. Accepted entries
// are an Attachment (or pointer), a URL or filename string, or a
// partially-filled map. Absolute URLs and data URIs are kept verbatim; a
// bare filename becomes an inferred upload path; a partial entry is merged
// with the base sharing its location or filename. An entry with no
// derivable reference yields ErrAttachmentUnresolvable.
func Normalize(entry any, bases []Attachment) (Attachment, error) {
	var a Attachment
	switch v := entry.(type) {
	case Attachment:
		a = v
	case *Attachment:
		if v == nil {
			return Attachment{}, orderflow.ErrAttachmentUnresolvable
		}
		a = *v
	case string:
		return fromString(v)
	case map[string]any:
		a = fromMap(v)
	default:
		return Attachment{}, fmt.Errorf("%w: unsupported entry %T", orderflow.ErrAttachmentUnresolvable, entry)
	}

	a = mergeBase(a, bases)
	if a.URL == "" && a.Filename != "" {
		a.URL = inferPath(a.Filename)
	}
	if a.URL == "" {
		return Attachment{}, orderflow.ErrAttachmentUnresolvable
	}
	if a.FileKey == "" {
		a.FileKey = refKey(a.URL)
	}
	return a, nil
}

// NormalizeAll normalizes entries, dropping (and logging) the unresolvable
// ones and collapsing repeats of the same file in the same role. A file
// reused in another location or source is kept once per role.
func NormalizeAll(entries []any, bases []Attachment, logger *slog.Logger) []Attachment {
	if logger == nil {
		logger = slog.Default()
	}
	out := make([]Attachment, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		a, err := Normalize(e, bases)
		if err != nil {
			logger.Warn("dropping attachment",
				slog.Int("index", i),
				slog.String("error", err.Error()),
			)
			continue
		}
		k := a.FileKey + "|" + a.Location + "|" + string(a.Source)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, a)
	}
	return out
}

// IsAbsoluteRef reports whether s is a URL or data URI that can be sent
// as-is.
func IsAbsoluteRef(s string) bool {
	l := strings.ToLower(s)
	return strings.HasPrefix(l, "http://") ||
		strings.HasPrefix(l, "https://") ||
		strings.HasPrefix(l, "data:")
}

func fromString(s string) (Attachment, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Attachment{}, orderflow.ErrAttachmentUnresolvable
	case IsAbsoluteRef(s):
		return Attachment{FileKey: refKey(s), Filename: refName(s), URL: s}, nil
	case strings.HasPrefix(s, "/"):
		return Attachment{FileKey: refKey(s), Filename: path.Base(s), URL: s}, nil
	default:
		p := inferPath(s)
		return Attachment{FileKey: refKey(p), Filename: s, URL: p}, nil
	}
}

func fromMap(m map[string]any) Attachment {
	a := Attachment{
		FileKey:  firstString(m, "file_key"),
		Filename: firstString(m, "filename", "name", "file_name", "original_name"),
		URL:      firstString(m, "url", "file_url", "data_url", "path", "download_url"),
		MimeType: firstString(m, "mime_type", "type", "content_type"),
		Location: firstString(m, "location", "placement"),
		Source:   Source(firstString(m, "source")),
	}
	a.SizeInBytes = firstInt(m, "size_in_bytes", "size")
	return a
}

// mergeBase fills the empty fields of a from the base with the same
// location, or failing that the same filename.
func mergeBase(a Attachment, bases []Attachment) Attachment {
	var base *Attachment
	if a.Location != "" {
		for i := range bases {
			if bases[i].Location == a.Location {
				base = &bases[i]
				break
			}
		}
	}
	if base == nil && a.Filename != "" {
		for i := range bases {
			if bases[i].Filename == a.Filename {
				base = &bases[i]
				break
			}
		}
	}
	if base == nil {
		return a
	}
	if a.FileKey == "" {
		a.FileKey = base.FileKey
	}
	if a.Filename == "" {
		a.Filename = base.Filename
	}
	if a.URL == "" {
		a.URL = base.URL
	}
	if a.MimeType == "" {
		a.MimeType = base.MimeType
	}
	if a.SizeInBytes == 0 {
		a.SizeInBytes = base.SizeInBytes
	}
	if a.Location == "" {
		a.Location = base.Location
	}
	if a.Source == "" {
		a.Source = base.Source
	}
	return a
}

func inferPath(filename string) string {
	return UploadPrefix + url.PathEscape(path.Base(filename))
}

func refName(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "data:") {
		return "attachment"
	}
	if u, err := url.Parse(s); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return "attachment"
}

func refKey(ref string) string {
	sum := sha256.Sum256([]byte(ref))
	return "ref-" + hex.EncodeToString(sum[:8])
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func firstInt(m map[string]any, keys ...string) int64 {
	for _, k := range keys {
		switch v := m[k].(type) {
		case int:
			return int64(v)
		case int64:
			return v
		case float64:
			return int64(v)
		case string:
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				return n
			}
		}
	}
	return 0
}
