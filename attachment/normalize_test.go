package attachment_test

import (
	"errors"
	"testing"

	orderflow "github.com/wael7705/khawam-pro-sub000"
	"github.com/wael7705/khawam-pro-sub000/attachment"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	bases := []attachment.Attachment{
		{FileKey: "front.png-10-1", Filename: "front.png", URL: "data:image/png;base64,AAA", MimeType: "image/png", SizeInBytes: 10, Location: "front"},
		{FileKey: "logo.svg-5-1", Filename: "logo.svg", URL: "data:image/svg+xml;base64,BBB"},
	}

	tests := []struct {
		name     string
		entry    any
		wantURL  string
		wantKey  string
		wantName string
		wantErr  bool
	}{
		{
			name:    "absolute url kept verbatim",
			entry:   "https://cdn.example.com/files/a.pdf",
			wantURL: "https://cdn.example.com/files/a.pdf", wantName: "a.pdf",
		},
		{
			name:    "data uri kept verbatim",
			entry:   "data:application/pdf;base64,JVBER",
			wantURL: "data:application/pdf;base64,JVBER", wantName: "attachment",
		},
		{
			name:    "bare filename inferred",
			entry:   "brochure final.pdf",
			wantURL: "/uploads/brochure%20final.pdf", wantName: "brochure final.pdf",
		},
		{
			name:    "server path kept",
			entry:   "/media/orders/7/a.png",
			wantURL: "/media/orders/7/a.png", wantName: "a.png",
		},
		{
			name:    "partial object merged by location",
			entry:   map[string]any{"location": "front"},
			wantURL: "data:image/png;base64,AAA", wantKey: "front.png-10-1", wantName: "front.png",
		},
		{
			name:    "partial object merged by filename",
			entry:   map[string]any{"name": "logo.svg", "location": "sleeve"},
			wantURL: "data:image/svg+xml;base64,BBB", wantKey: "logo.svg-5-1", wantName: "logo.svg",
		},
		{
			name:    "partial object with filename only",
			entry:   map[string]any{"filename": "menu.pdf"},
			wantURL: "/uploads/menu.pdf", wantName: "menu.pdf",
		},
		{
			name:    "attachment value passes through",
			entry:   bases[1],
			wantURL: bases[1].URL, wantKey: bases[1].FileKey, wantName: "logo.svg",
		},
		{name: "empty string dropped", entry: "  ", wantErr: true},
		{name: "location without base dropped", entry: map[string]any{"location": "pocket"}, wantErr: true},
		{name: "unsupported type dropped", entry: 42, wantErr: true},
		{name: "nil pointer dropped", entry: (*attachment.Attachment)(nil), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := attachment.Normalize(tt.entry, bases)
			if tt.wantErr {
				if !errors.Is(err, orderflow.ErrAttachmentUnresolvable) {
					t.Fatalf("err = %v, want ErrAttachmentUnresolvable", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", got.URL, tt.wantURL)
			}
			if tt.wantKey != "" && got.FileKey != tt.wantKey {
				t.Errorf("FileKey = %q, want %q", got.FileKey, tt.wantKey)
			}
			if got.FileKey == "" {
				t.Error("FileKey must always be set")
			}
			if got.Filename != tt.wantName {
				t.Errorf("Filename = %q, want %q", got.Filename, tt.wantName)
			}
		})
	}
}

func TestNormalizeAll_DropsAndDedupes(t *testing.T) {
	t.Parallel()
	bases := []attachment.Attachment{
		{FileKey: "k1", Filename: "a.png", URL: "data:image/png;base64,AAA", Location: "front"},
	}
	entries := []any{
		bases[0],
		map[string]any{"location": "front"}, // same file, same location
		map[string]any{"location": "nowhere"},
		"https://x.test/b.pdf",
	}
	out := attachment.NormalizeAll(entries, bases, testLogger())
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(out), out)
	}
	for _, a := range out {
		if !a.Resolvable() {
			t.Errorf("unresolvable attachment leaked: %+v", a)
		}
	}
}

func TestNormalizeAll_KeepsEachRole(t *testing.T) {
	t.Parallel()
	shared := attachment.Attachment{FileKey: "k1", Filename: "logo.png", URL: "data:image/png;base64,AAA"}
	primary, clothing := shared, shared
	primary.Source = attachment.SourcePrimary
	clothing.Source = attachment.SourceClothing

	out := attachment.NormalizeAll([]any{primary, clothing, primary}, nil, testLogger())
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(out), out)
	}
	if out[0].Source != attachment.SourcePrimary || out[1].Source != attachment.SourceClothing {
		t.Errorf("sources = %q, %q", out[0].Source, out[1].Source)
	}
}
