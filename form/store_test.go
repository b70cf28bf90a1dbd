package form_test

import (
	"testing"
	"time"

	"github.com/wael7705/khawam-pro-sub000/attachment"
	"github.com/wael7705/khawam-pro-sub000/form"
)

func TestNewStore_Defaults(t *testing.T) {
	s := form.NewStore()
	if s.Quantity() != 1 {
		t.Errorf("quantity: got %d, want 1", s.Quantity())
	}
	if s.Delivery().Type != form.DeliverySelf {
		t.Errorf("delivery: got %q, want self", s.Delivery().Type)
	}
}

func TestFields_ExcludesBinariesIncludesHints(t *testing.T) {
	s := form.NewStore()
	s.AddFile(&attachment.MemFile{
		FileName: "design.pdf",
		Data:     []byte("%PDF"),
		Modified: time.Unix(0, 0),
		MIME:     "application/pdf",
	}, "front", "")

	f := s.Fields()
	if len(f.FileHints) != 1 {
		t.Fatalf("hints: got %d, want 1", len(f.FileHints))
	}
	h := f.FileHints[0]
	if h.Name != "design.pdf" || h.Size != 4 || h.Location != "front" || h.Source != attachment.SourceUploaded {
		t.Errorf("unexpected hint %+v", h)
	}
}

func TestRestore_ClearsFiles(t *testing.T) {
	s := form.NewStore()
	s.AddFile(&attachment.MemFile{FileName: "a.png", Data: []byte("x")}, "", "")
	snap := s.Fields()

	s.Restore(snap)
	if got := len(s.Files()); got != 0 {
		t.Fatalf("files after restore: got %d, want 0", got)
	}
	if got := len(s.FileHints()); got != 1 {
		t.Errorf("hints after restore: got %d, want 1", got)
	}
}

func TestRestore_LegacyUnit(t *testing.T) {
	tests := []struct {
		name       string
		dims       form.Dimensions
		wantWidth  string
		wantHeight string
	}{
		{"legacy only", form.Dimensions{Unit: "cm"}, "cm", "cm"},
		{"width set", form.Dimensions{Unit: "cm", WidthUnit: "m"}, "m", ""},
		{"both set", form.Dimensions{Unit: "cm", WidthUnit: "m", HeightUnit: "mm"}, "m", "mm"},
		{"none", form.Dimensions{}, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := form.NewStore()
			s.Restore(form.Fields{Dimensions: tt.dims})
			d := s.Dimensions()
			if d.WidthUnit != tt.wantWidth || d.HeightUnit != tt.wantHeight {
				t.Errorf("units: got %q/%q, want %q/%q", d.WidthUnit, d.HeightUnit, tt.wantWidth, tt.wantHeight)
			}
		})
	}
}

func TestFields_IsACopy(t *testing.T) {
	s := form.NewStore()
	s.SetColors([]string{"red"})
	s.SetExtra("size", "XL")

	f := s.Fields()
	f.Colors[0] = "blue"
	f.Extra["size"] = "S"

	if got := s.Colors(); got[0] != "red" {
		t.Errorf("colors mutated through snapshot: %v", got)
	}
	if v, _ := s.Extra("size"); v != "XL" {
		t.Errorf("extra mutated through snapshot: %v", v)
	}
}

func TestSetDeliveryType_ReportsChange(t *testing.T) {
	s := form.NewStore()
	if s.SetDeliveryType(form.DeliverySelf) {
		t.Error("same type reported as changed")
	}
	if !s.SetDeliveryType(form.DeliveryDelivery) {
		t.Error("new type not reported as changed")
	}
}

func TestAddColor_Dedupes(t *testing.T) {
	s := form.NewStore()
	s.AddColor("red")
	s.AddColor("red")
	s.AddColor("blue")
	if got := s.Colors(); len(got) != 2 {
		t.Errorf("colors: got %v", got)
	}
}

func TestRemoveFile_OutOfRange(t *testing.T) {
	s := form.NewStore()
	s.AddFile(&attachment.MemFile{FileName: "a"}, "", "")
	s.RemoveFile(5)
	s.RemoveFile(-1)
	if len(s.Files()) != 1 {
		t.Fatal("out-of-range remove changed files")
	}
	s.RemoveFile(0)
	if len(s.Files()) != 0 {
		t.Fatal("remove did not drop file")
	}
}
