package schema_test

import (
	"testing"

	"github.com/wael7705/khawam-pro-sub000/schema"
)

func stepsOf(types ...schema.Type) []schema.Step {
	out := make([]schema.Step, len(types))
	for i, t := range types {
		out[i] = schema.Step{Number: i + 1, Type: t, Name: string(t)}
	}
	return out
}

func TestFilter_RenumbersInOrder(t *testing.T) {
	t.Parallel()
	in := stepsOf(schema.TypeQuantity, schema.TypePages, schema.TypeFiles,
		schema.TypePrintSides, schema.TypeColors, schema.TypeCustomerInfo)

	out := schema.Filter(in, schema.ExcludeTypes(schema.TypePages, schema.TypePrintSides))

	want := []schema.Type{schema.TypeQuantity, schema.TypeFiles, schema.TypeColors, schema.TypeCustomerInfo}
	if len(out) != len(want) {
		t.Fatalf("len = %d, want %d", len(out), len(want))
	}
	for i, s := range out {
		if s.Number != i+1 {
			t.Errorf("step %d numbered %d", i, s.Number)
		}
		if s.Type != want[i] {
			t.Errorf("step %d type %q, want %q", i, s.Type, want[i])
		}
	}
	if in[1].Type != schema.TypePages || in[2].Number != 3 {
		t.Error("input slice was mutated")
	}
}

func TestRenumber_SortsGaps(t *testing.T) {
	t.Parallel()
	in := []schema.Step{
		{Number: 7, Type: schema.TypeNotes},
		{Number: 2, Type: schema.TypeQuantity},
		{Number: 4, Type: schema.TypeFiles},
	}
	out := schema.Renumber(in)
	want := []schema.Type{schema.TypeQuantity, schema.TypeFiles, schema.TypeNotes}
	for i, s := range out {
		if s.Number != i+1 || s.Type != want[i] {
			t.Errorf("out[%d] = %d/%q", i, s.Number, s.Type)
		}
	}
}

func TestFind(t *testing.T) {
	t.Parallel()
	steps := stepsOf(schema.TypeQuantity, schema.TypeFiles)
	if s, ok := schema.Find(steps, 2); !ok || s.Type != schema.TypeFiles {
		t.Errorf("Find(2) = %+v, %v", s, ok)
	}
	if _, ok := schema.Find(steps, 3); ok {
		t.Error("Find(3) should miss")
	}
}

func TestFamilyMatch(t *testing.T) {
	t.Parallel()
	fams := schema.DefaultFamilies()
	tests := []struct {
		svc  schema.Service
		want string
	}{
		{schema.Service{Name: "Flex Printing"}, "flex"},
		{schema.Service{Name: "طباعة محاضرات"}, "printing"},
		{schema.Service{Name: "Custom T-Shirt"}, "clothing"},
		{schema.Service{Name: "Engraving", Family: "clothing"}, "clothing"},
		{schema.Service{Name: "Engraving"}, ""},
	}
	for _, tt := range tests {
		f, ok := schema.MatchFamily(fams, tt.svc)
		if tt.want == "" {
			if ok {
				t.Errorf("%q matched %q, want none", tt.svc.Name, f.Name)
			}
			continue
		}
		if f.Name != tt.want {
			t.Errorf("%q matched %q, want %q", tt.svc.Name, f.Name, tt.want)
		}
	}
}
