package schema

import "strings"

// Family groups services that share structural workflow rules.
type Family struct {
	// Name is the family identifier sent to the provisioning collaborator.
	Name string
	// Keywords match case-insensitively against the service name.
	Keywords []string
	// ExpectedSteps is the step count a correctly provisioned workflow
	// has. Zero disables the check.
	ExpectedSteps int
	// Exclude lists step types that never apply to this family.
	Exclude []Type
	// RequireFiles makes the files step require an attachment even when
	// its config does not.
	RequireFiles bool
}

// Matches reports whether svc belongs to the family.
func (f Family) Matches(svc Service) bool {
	if svc.Family != "" {
		return strings.EqualFold(svc.Family, f.Name)
	}
	name := strings.ToLower(svc.Name)
	for _, k := range f.Keywords {
		if strings.Contains(name, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// DefaultFamilies returns the built-in service families. The first match
// wins, so more specific families come first.
func DefaultFamilies() []Family {
	return []Family{
		{
			Name:     "clothing",
			Keywords: []string{"clothing", "clothes", "t-shirt", "tshirt", "hoodie", "ملابس"},
			Exclude:  []Type{TypePages, TypePrintSides},
		},
		{
			Name:          "flex",
			Keywords:      []string{"flex", "فليكس"},
			ExpectedSteps: 6,
			RequireFiles:  true,
		},
		{
			Name:         "printing",
			Keywords:     []string{"print", "lecture", "طباعة", "محاضرات"},
			RequireFiles: true,
		},
	}
}

// MatchFamily returns the first family svc belongs to.
func MatchFamily(families []Family, svc Service) (Family, bool) {
	for _, f := range families {
		if f.Matches(svc) {
			return f, true
		}
	}
	return Family{}, false
}
