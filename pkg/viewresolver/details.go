package viewresolver

import "slices"

// Well-known details dimensions.
const (
	DetailFormats  = "formats"
	DetailLocale   = "locale"
	DetailHandlers = "handlers"
	DetailVariants = "variants"
)

// VariantsAny is the variants value that matches every variant of a template.
const VariantsAny = "any"

// Details maps a lookup dimension to its ordered candidate values.
// Only the formats dimension takes part in fallback expansion.
type Details map[string][]string

// Clone returns a deep copy, so the result can be modified without
// touching the receiver.
func (d Details) Clone() Details {
	if d == nil {
		return nil
	}
	out := make(Details, len(d))
	for k, v := range d {
		out[k] = slices.Clone(v)
	}
	return out
}

// Formats returns the candidate formats, most preferred first.
func (d Details) Formats() []string { return d[DetailFormats] }

// Lookup identifies a named template.
type Lookup struct {
	Name    string
	Prefix  string
	Partial bool
	Details Details
}

// VirtualPath returns prefix/name with the partial underscore applied.
func (l Lookup) VirtualPath() string {
	return virtualPath(l.Name, l.Prefix, l.Partial)
}

func virtualPath(name, prefix string, partial bool) string {
	if partial {
		name = "_" + name
	}
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
