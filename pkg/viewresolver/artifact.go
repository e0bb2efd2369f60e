package viewresolver

import (
	"slices"
	"strings"
)

// Artifact is a resolved template handle.
type Artifact struct {
	// Identifier locates the template in its store: an absolute file path,
	// an fs.FS path or an object key.
	Identifier string
	// VirtualPath is prefix/name as requested, underscore included for partials.
	VirtualPath string
	Name        string
	Prefix      string
	Partial     bool

	// Parts of the file name that matched the lookup candidates.
	Locale  string
	Format  string
	Variant string
	Handler string
}

// newArtifact derives the matched locale, format, variant and handler from a
// file name such as show.en.mobile+phone.tmpl.
func newArtifact(identifier, base, name, prefix string, partial bool, details Details) Artifact {
	a := Artifact{
		Identifier:  identifier,
		VirtualPath: virtualPath(name, prefix, partial),
		Name:        name,
		Prefix:      prefix,
		Partial:     partial,
	}

	action := name
	if partial {
		action = "_" + name
	}
	rest, ok := strings.CutPrefix(base, action)
	if !ok || rest == "" || rest[0] != '.' {
		return a
	}

	pieces := strings.Split(rest[1:], ".")
	for i, piece := range pieces {
		if format, variant, found := strings.Cut(piece, "+"); found {
			a.Format, a.Variant = format, variant
			continue
		}
		switch {
		case a.Locale == "" && a.Format == "" && slices.Contains(details[DetailLocale], piece):
			a.Locale = piece
		case a.Format == "" && slices.Contains(details[DetailFormats], piece):
			a.Format = piece
		case slices.Contains(details[DetailHandlers], piece):
			a.Handler = piece
		case i == len(pieces)-1:
			a.Handler = piece
		}
	}
	return a
}
