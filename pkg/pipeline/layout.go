package pipeline

import (
	"github.com/matzehuels/molview/pkg/errors"
	"github.com/matzehuels/molview/pkg/layout"
	"github.com/matzehuels/molview/pkg/molecule"
	"github.com/matzehuels/molview/pkg/reference"
)

// =============================================================================
// Layout Resolution
// =============================================================================

// Resolve returns the structure selected by opts: the named reference
// molecule when Reference is set, otherwise the layout generated from
// Source. Resolve does not consult any cache.
func Resolve(opts Options) (molecule.Structure, error) {
	if opts.Reference != "" {
		m, ok := reference.Lookup(opts.Reference)
		if !ok {
			return molecule.Structure{}, errors.New(errors.ErrCodeReferenceNotFound, "unknown reference molecule: %q", opts.Reference)
		}
		return m.Structure, nil
	}
	return layout.Generate(opts.Source), nil
}

// Description returns a short description of what opts lays out, for logs.
func (o *Options) Description() string {
	if o.Reference != "" {
		return "reference:" + o.Reference
	}
	if o.Source == "" {
		return "(fallback)"
	}
	return o.Source
}
