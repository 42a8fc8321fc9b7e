// Package synth derives display values (addresses, hours, map links, titles,
// bullets, prices) from records. Every function returns a new value and never
// modifies the record it reads.
package synth

import (
	"git.home.luguber.info/inful/pagebuilder/internal/resolve"
)

// Synthesizer builds composite values on top of a field Resolver.
type Synthesizer struct {
	r *resolve.Resolver
}

// New creates a Synthesizer. A nil resolver uses the default alias table.
func New(r *resolve.Resolver) *Synthesizer {
	if r == nil {
		r = resolve.NewResolver(nil)
	}
	return &Synthesizer{r: r}
}

// Resolver returns the underlying field resolver.
func (s *Synthesizer) Resolver() *resolve.Resolver {
	return s.r
}
