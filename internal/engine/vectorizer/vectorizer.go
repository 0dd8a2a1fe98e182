// Package vectorizer lays a normalized Record out as a fixed-order vector.
package vectorizer

import (
	"github.com/crimson-sun/stresscheck/internal/engine/schema"
	"github.com/crimson-sun/stresscheck/internal/model"
)

// Vectorize returns rec's values in the order of s. Features missing from
// rec are 0; keys of rec that s does not name are ignored.
func Vectorize(s schema.Schema, rec model.Record) []float64 {
	vec := make([]float64, s.Len())
	for i := range vec {
		vec[i] = rec[s.Name(i)]
	}
	return vec
}
