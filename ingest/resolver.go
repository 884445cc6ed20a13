package ingest

import (
	"fmt"

	"github.com/Zharaskq/pitwall/models"
)

// DriverResolver maps normalized feed names to stable driver IDs. It is
// built once per batch from the driver table; after resolution the rest of
// the pipeline only ever compares IDs.
type DriverResolver struct {
	byName map[string]int
}

// NewDriverResolver indexes the known drivers by normalized name. Two
// drivers normalizing to the same name would make every feed row ambiguous,
// so that is an error rather than a silent overwrite.
func NewDriverResolver(drivers []models.Driver) (*DriverResolver, error) {
	byName := make(map[string]int, len(drivers))
	for _, d := range drivers {
		key := NormalizeName(d.Name)
		if key == "" {
			continue
		}
		if existing, ok := byName[key]; ok && existing != d.ID {
			return nil, fmt.Errorf("ambiguous driver name %q (ids %d and %d)", d.Name, existing, d.ID)
		}
		byName[key] = d.ID
	}
	return &DriverResolver{byName: byName}, nil
}

// Resolve returns the driver ID for a raw feed name, or false when no known
// driver matches. Callers treat a miss as a data-quality issue to log and
// skip, never as a fatal error.
func (r *DriverResolver) Resolve(name string) (int, bool) {
	id, ok := r.byName[NormalizeName(name)]
	return id, ok
}
