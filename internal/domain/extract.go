package domain

import "context"

// Extractor derives coarse attribute preferences from free-form text.
// Output maps attribute family to surface values; callers normalize against
// the ontology and treat provider failures as "no attributes".
type Extractor interface {
	Extract(ctx context.Context, conversation string) (map[string][]string, error)
}
