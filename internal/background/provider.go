package background

import "context"

// Orientations a query can ask for. Vertical output wants portrait media.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Query is one provider search: the exact term plus the wanted orientation.
type Query struct {
	Term        string
	Orientation string
}

// Candidate is a downloadable media hit returned by a provider search.
type Candidate struct {
	ID       int64
	URL      string
	Kind     Kind
	Width    int
	Height   int
	Duration int
}

// Provider is the common capability interface for stock-media sources. The
// resolver iterates providers in priority order until one yields a result.
//
// Search returns ranked candidates for a query. Implementations map empty
// results and malformed responses to an empty slice or an error; the resolver
// treats both as "no result from this provider" and moves on.
type Provider interface {
	Name() string
	Available() bool
	Search(ctx context.Context, query Query) ([]Candidate, error)
}
