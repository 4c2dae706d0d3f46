package collection

import (
	"context"

	"qbank/internal/model"
)

// Resource is one record in a managed collection.
type Resource interface {
	ResourceID() string
	ResourceTitle() string
	// ResourceScopeID is the owning scope. It never changes.
	ResourceScopeID() string
}

// Lister is the read half of Remote.
type Lister[R Resource] interface {
	List(ctx context.Context, scopeID string) ([]R, error)
}

// Remote is the persistence API a collection is reconciled against.
type Remote[R Resource] interface {
	Lister[R]
	Create(ctx context.Context, draft model.Draft) (R, error)
	Rename(ctx context.Context, id, title string) (R, error)
	Delete(ctx context.Context, id string) error
}

// Kind holds the per-resource labels and scope naming. One Manager
// implementation serves every kind.
type Kind struct {
	// Name is the lower-case singular used in messages ("project").
	Name string
	// Label is the capitalized singular used in titles ("Project").
	Label string
	// Plural is the capitalized plural ("Projects").
	Plural string
	// ScopeKey names the owning-scope field in payloads ("userId").
	ScopeKey string
	// ScopeLabel names the owning scope for error placeholders ("User").
	ScopeLabel string
}

// MissingScopeMessage is the placeholder shown instead of the collection when
// the owning scope id is absent.
func (k Kind) MissingScopeMessage() string {
	label := k.ScopeLabel
	if label == "" {
		label = "Scope"
	}
	return "Error: " + label + " is missing"
}
