package domain

import "context"

// Discoverer abstracts a package-manager license inspector (npm
// license-checker, pip-licenses, etc.). Each implementation owns the full
// cycle for its ecosystem: detecting that the project uses it, invoking the
// external tool, and translating the tool's output into stanzas.
type Discoverer interface {
	// Name returns the discoverer identifier (e.g. "npm", "pip").
	Name() string

	// Detect returns true if the project in the given directory uses this
	// ecosystem and the inspection tool is available.
	Detect(ctx context.Context, dir string) bool

	// Discover invokes the external license inspector and returns one stanza
	// per reported package. A failed invocation returns an error; the caller
	// degrades it to zero stanzas.
	Discover(ctx context.Context, dir string) ([]Stanza, error)
}
