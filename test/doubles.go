// Package testdoubles provides test doubles (spies, stubs, dummies) for
// domain interfaces. These are hand-crafted implementations — no mock
// frameworks.
package testdoubles

import (
	"context"

	"github.com/licenseforge/copyrightgen/domain"
)

// SpyDiscoverer implements domain.Discoverer as a configurable spy.
// Configure the response fields for the methods your test exercises,
// then inspect the call-tracking fields to verify behavior.
type SpyDiscoverer struct {
	// --- identity ---
	DiscovererName string

	// --- Detect ---
	DetectResult bool
	// spy: directories checked
	DetectedDirs []string

	// --- Discover ---
	Stanzas     []domain.Stanza
	DiscoverErr error
	// spy: directories discovered
	DiscoveredDirs []string
}

var _ domain.Discoverer = (*SpyDiscoverer)(nil)

func (d *SpyDiscoverer) Name() string { return d.DiscovererName }

func (d *SpyDiscoverer) Detect(_ context.Context, dir string) bool {
	d.DetectedDirs = append(d.DetectedDirs, dir)
	return d.DetectResult
}

func (d *SpyDiscoverer) Discover(_ context.Context, dir string) ([]domain.Stanza, error) {
	d.DiscoveredDirs = append(d.DiscoveredDirs, dir)
	return d.Stanzas, d.DiscoverErr
}
