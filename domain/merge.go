package domain

// Merge combines manually authored stanzas with auto-discovered ones into a
// single ordered, deduplicated list. Manual stanzas come first, preserving
// their discovery order; auto-discovered stanzas follow in the order their
// discoverers ran, each preserving its own discovery order. Name matching is
// exact and case-sensitive, and the first stanza seen for a name fully
// replaces any later one — there is no field-level merge.
func Merge(manual []Stanza, auto []Stanza) []Stanza {
	merged := make([]Stanza, 0, len(manual)+len(auto))
	seen := make(map[string]struct{}, len(manual)+len(auto))

	for _, s := range manual {
		if _, ok := seen[s.Name]; ok {
			continue
		}
		seen[s.Name] = struct{}{}
		merged = append(merged, s)
	}

	for _, s := range auto {
		if _, ok := seen[s.Name]; ok {
			continue
		}
		seen[s.Name] = struct{}{}
		merged = append(merged, s)
	}

	return merged
}

// UniqueLicenses returns the distinct license strings across the given
// stanzas in first-seen order.
func UniqueLicenses(stanzas []Stanza) []string {
	licenses := make([]string, 0, len(stanzas))
	seen := make(map[string]struct{}, len(stanzas))

	for _, s := range stanzas {
		if _, ok := seen[s.License]; ok {
			continue
		}
		seen[s.License] = struct{}{}
		licenses = append(licenses, s.License)
	}

	return licenses
}
