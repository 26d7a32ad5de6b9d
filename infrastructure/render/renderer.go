// Package render emits the final DEP-5 copyright document.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/licenseforge/copyrightgen/domain"
)

// FormatURL is the fixed value of the DEP-5 "Format" header field.
const FormatURL = "https://www.debian.org/doc/packaging-manuals/copyright-format/1.0/"

// Renderer writes merged stanzas as a DEP-5 document. It only reads the
// stanzas; ordering is whatever the merge engine established.
type Renderer struct{}

// NewRenderer creates a renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// WriteDocument writes the header stanza followed by one Files stanza per
// dependency, stanzas separated by blank lines.
func (r *Renderer) WriteDocument(w io.Writer, project *domain.Project, stanzas []domain.Stanza) error {
	var doc strings.Builder

	doc.WriteString("Format: " + FormatURL + "\n")
	doc.WriteString("Upstream-Name: " + project.UpstreamName + "\n")
	doc.WriteString("Upstream-Contact: " + project.UpstreamContact() + "\n")
	doc.WriteString("Source: " + project.SourceURL + "\n")

	for _, stanza := range stanzas {
		doc.WriteString("\n")
		doc.WriteString("Files: *\n")
		if line, ok := domain.FormatCopyrightLine(stanza); ok {
			doc.WriteString(line + "\n")
		}
		doc.WriteString("License: " + stanza.License + "\n")
	}

	if _, err := io.WriteString(w, doc.String()); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// WriteFile renders the document to the given path. A write failure here is
// fatal for the run — the output file is its whole purpose.
func (r *Renderer) WriteFile(path string, project *domain.Project, stanzas []domain.Stanza) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}

	if writeErr := r.WriteDocument(file, project, stanzas); writeErr != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write output file %q: %w", path, writeErr)
	}

	if closeErr := file.Close(); closeErr != nil {
		return fmt.Errorf("failed to write output file %q: %w", path, closeErr)
	}
	return nil
}

// WriteLicenseList prints the distinct license strings across all stanzas,
// one per line, in first-seen order.
func (r *Renderer) WriteLicenseList(w io.Writer, stanzas []domain.Stanza) error {
	for _, license := range domain.UniqueLicenses(stanzas) {
		if _, err := fmt.Fprintln(w, license); err != nil {
			return fmt.Errorf("failed to write license list: %w", err)
		}
	}
	return nil
}
