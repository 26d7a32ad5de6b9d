// Package npm discovers dependency licenses of Node.js projects through the
// license-checker tool.
package npm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/licenseforge/copyrightgen/domain"
	"github.com/licenseforge/copyrightgen/infrastructure/licensefile"
)

const discovererName = "npm"

// Discoverer implements domain.Discoverer for npm projects. It shells out to
// "npm exec -- license-checker --json" and translates the report.
type Discoverer struct{}

// New creates a new npm discoverer.
func New() domain.Discoverer {
	return &Discoverer{}
}

func (d *Discoverer) Name() string { return discovererName }

// Detect returns true when npm is installed and the directory holds a
// package.json.
func (d *Discoverer) Detect(_ context.Context, dir string) bool {
	if _, err := exec.LookPath("npm"); err != nil {
		return false
	}
	_, err := os.Stat(filepath.Join(dir, "package.json"))
	return err == nil
}

// Discover runs license-checker and returns one stanza per package.
func (d *Discoverer) Discover(ctx context.Context, dir string) ([]domain.Stanza, error) {
	cmd := exec.CommandContext(ctx, "npm", "exec", "--no", "--", "license-checker", "--json")
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf(
			"license-checker failed (install with 'npm install --save-dev license-checker'): %w: %s",
			err, strings.TrimSpace(stderr.String()),
		)
	}

	return ParseReport(stdout.Bytes())
}

// reportEntry is one package in license-checker's JSON output.
type reportEntry struct {
	Licenses    string `json:"licenses"`
	Publisher   string `json:"publisher"`
	LicenseFile string `json:"licenseFile"`
}

// ParseReport translates license-checker's JSON object into stanzas. The
// object is keyed by "name@version"; key order is preserved so the rendered
// document stays deterministic.
func ParseReport(data []byte) ([]domain.Stanza, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(decoder, '{'); err != nil {
		return nil, fmt.Errorf("unexpected license-checker output: %w", err)
	}

	var stanzas []domain.Stanza
	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("unexpected license-checker output: %w", err)
		}
		name, ok := token.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected license-checker output: non-string key %v", token)
		}

		var entry reportEntry
		if decodeErr := decoder.Decode(&entry); decodeErr != nil {
			return nil, fmt.Errorf("unexpected license-checker output for %q: %w", name, decodeErr)
		}

		stanzas = append(stanzas, toStanza(name, entry))
	}

	return stanzas, nil
}

func toStanza(name string, entry reportEntry) domain.Stanza {
	license := entry.Licenses
	if license == "" {
		logger.Warnf("[npm] Package %q reported no license", name)
		license = domain.UnknownLicense
	}

	stanza := domain.Stanza{
		Name:    name,
		Author:  entry.Publisher,
		License: license,
		Origin:  domain.OriginNpm,
	}

	if entry.LicenseFile != "" {
		authorYear, year, err := licensefile.AttributionFromFile(entry.LicenseFile)
		if err != nil {
			logger.Warnf("[npm] Failed to scan license file for %q: %v", name, err)
		} else {
			stanza.AuthorYear = authorYear
			if stanza.AuthorYear == "" {
				stanza.Year = year
			}
		}
	}

	return stanza
}

func expectDelim(decoder *json.Decoder, want json.Delim) error {
	token, err := decoder.Token()
	if err != nil {
		return err
	}
	if delim, ok := token.(json.Delim); !ok || delim != want {
		return fmt.Errorf("expected %q, got %v", want, token)
	}
	return nil
}
