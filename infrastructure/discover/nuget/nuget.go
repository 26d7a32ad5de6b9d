// Package nuget discovers dependency licenses of .NET projects through the
// nuget-license tool.
package nuget

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"unicode"

	logger "github.com/sirupsen/logrus"

	"github.com/licenseforge/copyrightgen/domain"
)

const discovererName = "nuget"

// Discoverer implements domain.Discoverer for .NET projects. It runs
// nuget-license against the solution or project file and translates the
// JSON report.
type Discoverer struct{}

// New creates a new nuget discoverer.
func New() domain.Discoverer {
	return &Discoverer{}
}

func (d *Discoverer) Name() string { return discovererName }

// Detect returns true when nuget-license is installed and the directory
// holds a solution or project file.
func (d *Discoverer) Detect(_ context.Context, dir string) bool {
	if _, err := exec.LookPath("nuget-license"); err != nil {
		return false
	}
	return projectFile(dir) != ""
}

// Discover runs nuget-license and returns one stanza per package.
func (d *Discoverer) Discover(ctx context.Context, dir string) ([]domain.Stanza, error) {
	project := projectFile(dir)
	if project == "" {
		return nil, errors.New("no .sln or .csproj file found")
	}

	cmd := exec.CommandContext(ctx, "nuget-license", "-i", project, "-o", "jsonPretty")
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("nuget-license failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return ParseReport(stdout.Bytes())
}

// reportEntry is one package in nuget-license's JSON output.
type reportEntry struct {
	PackageID string `json:"PackageId"`
	License   string `json:"License"`
	Authors   string `json:"Authors"`
	Copyright string `json:"Copyright"`
}

// ParseReport translates nuget-license's JSON array into stanzas, preserving
// report order.
func ParseReport(data []byte) ([]domain.Stanza, error) {
	var entries []reportEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("unexpected nuget-license output: %w", err)
	}

	stanzas := make([]domain.Stanza, 0, len(entries))
	for _, entry := range entries {
		license := entry.License
		if license == "" {
			logger.Warnf("[nuget] Package %q reported no license", entry.PackageID)
			license = domain.UnknownLicense
		}

		stanzas = append(stanzas, domain.Stanza{
			Name:      entry.PackageID,
			Author:    entry.Authors,
			Copyright: CleanCopyright(entry.Copyright),
			License:   license,
			Origin:    domain.OriginNuget,
		})
	}

	return stanzas, nil
}

// CleanCopyright strips the "Copyright" literal NuGet packages usually embed
// in their copyright metadata, along with any leading punctuation, leaving
// just the attribution. The formatter adds the field prefix back uniformly.
func CleanCopyright(raw string) string {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, "Copyright", ""))

	start := -1
	for i, r := range cleaned {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			start = i
			break
		}
	}
	if start < 0 {
		return ""
	}

	return cleaned[start:]
}

// projectFile returns the solution (preferred) or project file to inspect,
// or an empty string when there is none. Lexicographic order keeps the
// choice stable when several candidates exist.
func projectFile(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	for _, ext := range []string{".sln", ".csproj"} {
		for _, entry := range entries {
			if !entry.IsDir() && filepath.Ext(entry.Name()) == ext {
				return filepath.Join(dir, entry.Name())
			}
		}
	}

	return ""
}
