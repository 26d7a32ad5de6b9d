// Package gradle discovers dependency licenses of Gradle projects through
// the Gradle-License-Report plugin.
package gradle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/licenseforge/copyrightgen/domain"
)

const discovererName = "gradle"

// reportRelPath is where the JsonReportRenderer of Gradle-License-Report
// writes its output, relative to the project root.
var reportRelPath = filepath.Join("build", "reports", "dependency-license", "report.json")

// Discoverer implements domain.Discoverer for Gradle projects. It runs the
// project's gradlew wrapper to generate a license report and parses the
// resulting JSON file.
type Discoverer struct{}

// New creates a new gradle discoverer.
func New() domain.Discoverer {
	return &Discoverer{}
}

func (d *Discoverer) Name() string { return discovererName }

// Detect returns true when the directory holds a Gradle wrapper script.
func (d *Discoverer) Detect(_ context.Context, dir string) bool {
	info, err := os.Stat(filepath.Join(dir, wrapperName()))
	return err == nil && !info.IsDir()
}

// Discover runs "gradlew generateLicenseReport" and parses the report file.
func (d *Discoverer) Discover(ctx context.Context, dir string) ([]domain.Stanza, error) {
	wrapper := filepath.Join(dir, wrapperName())

	cmd := exec.CommandContext(ctx, wrapper, "generateLicenseReport")
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf(
			"%q failed (is the Gradle-License-Report plugin configured?): %w: %s",
			wrapper, err, strings.TrimSpace(stderr.String()),
		)
	}

	reportPath := filepath.Join(dir, reportRelPath)
	data, err := os.ReadFile(reportPath)
	if err != nil {
		return nil, fmt.Errorf(
			"license report not found at %q, ensure the renderers include JsonReportRenderer(\"report.json\"): %w",
			reportPath, err,
		)
	}

	return ParseReport(data)
}

// report mirrors the JsonReportRenderer output.
type report struct {
	Dependencies []struct {
		ModuleName    string `json:"moduleName"`
		ModuleLicense string `json:"moduleLicense"`
	} `json:"dependencies"`
}

// ParseReport translates the plugin's report.json into stanzas, preserving
// report order.
func ParseReport(data []byte) ([]domain.Stanza, error) {
	var parsed report
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("unexpected license report content: %w", err)
	}
	if parsed.Dependencies == nil {
		return nil, fmt.Errorf("license report has no %q key, is the file malformed?", "dependencies")
	}

	stanzas := make([]domain.Stanza, 0, len(parsed.Dependencies))
	for _, dep := range parsed.Dependencies {
		license := dep.ModuleLicense
		if license == "" {
			logger.Warnf("[gradle] Module %q reported no license", dep.ModuleName)
			license = domain.UnknownLicense
		}

		stanzas = append(stanzas, domain.Stanza{
			Name:    dep.ModuleName,
			License: license,
			Origin:  domain.OriginGradle,
		})
	}

	return stanzas, nil
}

func wrapperName() string {
	if runtime.GOOS == "windows" {
		return "gradlew.bat"
	}
	return "gradlew"
}
