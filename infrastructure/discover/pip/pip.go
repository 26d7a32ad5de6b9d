// Package pip discovers dependency licenses of Python projects through the
// pip-licenses tool.
package pip

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

	logger "github.com/sirupsen/logrus"

	"github.com/licenseforge/copyrightgen/domain"
	"github.com/licenseforge/copyrightgen/infrastructure/licensefile"
)

const discovererName = "pip"

var pipLicensesArgs = []string{"--with-authors", "--with-license-file", "--format=json"}

// Discoverer implements domain.Discoverer for Python projects. It runs
// pip-licenses, preferring the project's Pipenv environment when one exists.
type Discoverer struct{}

// New creates a new pip discoverer.
func New() domain.Discoverer {
	return &Discoverer{}
}

func (d *Discoverer) Name() string { return discovererName }

// Detect returns true when a Python runtime is available and the directory
// looks like a Python project: a requirements file, or failing that any
// .py file (the least reliable signal, kept last on purpose).
func (d *Discoverer) Detect(_ context.Context, dir string) bool {
	if pythonBinary() == "" && !hasPipenv(dir) {
		return false
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), "requirements") {
			return true
		}
	}
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".py" {
			return true
		}
	}

	return false
}

// Discover runs pip-licenses and returns one stanza per installed package,
// attempting the invocations of CandidateCommands in order.
func (d *Discoverer) Discover(ctx context.Context, dir string) ([]domain.Stanza, error) {
	var lastErr error

	for _, argv := range CandidateCommands(hasPipenv(dir), pythonBinary()) {
		output, err := run(ctx, dir, argv)
		if err != nil {
			lastErr = err
			continue
		}
		return ParseReport(output)
	}

	if lastErr == nil {
		lastErr = errors.New("no usable pip-licenses invocation found")
	}
	return nil, fmt.Errorf("pip-licenses failed: %w", lastErr)
}

// reportEntry is one package in pip-licenses' JSON output.
type reportEntry struct {
	Name        string `json:"Name"`
	License     string `json:"License"`
	Author      string `json:"Author"`
	LicenseFile string `json:"LicenseFile"`
}

// ParseReport translates pip-licenses' JSON array into stanzas, preserving
// report order.
func ParseReport(data []byte) ([]domain.Stanza, error) {
	var entries []reportEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("unexpected pip-licenses output: %w", err)
	}

	stanzas := make([]domain.Stanza, 0, len(entries))
	for _, entry := range entries {
		license := entry.License
		if license == "" {
			logger.Warnf("[pip] Package %q reported no license", entry.Name)
			license = domain.UnknownLicense
		}

		stanza := domain.Stanza{
			Name:    entry.Name,
			Author:  entry.Author,
			License: license,
			Origin:  domain.OriginPip,
		}

		if entry.LicenseFile != "" {
			authorYear, year, err := licensefile.AttributionFromFile(entry.LicenseFile)
			if err != nil {
				logger.Warnf("[pip] Failed to scan license file for %q: %v", entry.Name, err)
			} else {
				stanza.AuthorYear = authorYear
				if stanza.AuthorYear == "" {
					stanza.Year = year
				}
			}
		}

		stanzas = append(stanzas, stanza)
	}

	return stanzas, nil
}

// CandidateCommands builds the pip-licenses invocations to attempt, in
// order: the pip-licenses bin inside the project's Pipenv, the module
// through the Pipenv's interpreter, then the module through the system
// interpreter.
func CandidateCommands(pipenv bool, python string) [][]string {
	var commands [][]string

	if pipenv {
		commands = append(commands, append([]string{"pipenv", "run", "pip-licenses"}, pipLicensesArgs...))
	}

	if pipenv && python != "" {
		commands = append(commands, append([]string{"pipenv", "run", python, "-m", "piplicenses"}, pipLicensesArgs...))
	}

	if python != "" {
		commands = append(commands, append([]string{python, "-m", "piplicenses"}, pipLicensesArgs...))
	}

	return commands
}

func hasPipenv(dir string) bool {
	if _, err := exec.LookPath("pipenv"); err != nil {
		return false
	}
	_, err := os.Stat(filepath.Join(dir, "Pipfile"))
	return err == nil
}

func pythonBinary() string {
	for _, candidate := range []string{"python", "python3"} {
		if _, err := exec.LookPath(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

func run(ctx context.Context, dir string, argv []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%q: %w: %s", strings.Join(argv, " "), err, strings.TrimSpace(stderr.String()))
	}

	return stdout.Bytes(), nil
}
