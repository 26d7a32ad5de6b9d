// Package descriptor loads hand-written per-dependency copyright descriptors
// from the project's third-party folder.
package descriptor

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	logger "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/licenseforge/copyrightgen/domain"
	"github.com/licenseforge/copyrightgen/infrastructure/licensefile"
)

// Descriptor file suffixes. The extension designates the format; the bare
// suffix is the key-value format the original tooling used.
const (
	suffixKeyValue = ".copyright_meta"
	suffixYAML     = ".copyright_meta.yaml"
	suffixYML      = ".copyright_meta.yml"
	suffixTOML     = ".copyright_meta.toml"
)

// raw mirrors a descriptor file before validation.
type raw struct {
	Name        string `yaml:"name" toml:"name" ini:"name"`
	Year        string `yaml:"year" toml:"year" ini:"year"`
	Author      string `yaml:"author" toml:"author" ini:"author"`
	AuthorYear  string `yaml:"author_year" toml:"author_year" ini:"author_year"`
	Copyright   string `yaml:"copyright" toml:"copyright" ini:"copyright"`
	License     string `yaml:"license" toml:"license" ini:"license"`
	LicenseFile string `yaml:"license_file" toml:"license_file" ini:"license_file"`
	LicenseURL  string `yaml:"license_url" toml:"license_url" ini:"license_url"`
}

// Loader discovers and parses dependency descriptors.
type Loader struct{}

// NewLoader creates a descriptor loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load enumerates the descriptor files directly inside dir (lexicographic
// order) and parses each into a manual stanza. A malformed or incomplete
// file does not abort the run: it is reported, collected as a failure, and
// skipped. When two descriptors share a name the later one replaces the
// earlier in place, with a warning.
func (l *Loader) Load(ctx context.Context, dir string) ([]domain.Stanza, []error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warnf("Cannot enumerate third-party folder %q: %v", dir, err)
		return nil, nil
	}

	var stanzas []domain.Stanza
	var failures []error
	indexByName := make(map[string]int)

	for _, entry := range entries {
		if entry.IsDir() || !isDescriptor(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		stanza, loadErr := l.loadFile(ctx, path, dir)
		if loadErr != nil {
			logger.Errorf("Skipping descriptor: %v", loadErr)
			failures = append(failures, loadErr)
			continue
		}

		if i, dup := indexByName[stanza.Name]; dup {
			logger.Warnf("Duplicate descriptor for %q in %q, overriding the earlier one", stanza.Name, path)
			stanzas[i] = stanza
			continue
		}

		indexByName[stanza.Name] = len(stanzas)
		stanzas = append(stanzas, stanza)
	}

	return stanzas, failures
}

func (l *Loader) loadFile(ctx context.Context, path string, dir string) (domain.Stanza, error) {
	var parsed raw
	var err error

	switch {
	case strings.HasSuffix(path, suffixYAML) || strings.HasSuffix(path, suffixYML):
		err = parseYAML(path, &parsed)
	case strings.HasSuffix(path, suffixTOML):
		err = parseTOML(path, &parsed)
	default:
		err = parseKeyValue(path, &parsed)
	}
	if err != nil {
		return domain.Stanza{}, &domain.UnreadableDescriptorError{Path: path, Err: err}
	}

	if parsed.Name == "" {
		return domain.Stanza{}, &domain.MissingFieldError{Path: path, Field: "name"}
	}
	if parsed.License == "" {
		return domain.Stanza{}, &domain.MissingFieldError{Path: path, Field: "license"}
	}

	stanza := domain.Stanza{
		Name:       parsed.Name,
		Year:       parsed.Year,
		Author:     parsed.Author,
		AuthorYear: parsed.AuthorYear,
		Copyright:  parsed.Copyright,
		License:    parsed.License,
		Origin:     domain.OriginManual,
	}

	l.backfillAttribution(ctx, &stanza, parsed, dir)
	return stanza, nil
}

// backfillAttribution fills the attribution fields from a referenced license
// file when the descriptor itself supplies none. A license_url is downloaded
// next to the descriptors first. All failures here are soft.
func (l *Loader) backfillAttribution(ctx context.Context, stanza *domain.Stanza, parsed raw, dir string) {
	if stanza.Copyright != "" || stanza.AuthorYear != "" || stanza.Year != "" || stanza.Author != "" {
		return
	}

	licensePath := parsed.LicenseFile
	if licensePath != "" && !filepath.IsAbs(licensePath) {
		licensePath = filepath.Join(dir, licensePath)
	}

	if parsed.LicenseURL != "" {
		fetched, fetchErr := licensefile.Fetch(ctx, parsed.LicenseURL, dir)
		if fetchErr != nil {
			logger.Warnf("Failed to download license for %q: %v", stanza.Name, fetchErr)
		} else {
			licensePath = fetched
		}
	}

	if licensePath == "" {
		return
	}

	authorYear, year, attrErr := licensefile.AttributionFromFile(licensePath)
	if attrErr != nil {
		logger.Warnf("Failed to scan license file for %q: %v", stanza.Name, attrErr)
		return
	}

	stanza.AuthorYear = authorYear
	stanza.Year = year
}

func isDescriptor(name string) bool {
	return strings.HasSuffix(name, suffixKeyValue) ||
		strings.HasSuffix(name, suffixYAML) ||
		strings.HasSuffix(name, suffixYML) ||
		strings.HasSuffix(name, suffixTOML)
}

// parseKeyValue reads the section-less key-value format. Files carrying a
// section header still parse; keys are looked up across all sections, and
// "#"/";" inside values stay part of the value.
func parseKeyValue(path string, dest *raw) error {
	file, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, path)
	if err != nil {
		return err
	}

	get := func(key string) string {
		for _, section := range file.Sections() {
			if section.HasKey(key) {
				return section.Key(key).String()
			}
		}
		return ""
	}

	dest.Name = get("name")
	dest.Year = get("year")
	dest.Author = get("author")
	dest.AuthorYear = get("author_year")
	dest.Copyright = get("copyright")
	dest.License = get("license")
	dest.LicenseFile = get("license_file")
	dest.LicenseURL = get("license_url")
	return nil
}

func parseYAML(path string, dest *raw) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, dest)
}

func parseTOML(path string, dest *raw) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return toml.Unmarshal(data, dest)
}
