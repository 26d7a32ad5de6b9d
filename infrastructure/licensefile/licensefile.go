// Package licensefile extracts attribution hints from license text files and
// fetches remote license files referenced by descriptors.
package licensefile

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	logger "github.com/sirupsen/logrus"
)

const fetchTimeout = 15 * time.Second

const currentYearFloor = 1900

// CopyrightLines extracts attribution text from a license file. Only lines
// beginning (case-insensitively) with "copyright" and carrying a single ")"
// are kept — the common "Copyright (c) 2020 Jane Doe" form — with everything
// up to and including the ")" stripped.
func CopyrightLines(licensePath string) ([]string, error) {
	file, err := os.Open(licensePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open license file %q: %w", licensePath, err)
	}
	defer file.Close()

	var lines []string

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "copyright") {
			continue
		}

		parts := strings.SplitN(line, ")", 2)
		if len(parts) == 2 && !strings.Contains(parts[1], ")") {
			lines = append(lines, strings.TrimSpace(parts[1]))
		}
	}

	if scanErr := scanner.Err(); scanErr != nil {
		return nil, fmt.Errorf("failed to read license file %q: %w", licensePath, scanErr)
	}

	return lines, nil
}

// Years collects every standalone 4-digit run from the given text. The
// second return value is false when any collected year falls outside
// [1900, current year], which usually means the digits were not years at all.
func Years(text string, now time.Time) ([]string, bool) {
	var years []string
	digits := ""
	overflow := false

	flush := func() {
		if len(digits) == 4 && !overflow {
			years = append(years, digits)
		}
		digits = ""
		overflow = false
	}

	for _, r := range strings.ReplaceAll(text, `\n`, "\n") {
		if unicode.IsDigit(r) {
			digits += string(r)
			if len(digits) > 4 {
				overflow = true
			}
			continue
		}
		flush()
	}
	flush()

	for _, year := range years {
		value, err := strconv.Atoi(year)
		if err != nil || value < currentYearFloor || value > now.Year() {
			return years, false
		}
	}

	return years, len(years) > 0
}

// AttributionFromFile derives stanza attribution fields from a license file:
// an author_year string built from the file's copyright lines, or, failing
// that, a year range built from the years found in the full text. Both
// results may be empty; errors are soft and logged by the caller.
func AttributionFromFile(licensePath string) (authorYear string, year string, err error) {
	lines, err := CopyrightLines(licensePath)
	if err != nil {
		return "", "", err
	}
	if len(lines) > 0 {
		return strings.Join(lines, ", "), "", nil
	}

	content, err := os.ReadFile(licensePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to read license file %q: %w", licensePath, err)
	}

	years, valid := Years(string(content), time.Now())
	if valid {
		return "", strings.Join(years, "-"), nil
	}

	return "", "", nil
}

// Fetch downloads a license file into destDir and returns the path written.
// The file name is taken from the Content-Disposition header when present,
// falling back to the final path segment of the URL.
func Fetch(ctx context.Context, rawURL string, destDir string) (string, error) {
	client := &http.Client{Timeout: fetchTimeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for %q: %w", rawURL, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %q: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d fetching %q", resp.StatusCode, rawURL)
	}

	name := fileNameFor(resp.Header.Get("Content-Disposition"), rawURL)
	dest := filepath.Join(destDir, name)

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create %q: %w", dest, err)
	}
	defer out.Close()

	if _, copyErr := io.Copy(out, resp.Body); copyErr != nil {
		return "", fmt.Errorf("failed to write %q: %w", dest, copyErr)
	}

	logger.Infof("Downloaded license file %q", dest)
	return dest, nil
}

func fileNameFor(contentDisposition string, rawURL string) string {
	if contentDisposition != "" {
		if _, params, err := mime.ParseMediaType(contentDisposition); err == nil {
			if name := params["filename"]; name != "" {
				return filepath.Base(name)
			}
		}
	}

	if parsed, err := url.Parse(rawURL); err == nil {
		if name := path.Base(parsed.Path); name != "" && name != "." && name != "/" {
			return name
		}
	}

	return "LICENSE"
}
