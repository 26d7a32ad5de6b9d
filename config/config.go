package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	logger "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"

	"github.com/licenseforge/copyrightgen/domain"
)

// Key names of the project descriptor file.
const (
	KeySourceURL            = "source_url"
	KeyUpstreamName         = "upstream_name"
	KeyUpstreamContactName  = "upstream_contact_name"
	KeyUpstreamContactEmail = "upstream_contact_email"
	KeyThirdpartyFolderPath = "thirdparty_folder_path"
)

// DefaultFileName is the project descriptor looked up when no path is given.
const DefaultFileName = ".copyright"

const placeholderSourceURL = "https://www.example.com/software/project"

// Load reads and validates the project descriptor. Every key is required;
// a missing key is fatal for the whole run. The key-value format tolerates
// an optional leading section header, and "#"/";" inside values stay part
// of the value.
func Load(path string) (*domain.Project, error) {
	file, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, path)
	if err != nil {
		return nil, &domain.UnreadableDescriptorError{Path: path, Err: err}
	}

	project := &domain.Project{}
	for _, binding := range []struct {
		key  string
		dest *string
	}{
		{KeySourceURL, &project.SourceURL},
		{KeyUpstreamName, &project.UpstreamName},
		{KeyUpstreamContactName, &project.UpstreamContactName},
		{KeyUpstreamContactEmail, &project.UpstreamContactEmail},
		{KeyThirdpartyFolderPath, &project.ThirdpartyFolderPath},
	} {
		value, found := lookup(file, binding.key)
		if !found || value == "" {
			return nil, &domain.MissingFieldError{Path: path, Field: binding.key}
		}
		*binding.dest = value
	}

	if _, statErr := os.Stat(project.ThirdpartyFolderPath); statErr != nil {
		logger.Warnf("Third-party folder %q does not exist", project.ThirdpartyFolderPath)
	}

	return project, nil
}

// WriteDefault creates a starter project descriptor at the given path. The
// source URL is taken from the "origin" remote of the enclosing git
// repository when one is found, falling back to a placeholder.
func WriteDefault(path string) error {
	sourceURL := placeholderSourceURL
	if remote := detectRemoteURL(filepath.Dir(path)); remote != "" {
		sourceURL = remote
	}

	content := fmt.Sprintf(
		"%s = %s\n%s = SOFTware\n%s = John Doe\n%s = john.doe@example.com\n%s = thirdparty\n",
		KeySourceURL, sourceURL,
		KeyUpstreamName,
		KeyUpstreamContactName,
		KeyUpstreamContactEmail,
		KeyThirdpartyFolderPath,
	)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write default descriptor %q: %w", path, err)
	}

	logger.Infof("Wrote default project descriptor to %q, please fill it in", path)
	return nil
}

// lookup finds a key in any section of the descriptor. Hand-written files
// usually have no section header (keys land in ini's default section), but
// files carrying one still parse.
func lookup(file *ini.File, key string) (string, bool) {
	for _, section := range file.Sections() {
		if section.HasKey(key) {
			return section.Key(key).String(), true
		}
	}
	return "", false
}

// detectRemoteURL returns the "origin" remote URL of the git repository
// enclosing dir, or an empty string when there is none.
func detectRemoteURL(dir string) string {
	if dir == "" {
		dir = "."
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}

	remote, err := repo.Remote(git.DefaultRemoteName)
	if err != nil || len(remote.Config().URLs) == 0 {
		return ""
	}

	return remote.Config().URLs[0]
}
