package application_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/licenseforge/copyrightgen/application"
	"github.com/licenseforge/copyrightgen/domain"
	"github.com/licenseforge/copyrightgen/infrastructure/descriptor"
	"github.com/licenseforge/copyrightgen/infrastructure/discover"
	"github.com/licenseforge/copyrightgen/infrastructure/render"
	testdoubles "github.com/licenseforge/copyrightgen/test"
	"github.com/licenseforge/copyrightgen/test/entitybuilders"
)

// --- helpers ---

func buildProject(t *testing.T, descriptors map[string]string) *domain.Project {
	t.Helper()

	thirdparty := t.TempDir()
	for name, content := range descriptors {
		require.NoError(t, os.WriteFile(filepath.Join(thirdparty, name), []byte(content), 0o644))
	}

	return &domain.Project{
		SourceURL:            "https://example.com/proj",
		UpstreamName:         "Proj",
		UpstreamContactName:  "Jane Doe",
		UpstreamContactEmail: "jane@example.com",
		ThirdpartyFolderPath: thirdparty,
	}
}

func buildService(discoverers ...domain.Discoverer) *application.GenerateService {
	registry := discover.NewRegistry()
	for _, d := range discoverers {
		registry.Register(d)
	}
	return application.NewGenerateService(descriptor.NewLoader(), registry, render.NewRenderer())
}

func outputPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "COPYRIGHT.txt")
}

// --- tests ---

func TestGenerateService_Run(t *testing.T) {
	t.Parallel()

	t.Run("should render manual stanzas before discovered ones", func(t *testing.T) {
		t.Parallel()

		// given
		ctx := context.Background()
		project := buildProject(t, map[string]string{
			"libfoo.copyright_meta": "name = libfoo\nlicense = MIT\nyear = 2020\nauthor = Jane Doe\n",
		})
		spy := &testdoubles.SpyDiscoverer{
			DiscovererName: "npm",
			DetectResult:   true,
			Stanzas: []domain.Stanza{
				entitybuilders.NewStanzaBuilder().
					WithName("left-pad@1.3.0").
					WithLicense("WTFPL").
					WithOrigin(domain.OriginNpm).
					BuildStanza(),
			},
		}
		svc := buildService(spy)
		out := outputPath(t)

		// when
		err := svc.Run(ctx, project, application.RunOptions{OutputPath: out})

		// then
		require.NoError(t, err)
		content, readErr := os.ReadFile(out)
		require.NoError(t, readErr)
		document := string(content)
		assert.Less(t, strings.Index(document, "License: MIT"), strings.Index(document, "License: WTFPL"))
		require.Len(t, spy.DiscoveredDirs, 1)
	})

	t.Run("should produce the documented two-descriptor scenario", func(t *testing.T) {
		t.Parallel()

		// given
		ctx := context.Background()
		project := buildProject(t, map[string]string{
			"01_libfoo.copyright_meta": "name = libfoo\nlicense = MIT\nyear = 2020\nauthor = Jane Doe\n",
			"02_libbar.copyright_meta": "name = libbar\nlicense = Apache-2.0\ncopyright = Copyright 2019 ACME Corp\n",
		})
		svc := buildService() // all adapters disabled / absent
		out := outputPath(t)

		// when
		err := svc.Run(ctx, project, application.RunOptions{OutputPath: out})

		// then
		require.NoError(t, err)
		content, readErr := os.ReadFile(out)
		require.NoError(t, readErr)
		assert.Equal(t, `Format: https://www.debian.org/doc/packaging-manuals/copyright-format/1.0/
Upstream-Name: Proj
Upstream-Contact: Jane Doe <jane@example.com>
Source: https://example.com/proj

Files: *
Copyright: 2020 Jane Doe
License: MIT

Files: *
Copyright: Copyright 2019 ACME Corp
License: Apache-2.0
`, string(content))
	})

	t.Run("should skip a disabled discoverer without probing it", func(t *testing.T) {
		t.Parallel()

		// given
		ctx := context.Background()
		project := buildProject(t, nil)
		spy := &testdoubles.SpyDiscoverer{
			DiscovererName: "npm",
			DetectResult:   true,
			Stanzas: []domain.Stanza{
				{Name: "left-pad@1.3.0", License: "WTFPL", Origin: domain.OriginNpm},
			},
		}
		svc := buildService(spy)
		out := outputPath(t)

		// when
		err := svc.Run(ctx, project, application.RunOptions{
			OutputPath: out,
			Disabled:   map[string]bool{"npm": true},
		})

		// then
		require.NoError(t, err)
		assert.Empty(t, spy.DetectedDirs)
		assert.Empty(t, spy.DiscoveredDirs)
		content, readErr := os.ReadFile(out)
		require.NoError(t, readErr)
		assert.NotContains(t, string(content), "WTFPL")
	})

	t.Run("should let a manual descriptor win over a discovered package", func(t *testing.T) {
		t.Parallel()

		// given
		ctx := context.Background()
		project := buildProject(t, map[string]string{
			"left-pad.copyright_meta": "name = left-pad\nlicense = MIT\nauthor = Jane Doe\n",
		})
		spy := &testdoubles.SpyDiscoverer{
			DiscovererName: "npm",
			DetectResult:   true,
			Stanzas: []domain.Stanza{
				{Name: "left-pad", License: "WTFPL", Origin: domain.OriginNpm},
			},
		}
		svc := buildService(spy)
		out := outputPath(t)

		// when
		err := svc.Run(ctx, project, application.RunOptions{OutputPath: out})

		// then
		require.NoError(t, err)
		content, readErr := os.ReadFile(out)
		require.NoError(t, readErr)
		assert.Equal(t, 1, strings.Count(string(content), "Files: *"))
		assert.Contains(t, string(content), "License: MIT")
		assert.NotContains(t, string(content), "WTFPL")
	})

	t.Run("should degrade a failing discoverer to zero stanzas", func(t *testing.T) {
		t.Parallel()

		// given
		ctx := context.Background()
		project := buildProject(t, map[string]string{
			"libfoo.copyright_meta": "name = libfoo\nlicense = MIT\n",
		})
		broken := &testdoubles.SpyDiscoverer{
			DiscovererName: "gradle",
			DetectResult:   true,
			DiscoverErr:    errors.New("gradlew exploded"),
		}
		svc := buildService(broken)
		out := outputPath(t)

		// when
		err := svc.Run(ctx, project, application.RunOptions{OutputPath: out})

		// then
		require.NoError(t, err)
		content, readErr := os.ReadFile(out)
		require.NoError(t, readErr)
		assert.Contains(t, string(content), "License: MIT")
	})

	t.Run("should report a non-zero result when a descriptor was skipped", func(t *testing.T) {
		t.Parallel()

		// given
		ctx := context.Background()
		project := buildProject(t, map[string]string{
			"bad.copyright_meta":  "name = broken\n",
			"good.copyright_meta": "name = libfoo\nlicense = MIT\n",
		})
		svc := buildService()
		out := outputPath(t)

		// when
		err := svc.Run(ctx, project, application.RunOptions{OutputPath: out})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 descriptor(s) failed to load")

		// the valid descriptor still made it into the output
		content, readErr := os.ReadFile(out)
		require.NoError(t, readErr)
		assert.Contains(t, string(content), "License: MIT")
		assert.NotContains(t, string(content), "broken")
	})

	t.Run("should print distinct licenses in list mode without writing a file", func(t *testing.T) {
		t.Parallel()

		// given
		ctx := context.Background()
		project := buildProject(t, map[string]string{
			"01_libfoo.copyright_meta": "name = libfoo\nlicense = MIT\n",
			"02_libbar.copyright_meta": "name = libbar\nlicense = Apache-2.0\n",
			"03_libbaz.copyright_meta": "name = libbaz\nlicense = MIT\n",
		})
		svc := buildService()
		out := outputPath(t)
		var listed strings.Builder

		// when
		err := svc.Run(ctx, project, application.RunOptions{
			OutputPath: out,
			ListMode:   true,
			ListOutput: &listed,
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, "MIT\nApache-2.0\n", listed.String())
		assert.NoFileExists(t, out)
	})

	t.Run("should fail when the output file cannot be written", func(t *testing.T) {
		t.Parallel()

		// given
		ctx := context.Background()
		project := buildProject(t, nil)
		svc := buildService()

		// when
		err := svc.Run(ctx, project, application.RunOptions{
			OutputPath: filepath.Join(t.TempDir(), "missing", "COPYRIGHT.txt"),
		})

		// then
		require.Error(t, err)
	})
}
