package application

import (
	"context"
	"fmt"
	"io"
	"os"

	logger "github.com/sirupsen/logrus"

	"github.com/licenseforge/copyrightgen/domain"
	"github.com/licenseforge/copyrightgen/infrastructure/descriptor"
	"github.com/licenseforge/copyrightgen/infrastructure/discover"
	"github.com/licenseforge/copyrightgen/infrastructure/render"
)

// GenerateService orchestrates the full generation flow: load manual
// descriptors -> run enabled discoverers -> merge -> render.
type GenerateService struct {
	loader   *descriptor.Loader
	registry *discover.Registry
	renderer *render.Renderer
}

// NewGenerateService creates a new service with the given collaborators.
func NewGenerateService(
	loader *descriptor.Loader,
	registry *discover.Registry,
	renderer *render.Renderer,
) *GenerateService {
	return &GenerateService{
		loader:   loader,
		registry: registry,
		renderer: renderer,
	}
}

// RunOptions holds runtime options for a single run.
type RunOptions struct {
	ProjectDir string          // Directory the discoverers inspect; "." when empty
	OutputPath string          // Destination of the DEP-5 document
	ListMode   bool            // Print distinct licenses instead of rendering
	Disabled   map[string]bool // Discoverer name -> disabled by flag
	ListOutput io.Writer       // Defaults to stdout
}

// Run executes the full generation cycle. Descriptor-level failures are
// collected and reported at the end without stopping the run; a failed
// output write is fatal immediately.
func (s *GenerateService) Run(ctx context.Context, project *domain.Project, opts RunOptions) error {
	projectDir := opts.ProjectDir
	if projectDir == "" {
		projectDir = "."
	}

	manual, failures := s.loader.Load(ctx, project.ThirdpartyFolderPath)
	logger.Infof("Loaded %d manual descriptor(s) from %q", len(manual), project.ThirdpartyFolderPath)

	auto := s.discover(ctx, projectDir, opts.Disabled)

	merged := domain.Merge(manual, auto)

	if opts.ListMode {
		out := opts.ListOutput
		if out == nil {
			out = os.Stdout
		}
		if err := s.renderer.WriteLicenseList(out, merged); err != nil {
			return err
		}
	} else {
		if err := s.renderer.WriteFile(opts.OutputPath, project, merged); err != nil {
			return err
		}
		logger.Infof("Wrote %d stanza(s) to %q", len(merged), opts.OutputPath)
	}

	if len(failures) > 0 {
		return fmt.Errorf("%d descriptor(s) failed to load", len(failures))
	}
	return nil
}

// discover runs every enabled discoverer in registry order. Each failure
// degrades to zero stanzas from that discoverer plus a warning — never
// fatal to the run.
func (s *GenerateService) discover(ctx context.Context, dir string, disabled map[string]bool) []domain.Stanza {
	var auto []domain.Stanza

	for _, d := range s.registry.All() {
		if disabled[d.Name()] {
			logger.Debugf("[%s] Disabled by flag, skipping", d.Name())
			continue
		}

		if !d.Detect(ctx, dir) {
			logger.Debugf("[%s] Not detected in %q, skipping", d.Name(), dir)
			continue
		}

		logger.Infof("[%s] Discovering licenses...", d.Name())

		stanzas, err := d.Discover(ctx, dir)
		if err != nil {
			discErr := &domain.DiscoveryError{Discoverer: d.Name(), Err: err}
			logger.Warnf("%v (continuing without its packages)", discErr)
			continue
		}

		logger.Infof("[%s] Found %d package(s)", d.Name(), len(stanzas))
		auto = append(auto, stanzas...)
	}

	return auto
}
