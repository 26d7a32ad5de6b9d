package cmd

import (
	"go.uber.org/dig"

	"github.com/licenseforge/copyrightgen/application"
	"github.com/licenseforge/copyrightgen/infrastructure/descriptor"
	"github.com/licenseforge/copyrightgen/infrastructure/discover"
	"github.com/licenseforge/copyrightgen/infrastructure/discover/gradle"
	"github.com/licenseforge/copyrightgen/infrastructure/discover/npm"
	"github.com/licenseforge/copyrightgen/infrastructure/discover/nuget"
	"github.com/licenseforge/copyrightgen/infrastructure/discover/pip"
	"github.com/licenseforge/copyrightgen/infrastructure/render"
)

// injectGenerateService wires the service graph through a dig container.
func injectGenerateService() *application.GenerateService {
	container := dig.New()

	constructors := []any{
		descriptor.NewLoader,
		render.NewRenderer,
		newDiscovererRegistry,
		application.NewGenerateService,
	}
	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			panic(err)
		}
	}

	var svc *application.GenerateService
	if err := container.Invoke(func(s *application.GenerateService) {
		svc = s
	}); err != nil {
		panic(err)
	}

	return svc
}

// newDiscovererRegistry registers all discoverers in their fixed run order:
// npm, pip, gradle, nuget. This order is what keeps the auto-discovered part
// of the document deterministic.
func newDiscovererRegistry() *discover.Registry {
	registry := discover.NewRegistry()
	registry.Register(npm.New())
	registry.Register(pip.New())
	registry.Register(gradle.New())
	registry.Register(nuget.New())
	return registry
}
