package cmd

import (
	"context"
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/licenseforge/copyrightgen/application"
	"github.com/licenseforge/copyrightgen/config"
)

// DefaultOutputFileName is where the DEP-5 document is written unless
// overridden with --output.
const DefaultOutputFileName = "COPYRIGHT.txt"

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	inputPath     string
	copyrightPath string
	outputPath    string
	listMode      bool
	disableNpm    bool
	disablePip    bool
	disableGradle bool
	disableNuget  bool
	quiet         bool
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var rootCmd = &cobra.Command{
	Use:   "copyrightgen",
	Short: "Generates a COPYRIGHT file using the Debian copyright format",
	Long: `Scans a project's third-party dependency metadata and produces one
aggregated copyright-notice file in the Debian DEP-5 copyright format.

Hand-written dependency descriptors under the configured third-party folder
are combined with license data discovered from installed package managers
(npm, pip-licenses, Gradle license report, nuget-license). Manual descriptors
always win over auto-discovered data for the same dependency name.`,
	RunE: runGenerate,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.Flags().StringVarP(
		&inputPath, "input", "i", config.DefaultFileName,
		"Path to the project copyright descriptor",
	)
	rootCmd.Flags().StringVarP(
		&copyrightPath, "copyright", "c", config.DefaultFileName,
		"Path to the project copyright descriptor (alias of --input, wins when set)",
	)
	rootCmd.Flags().StringVarP(
		&outputPath, "output", "o", DefaultOutputFileName,
		"Path of the generated copyright file",
	)
	rootCmd.Flags().BoolVarP(
		&listMode, "list", "l", false,
		"List the unique license types used in the project instead of rendering",
	)
	rootCmd.Flags().BoolVar(&disableNpm, "disable_npm", false, "Disable npm license checking")
	rootCmd.Flags().BoolVar(&disablePip, "disable_pip_licenses", false, "Disable pip-licenses checking")
	rootCmd.Flags().BoolVar(&disableGradle, "disable_gradle", false, "Disable Gradle license checking")
	rootCmd.Flags().BoolVar(&disableNuget, "disable_nuget_license", false, "Disable nuget-license checking")
	rootCmd.Flags().BoolVarP(
		&quiet, "quiet", "q", false,
		"Suppress informational and warning log output",
	)
}

func runGenerate(command *cobra.Command, _ []string) error {
	if quiet {
		// Fatal diagnostics still come through; only Info/Warn are muted.
		logger.SetLevel(logger.ErrorLevel)
	}

	descriptorPath := inputPath
	if command.Flags().Changed("copyright") {
		descriptorPath = copyrightPath
	}

	if _, err := os.Stat(descriptorPath); os.IsNotExist(err) {
		if writeErr := config.WriteDefault(descriptorPath); writeErr != nil {
			return writeErr
		}
	}

	project, err := config.Load(descriptorPath)
	if err != nil {
		return fmt.Errorf("failed to load project descriptor: %w", err)
	}

	svc := injectGenerateService()

	return svc.Run(context.Background(), project, application.RunOptions{
		OutputPath: outputPath,
		ListMode:   listMode,
		Disabled: map[string]bool{
			"npm":    disableNpm,
			"pip":    disablePip,
			"gradle": disableGradle,
			"nuget":  disableNuget,
		},
	})
}
