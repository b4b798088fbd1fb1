package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/skywarr/relpack/internal/version"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &packageOptions{}

	rootCmd := &cobra.Command{
		Use:   "relpack",
		Short: "Build the SkyWarr release and package it for the host platform",
		Long: `Relpack provisions the game assets, runs the build, and wraps the
build output in the host platform's native installer format.

Supported installer formats:
  - Debian (.deb, built with dpkg-deb) on Linux
  - NSIS (.exe, built with makensis) on Windows`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPackage(cmd.Context(), opts)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	opts.bind(rootCmd)
	version.AttachCobraVersionCommand(rootCmd)

	return rootCmd
}
