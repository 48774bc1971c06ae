// cityexport converts editor city scenes into km2B containers.
package main

import (
	"os"

	"github.com/Faultbox/cityexport/internal/config"
	"github.com/Faultbox/cityexport/internal/logger"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "cityexport",
		Short:         "Export city scenes to the km2B container format",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(inspectCmd())
	rootCmd.AddCommand(configCmd())

	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func exportCmd() *cobra.Command {
	var flags config.Flags

	cmd := &cobra.Command{
		Use:   "export [scene.json] [output.bin]",
		Short: "Export a scene to a km2B container",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			out := ""
			if len(args) > 1 {
				out = args[1]
			}
			return runExport(args[0], out, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.ConfigPath, "config", "c", "", "config file path")
	f.BoolVar(&flags.Debug, "debug", false, "enable debug logging")
	f.BoolVarP(&flags.Verbose, "verbose", "v", false, "log every exported entity")
	f.BoolVar(&flags.PropRules, "prop-rules", false, "write proprules.csv and propdefs.csv")
	f.StringVarP(&flags.OutputDir, "output", "o", "", "output directory")
	f.StringVar(&flags.FormatName, "format", "", "format name written after the container magic")
	f.StringVar(&flags.LogFile, "log-file", "", "also log to this file")
	return cmd
}

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [city.bin]",
		Short: "Summarize the elements of a km2B container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.OutOrStdout(), args[0])
		},
	}
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the exporter configuration",
	}

	var path string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd.OutOrStdout(), path)
		},
	}
	initCmd.Flags().StringVarP(&path, "path", "p", "", "write to this file instead of the user config directory")

	cmd.AddCommand(initCmd)
	return cmd
}
