package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/studiowebux/cloudterm/internal/cli"
	"github.com/studiowebux/cloudterm/internal/config"
	"github.com/studiowebux/cloudterm/internal/tui"
	"github.com/studiowebux/cloudterm/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cloudterm",
	Short: "Cloud sandbox terminal with file sync",
	Long: `cloudterm is an interactive terminal for a cloud sandbox, with a
local simulation mode when offline and file sync against the cloud
persistence backend.

Run without arguments to start the TUI. The eject, download and sync
subcommands run one-shot file operations without the TUI.

Examples:
  cloudterm                            # Start interactive TUI
  cloudterm eject -P demo              # Upload current directory
  cloudterm download -P demo -d ./out  # Fetch remote files
  cloudterm sync -P demo               # Bidirectional merge
  cloudterm sync -P demo -f conflicts  # Show only conflict paths
  cloudterm history -n 20              # Last 20 terminal commands
  cloudterm version                    # Show version and update check`,
	Version: version.Current,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(version.Current)
	},
}

var ejectCmd = &cobra.Command{
	Use:   "eject",
	Short: "Upload the project directory to the cloud backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		return cli.RunEject(runOptions())
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the project's remote files",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		return cli.RunDownload(runOptions())
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Merge local and remote files bidirectionally",
	Long: `Posts the local files for a bidirectional merge. Paths changed on
both sides come back as conflicts; cloudterm surfaces them and leaves
resolution to you.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		return cli.RunSync(runOptions())
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded terminal commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		return cli.RunHistory(flagLimit, flagClear, os.Stdout)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the version and check for updates",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("cloudterm %s\n", version.Current)

		available, latest, url, err := version.CheckForUpdate(version.Current)
		if err != nil {
			return nil // offline is fine, the version already printed
		}
		if available {
			fmt.Printf("Update available: %s\n%s\n", latest, url)
		}
		return nil
	},
}

var (
	flagProject  string
	flagEndpoint string
	flagDir      string
	flagFilter   string
	flagLimit    int
	flagClear    bool
)

func init() {
	for _, cmd := range []*cobra.Command{ejectCmd, downloadCmd, syncCmd} {
		cmd.Flags().StringVarP(&flagProject, "project", "P", "", "Project name (defaults to the session's project)")
		cmd.Flags().StringVarP(&flagEndpoint, "endpoint", "E", "", "Cloud endpoint (defaults to session, then CLOUDTERM_ENDPOINT)")
		cmd.Flags().StringVarP(&flagDir, "dir", "d", "", "Project directory (defaults to the working directory)")
		cmd.Flags().StringVarP(&flagFilter, "filter", "f", "", "JMESPath expression applied to the JSON result")
	}

	historyCmd.Flags().IntVarP(&flagLimit, "limit", "n", 50, "Maximum number of commands to show (0 = all)")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Clear the command history")

	rootCmd.AddCommand(ejectCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

func runOptions() cli.RunOptions {
	return cli.RunOptions{
		ProjectName: flagProject,
		Endpoint:    flagEndpoint,
		Dir:         flagDir,
		Filter:      flagFilter,
		Output:      os.Stdout,
	}
}
