// Package cli implements the halo command-line interface.
//
// The CLI wraps the halo engine in two commands: view opens a windowed
// viewer on a snapshot source, and export renders one headlessly to an
// image file. Snapshot sources, themes, and logging are configured
// through flags; loggers travel by context so every command logs the
// same way.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glowfork/halo"
)

var (
	version = "dev" // semantic version
	commit  = "none"
	date    = "unknown"
)

// SetVersion records the build metadata shown by the version command.
// main calls this with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the halo CLI. The context carries cancellation from the
// host process (Ctrl-C); commands pass it through to fetches and render
// waits.
func Execute(ctx context.Context) error {
	var (
		levelName string
		themePath string
	)

	root := &cobra.Command{
		Use:          "halo",
		Short:        "halo renders journey wheels",
		Long:         "halo renders radial journey diagrams: problems on the outer ring, solutions on the middle ring, the offer count in the hub. Snapshots come from files, HTTP endpoints, live feeds, or a seeded demo generator.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLevel(levelName)
			if err != nil {
				return err
			}
			c := withLogger(cmd.Context(), newLogger(os.Stderr, level))

			theme := halo.DefaultTheme()
			if themePath != "" {
				theme, err = halo.LoadTheme(themePath)
				if err != nil {
					return err
				}
			}
			cmd.SetContext(withTheme(c, theme))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&levelName, "log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&themePath, "theme", "", "TOML theme overlay")

	root.AddCommand(newViewCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newVersionCmd())

	return root.ExecuteContext(ctx)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build metadata",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "halo %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
		},
	}
}
