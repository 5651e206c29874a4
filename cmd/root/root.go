// Package root assembles the assetmap command tree.
package root

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/tweag/assetmap/cmd/check"
	importmapcmd "github.com/tweag/assetmap/cmd/importmap"
	"github.com/tweag/assetmap/cmd/list"
	"github.com/tweag/assetmap/cmd/resolve"
	"github.com/tweag/assetmap/cmd/serve"
)

// New builds the root command with all subcommands attached.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assetmap",
		Short: "Resolve fingerprinted web assets into collections and import maps",
		Long: `assetmap reads an asset manifest produced by a publishing pipeline and
resolves it into resource collections (stable, fingerprinted JSON
documents) and browser import maps. The serve command exposes both
over HTTP with ETag revalidation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:      true,
		DisableAutoGenTag: true,
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "Path to the config file")
	flags.String("manifest", "", "Path to the asset manifest file")
	flags.String("digest_function", "", `Hash function for fingerprints and entity tags. One of "sha256", "sha384", "sha512"`)
	flags.String("log_level", "", `Log level. One of "debug", "info", "warn", "error"`)
	flags.String("log_format", "", `Log format. One of "text", "json", "logfmt"`)

	cmd.AddCommand(
		serve.New(),
		resolve.New(),
		importmapcmd.New(),
		check.New(),
		list.New(),
	)
	return cmd
}

// Execute runs the command tree and exits non-zero on failure.
func Execute(ctx context.Context) {
	if err := New().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
