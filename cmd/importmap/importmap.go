// Package importmap implements the assetmap importmap command.
package importmap

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tweag/assetmap/cmd/internal/cmdhelper"
	"github.com/tweag/assetmap/manifest"
	"github.com/tweag/assetmap/service/resolver"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "importmap [scope]",
		Short: "Print the import map of a scope",
		Long: `Resolves the manifest and prints the import map document of the given
scope. Without an argument the default scope is used. The output is
suitable for inlining into a <script type="importmap"> tag.`,
		Args: cobra.MaximumNArgs(1),
		RunE: run,
	}
}

func run(cmd *cobra.Command, args []string) error {
	config, err := cmdhelper.Configure(cmd)
	if err != nil {
		return err
	}
	parsed, err := manifest.Load(config.ManifestPath)
	if err != nil {
		return err
	}
	var scope string
	if len(args) == 1 {
		scope = args[0]
	}
	if scope != "" && !parsed.HasScope(scope) {
		return fmt.Errorf("scope %q is not declared in %s", scope, config.ManifestPath)
	}

	res := resolver.NewDirect(manifest.NewSource(parsed), config.Algorithm())
	document, err := res.ResolveImportMap(cmd.Context(), scope)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(document.Encoded()))
	return nil
}
