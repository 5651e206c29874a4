// Package resolve implements the assetmap resolve command.
package resolve

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tweag/assetmap/cmd/internal/cmdhelper"
	"github.com/tweag/assetmap/manifest"
	"github.com/tweag/assetmap/service/resolver"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [scope]",
		Short: "Print the resolved resource collection of a scope",
		Long: `Resolves the manifest into the resource collection of the given scope
and prints it as JSON. Without an argument the default scope is resolved.`,
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
	collection, err := res.Resolve(cmd.Context(), scope)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(collection.Encoded()))
	return nil
}
