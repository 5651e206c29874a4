// Package list implements the assetmap list command.
package list

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/tweag/assetmap/cmd/internal/cmdhelper"
	"github.com/tweag/assetmap/manifest"
	"github.com/tweag/assetmap/resource"
	"github.com/tweag/assetmap/service/resolver"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "list [scope]",
		Short: "List the resolved resources of a scope as a table",
		Args:  cobra.MaximumNArgs(1),
		RunE:  run,
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

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"URL", "Label", "Integrity", "Preload"})
	for r := range collection.All() {
		label, _ := r.Property(resource.Label)
		sri, _ := r.Property(resource.Integrity)
		rel, _ := r.Property(resource.PreloadRel)
		t.AppendRow(table.Row{r.URL, label, sri, rel})
	}
	t.Render()
	fmt.Fprintf(cmd.OutOrStdout(), "%d resources, fingerprint %s\n", collection.Len(), collection.Fingerprint().ToSRI())
	return nil
}
