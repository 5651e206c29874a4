// Package check implements the assetmap check command.
package check

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tweag/assetmap/cmd/internal/cmdhelper"
	"github.com/tweag/assetmap/manifest"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the asset manifest",
		Long: `Reads the manifest and reports every problem found: malformed JSON,
unknown fields, and validation issues like absolute routes, bad sri
strings or duplicate routes. Exits non-zero when the manifest is unusable.`,
		Args: cobra.NoArgs,
		RunE: run,
	}
}

func run(cmd *cobra.Command, _ []string) error {
	config, err := cmdhelper.Configure(cmd)
	if err != nil {
		return err
	}
	parsed, err := manifest.Load(config.ManifestPath)
	if err != nil {
		var decodeErr manifest.DecodeError
		if errors.As(err, &decodeErr) {
			return fmt.Errorf("%s is not a usable manifest:\n%v", config.ManifestPath, decodeErr)
		}
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: OK (version %d, %d assets", config.ManifestPath, parsed.Version, len(parsed.Assets))
	if scopes := parsed.ScopeNames(); len(scopes) > 0 {
		fmt.Fprintf(out, ", scopes: %s", strings.Join(scopes, ", "))
	}
	fmt.Fprintln(out, ")")
	return nil
}
