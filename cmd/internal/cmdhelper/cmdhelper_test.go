package cmdhelper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/tweag/assetmap/api"
)

// testCommand mimics a subcommand carrying the shared config flags.
func testCommand(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	flags := cmd.Flags()
	flags.String("config", "", "")
	flags.String("manifest", "", "")
	flags.String("listen", "", "")
	flags.String("digest_function", "", "")
	flags.String("log_level", "", "")
	flags.String("log_format", "", "")
	return cmd
}

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assetmap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestConfigure_Defaults(t *testing.T) {
	config, err := Configure(testCommand(t))
	require.NoError(t, err)
	require.Equal(t, api.DefaultConfig(), config)
}

func TestConfigure_ConfigFileOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, "listen: 127.0.0.1:9090\ncache_control: max-age=300\n")
	cmd := testCommand(t)
	require.NoError(t, cmd.Flags().Set("config", path))

	config, err := Configure(cmd)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9090", config.Listen)
	require.Equal(t, "max-age=300", config.CacheControl)
	require.Equal(t, "sha256", config.DigestFunction, "unset keys keep their defaults")
}

func TestConfigure_EnvironmentOverlaysConfigFile(t *testing.T) {
	path := writeConfig(t, "listen: 127.0.0.1:9090\n")
	t.Setenv("ASSETMAP_LISTEN", "127.0.0.1:7070")
	cmd := testCommand(t)
	require.NoError(t, cmd.Flags().Set("config", path))

	config, err := Configure(cmd)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:7070", config.Listen)
}

func TestConfigure_FlagsWinOverEnvironment(t *testing.T) {
	t.Setenv("ASSETMAP_MANIFEST", "env.json")
	cmd := testCommand(t)
	require.NoError(t, cmd.Flags().Set("manifest", "flag.json"))

	config, err := Configure(cmd)
	require.NoError(t, err)
	require.Equal(t, "flag.json", config.ManifestPath)
}

func TestConfigure_ConfigFileFromEnvironment(t *testing.T) {
	path := writeConfig(t, "digest_function: sha512\n")
	t.Setenv(api.ConfigFileEnv, path)

	config, err := Configure(testCommand(t))
	require.NoError(t, err)
	require.Equal(t, "sha512", config.DigestFunction)
}

func TestConfigure_ExplicitMissingConfigFileFails(t *testing.T) {
	cmd := testCommand(t)
	require.NoError(t, cmd.Flags().Set("config", filepath.Join(t.TempDir(), "absent.yaml")))

	_, err := Configure(cmd)
	require.ErrorContains(t, err, "reading config from")
}

func TestConfigure_InvalidConfigFails(t *testing.T) {
	cmd := testCommand(t)
	require.NoError(t, cmd.Flags().Set("digest_function", "crc32"))

	_, err := Configure(cmd)
	require.ErrorContains(t, err, "digest_function")
}

func TestViperConfigReader_MissingFile(t *testing.T) {
	reader := ViperConfigReader{ConfigPath: filepath.Join(t.TempDir(), "absent.yaml")}
	_, err := api.ReadConfig(reader, api.DefaultConfig())
	require.ErrorIs(t, err, api.ErrConfigNotFound)
}

func TestViperConfigReader_PartialFileMergesIntoBase(t *testing.T) {
	path := writeConfig(t, "manifest: dist/assets.json\n")
	reader := ViperConfigReader{ConfigPath: path}

	config, err := api.ReadConfig(reader, api.DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, "dist/assets.json", config.ManifestPath)
	require.Equal(t, api.DefaultConfig().Listen, config.Listen)
}
