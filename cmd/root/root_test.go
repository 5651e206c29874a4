package root

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testManifest = `{
  "version": 1,
  "assets": [
    {"route": "b.js", "properties": [{"name": "label", "value": "b"}]},
    {"route": "a.js", "properties": [{"name": "integrity", "value": "sha256-47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU="}]},
    {"route": "c.js", "selectors": [{"name": "Content-Encoding", "value": "gzip"}]}
  ],
  "scopes": {
    "docs": [{"route": "docs/site.css", "properties": [{"name": "label", "value": "site"}]}]
  }
}`

func writeTestManifest(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assets.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

// execute runs the command tree with the given arguments and returns
// combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := New()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRoot_NoArgumentsShowsHelp(t *testing.T) {
	out, err := execute(t)
	require.NoError(t, err)
	require.Contains(t, out, "Available Commands:")
	require.Contains(t, out, "serve")
}

func TestResolve_DefaultScope(t *testing.T) {
	path := writeTestManifest(t, testManifest)
	out, err := execute(t, "resolve", "--manifest", path)
	require.NoError(t, err)
	require.JSONEq(t, `[
	  {"url": "a.js", "properties": [{"name": "integrity", "value": "sha256-47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU="}]},
	  {"url": "b.js", "properties": [{"name": "label", "value": "b"}]}
	]`, out)
}

func TestResolve_NamedScope(t *testing.T) {
	path := writeTestManifest(t, testManifest)
	out, err := execute(t, "resolve", "docs", "--manifest", path)
	require.NoError(t, err)
	require.JSONEq(t, `[{"url": "docs/site.css", "properties": [{"name": "label", "value": "site"}]}]`, out)
}

func TestResolve_UnknownScopeFails(t *testing.T) {
	path := writeTestManifest(t, testManifest)
	_, err := execute(t, "resolve", "missing", "--manifest", path)
	require.ErrorContains(t, err, `scope "missing" is not declared`)
}

func TestImportMap_DefaultScope(t *testing.T) {
	path := writeTestManifest(t, testManifest)
	out, err := execute(t, "importmap", "--manifest", path)
	require.NoError(t, err)
	require.JSONEq(t, `{
	  "imports": {"b": "b.js"},
	  "integrity": {"a.js": "sha256-47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU="}
	}`, out)
}

func TestCheck_ValidManifest(t *testing.T) {
	path := writeTestManifest(t, testManifest)
	out, err := execute(t, "check", "--manifest", path)
	require.NoError(t, err)
	require.Contains(t, out, "OK (version 1, 3 assets, scopes: docs)")
}

func TestCheck_InvalidManifestReportsIssues(t *testing.T) {
	path := writeTestManifest(t, `{"version":1,"assets":[{"route":"/absolute.js"},{"route":"dup.js"},{"route":"dup.js"}]}`)
	out, err := execute(t, "check", "--manifest", path)
	require.Error(t, err)
	require.ErrorContains(t, err, "is not a usable manifest")
	require.ErrorContains(t, err, `"route" must be a non-empty path`)
	require.ErrorContains(t, err, `duplicate route "dup.js"`)
	_ = out
}

func TestCheck_MissingManifestFails(t *testing.T) {
	_, err := execute(t, "check", "--manifest", filepath.Join(t.TempDir(), "absent.json"))
	require.ErrorContains(t, err, "opening manifest")
}

func TestList_RendersTable(t *testing.T) {
	path := writeTestManifest(t, testManifest)
	out, err := execute(t, "list", "--manifest", path)
	require.NoError(t, err)
	require.Contains(t, out, "a.js")
	require.Contains(t, out, "b.js")
	require.NotContains(t, out, "c.js", "selector variants are filtered out")
	require.Contains(t, out, "2 resources, fingerprint sha256-")
}

func TestRoot_UnknownDigestFunctionFails(t *testing.T) {
	path := writeTestManifest(t, testManifest)
	_, err := execute(t, "resolve", "--manifest", path, "--digest_function", "md5")
	require.ErrorContains(t, err, "digest_function")
}
