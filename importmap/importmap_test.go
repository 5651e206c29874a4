package importmap

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tweag/assetmap/api"
	"github.com/tweag/assetmap/integrity"
	"github.com/tweag/assetmap/resource"
)

func collectionOf(t *testing.T, descriptors ...api.AssetDescriptor) *resource.Collection {
	t.Helper()
	return resource.NewCollection(resource.Normalize(descriptors), integrity.SHA256)
}

func TestFromCollection(t *testing.T) {
	collection := collectionOf(t,
		api.AssetDescriptor{Route: "b.js", Properties: []api.DescriptorProperty{{Name: "label", Value: "b"}}},
		api.AssetDescriptor{Route: "a.js", Properties: []api.DescriptorProperty{{Name: "integrity", Value: "sha256-X"}}},
		api.AssetDescriptor{Route: "c.js", Selectors: []api.Selector{{Name: "Content-Encoding", Value: "br"}}},
	)

	m := FromCollection(collection, integrity.SHA256)
	require.Equal(t, map[string]string{"b": "b.js"}, m.Imports)
	require.Equal(t, map[string]string{"a.js": "sha256-X"}, m.Integrity)
	require.Empty(t, m.Scopes)
}

func TestFromCollection_LabelAndIntegrityOnOneResource(t *testing.T) {
	collection := collectionOf(t, api.AssetDescriptor{
		Route: "app.abc123.js",
		Properties: []api.DescriptorProperty{
			{Name: "label", Value: "app"},
			{Name: "integrity", Value: "sha256-X"},
		},
	})

	m := FromCollection(collection, integrity.SHA256)
	require.Equal(t, "app.abc123.js", m.Imports["app"])
	require.Equal(t, "sha256-X", m.Integrity["app.abc123.js"])
}

func TestFromCollection_DuplicateLabelLastWins(t *testing.T) {
	collection := collectionOf(t,
		api.AssetDescriptor{Route: "b.js", Properties: []api.DescriptorProperty{{Name: "label", Value: "app"}}},
		api.AssetDescriptor{Route: "a.js", Properties: []api.DescriptorProperty{{Name: "label", Value: "app"}}},
	)

	// The collection is walked in sorted URL order, so b.js is seen last.
	m := FromCollection(collection, integrity.SHA256)
	require.Equal(t, map[string]string{"app": "b.js"}, m.Imports)
}

func TestFromCollection_EmptyDocument(t *testing.T) {
	m := FromCollection(collectionOf(t), integrity.SHA256)
	require.Equal(t, "{}", string(m.Encoded()))
	require.False(t, m.Fingerprint().Empty())
}

func TestMarshal_MemberOrder(t *testing.T) {
	m := New(
		map[string]string{"app": "app.js"},
		map[string]map[string]string{"/admin/": {"app": "admin.js"}},
		map[string]string{"app.js": "sha256-X"},
		integrity.SHA256,
	)

	want := `{"imports":{"app":"app.js"},` +
		`"scopes":{"/admin/":{"app":"admin.js"}},` +
		`"integrity":{"app.js":"sha256-X"}}`
	require.Equal(t, want, string(m.Encoded()))

	viaMarshal, err := json.Marshal(m)
	require.NoError(t, err)
	require.Equal(t, m.Encoded(), viaMarshal)
}

func TestCombine_EarlierMapsWin(t *testing.T) {
	first := New(
		map[string]string{"app": "app.v1.js"},
		map[string]map[string]string{"/admin/": {"widgets": "widgets.v1.js"}},
		map[string]string{"app.v1.js": "sha256-first"},
		integrity.SHA256,
	)
	second := New(
		map[string]string{"app": "app.v2.js", "vendor": "vendor.js"},
		map[string]map[string]string{
			"/admin/": {"widgets": "widgets.v2.js", "charts": "charts.js"},
			"/docs/":  {"app": "docs.js"},
		},
		map[string]string{"app.v1.js": "sha256-second", "vendor.js": "sha256-vendor"},
		integrity.SHA256,
	)

	combined := Combine(integrity.SHA256, first, second)
	require.Equal(t, map[string]string{
		"app":    "app.v1.js",
		"vendor": "vendor.js",
	}, combined.Imports)
	require.Equal(t, map[string]map[string]string{
		"/admin/": {"widgets": "widgets.v1.js", "charts": "charts.js"},
		"/docs/":  {"app": "docs.js"},
	}, combined.Scopes)
	require.Equal(t, map[string]string{
		"app.v1.js": "sha256-first",
		"vendor.js": "sha256-vendor",
	}, combined.Integrity)
}

func TestCombine_IgnoresNilMaps(t *testing.T) {
	m := New(map[string]string{"app": "app.js"}, nil, nil, integrity.SHA256)
	combined := Combine(integrity.SHA256, nil, m, nil)
	require.Equal(t, m.Imports, combined.Imports)
}

func TestFingerprint_Deterministic(t *testing.T) {
	build := func() *ImportMap {
		return New(map[string]string{"app": "app.js", "vendor": "vendor.js"}, nil, nil, integrity.SHA256)
	}
	require.True(t, build().Fingerprint().Equals(build().Fingerprint()))
}
