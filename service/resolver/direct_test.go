package resolver

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tweag/assetmap/api"
	"github.com/tweag/assetmap/integrity"
)

func TestDirect_RecomputesPerCall(t *testing.T) {
	source := defaultScopeSource()
	resolver := NewDirect(source, integrity.SHA256)

	first, err := resolver.Resolve(t.Context(), "")
	require.NoError(t, err)
	second, err := resolver.Resolve(t.Context(), "")
	require.NoError(t, err)

	require.Equal(t, 2, source.callCount(), "every call consults the source")
	require.NotSame(t, first, second)
	require.Equal(t, string(first.Encoded()), string(second.Encoded()),
		"an unchanged source yields equal results")
	require.True(t, first.Fingerprint().Equals(second.Fingerprint()))
}

func TestDirect_ObservesSourceChanges(t *testing.T) {
	source := defaultScopeSource()
	resolver := NewDirect(source, integrity.SHA256)

	before, err := resolver.Resolve(t.Context(), "")
	require.NoError(t, err)
	require.Equal(t, 2, before.Len())

	source.setScope("", []api.AssetDescriptor{
		{Route: "new.js", Properties: []api.DescriptorProperty{{Name: "label", Value: "new"}}},
	})

	after, err := resolver.Resolve(t.Context(), "")
	require.NoError(t, err)
	require.Equal(t, 1, after.Len())
	require.Equal(t, "new.js", after.Resources()[0].URL)

	m, err := resolver.ResolveImportMap(t.Context(), "")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"new": "new.js"}, m.Imports)
}

func TestDirect_PropagatesSourceFailure(t *testing.T) {
	source := defaultScopeSource()
	source.failures[""] = 1
	resolver := NewDirect(source, integrity.SHA256)

	_, err := resolver.Resolve(t.Context(), "")
	require.ErrorContains(t, err, "descriptor source unavailable")

	_, err = resolver.Resolve(t.Context(), "")
	require.NoError(t, err)
}
