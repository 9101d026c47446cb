package integrity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorekeep/lorekeep/internal/types"
)

func TestDetectDuplicates_GroupsByNormalizedKey(t *testing.T) {
	entities := []types.Entity{
		{ID: "1", Name: "Silver Town"},
		{ID: "2", Name: "  silver town "},
		{ID: "3", Name: "SILVER TOWN"},
		{ID: "4", Name: "Ironhold"},
	}

	groups := DetectDuplicates(types.KindLocation, entities)
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, types.KindLocation, g.Kind)
	assert.Equal(t, "silver town", g.Key)
	require.Len(t, g.Entities, 3)
	assert.NoError(t, g.Validate())
	assert.False(t, g.Resolved())
}

func TestDetectDuplicates_NeverReturnsSingletons(t *testing.T) {
	entities := []types.Entity{
		{ID: "1", Name: "Alpha"},
		{ID: "2", Name: "Beta"},
		{ID: "3", Name: "Gamma"},
	}

	groups := DetectDuplicates(types.KindCharacter, entities)
	assert.Empty(t, groups)
}

func TestDetectDuplicates_PreservesInputOrder(t *testing.T) {
	entities := []types.Entity{
		{ID: "z", Name: "Dup"},
		{ID: "a", Name: "dup"},
		{ID: "m", Name: "DUP"},
	}

	groups := DetectDuplicates(types.KindNote, entities)
	require.Len(t, groups, 1)

	// Store listing order, not any field ordering.
	ids := make([]string, 0, 3)
	for _, e := range groups[0].Entities {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"z", "a", "m"}, ids)
}

func TestDetectDuplicates_TitleAndIDFallback(t *testing.T) {
	entities := []types.Entity{
		{ID: "1", Title: "The Sunken Vault"},
		{ID: "2", Name: "the sunken vault"},
	}

	groups := DetectDuplicates(types.KindStoryArc, entities)
	require.Len(t, groups, 1)
	assert.Equal(t, "the sunken vault", groups[0].Key)
}

func TestDetectDuplicates_UnnamedBucket(t *testing.T) {
	// A lone nameless entity forms a singleton bucket and is filtered out.
	groups := DetectDuplicates(types.KindNote, []types.Entity{{}})
	assert.Empty(t, groups)

	// Multiple nameless entities collapse into one "unnamed" group even
	// though they may be unrelated. Known false-positive source.
	groups = DetectDuplicates(types.KindNote, []types.Entity{{}, {}})
	require.Len(t, groups, 1)
	assert.Equal(t, types.UnnamedKey, groups[0].Key)
	assert.Len(t, groups[0].Entities, 2)
}

func TestDetectDuplicates_DeterministicGroupOrder(t *testing.T) {
	entities := []types.Entity{
		{ID: "1", Name: "zeta"},
		{ID: "2", Name: "zeta"},
		{ID: "3", Name: "alpha"},
		{ID: "4", Name: "alpha"},
	}

	for i := 0; i < 10; i++ {
		groups := DetectDuplicates(types.KindItem, entities)
		require.Len(t, groups, 2)
		assert.Equal(t, "alpha", groups[0].Key)
		assert.Equal(t, "zeta", groups[1].Key)
	}
}

func TestGroupByKey_EmptyInput(t *testing.T) {
	assert.Empty(t, GroupByKey(nil))
	assert.Empty(t, DetectDuplicates(types.KindWorld, nil))
}
