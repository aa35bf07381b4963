package weights

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kotoba-app/kotoba/internal/store"
)

func seedProgress(t *testing.T, repo store.KVRepo) {
	t.Helper()
	ctx := context.Background()
	for _, k := range []string{
		WeightsKey("n5", "alice"),
		WeightsKey("n4", "alice"),
		MasteryKey("n5", "alice"),
		CumulativeKey("reading", "alice"),
		WeightsKey("n5", "bob"),
		CumulativeKey("reading", "bob"),
	} {
		require.NoError(t, repo.Put(ctx, k, []byte(`{}`)))
	}
}

func TestResetDeck(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemoryKVRepo()
	seedProgress(t, repo)

	n, err := Reset(ctx, repo, "alice", "n5")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, ok, _ := repo.Get(ctx, WeightsKey("n4", "alice"))
	assert.True(t, ok, "other deck kept")
	_, ok, _ = repo.Get(ctx, CumulativeKey("reading", "alice"))
	assert.True(t, ok, "cumulative counters kept")
	_, ok, _ = repo.Get(ctx, WeightsKey("n5", "bob"))
	assert.True(t, ok, "other user kept")
}

func TestResetUser(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemoryKVRepo()
	seedProgress(t, repo)

	n, err := Reset(ctx, repo, "alice", "")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	keys, err := repo.Keys(ctx, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{WeightsKey("n5", "bob"), CumulativeKey("reading", "bob")}, keys)
}

func TestResetNothingStored(t *testing.T) {
	n, err := Reset(context.Background(), store.NewMemoryKVRepo(), "alice", "n5")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestResetUserMatchesWholeSegment(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemoryKVRepo()
	for _, k := range []string{
		WeightsKey("n5", "bob"),
		"weights:n5:alice:bob",
		WeightsKey("n5", "rebob"),
		CumulativeKey("speech", "bob"),
	} {
		require.NoError(t, repo.Put(ctx, k, []byte(`{}`)))
	}

	n, err := Reset(ctx, repo, "bob", "")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	keys, err := repo.Keys(ctx, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"weights:n5:alice:bob", WeightsKey("n5", "rebob")}, keys)
}

func TestResetDeckAllUsers(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemoryKVRepo()
	seedProgress(t, repo)
	require.NoError(t, repo.Put(ctx, WeightsKey("n55", "alice"), []byte(`{}`)))

	n, err := Reset(ctx, repo, "", "n5")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	keys, err := repo.Keys(ctx, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		WeightsKey("n4", "alice"),
		WeightsKey("n55", "alice"),
		CumulativeKey("reading", "alice"),
		CumulativeKey("reading", "bob"),
	}, keys)
}

func TestResetEverything(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemoryKVRepo()
	seedProgress(t, repo)
	require.NoError(t, repo.Put(ctx, "settings:theme", []byte(`{}`)))

	n, err := Reset(ctx, repo, "", "")
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	keys, err := repo.Keys(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"settings:theme"}, keys)
}

func TestSplitKey(t *testing.T) {
	scope, user, ok := splitKey("weights:n5:alice")
	assert.True(t, ok)
	assert.Equal(t, "n5", scope)
	assert.Equal(t, "alice", user)

	_, _, ok = splitKey("weights:alice")
	assert.False(t, ok)
}
