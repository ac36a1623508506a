package file_test

import (
	"context"
	"testing"

	"github.com/aretw0/walker/internal/adapters/file"
	"github.com/aretw0/walker/pkg/domain"
	"github.com/aretw0/walker/pkg/ports"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(afero.NewOsFs(), t.TempDir())
	ports.RunWorldStoreContract(t, store)
}

func TestFileStore_MemFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := file.New(fs, "worlds")
	ports.RunWorldStoreContract(t, store)
}

func TestFileStore_Layout(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	store := file.New(fs, "w")

	require.NoError(t, store.Save(ctx, "cave", "e.\n"))

	data, err := afero.ReadFile(fs, "w/cave.txt")
	require.NoError(t, err)
	assert.Equal(t, "e.\n", string(data))

	// Stray files and leftovers are not worlds.
	require.NoError(t, afero.WriteFile(fs, "w/notes.md", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "w/.tmp-cave-1.txt", []byte("x"), 0o644))
	require.NoError(t, fs.Mkdir("w/sub.txt", 0o755))

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"cave"}, names)

	entries, err := afero.ReadDir(fs, "w")
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotRegexp(t, `^\.tmp-cave-[0-9A-Z]{26}$`, e.Name(), "temp files are cleaned up")
	}
}

func TestFileStore_MissingDirectory(t *testing.T) {
	store := file.New(afero.NewMemMapFs(), "nowhere")

	names, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = store.Load(context.Background(), "cave")
	assert.ErrorIs(t, err, domain.ErrWorldNotFound)
}
