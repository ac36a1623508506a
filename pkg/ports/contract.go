package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/walker/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunWorldStoreContract runs a suite of tests to verify that a WorldStore
// implementation adheres to the interface contract.
func RunWorldStoreContract(t *testing.T, store WorldStore) {
	ctx := context.Background()
	name := "contract-" + time.Now().Format("20060102150405")
	world := "e.o\n.x.\n"

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, world), "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, world, loaded)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, world))
		require.NoError(t, store.Save(ctx, name, "s\n"))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "s\n", loaded)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+name)
		assert.ErrorIs(t, err, domain.ErrWorldNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, world))

		require.NoError(t, store.Delete(ctx, name), "Delete should not return error")

		_, err := store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrWorldNotFound, "Load after Delete should return ErrWorldNotFound")

		assert.NoError(t, store.Delete(ctx, name), "deleting twice is fine")
	})

	t.Run("List", func(t *testing.T) {
		ids := []string{name + "-1", name + "-2"}
		for _, id := range ids {
			require.NoError(t, store.Save(ctx, id, world))
		}
		defer func() {
			for _, id := range ids {
				_ = store.Delete(ctx, id)
			}
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		for _, id := range ids {
			assert.Contains(t, names, id)
		}
	})

	t.Run("Invalid Names", func(t *testing.T) {
		for _, bad := range []string{"", "../escape", "a/b", ".hidden"} {
			t.Run(fmt.Sprintf("%q", bad), func(t *testing.T) {
				assert.ErrorIs(t, store.Save(ctx, bad, world), domain.ErrInvalidWorldName)
				_, err := store.Load(ctx, bad)
				assert.ErrorIs(t, err, domain.ErrInvalidWorldName)
			})
		}
	})
}
