package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestNewAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "room.txt")

	out, err := execute(t, "new", "--width", "3", "--height", "2", "--x", "1", "--dir", "south", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "3x2 world, agent at (1,0) facing south")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ".s.\n...\n", string(data))

	out, err = execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ "+path)
}

func TestValidateReportsBadWorlds(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(good, []byte("e.\n..\n"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("e.\n.q\n"), 0o644))

	out, err := execute(t, "validate", good, bad)
	require.ErrorIs(t, err, errInvalidWorlds)
	assert.Contains(t, out, "✓ "+good)
	assert.Contains(t, out, "✗ ")
	assert.Contains(t, out, "illegal character")
}

func TestRunCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corridor.txt")
	require.NoError(t, os.WriteFile(path, []byte("e..\n"), 0o644))
	saved := filepath.Join(t.TempDir(), "after.txt")

	out, err := execute(t, "run", "agent1", "--world", path, "--plain", "--save", saved)
	require.NoError(t, err)
	assert.Contains(t, out, "Program agent1 finished")

	data, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, "..e\n", string(data))
}

func TestProgramsAndVersion(t *testing.T) {
	out, err := execute(t, "programs")
	require.NoError(t, err)
	assert.Equal(t, "agent1\nagent2\nclean-cave\n", out)

	out, err = execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "walker version")
}
