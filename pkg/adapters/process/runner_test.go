package process_test

import (
	"bytes"
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/aretw0/walker"
	"github.com/aretw0/walker/pkg/adapters/process"
	"github.com/aretw0/walker/pkg/domain"
	"github.com/aretw0/walker/pkg/programs"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const toWallScript = `while :; do echo 'wall?'; read r; [ "$r" = true ] && break; echo step; done`

func shell(t *testing.T, name, script string) process.ProgramConfig {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("external program tests need a POSIX shell")
	}
	return process.ProgramConfig{Name: name, Command: "sh", Args: []string{"-c", script}}
}

func newEngine(t *testing.T, world string) *walker.Engine {
	t.Helper()
	eng, err := walker.New()
	require.NoError(t, err)
	require.NoError(t, eng.LoadText(world))
	return eng
}

func TestProgram_ToWall(t *testing.T) {
	eng := newEngine(t, "e..\n")
	prog := process.NewRunner().Program(shell(t, "to-wall", toWallScript))

	require.NoError(t, programs.Run(context.Background(), eng, prog))

	assert.Equal(t, "..e\n", eng.Text())
	// sentinel, three queries and two steps
	assert.Len(t, eng.Trace(), 6)
	assert.Equal(t, "facing wall? true", eng.Trace()[5].Text)
}

func TestProgram_DebugAndEnvironment(t *testing.T) {
	eng := newEngine(t, "e.\n")
	cfg := shell(t, "greeter", `echo "debug hello $WHO"; echo put`)
	cfg.Environment = map[string]string{"WHO": "walker"}

	require.NoError(t, programs.Run(context.Background(), eng, process.NewRunner().Program(cfg)))

	entries := eng.Trace()
	require.Len(t, entries, 3)
	assert.Equal(t, "hello walker", entries[1].Text)
	assert.Equal(t, domain.KindPutMarker, entries[2].Action.Kind)
}

func TestProgram_Failures(t *testing.T) {
	t.Run("Unknown Instruction", func(t *testing.T) {
		eng := newEngine(t, "e.\n")
		err := programs.Run(context.Background(), eng, process.NewRunner().Program(shell(t, "bad", "echo fly")))
		assert.ErrorIs(t, err, process.ErrUnknownInstruction)
	})

	t.Run("Non-Zero Exit", func(t *testing.T) {
		var stderr bytes.Buffer
		eng := newEngine(t, "e.\n")
		runner := process.NewRunner(process.WithStderr(&stderr))
		err := programs.Run(context.Background(), eng, runner.Program(shell(t, "exit", "echo step; echo oops >&2; exit 3")))

		assert.ErrorIs(t, err, process.ErrProcessFailed)
		assert.Equal(t, ".e\n", eng.Text(), "instructions before the failure stay applied")
		assert.Equal(t, "oops\n", stderr.String())
		assert.Equal(t, domain.KindError, eng.Trace()[len(eng.Trace())-1].Action.Kind)
	})

	t.Run("Illegal Instruction Kills The Process", func(t *testing.T) {
		eng := newEngine(t, "e\n")
		start := time.Now()
		err := programs.Run(context.Background(), eng, process.NewRunner().Program(shell(t, "blocked", "echo step; sleep 10")))

		assert.ErrorIs(t, err, domain.ErrBlockedByWall)
		assert.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("Overlong Output Line", func(t *testing.T) {
		eng := newEngine(t, "e..\n")
		script := `head -c 70000 /dev/zero | tr '\0' a; echo; yes step`
		start := time.Now()
		err := programs.Run(context.Background(), eng, process.NewRunner().Program(shell(t, "chatty", script)))

		assert.ErrorIs(t, err, process.ErrProcessFailed)
		assert.Equal(t, "e..\n", eng.Text(), "nothing after the long line runs")
		assert.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("Missing Command", func(t *testing.T) {
		eng := newEngine(t, "e\n")
		cfg := process.ProgramConfig{Name: "ghost", Command: filepath.Join(t.TempDir(), "does-not-exist")}
		err := programs.Run(context.Background(), eng, process.NewRunner().Program(cfg))
		assert.ErrorIs(t, err, process.ErrProcessFailed)
	})
}

func TestRunner_Register(t *testing.T) {
	reg := programs.NewRegistry()
	runner := process.NewRunner()
	cfgs := []process.ProgramConfig{{Name: "one", Command: "true"}, {Name: "two", Command: "true"}}

	require.NoError(t, runner.Register(reg, cfgs))
	assert.Equal(t, []string{"one", "two"}, reg.Names())
	assert.Error(t, runner.Register(reg, cfgs[:1]), "duplicate names are rejected")
}

func TestLoadPrograms(t *testing.T) {
	fs := afero.NewMemMapFs()

	cfgs, err := process.LoadPrograms(fs, "programs.yaml")
	require.NoError(t, err)
	assert.Empty(t, cfgs, "missing file means no programs")

	require.NoError(t, afero.WriteFile(fs, "programs.yaml", []byte(`
programs:
  - name: to-wall
    command: sh
    args: ["-c", "echo step"]
    description: walks one cell
    env:
      SPEED: fast
`), 0o644))
	cfgs, err = process.LoadPrograms(fs, "programs.yaml")
	require.NoError(t, err)
	require.Len(t, cfgs, 1)
	assert.Equal(t, "to-wall", cfgs[0].Name)
	assert.Equal(t, []string{"-c", "echo step"}, cfgs[0].Args)
	assert.Equal(t, "fast", cfgs[0].Environment["SPEED"])

	require.NoError(t, afero.WriteFile(fs, "programs.json", []byte(`{"programs":[{"name":"x","command":"true"}]}`), 0o644))
	cfgs, err = process.LoadPrograms(fs, "programs.json")
	require.NoError(t, err)
	assert.Equal(t, "true", cfgs[0].Command)

	require.NoError(t, afero.WriteFile(fs, "bad.yaml", []byte("programs:\n  - name: nameless-command\n"), 0o644))
	_, err = process.LoadPrograms(fs, "bad.yaml")
	assert.ErrorContains(t, err, "needs a name and a command")
}
