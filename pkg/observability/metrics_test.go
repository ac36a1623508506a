package observability_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/aretw0/walker"
	"github.com/aretw0/walker/pkg/domain"
	"github.com/aretw0/walker/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_FromEngine(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	eng, err := walker.New(
		walker.WithActionHooks(m.ActionHooks()),
		walker.WithTraceHooks(m.TraceHooks()),
	)
	require.NoError(t, err)
	require.NoError(t, eng.LoadText("e.\n"))

	require.NoError(t, eng.Step())
	require.Error(t, eng.Step())
	require.NoError(t, eng.PutMarker())
	require.Error(t, eng.PutMarker())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Actions.WithLabelValues("step")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Actions.WithLabelValues("put_marker")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Failures.WithLabelValues("step", "blocked_by_wall")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Failures.WithLabelValues("put_marker", "already_marked")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.TraceLength))

	require.NoError(t, eng.MoveCursorTo(0))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CursorMoves.WithLabelValues("backward")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CursorMoves.WithLabelValues("forward")))

	eng.ContinueFromHere()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TraceLength))

	// two kinds, two failure pairs, two directions and the gauge
	assert.Equal(t, 7, testutil.CollectAndCount(reg))
}

func TestMetrics_Exposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	m.TraceHooks().OnAppended(4, domain.NewEntry(domain.StepAction()))

	expected := `
# HELP walker_trace_length Number of entries in the execution trace
# TYPE walker_trace_length gauge
walker_trace_length 5
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "walker_trace_length"))
}

func TestReason(t *testing.T) {
	assert.Equal(t, "blocked_by_wall", observability.Reason(&domain.ActionError{Kind: domain.KindStep, Err: domain.ErrBlockedByWall}))
	assert.Equal(t, "no_marker", observability.Reason(domain.ErrNoMarkerHere))
	assert.Equal(t, "other", observability.Reason(errors.New("x")))
}

func TestChainHooks(t *testing.T) {
	var calls []string
	a := domain.ActionHooks{OnExecuted: func(domain.Action) { calls = append(calls, "a") }}
	b := domain.ActionHooks{
		OnExecuted: func(domain.Action) { calls = append(calls, "b") },
		OnRejected: func(domain.Action, error) { calls = append(calls, "b-rejected") },
	}

	h := observability.ChainActionHooks(a, b)
	h.OnExecuted(domain.StepAction())
	h.OnRejected(domain.StepAction(), domain.ErrBlockedByWall)
	assert.Equal(t, []string{"a", "b", "b-rejected"}, calls)

	var resets int
	th := observability.ChainTraceHooks(domain.TraceHooks{}, domain.TraceHooks{OnReset: func() { resets++ }})
	th.OnReset()
	th.OnAppended(1, domain.TraceEntry{})
	assert.Equal(t, 1, resets)
}

func TestLogActionHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	h := observability.LogActionHooks(logger)
	h.OnExecuted(domain.TurnLeftAction())
	h.OnRejected(domain.GetMarkerAction(), domain.ErrNoMarkerHere)

	out := buf.String()
	assert.Contains(t, out, "action executed")
	assert.Contains(t, out, "kind=turn_left")
	assert.Contains(t, out, "reason=no_marker")
}
