package domain

// GridHooks observe grid changes. Nil callbacks are skipped.
// While a grid has updates switched off, none of them fire except OnUpdatesResumed.
type GridHooks struct {
	// OnAgentMoved fires when the agent's position and/or direction changes.
	// Turning in place reports old == new.
	OnAgentMoved func(old, new Point, dir Direction)
	// OnCellChanged fires when a single cell changes.
	OnCellChanged func(p Point)
	// OnWorldLoaded fires when the whole world was replaced.
	OnWorldLoaded func()
	// OnUpdatesResumed fires when notifications are switched back on.
	OnUpdatesResumed func()
}

// TraceHooks observe the execution trace. They fire whether or not grid updates are suppressed.
type TraceHooks struct {
	OnAppended    func(index int, entry TraceEntry)
	OnCursorMoved func(old, new int)
	OnTruncated   func(length int)
	OnReset       func()
}

// ActionHooks observe instructions handed to the dispatcher.
type ActionHooks struct {
	// OnExecuted fires after an action took effect and was recorded.
	OnExecuted func(a Action)
	// OnRejected fires when an action failed its legality check.
	OnRejected func(a Action, err error)
}
