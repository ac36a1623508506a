package observability

import (
	"log/slog"

	"github.com/aretw0/walker/pkg/domain"
)

// ChainActionHooks calls each set of hooks in order.
func ChainActionHooks(hooks ...domain.ActionHooks) domain.ActionHooks {
	return domain.ActionHooks{
		OnExecuted: func(a domain.Action) {
			for _, h := range hooks {
				if h.OnExecuted != nil {
					h.OnExecuted(a)
				}
			}
		},
		OnRejected: func(a domain.Action, err error) {
			for _, h := range hooks {
				if h.OnRejected != nil {
					h.OnRejected(a, err)
				}
			}
		},
	}
}

// ChainTraceHooks calls each set of hooks in order.
func ChainTraceHooks(hooks ...domain.TraceHooks) domain.TraceHooks {
	return domain.TraceHooks{
		OnAppended: func(index int, e domain.TraceEntry) {
			for _, h := range hooks {
				if h.OnAppended != nil {
					h.OnAppended(index, e)
				}
			}
		},
		OnCursorMoved: func(old, new int) {
			for _, h := range hooks {
				if h.OnCursorMoved != nil {
					h.OnCursorMoved(old, new)
				}
			}
		},
		OnTruncated: func(length int) {
			for _, h := range hooks {
				if h.OnTruncated != nil {
					h.OnTruncated(length)
				}
			}
		},
		OnReset: func() {
			for _, h := range hooks {
				if h.OnReset != nil {
					h.OnReset()
				}
			}
		},
	}
}

// LogActionHooks logs every action at debug level and rejections at info.
func LogActionHooks(logger *slog.Logger) domain.ActionHooks {
	return domain.ActionHooks{
		OnExecuted: func(a domain.Action) {
			logger.Debug("action executed", "kind", a.Kind, "label", a.Label())
		},
		OnRejected: func(a domain.Action, err error) {
			logger.Info("action rejected", "kind", a.Kind, "reason", Reason(err), "error", err)
		},
	}
}
