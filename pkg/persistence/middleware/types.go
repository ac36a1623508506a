// Package middleware decorates world stores with cross-cutting behavior.
package middleware

import "github.com/aretw0/walker/pkg/ports"

// Middleware allows wrapping a WorldStore to add behavior.
type Middleware func(ports.WorldStore) ports.WorldStore

// Chain applies mws to store, the first one ending up outermost.
func Chain(store ports.WorldStore, mws ...Middleware) ports.WorldStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
