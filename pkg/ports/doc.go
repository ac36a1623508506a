/*
Package ports defines the driven ports (interfaces) of the walker.

  - WorldStore: persists worlds by name, in their flat text encoding.

Traces are never persisted; a stored world is only its grid.
*/
package ports
