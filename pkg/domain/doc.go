/*
Package domain contains the core model of the walker world.

It defines the grid the walker lives on, the instructions it can execute and the
entries that make up a reversible execution trace. This package is kept pure and
free of external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - Grid: the mutable world state (cells, dimensions, agent position and direction).
  - Cell: Wall, Empty or Marked.
  - Direction: North, East, South, West, in that cyclic order.
  - Action: a closed set of instruction kinds, each with a forward effect and an inverse.
  - TraceEntry: an executed action plus the text shown for it.
*/
package domain
