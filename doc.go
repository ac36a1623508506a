/*
Package walker simulates a single agent ("the walker") on a bounded rectangular grid,
executing a small fixed instruction set while every executed instruction is recorded
in a navigable, reversible trace.

# Concept

The walker turns, steps forward, and picks up or drops markers. Each instruction runs
against the world first and is recorded only if it succeeded. The trace can then be
scrubbed: moving its cursor backwards replays the exact inverse of every passed
instruction, moving it forwards re-executes them. Recording a new instruction while the
cursor is in the past drops the abandoned future.

# Key Features

  - Reversible Execution: Step/StepBack, PutMarker/GetMarker and TurnLeft/TurnRight are exact inverses.
  - Atomic Instructions: a failed instruction leaves both world and trace untouched.
  - Flat Encoding: worlds load from and save to a line-oriented text format (see package codec).
  - Observable: hooks for agent moves, cell changes, trace appends and cursor moves.

# Usage

	package main

	import (
		"fmt"
		"log"

		"github.com/aretw0/walker"
	)

	func main() {
		eng, err := walker.New()
		if err != nil {
			log.Fatal(err)
		}
		if err := eng.LoadFile("worlds/cave.txt"); err != nil {
			log.Fatal(err)
		}

		for !eng.FacingWall() {
			if err := eng.Step(); err != nil {
				log.Fatal(err)
			}
		}

		// Rewind to the start of the run, then replay half of it.
		_ = eng.MoveCursorTo(0)
		_ = eng.MoveCursorTo(len(eng.Trace()) / 2)
		fmt.Print(eng.Text())
	}
*/
package walker
