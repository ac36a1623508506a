package walker_test

import (
	"fmt"
	"log"

	"github.com/aretw0/walker"
	"github.com/aretw0/walker/pkg/domain"
)

// ExampleEngine_MoveCursorTo walks to the wall, then rewinds the trace.
func ExampleEngine_MoveCursorTo() {
	eng, err := walker.New()
	if err != nil {
		log.Fatal(err)
	}
	if err := eng.NewWorld(3, 1, domain.Pt(0, 0), domain.East); err != nil {
		log.Fatal(err)
	}

	for !eng.FacingWall() {
		if err := eng.Step(); err != nil {
			log.Fatal(err)
		}
	}
	fmt.Print(eng.Text())
	fmt.Println(len(eng.Trace()), "entries")

	if err := eng.MoveCursorTo(0); err != nil {
		log.Fatal(err)
	}
	fmt.Print(eng.Text())

	// Output:
	// ..e
	// 6 entries
	// e..
}

// ExampleEngine_LoadText shows the decode error taxonomy.
func ExampleEngine_LoadText() {
	eng, _ := walker.New()

	err := eng.LoadText("n.\n.n")
	fmt.Println(err)

	if err := eng.LoadText("n.\n.o"); err != nil {
		log.Fatal(err)
	}
	fmt.Print(eng.Text())

	// Output:
	// decode world: bad world format: world must contain exactly one agent, found 2
	// n.
	// .o
}
