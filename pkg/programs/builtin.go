package programs

// Default returns a registry holding the sample programs.
func Default() *Registry {
	r := NewRegistry()
	r.MustRegister("agent1", ToWall)
	r.MustRegister("agent2", StepAndTurnAround)
	r.MustRegister("clean-cave", CleanCave)
	return r
}

// ToWall walks straight ahead until it faces a wall.
func ToWall(c Commands) {
	for !c.FacingWall() {
		c.Step()
	}
}

// StepAndTurnAround steps once and turns to face back.
func StepAndTurnAround(c Commands) {
	c.Step()
	c.TurnRight()
	c.TurnRight()
}

// CleanCave collects every marker of the cave world: two sides, each a row of
// marker columns hanging off the northern wall.
func CleanCave(c Commands) {
	cleanSide(c)
	cleanSide(c)
}

func getStep(c Commands) {
	c.GetMarker()
	c.Step()
}

func toWallGet(c Commands) {
	for !c.FacingWall() {
		getStep(c)
	}
	c.GetMarker()
}

func cleanSide(c Commands) {
	c.Step()
	c.TurnRight()
	for c.OnMarker() {
		toWallGet(c)
		c.TurnRight()
		c.TurnRight()
		ToWall(c)
		c.TurnRight()
		c.Step()
		c.TurnRight()
	}
	ToWall(c)
	c.TurnRight()
}
