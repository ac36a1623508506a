package programs

import (
	"context"
	"time"
)

// Commands is the instruction set available to programs.
type Commands interface {
	TurnLeft()
	TurnRight()
	Step()
	PutMarker()
	GetMarker()
	FacingWall() bool
	OnMarker() bool
	Debug(msg string)
	// Context is cancelled when the run is interrupted.
	Context() context.Context
}

// Machine is what a program runs against, typically a *walker.Engine.
type Machine interface {
	TurnLeft() error
	TurnRight() error
	Step() error
	PutMarker() error
	GetMarker() error
	FacingWall() bool
	OnMarker() bool
	Debug(msg string)
	RecordError(err error)
	Suppress(batch func() error) error
}

// abort carries the error that ends a program through the program's call stack.
type abort struct {
	err error
}

// commands adapts a Machine to Commands, turning the first error into an abort.
type commands struct {
	ctx   context.Context
	m     Machine
	delay time.Duration
}

// Abort stops the running program with err, as a failed instruction would.
// It must only be called from inside a Program.
func Abort(err error) {
	panic(abort{err: err})
}

func (c *commands) Context() context.Context {
	return c.ctx
}

func (c *commands) check(err error) {
	if err != nil {
		panic(abort{err: err})
	}
}

// before runs ahead of every instruction: it honours cancellation and the display delay.
func (c *commands) before() {
	c.check(c.ctx.Err())
	if c.delay <= 0 {
		return
	}
	t := time.NewTimer(c.delay)
	defer t.Stop()
	select {
	case <-c.ctx.Done():
		c.check(c.ctx.Err())
	case <-t.C:
	}
}

func (c *commands) TurnLeft() {
	c.before()
	c.check(c.m.TurnLeft())
}

func (c *commands) TurnRight() {
	c.before()
	c.check(c.m.TurnRight())
}

func (c *commands) Step() {
	c.before()
	c.check(c.m.Step())
}

func (c *commands) PutMarker() {
	c.before()
	c.check(c.m.PutMarker())
}

func (c *commands) GetMarker() {
	c.before()
	c.check(c.m.GetMarker())
}

func (c *commands) FacingWall() bool {
	c.before()
	return c.m.FacingWall()
}

func (c *commands) OnMarker() bool {
	c.before()
	return c.m.OnMarker()
}

func (c *commands) Debug(msg string) {
	c.check(c.ctx.Err())
	c.m.Debug(msg)
}
