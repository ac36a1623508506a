/*
Package programs runs walker programs: ordinary sequential Go functions issuing
instructions through the Commands interface.

A program reads like the instructions it issues:

	func toWall(c programs.Commands) {
		for !c.FacingWall() {
			c.Step()
		}
	}

Commands do not return errors. The first illegal instruction aborts the whole
program: Run records the failure in the trace and returns it. There is no way to
resume a program after an error.
*/
package programs
