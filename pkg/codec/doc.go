/*
Package codec converts between the line-oriented text encoding of a world and domain.Grid.

One file holds one world. Every line is a row of equal length; the wall ring around the
world is implicit and never written.

	.  empty         o  marker        x  wall
	n e s w          agent facing north/east/south/west on an empty cell
	N E S W          agent facing north/east/south/west on a marker

Exactly one agent glyph is required.
*/
package codec
