// Package viz draws elastic bodies in the terminal.
//
// A [Canvas] is a Braille raster; a [Camera] projects particle positions
// onto it. [Model] is a Bubble Tea program that steps a simulator live and
// shows the body next to an energy chart.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Rebuild the scene
//	+/-   - Steps per frame
//	L     - Contact wireframe
//	[ ]   - Replay
//	G     - Toggle GIF recording
//	?     - Help
package viz
