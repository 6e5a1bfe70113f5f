// Package viz renders a running world in the terminal.
//
// The live view is a Bubble Tea program that steps a [sim.World] at 60 Hz
// and draws it on a braille [Canvas]:
//
//   - [Model]: live view of one scene with a stats panel
//   - [NewInteractiveApp]: preset menu that opens the live view
//   - [Recorder]: captures frames into an animated GIF
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset the scene and pause
//	S     - Halve every velocity
//	O     - Put every body on a circular orbit
//	V     - Toggle drawing
//	D     - Show spatial index regions
//	+/-   - Change substeps per frame
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// Pressing the left mouse button picks the nearest body; while held the body
// follows the cursor and ignores gravity.
package viz
