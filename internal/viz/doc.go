// Package viz renders spacecraft attitude in the terminal.
//
// The live view is a Bubble Tea program that propagates the body and draws
// its principal-axes box on a Braille [Canvas], next to the attitude and rate
// readouts and a rate history graph.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset to the initial state
//	Tab   - Cycle tunable parameters
//	↑/↓   - Scale the selected parameter by ±5%
//	</>   - Slow down / speed up
//	X/Y   - Rotate the camera
//	G     - Toggle GIF recording
//	?     - Help overlay
package viz
