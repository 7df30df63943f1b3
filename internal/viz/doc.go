// Package viz renders the five-body system in the terminal.
//
// [Model] is a Bubble Tea program that steps a [physics.System] on every
// tick and draws the ecliptic (x-y) plane on a braille [Canvas], next to a
// panel with the step count, elapsed years, energy and an energy plot.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset to the initial state
//	+/-   - Zoom in/out
//	F/S   - Faster/slower (steps per frame)
//	?     - Show help
//	Q     - Quit
//
// [physics.System]: github.com/san-kum/nbody/internal/physics.System
package viz
