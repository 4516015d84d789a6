// Package viz provides the terminal drawing primitives for termfolio.
//
//   - [Canvas]: Braille-based pixel canvas with per-cell ink for coloring
//   - [Camera]: perspective camera with projection and picking rays
//   - [Theme]: color schemes and the [Styles] derived from them
//
// The canvas works in sub-pixels: each cell holds a 2x4 Braille block, so a
// W×H cell canvas is a 2W×4H pixel surface.
package viz
