// Package sink provides the output format encoders for borehole scenes.
//
// # Overview
//
// A sink transforms a composed [scene.Scene] into final output bytes. This
// package provides encoders for:
//
//   - DXF: the CAD deliverable, with associative hatches and true-color layers
//   - SVG: vector preview on a dark model-space canvas
//   - PNG: raster preview at a configurable resolution
//   - JSON: geometry export for external tools
//
// # DXF Output
//
// [RenderDXF] is the primary sink. Each filled box becomes a solid HATCH on
// its material layer plus a closed LWPOLYLINE outline, bound together so CAD
// editors keep fill and linework synchronized. Text alignment maps onto DXF
// justification codes. Output is deterministic except for the document
// identity GUIDs, which [WithDXFGUIDs] can pin.
//
// # Preview Output
//
// [RenderSVG] and [RenderPNG] flip the y-axis into screen space, fit the
// content bounds plus a margin, and paint with the scene's layer colors on a
// dark canvas. They exist for quick inspection; dimensional fidelity beyond
// the viewport fit is not a goal.
//
// # Adding New Formats
//
// To add a format:
//
//  1. Create an encoder: func RenderFoo(s scene.Scene, opts ...FooOption) ([]byte, error)
//  2. Define option types for configuration
//  3. Register the format name in the parent render package dispatch
//
// [scene.Scene]: github.com/borelog/borelog/pkg/scene.Scene
package sink
