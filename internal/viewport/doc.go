// Package viewport maps between the three coordinate spaces of the workflow
// canvas: canvas space (the workflow's own units), content space (pixels of
// the scrollable canvas element) and screen space (absolute pointer
// coordinates).
//
// A State owns the zoom factor and container size. Content bounds, padding,
// view box and canvas size are derived from them on every read and are never
// cached. The scroll offset lives in the bound ScrollContainer.
//
// Operators such as ZoomAroundPointer, FitToScreen and UpdateContainerSize
// compute a target zoom and scroll and write them back without letting the
// visible content jump.
package viewport
