// Package imm is a minimal headless immediate-mode UI core: the concrete
// collaborator nodewire builds on. It owns per-frame input derivation
// (click/release/drag edges from raw button state), a seeded ID stack,
// a screen-space cursor with group layout and item bounds tracking, and
// a recording draw list whose command buffers can be split into
// re-orderable channels.
//
// The package draws nothing. Draw calls record [DrawCmd] values; a host
// renderer (or a test) consumes [DrawList.Commands] after the frame.
// This keeps polyline and bezier rasterization - a generic rendering
// concern - outside the library while preserving the exact buffer
// mechanics that draw-channel sorting depends on.
package imm
