// Package layout provides the custom record layouts shared by both container
// dialects:
//
//   - TransformBlock: a flag word selecting which of three self-relative
//     transform sample streams follow it.
//   - IndexBuffer: an address and count pair whose element width (8 or 16
//     bits) is chosen from the largest index.
//   - Blob: a length-prefixed payload written into a raw-data section.
package layout
