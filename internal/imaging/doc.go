// Package imaging provides the image-side collaborators of the cone-lines
// pipeline: loading and saving files, converting pixels to L*a*b*, building
// the binary cone mask, and drawing the fitted lines.
//
// All operations work with standard Go image.Image types and use a coordinate
// system where (0,0) is at the top-left corner, X increases rightward, and Y
// increases downward.
//
// # Color Representation
//
// L*a*b* values are reported on the 8-bit scale used by common vision
// libraries, so threshold bounds carry over unchanged:
//   - L: L* scaled from 0-100 to 0-255
//   - A: a* offset by 128
//   - B: b* offset by 128
//
// Each channel is rounded and clamped to 0-255.
//
// # Mask Construction
//
// BuildMask marks pixels whose 8-bit L*a*b* value lies inside inclusive
// bounds, then cleans the result with a morphological opening followed by a
// dilation. The mask has the same width and height as the image.
//
// # Drawing
//
// DrawSegments never modifies its input. It draws onto a copy and clips every
// segment to the canvas first, so endpoints far outside the image are safe.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Individual image operations
// are stateless and can be called concurrently on different images.
package imaging
