// Package server exposes cone-lines detection as MCP (Model Context Protocol)
// tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - cone_find_apexes: Build the cone mask and list blob apexes
//   - cone_fit_boundaries: Fit both boundary lines and return the annotated
//     image, optionally saving it
//   - image_sample_lab: Report the 8-bit L*a*b* value at a pixel, for tuning
//     mask bounds
//   - image_dimensions: Get width, height and format
//
// Every tool call is independent. The only state kept between calls is an
// in-memory cache of decoded images keyed by path.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with
// code -32000, message "Tool execution failed" and the Go error string as
// data. Detection failures (no blobs, an apex with no neighbor, an empty
// cluster) surface the same way.
package server
