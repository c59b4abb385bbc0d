// Package internal contains private implementation details for the Hoist module.
// These packages are not intended for external use and may change without notice.
//
// The internal packages are organized as follows:
//   - hoistapi: Interfaces over the GraphQL gateway and the HTTP transport
//   - gateway: GraphQL request execution against the Hoist endpoint
//   - transport: Raw HTTP PUT delivery to pre-signed URLs
//   - planner: Part planning arithmetic
//   - operations: Core upload operation implementations
//   - transfer: Complex transfer management (multipart, concurrent)
//   - validation: Input validation logic
//   - pool: Memory management optimizations
package internal
