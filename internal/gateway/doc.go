// Package gateway executes GraphQL requests against the configured Hoist
// endpoint. This includes request serialization, bearer-token authorization,
// and response parsing into raw per-field payloads.
//
// The package treats queries and variables as opaque: it never builds or
// rewrites query text, and callers decode only the response fields they asked
// for. Endpoint and token are explicit construction-time configuration.
package gateway
