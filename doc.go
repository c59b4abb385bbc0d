// Package hoist provides a high-level Go client for uploading files to the
// Hoist platform. Files travel through pre-signed object-store URLs handed
// out by the platform's GraphQL API, so the client never holds storage
// credentials of its own.
//
// The module emphasizes developer experience through simple APIs while
// maintaining performance through intelligent defaults for concurrency,
// buffering, and retries.
//
// Key features:
//   - Multipart uploads with fixed-size part planning and server finalization
//   - Concurrent part uploads with configurable limits
//   - Bounded retry with exponential backoff on transient part failures
//   - Automatic content-type detection from file content and extension
//   - Direct single-request uploads for small payloads
//   - Raw GraphQL passthrough for follow-up mutations
//
// Example usage:
//
//	client, err := hoist.New(
//	    hoist.WithEndpoint("https://api.hoist.example/graphql"),
//	    hoist.WithToken(os.Getenv("HOIST_TOKEN")),
//	)
//	if err != nil {
//	    return err
//	}
//
//	// Upload a file
//	result, err := client.UploadFile(ctx, "/local/file.txt", hoist.Owner("Project", "p-42"))
//	if err != nil {
//	    return err
//	}
package hoist
