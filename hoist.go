// Package hoist provides the main Hoist client and core upload operations.
package hoist

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	hoisterrors "github.com/hoisthq/hoist-go/errors"
	"github.com/hoisthq/hoist-go/hoisttypes"
	"github.com/hoisthq/hoist-go/internal/operations/upload"
	"github.com/hoisthq/hoist-go/internal/transfer/multipart"
	"github.com/hoisthq/hoist-go/internal/validation"
)

const (
	// DefaultContentType is the default content type used when content type detection fails
	DefaultContentType = "application/octet-stream"

	// sniffLength is how many leading bytes content detection examines
	sniffLength = 512
)

// Owner builds the owner descriptor for the common case of attaching a file
// to a typed record. Callers with richer descriptors can pass any
// JSON-serializable value directly.
func Owner(ownerType, id string) map[string]any {
	return map[string]any{"type": ownerType, "id": id}
}

// Upload uploads data from an io.ReaderAt to the Hoist platform using the
// multipart protocol. The source is split into parts of at least
// hoisttypes.MinPartSize bytes, uploaded concurrently to pre-signed storage
// URLs, and finalized into a single file owned by the given owner descriptor.
//
// Progress tracking and other options can be configured via UploadOption
// parameters. The content type is sniffed from the leading bytes when not
// set explicitly.
//
// Returns:
//   - *UploadResult: The new file's identifiers, part count, and duration
//   - error: Returns an error if any upload step fails
//
// Errors:
//   - ErrInvalidInput: If source is nil, size is negative, filename is
//     unusable, or the plan would exceed the part-count limit
//   - ErrInitiation: If the upload session cannot be created
//   - ErrRead: If the source yields fewer bytes than planned
//   - ErrPartURL: If a part's pre-signed URL cannot be obtained
//   - ErrPartUpload: If a part's bytes are not accepted by storage
//   - ErrFinalization: If the server rejects the completed manifest
//
// Example:
//
//	file, err := os.Open("video.mp4")
//	if err != nil {
//	    return err
//	}
//	defer file.Close()
//	info, _ := file.Stat()
//
//	result, err := client.Upload(ctx, file, info.Size(), "video.mp4",
//	    hoist.Owner("Project", "p-42"),
//	    hoist.WithProgress(tracker),
//	)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Uploaded file %s in %v\n", result.FileID, result.Duration)
func (c *Client) Upload(
	ctx context.Context,
	source io.ReaderAt,
	size int64,
	filename string,
	owner any,
	opts ...hoisttypes.UploadOption,
) (*hoisttypes.UploadResult, error) {
	if source == nil {
		return nil, hoisterrors.NewError("upload", hoisterrors.ErrInvalidInput).
			WithMessage("source cannot be nil")
	}
	if err := validation.ValidateSize(size); err != nil {
		return nil, err
	}
	if err := validation.ValidateFilename(filename); err != nil {
		return nil, err
	}
	if err := validation.ValidateOwner(owner); err != nil {
		return nil, err
	}

	config, err := c.applyUploadOptions(opts)
	if err != nil {
		return nil, err
	}
	if config.ContentType == "" {
		config.ContentType = c.detectReaderContentType(source, size, filename)
	}

	result, err := c.engine.Upload(ctx, &multipart.Request{
		Source:      source,
		Size:        size,
		Filename:    filename,
		ContentType: config.ContentType,
		Owner:       owner,
		Progress:    config.ProgressTracker,
		Concurrency: config.Concurrency,
	})
	if err != nil {
		return nil, hoisterrors.NewError("upload", err)
	}

	return result, nil
}

// UploadFile uploads a file from the filesystem to the Hoist platform using
// the multipart protocol.
//
// This is a convenience method that handles file opening, sizing, and
// content type detection. The file is read at planned offsets, so it must
// not change size while the upload runs.
//
// Returns:
//   - *UploadResult: The new file's identifiers, part count, and duration
//   - error: Returns an error if the upload fails
//
// Errors:
//   - ErrInvalidInput: If path is empty or points to a directory
//   - Filesystem errors if the file cannot be opened or statted
//   - Any error Upload can return
//
// Example:
//
//	result, err := client.UploadFile(ctx, "/data/backup.tar",
//	    hoist.Owner("User", "u-7"),
//	    hoist.WithProgress(tracker),
//	)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Uploaded %d bytes as %s\n", result.Size, result.FileID)
func (c *Client) UploadFile(
	ctx context.Context,
	path string,
	owner any,
	opts ...hoisttypes.UploadOption,
) (*hoisttypes.UploadResult, error) {
	if path == "" {
		return nil, hoisterrors.NewError("uploadFile", hoisterrors.ErrInvalidInput).
			WithMessage("path cannot be empty")
	}
	if err := validation.ValidateOwner(owner); err != nil {
		return nil, err
	}

	// Check if the file exists and get its size
	info, err := c.fs.Stat(path)
	if err != nil {
		return nil, hoisterrors.NewError("uploadFile", err)
	}
	if info.IsDir() {
		return nil, hoisterrors.NewError("uploadFile", hoisterrors.ErrInvalidInput).
			WithMessage("path points to a directory, not a file")
	}

	config, err := c.applyUploadOptions(opts)
	if err != nil {
		return nil, err
	}
	if config.ContentType == "" {
		config.ContentType = c.detectFileContentType(path)
	}

	file, err := c.fs.Open(path)
	if err != nil {
		return nil, hoisterrors.NewError("uploadFile", err)
	}
	defer file.Close()

	result, err := c.engine.Upload(ctx, &multipart.Request{
		Source:      file,
		Size:        info.Size(),
		Filename:    filepath.Base(path),
		ContentType: config.ContentType,
		Owner:       owner,
		Progress:    config.ProgressTracker,
		Concurrency: config.Concurrency,
	})
	if err != nil {
		return nil, hoisterrors.NewError("uploadFile", err)
	}

	return result, nil
}

// UploadDirect uploads data from an io.Reader to the Hoist platform with a
// single registration call and a single PUT, skipping the multipart
// protocol. The whole body is buffered in memory first.
//
// Ideal for small payloads like avatars or configuration files. For large
// files, use Upload or UploadFile, which split, retry, and abort per part.
//
// Returns:
//   - *UploadResult: The new file's identifiers and duration
//   - error: Returns an error if the upload fails
//
// Errors:
//   - ErrInvalidInput: If source is nil, size is negative, or filename is
//     unusable
//   - ErrInitiation: If the file cannot be registered
//   - ErrRead: If the source yields a different byte count than declared
//   - ErrPartUpload: If the body is not accepted by storage
//
// Example:
//
//	data := bytes.NewReader(avatar)
//	result, err := client.UploadDirect(ctx, data, int64(len(avatar)), "avatar.png",
//	    hoist.Owner("User", "u-7"),
//	)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Uploaded file %s\n", result.FileID)
func (c *Client) UploadDirect(
	ctx context.Context,
	source io.Reader,
	size int64,
	filename string,
	owner any,
	opts ...hoisttypes.UploadOption,
) (*hoisttypes.UploadResult, error) {
	if source == nil {
		return nil, hoisterrors.NewError("uploadDirect", hoisterrors.ErrInvalidInput).
			WithMessage("source cannot be nil")
	}
	if err := validation.ValidateSize(size); err != nil {
		return nil, err
	}
	if err := validation.ValidateFilename(filename); err != nil {
		return nil, err
	}
	if err := validation.ValidateOwner(owner); err != nil {
		return nil, err
	}

	config, err := c.applyUploadOptions(opts)
	if err != nil {
		return nil, err
	}
	if config.ContentType == "" {
		// A plain reader cannot be sniffed without consuming it
		config.ContentType = c.detectContentTypeFromExtension(filename)
	}

	result, err := c.uploader.Upload(ctx, &upload.Request{
		Source:      source,
		Size:        size,
		Filename:    filename,
		ContentType: config.ContentType,
		Owner:       owner,
		Progress:    config.ProgressTracker,
	})
	if err != nil {
		return nil, hoisterrors.NewError("uploadDirect", err)
	}

	return result, nil
}

// Query executes an arbitrary GraphQL request against the configured
// endpoint. The query string and variables pass through untouched; the
// parsed response carries the HTTP status, data fields, and any
// server-reported errors.
//
// Returns:
//   - *GraphQLResponse: The parsed response envelope
//   - error: Returns an error if the request cannot be executed
//
// Errors:
//   - ErrInvalidInput: If the query string is empty
//   - ErrGateway: If the request fails at the transport level
//
// Example:
//
//	resp, err := client.Query(ctx,
//	    `query File($id: ID!) { file(id: $id) { filename byte_size } }`,
//	    map[string]any{"id": fileID},
//	)
//	if err != nil {
//	    return err
//	}
//	var file struct {
//	    Filename string `json:"filename"`
//	    ByteSize int64  `json:"byte_size"`
//	}
//	err = json.Unmarshal(resp.Data["file"], &file)
func (c *Client) Query(
	ctx context.Context,
	query string,
	variables map[string]any,
) (*hoisttypes.GraphQLResponse, error) {
	if query == "" {
		return nil, hoisterrors.NewError("query", hoisterrors.ErrInvalidInput).
			WithMessage("query cannot be empty")
	}

	resp, err := c.gateway.Request(ctx, query, variables)
	if err != nil {
		return nil, hoisterrors.NewError("query", fmt.Errorf("%w: %w", hoisterrors.ErrGateway, err))
	}
	return resp, nil
}

// applyUploadOptions folds UploadOption values into a config and validates
// the combination.
func (c *Client) applyUploadOptions(opts []hoisttypes.UploadOption) (*hoisttypes.UploadOptionConfig, error) {
	config := &hoisttypes.UploadOptionConfig{}
	for _, opt := range opts {
		opt(config)
	}

	if err := validation.ValidateContentType(config.ContentType); err != nil {
		return nil, err
	}
	if err := validation.ValidateConcurrency(config.Concurrency); err != nil {
		return nil, err
	}
	return config, nil
}

// detectReaderContentType sniffs the source's leading bytes, falling back to
// extension-based lookup when the source yields nothing.
func (c *Client) detectReaderContentType(source io.ReaderAt, size int64, filename string) string {
	sniff := int64(sniffLength)
	if size < sniff {
		sniff = size
	}
	if sniff > 0 {
		buf := make([]byte, sniff)
		if n, err := source.ReadAt(buf, 0); n > 0 && (err == nil || err == io.EOF) {
			if mt := mimetype.Detect(buf[:n]); mt != nil {
				return mt.String()
			}
		}
	}

	return c.detectContentTypeFromExtension(filename)
}

// detectFileContentType sniffs an on-disk file's content where possible,
// falling back to extension-based lookup.
func (c *Client) detectFileContentType(path string) string {
	file, err := c.fs.Open(path)
	if err != nil {
		return c.detectContentTypeFromExtension(path)
	}
	defer file.Close()

	buf := make([]byte, sniffLength)
	n, _ := file.Read(buf)
	if n > 0 {
		if mt := mimetype.Detect(buf[:n]); mt != nil {
			return mt.String()
		}
	}

	return c.detectContentTypeFromExtension(path)
}

// detectContentTypeFromExtension detects content type from the file extension
func (c *Client) detectContentTypeFromExtension(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt
		}
	}

	return DefaultContentType
}
