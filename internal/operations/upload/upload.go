package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hoisthq/hoist-go/errors"
	"github.com/hoisthq/hoist-go/hoisttypes"
	"github.com/hoisthq/hoist-go/internal/hoistapi"
	"github.com/hoisthq/hoist-go/internal/validation"
)

// createMutation registers the file and returns the single pre-signed URL
// for its body. Operation and field names are fixed by the Hoist API contract.
const createMutation = `
mutation CreateFileUpload($byteSize: BigInt!, $contentType: String!, $filename: String!, $owner: OwnerInput!) {
  create_file_upload(byte_size: $byteSize, content_type: $contentType, filename: $filename, owner: $owner) {
    file_id
    owner_id
    url
  }
}`

// createField is the top-level response field of createMutation.
const createField = "create_file_upload"

// Uploader handles direct uploads through the Hoist API.
type Uploader struct {
	gateway   hoistapi.Gateway
	transport hoistapi.Transport
}

// New creates a new Uploader instance.
func New(gateway hoistapi.Gateway, transport hoistapi.Transport) *Uploader {
	return &Uploader{
		gateway:   gateway,
		transport: transport,
	}
}

// Request describes one direct upload.
type Request struct {
	// Source provides the whole body; it is read eagerly before any API call
	Source io.Reader

	// Size is the number of bytes the source must yield
	Size int64

	// Filename is declared to the server at registration
	Filename string

	// ContentType is declared to the server and sent with the PUT
	ContentType string

	// Owner is the opaque owner descriptor forwarded to the server
	Owner any

	// Progress receives a single update on success; nil disables reporting
	Progress hoisttypes.ProgressTracker
}

// ticket is the create_file_upload response payload.
type ticket struct {
	FileID  string `json:"file_id"`
	OwnerID string `json:"owner_id"`
	URL     string `json:"url"`
}

// Upload registers the file, PUTs the whole body to the returned pre-signed
// URL, and returns the server-assigned file identifier. There is nothing to
// finalize or abort; the server treats the file as live once the PUT lands.
func (u *Uploader) Upload(ctx context.Context, req *Request) (*hoisttypes.UploadResult, error) {
	startTime := time.Now()

	data, err := io.ReadAll(req.Source)
	if err != nil {
		return nil, u.failWith(req.Progress, errors.NewError("DirectRead",
			fmt.Errorf("%w: %w", errors.ErrRead, err)))
	}
	if int64(len(data)) != req.Size {
		return nil, u.failWith(req.Progress, errors.NewError("DirectRead",
			fmt.Errorf("%w: source returned %d bytes, declared %d", errors.ErrRead, len(data), req.Size)))
	}

	t, err := u.register(ctx, req)
	if err != nil {
		return nil, u.failWith(req.Progress, err)
	}

	if err := u.put(ctx, t.URL, req.ContentType, data); err != nil {
		return nil, u.failWith(req.Progress, err)
	}

	if req.Progress != nil {
		req.Progress.Update(req.Size, req.Size)
		req.Progress.Complete()
	}
	return &hoisttypes.UploadResult{
		FileID:      t.FileID,
		OwnerID:     t.OwnerID,
		Size:        req.Size,
		Parts:       1,
		ContentType: req.ContentType,
		Duration:    time.Since(startTime),
	}, nil
}

// register creates the file server-side and returns its upload ticket.
func (u *Uploader) register(ctx context.Context, req *Request) (*ticket, error) {
	resp, err := u.gateway.Request(ctx, createMutation, map[string]any{
		"byteSize":    req.Size,
		"contentType": req.ContentType,
		"filename":    req.Filename,
		"owner":       req.Owner,
	})
	if err != nil {
		return nil, errors.NewError("DirectInitiate", fmt.Errorf("%w: %w", errors.ErrInitiation, err))
	}
	if resp.Status != http.StatusOK {
		return nil, errors.NewError("DirectInitiate",
			fmt.Errorf("%w: gateway returned status %d", errors.ErrInitiation, resp.Status))
	}
	if len(resp.Errors) > 0 {
		return nil, errors.NewError("DirectInitiate",
			fmt.Errorf("%w: graphql error: %s", errors.ErrInitiation, resp.Errors[0].Message))
	}

	raw, ok := resp.Data[createField]
	if !ok || string(raw) == "null" {
		return nil, errors.NewError("DirectInitiate",
			fmt.Errorf("%w: response missing field %q", errors.ErrInitiation, createField))
	}

	var t ticket
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, errors.NewError("DirectInitiate",
			fmt.Errorf("%w: decode ticket: %w", errors.ErrInitiation, err))
	}
	if t.FileID == "" || t.URL == "" {
		return nil, errors.NewError("DirectInitiate",
			fmt.Errorf("%w: response missing ticket fields", errors.ErrInitiation))
	}
	if err := validation.ValidateUploadURL(t.URL); err != nil {
		return nil, errors.NewError("DirectInitiate", fmt.Errorf("%w: %w", errors.ErrInitiation, err))
	}
	return &t, nil
}

// put delivers the whole body to the pre-signed URL.
func (u *Uploader) put(ctx context.Context, url, contentType string, data []byte) error {
	var headers map[string]string
	if contentType != "" {
		headers = map[string]string{"Content-Type": contentType}
	}

	resp, err := u.transport.Put(ctx, url, headers, data)
	if err != nil {
		return errors.NewError("DirectPut", fmt.Errorf("%w: %w", errors.ErrPartUpload, err))
	}
	if resp.Status != http.StatusOK {
		return errors.NewError("DirectPut",
			fmt.Errorf("%w: storage returned status %d", errors.ErrPartUpload, resp.Status))
	}
	return nil
}

// failWith notifies the tracker before handing the error back.
func (u *Uploader) failWith(progress hoisttypes.ProgressTracker, err error) error {
	if progress != nil {
		progress.Error(err)
	}
	return err
}
