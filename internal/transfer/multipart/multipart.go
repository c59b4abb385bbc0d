package multipart

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/hoisthq/hoist-go/errors"
	"github.com/hoisthq/hoist-go/hoisttypes"
	"github.com/hoisthq/hoist-go/internal/hoistapi"
	"github.com/hoisthq/hoist-go/internal/planner"
	"github.com/hoisthq/hoist-go/internal/pool"
	"github.com/hoisthq/hoist-go/internal/validation"
)

const (
	// defaultConcurrency bounds the part upload worker pool when neither the
	// client nor the call configures one
	defaultConcurrency = 5

	// defaultRetryMaxAttempts is the total number of attempts per part request
	defaultRetryMaxAttempts = 3

	// defaultRetryInitialInterval seeds the exponential backoff between attempts
	defaultRetryInitialInterval = 200 * time.Millisecond

	// abortTimeout bounds the cleanup call issued after a failed upload
	abortTimeout = 30 * time.Second
)

// GraphQL operations issued by the engine. Operation and field names are
// fixed by the Hoist API contract.
const (
	createMutation = `
mutation CreateMultipartFileUpload($byteSize: BigInt!, $contentType: String!, $filename: String!, $owner: OwnerInput!) {
  create_multipart_file_upload(byte_size: $byteSize, content_type: $contentType, filename: $filename, owner: $owner) {
    file_id
    owner_id
    storage_key
    upload_id
  }
}`

	prepareMutation = `
mutation PrepareMultipartFileUploadPart($partNumber: Int!, $storageKey: String!, $uploadId: String!) {
  prepare_multipart_file_upload_part(part_number: $partNumber, storage_key: $storageKey, upload_id: $uploadId) {
    url
  }
}`

	completeMutation = `
mutation CompleteMultipartFileUpload($parts: [MultipartFileUploadPartInput!]!, $storageKey: String!, $uploadId: String!) {
  complete_multipart_file_upload(parts: $parts, storage_key: $storageKey, upload_id: $uploadId)
}`

	abortMutation = `
mutation AbortMultipartFileUpload($storageKey: String!, $uploadId: String!) {
  abort_multipart_file_upload(storage_key: $storageKey, upload_id: $uploadId)
}`
)

// Top-level response fields for the operations above.
const (
	createField   = "create_multipart_file_upload"
	prepareField  = "prepare_multipart_file_upload_part"
	completeField = "complete_multipart_file_upload"
	abortField    = "abort_multipart_file_upload"
)

// Config holds the collaborators and tuning for an Engine.
type Config struct {
	// Gateway executes the GraphQL control-plane calls
	Gateway hoistapi.Gateway

	// Transport delivers part bytes to pre-signed URLs
	Transport hoistapi.Transport

	// Logger receives structured upload progress; nil disables logging
	Logger *slog.Logger

	// Concurrency bounds the part worker pool; 0 uses the default
	Concurrency int

	// RetryMaxAttempts is the total attempts per part URL fetch and part PUT;
	// 0 uses the default, 1 disables retries
	RetryMaxAttempts int

	// RetryInitialInterval seeds the exponential backoff; 0 uses the default
	RetryInitialInterval time.Duration
}

// Engine drives multipart uploads. One Engine serves any number of concurrent
// uploads; per-upload state never leaves the Upload call that owns it.
type Engine struct {
	gateway              hoistapi.Gateway
	transport            hoistapi.Transport
	logger               *slog.Logger
	concurrency          int
	retryMaxAttempts     int
	retryInitialInterval time.Duration
}

// New creates an upload engine from the given configuration.
func New(cfg Config) *Engine {
	retryMaxAttempts := cfg.RetryMaxAttempts
	if retryMaxAttempts <= 0 {
		retryMaxAttempts = defaultRetryMaxAttempts
	}
	retryInitialInterval := cfg.RetryInitialInterval
	if retryInitialInterval <= 0 {
		retryInitialInterval = defaultRetryInitialInterval
	}
	return &Engine{
		gateway:              cfg.Gateway,
		transport:            cfg.Transport,
		logger:               cfg.Logger,
		concurrency:          cfg.Concurrency,
		retryMaxAttempts:     retryMaxAttempts,
		retryInitialInterval: retryInitialInterval,
	}
}

// Request describes one multipart upload.
type Request struct {
	// Source provides the bytes; reads are issued at planned offsets
	Source io.ReaderAt

	// Size is the total number of bytes to upload
	Size int64

	// Filename is declared to the server at initiation
	Filename string

	// ContentType is declared to the server at initiation
	ContentType string

	// Owner is the opaque owner descriptor forwarded to the server
	Owner any

	// Progress receives cumulative transfer updates; nil disables reporting
	Progress hoisttypes.ProgressTracker

	// Concurrency overrides the engine worker-pool bound for this call
	Concurrency int
}

// Upload runs the full multipart sequence and returns the server-assigned
// file identifier with the rest of the session detail. On any failure after
// initiation the server-side upload is aborted on a best-effort basis and the
// step's error kind is returned.
func (e *Engine) Upload(ctx context.Context, req *Request) (*hoisttypes.UploadResult, error) {
	startTime := time.Now()
	ref := uuid.NewString()
	state := hoisttypes.StateUninitiated

	plan, err := planner.Plan(req.Size, hoisttypes.MinPartSize)
	if err != nil {
		return nil, err
	}

	session, err := e.initiate(ctx, req)
	if err != nil {
		e.fail(ctx, ref, &state, req.Progress, err)
		return nil, err
	}
	e.transition(ctx, ref, &state, hoisttypes.StateInitiated)
	e.logInfo(ctx, "multipart upload started",
		"upload_ref", ref,
		"file_id", session.FileID,
		"storage_key", session.StorageKey,
		"size", req.Size,
		"parts", len(plan),
	)

	e.transition(ctx, ref, &state, hoisttypes.StatePartsPending)
	manifest, err := e.uploadParts(ctx, ref, req, session, plan)
	if err != nil {
		e.fail(ctx, ref, &state, req.Progress, err)
		e.abort(ctx, ref, session)
		return nil, err
	}
	e.transition(ctx, ref, &state, hoisttypes.StatePartsComplete)

	if err := e.finalize(ctx, session, manifest); err != nil {
		e.fail(ctx, ref, &state, req.Progress, err)
		e.abort(ctx, ref, session)
		return nil, err
	}
	e.transition(ctx, ref, &state, hoisttypes.StateFinalized)

	if req.Progress != nil {
		req.Progress.Complete()
	}
	result := &hoisttypes.UploadResult{
		FileID:      session.FileID,
		OwnerID:     session.OwnerID,
		StorageKey:  session.StorageKey,
		UploadID:    session.UploadID,
		Size:        req.Size,
		Parts:       len(plan),
		ContentType: req.ContentType,
		Duration:    time.Since(startTime),
	}
	e.logInfo(ctx, "multipart upload finalized",
		"upload_ref", ref,
		"file_id", result.FileID,
		"parts", result.Parts,
		"duration", result.Duration,
	)
	return result, nil
}

// initiate creates the server-side upload session.
func (e *Engine) initiate(ctx context.Context, req *Request) (*hoisttypes.UploadSession, error) {
	raw, err := e.mutate(ctx, createMutation, map[string]any{
		"byteSize":    req.Size,
		"contentType": req.ContentType,
		"filename":    req.Filename,
		"owner":       req.Owner,
	}, createField)
	if err != nil {
		return nil, errors.NewError("Initiate", fmt.Errorf("%w: %w", errors.ErrInitiation, err))
	}

	var session hoisttypes.UploadSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, errors.NewError("Initiate", fmt.Errorf("%w: decode session: %w", errors.ErrInitiation, err))
	}
	if session.FileID == "" || session.StorageKey == "" || session.UploadID == "" {
		return nil, errors.NewError("Initiate",
			fmt.Errorf("%w: response missing session fields", errors.ErrInitiation))
	}
	return &session, nil
}

// uploadParts uploads all planned parts concurrently and assembles the
// completion manifest in part-number order. The first failure cancels
// outstanding parts and is returned once every worker has settled.
func (e *Engine) uploadParts(
	ctx context.Context,
	ref string,
	req *Request,
	session *hoisttypes.UploadSession,
	plan []hoisttypes.PartSpec,
) ([]hoisttypes.PartResult, error) {
	type partOutcome struct {
		partNumber int32
		result     hoisttypes.PartResult
		size       int64
		err        error
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan partOutcome, len(plan))
	manifest := make([]hoisttypes.PartResult, len(plan))

	concurrency := e.getConcurrency(req.Concurrency)
	sem := make(chan struct{}, concurrency)

	var wg sync.WaitGroup
	for _, part := range plan {
		wg.Add(1)
		go func(spec hoisttypes.PartSpec) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results <- partOutcome{partNumber: spec.PartNumber, err: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			result, size, err := e.uploadPart(ctx, req, session, spec)
			results <- partOutcome{
				partNumber: spec.PartNumber,
				result:     result,
				size:       size,
				err:        err,
			}
		}(part)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var firstErr error
	var transferred int64
	for outcome := range results {
		if outcome.err != nil {
			if firstErr == nil {
				firstErr = outcome.err
				// Stop outstanding part uploads for this session
				cancel()
			}
			continue
		}
		manifest[outcome.partNumber-1] = outcome.result
		transferred += outcome.size
		if firstErr == nil {
			e.logDebug(ctx, "part uploaded",
				"upload_ref", ref,
				"part", outcome.partNumber,
				"size", outcome.size,
			)
			if req.Progress != nil {
				req.Progress.Update(transferred, req.Size)
			}
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return manifest, nil
}

// uploadPart reads one planned byte range, obtains its pre-signed URL, PUTs
// the bytes, and records the quoted-stripped ETag.
func (e *Engine) uploadPart(
	ctx context.Context,
	req *Request,
	session *hoisttypes.UploadSession,
	spec hoisttypes.PartSpec,
) (hoisttypes.PartResult, int64, error) {
	buf := pool.GetBuffer(int(spec.ByteLength))
	defer pool.PutBuffer(buf)

	if spec.ByteLength > 0 {
		n, err := req.Source.ReadAt(buf, spec.ByteOffset)
		if int64(n) < spec.ByteLength {
			if err == nil || err == io.EOF {
				err = fmt.Errorf("source returned %d of %d bytes; file changed size after initiation",
					n, spec.ByteLength)
			}
			return hoisttypes.PartResult{}, 0, errors.NewPartError(
				"ReadPart", spec.PartNumber, session.StorageKey, session.UploadID,
				fmt.Errorf("%w: %w", errors.ErrRead, err))
		}
	}

	url, err := e.preparePartURL(ctx, session, spec.PartNumber)
	if err != nil {
		return hoisttypes.PartResult{}, 0, errors.NewPartError(
			"PreparePart", spec.PartNumber, session.StorageKey, session.UploadID,
			fmt.Errorf("%w: %w", errors.ErrPartURL, err))
	}

	etag, err := e.putPart(ctx, url, buf)
	if err != nil {
		return hoisttypes.PartResult{}, 0, errors.NewPartError(
			"UploadPart", spec.PartNumber, session.StorageKey, session.UploadID,
			fmt.Errorf("%w: %w", errors.ErrPartUpload, err))
	}

	return hoisttypes.PartResult{PartNumber: spec.PartNumber, ETag: etag}, spec.ByteLength, nil
}

// preparePartURL asks the server for the pre-signed URL of one part,
// retrying transient gateway failures with exponential backoff.
func (e *Engine) preparePartURL(
	ctx context.Context,
	session *hoisttypes.UploadSession,
	partNumber int32,
) (string, error) {
	var url string
	operation := func() error {
		raw, err := e.mutate(ctx, prepareMutation, map[string]any{
			"partNumber": partNumber,
			"storageKey": session.StorageKey,
			"uploadId":   session.UploadID,
		}, prepareField)
		if err != nil {
			if _, ok := err.(*deterministicError); ok {
				return backoff.Permanent(err)
			}
			return err
		}

		var payload struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return backoff.Permanent(fmt.Errorf("decode part url: %w", err))
		}
		if err := validation.ValidateUploadURL(payload.URL); err != nil {
			return backoff.Permanent(err)
		}
		url = payload.URL
		return nil
	}

	if err := backoff.Retry(operation, e.newBackOff(ctx)); err != nil {
		return "", err
	}
	return url, nil
}

// putPart delivers one part body to its pre-signed URL, retrying transient
// transport failures with exponential backoff. The returned ETag has exactly
// one layer of surrounding quotes removed.
func (e *Engine) putPart(ctx context.Context, url string, body []byte) (string, error) {
	var etag string
	operation := func() error {
		resp, err := e.transport.Put(ctx, url, nil, body)
		if err != nil {
			return err
		}
		if resp.Status != http.StatusOK {
			statusErr := fmt.Errorf("storage returned status %d", resp.Status)
			if resp.Status >= http.StatusInternalServerError {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		header := resp.Header.Get("ETag")
		if header == "" {
			return backoff.Permanent(fmt.Errorf("response missing etag header"))
		}
		etag = stripQuotes(header)
		return nil
	}

	if err := backoff.Retry(operation, e.newBackOff(ctx)); err != nil {
		return "", err
	}
	return etag, nil
}

// finalize completes the multipart upload with the full ordered manifest.
func (e *Engine) finalize(
	ctx context.Context,
	session *hoisttypes.UploadSession,
	manifest []hoisttypes.PartResult,
) error {
	if err := verifyManifest(manifest); err != nil {
		return errors.NewSessionError("Finalize", session.StorageKey, session.UploadID,
			fmt.Errorf("%w: %w", errors.ErrFinalization, err))
	}

	raw, err := e.mutate(ctx, completeMutation, map[string]any{
		"parts":      manifest,
		"storageKey": session.StorageKey,
		"uploadId":   session.UploadID,
	}, completeField)
	if err != nil {
		return errors.NewSessionError("Finalize", session.StorageKey, session.UploadID,
			fmt.Errorf("%w: %w", errors.ErrFinalization, err))
	}

	var accepted bool
	if err := json.Unmarshal(raw, &accepted); err != nil {
		return errors.NewSessionError("Finalize", session.StorageKey, session.UploadID,
			fmt.Errorf("%w: decode completion: %w", errors.ErrFinalization, err))
	}
	if !accepted {
		return errors.NewSessionError("Finalize", session.StorageKey, session.UploadID,
			fmt.Errorf("%w: server rejected completion", errors.ErrFinalization))
	}
	return nil
}

// abort cleans up a failed upload server-side. Outcomes are logged and
// otherwise ignored; the step error that got us here is what callers see.
func (e *Engine) abort(ctx context.Context, ref string, session *hoisttypes.UploadSession) {
	// The upload context may already be cancelled; cleanup still has to run.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), abortTimeout)
	defer cancel()

	_, err := e.mutate(ctx, abortMutation, map[string]any{
		"storageKey": session.StorageKey,
		"uploadId":   session.UploadID,
	}, abortField)
	if err != nil {
		e.logWarn(ctx, "multipart upload abort failed",
			"upload_ref", ref,
			"storage_key", session.StorageKey,
			"error", err,
		)
		return
	}
	e.logDebug(ctx, "multipart upload aborted", "upload_ref", ref, "storage_key", session.StorageKey)
}

// deterministicError marks a gateway outcome a retry cannot change: a 4xx
// status, a GraphQL error payload, or a response missing the requested field.
// It carries no retry mechanics itself; retrying callers translate the marker
// into backoff.Permanent at their own retry loop.
type deterministicError struct {
	err error
}

func (d *deterministicError) Error() string { return d.err.Error() }

func (d *deterministicError) Unwrap() error { return d.err }

func deterministic(err error) error { return &deterministicError{err: err} }

// mutate executes one GraphQL mutation and returns the raw payload of the
// named top-level response field. Failures a retry cannot change are marked
// deterministic; transport errors and 5xx statuses are returned plain.
func (e *Engine) mutate(
	ctx context.Context,
	query string,
	variables map[string]any,
	field string,
) (json.RawMessage, error) {
	resp, err := e.gateway.Request(ctx, query, variables)
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusOK {
		statusErr := fmt.Errorf("gateway returned status %d", resp.Status)
		if resp.Status >= http.StatusInternalServerError {
			return nil, statusErr
		}
		return nil, deterministic(statusErr)
	}
	if len(resp.Errors) > 0 {
		return nil, deterministic(fmt.Errorf("graphql error: %s", resp.Errors[0].Message))
	}
	raw, ok := resp.Data[field]
	if !ok || string(raw) == "null" {
		return nil, deterministic(fmt.Errorf("response missing field %q", field))
	}
	return raw, nil
}

// newBackOff builds the per-request retry schedule. A retryMaxAttempts of 1
// yields no retries.
func (e *Engine) newBackOff(ctx context.Context) backoff.BackOff {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = e.retryInitialInterval

	var b backoff.BackOff = backoff.WithMaxRetries(expo, uint64(e.retryMaxAttempts-1))
	return backoff.WithContext(b, ctx)
}

// getConcurrency returns the configured concurrency level or default.
func (e *Engine) getConcurrency(override int) int {
	if override > 0 {
		return override
	}
	if e.concurrency > 0 {
		return e.concurrency
	}
	return defaultConcurrency
}

// verifyManifest checks the manifest is complete and ordered: one entry per
// planned part, ascending part numbers, no gaps and no duplicates.
func verifyManifest(manifest []hoisttypes.PartResult) error {
	for i, part := range manifest {
		if part.PartNumber != int32(i+1) {
			return fmt.Errorf("manifest missing part %d", i+1)
		}
	}
	return nil
}

// stripQuotes removes exactly one layer of surrounding double quotes.
// Storage backends return ETags quoted; the completion call wants them bare.
func stripQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// transition advances the upload state machine and records the change.
func (e *Engine) transition(ctx context.Context, ref string, state *hoisttypes.UploadState, next hoisttypes.UploadState) {
	*state = next
	e.logDebug(ctx, "upload state changed", "upload_ref", ref, "state", string(next))
}

// fail moves the upload to the terminal failed state and notifies the tracker.
func (e *Engine) fail(
	ctx context.Context,
	ref string,
	state *hoisttypes.UploadState,
	progress hoisttypes.ProgressTracker,
	err error,
) {
	e.transition(ctx, ref, state, hoisttypes.StateFailed)
	e.logWarn(ctx, "multipart upload failed", "upload_ref", ref, "error", err)
	if progress != nil {
		progress.Error(err)
	}
}

func (e *Engine) logInfo(ctx context.Context, msg string, args ...any) {
	if e.logger != nil {
		e.logger.InfoContext(ctx, msg, args...)
	}
}

func (e *Engine) logDebug(ctx context.Context, msg string, args ...any) {
	if e.logger != nil {
		e.logger.DebugContext(ctx, msg, args...)
	}
}

func (e *Engine) logWarn(ctx context.Context, msg string, args ...any) {
	if e.logger != nil {
		e.logger.WarnContext(ctx, msg, args...)
	}
}
