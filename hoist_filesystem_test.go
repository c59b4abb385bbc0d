// Package hoist provides tests for filesystem-backed uploads.
package hoist

import (
	"context"
	"testing"

	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoisthq/hoist-go/errors"
	"github.com/hoisthq/hoist-go/internal/testutil"
)

const mib = 1024 * 1024

// newMemoryClient builds a mocked client whose filesystem is an in-memory
// billy filesystem seeded by the caller.
func newMemoryClient(t *testing.T, gw *testutil.MockGateway, tr *testutil.MockTransport) (*Client, *billy.FS) {
	t.Helper()

	memFS := billy.NewInMemoryFS()
	client := NewWithClient(gw, tr)
	client.SetFilesystem(memFS)
	return client, memFS
}

// TestClient_UploadFile tests uploading a file from the filesystem.
func TestClient_UploadFile(t *testing.T) {
	gw := &testutil.MockGateway{}
	tr := &testutil.MockTransport{}
	scriptGateway(gw)
	client, memFS := newMemoryClient(t, gw, tr)

	body := []byte(`{"rows": [1, 2, 3]}`)
	require.NoError(t, memFS.MkdirAll("/data", 0o755))
	require.NoError(t, memFS.WriteFile("/data/report.json", body, 0o644))

	result, err := client.UploadFile(context.Background(), "/data/report.json", Owner("Report", "r-3"))
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "file-1", result.FileID)
	assert.Equal(t, int64(len(body)), result.Size)
	assert.Equal(t, 1, result.Parts)

	creates := gw.CallsFor("create_multipart_file_upload")
	require.Len(t, creates, 1)
	assert.Equal(t, "report.json", creates[0].Variables["filename"], "filename is the path base")
	assert.Equal(t, "application/json", creates[0].Variables["contentType"])

	puts := tr.Calls()
	require.Len(t, puts, 1)
	assert.Equal(t, len(body), puts[0].BodySize)
}

// TestClient_UploadFile_SplitsLargeFiles tests that filesystem uploads run
// through the same part plan as reader uploads.
func TestClient_UploadFile_SplitsLargeFiles(t *testing.T) {
	gw := &testutil.MockGateway{}
	tr := &testutil.MockTransport{}
	scriptGateway(gw)
	client, memFS := newMemoryClient(t, gw, tr)

	body := testutil.PatternData(6 * mib)
	require.NoError(t, memFS.MkdirAll("/data", 0o755))
	require.NoError(t, memFS.WriteFile("/data/archive.bin", body, 0o644))

	result, err := client.UploadFile(context.Background(), "/data/archive.bin", Owner("Project", "p-1"))
	require.NoError(t, err)

	assert.Equal(t, int64(6*mib), result.Size)
	assert.Equal(t, 2, result.Parts)
	assert.Len(t, gw.CallsFor("prepare_multipart_file_upload_part"), 2)

	var uploaded int
	for _, put := range tr.Calls() {
		uploaded += put.BodySize
	}
	assert.Equal(t, 6*mib, uploaded)
}

// TestClient_UploadFile_EmptyFile tests that a zero-byte file still produces
// a single-part upload.
func TestClient_UploadFile_EmptyFile(t *testing.T) {
	gw := &testutil.MockGateway{}
	tr := &testutil.MockTransport{}
	scriptGateway(gw)
	client, memFS := newMemoryClient(t, gw, tr)

	require.NoError(t, memFS.MkdirAll("/data", 0o755))
	require.NoError(t, memFS.WriteFile("/data/empty.bin", nil, 0o644))

	result, err := client.UploadFile(context.Background(), "/data/empty.bin", Owner("User", "u-1"))
	require.NoError(t, err)

	assert.Equal(t, int64(0), result.Size)
	assert.Equal(t, 1, result.Parts)

	puts := tr.Calls()
	require.Len(t, puts, 1)
	assert.Zero(t, puts[0].BodySize)
}

// TestClient_UploadFile_Errors tests path-level failure modes.
func TestClient_UploadFile_Errors(t *testing.T) {
	gw := &testutil.MockGateway{}
	tr := &testutil.MockTransport{}
	client, memFS := newMemoryClient(t, gw, tr)

	require.NoError(t, memFS.MkdirAll("/data/sub", 0o755))

	t.Run("empty path", func(t *testing.T) {
		result, err := client.UploadFile(context.Background(), "", Owner("User", "u-1"))
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, errors.IsInvalidInput(err))
		assert.Contains(t, err.Error(), "path cannot be empty")
	})

	t.Run("missing file", func(t *testing.T) {
		result, err := client.UploadFile(context.Background(), "/data/missing.bin", Owner("User", "u-1"))
		require.Error(t, err)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "file does not exist")
	})

	t.Run("directory", func(t *testing.T) {
		result, err := client.UploadFile(context.Background(), "/data/sub", Owner("User", "u-1"))
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, errors.IsInvalidInput(err))
		assert.Contains(t, err.Error(), "directory")
	})

	t.Run("nil owner", func(t *testing.T) {
		result, err := client.UploadFile(context.Background(), "/data/sub", nil)
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, errors.IsInvalidInput(err))
	})

	assert.Empty(t, gw.Calls(), "path failures must not reach the gateway")
	assert.Empty(t, tr.Calls())
}
