package datasets

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"data-reconciler/core/ingest"
	"data-reconciler/core/source"
	"data-reconciler/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) (*fiber.App, *mocks.Client) {
	t.Helper()
	app := fiber.New()
	mockClient := new(mocks.Client)
	loader := ingest.NewLoader()
	resolver := source.NewResolver(loader, source.WithStorage(mockClient, "datasets"))
	svc := NewService(resolver, loader, mockClient, "datasets", 2, zap.NewNop())
	NewHandler(svc).RegisterRoutes(app)
	return app, mockClient
}

func TestHandleFormats(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/datasets/formats", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var families []ingest.Family
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&families))
	assert.Equal(t, ingest.Families(), families)
}

func TestHandleObjects(t *testing.T) {
	app, mockClient := setupTestApp(t)
	ch := make(chan minio.ObjectInfo, 3)
	ch <- minio.ObjectInfo{Key: "in/a.csv"}
	ch <- minio.ObjectInfo{Key: "in/readme.md"}
	ch <- minio.ObjectInfo{Key: "in/b.parquet"}
	close(ch)
	mockClient.On("ListObjects", mock.Anything, "datasets", minio.ListObjectsOptions{Prefix: "in/", Recursive: true}).
		Return((<-chan minio.ObjectInfo)(ch))

	resp, err := app.Test(httptest.NewRequest("GET", "/datasets/objects?prefix=in/", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []any{"in/a.csv", "in/b.parquet"}, body["objects"])
}

func TestHandleInspect(t *testing.T) {
	app, mockClient := setupTestApp(t)
	mockClient.On("GetObject", mock.Anything, "datasets", "people.csv", mock.Anything).
		Return(io.NopCloser(strings.NewReader("id,name\n1,alice\n2,bob\n3,carol\n")), nil)

	req := httptest.NewRequest("POST", "/datasets/inspect", strings.NewReader(`{"ref": "object://people.csv"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var body Inspection
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "people.csv :: 3 rows :: 2 columns", body.Status)
	assert.Equal(t, 3, body.Rows)
	assert.Len(t, body.Columns, 2)
	assert.Len(t, body.Preview.Data, 2)
}

func TestHandleInspectErrors(t *testing.T) {
	app, mockClient := setupTestApp(t)
	mockClient.On("GetObject", mock.Anything, "datasets", "gone.csv", mock.Anything).
		Return(nil, minio.ErrorResponse{Code: "NoSuchKey"})

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"Empty", `{}`, 400},
		{"LocalPath", `{"ref": "people.csv"}`, 400},
		{"Missing", `{"ref": "object://gone.csv"}`, 404},
		{"Unsupported", `{"ref": "object://notes.docx"}`, 415},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/datasets/inspect", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestHandleInspectUpload(t *testing.T) {
	app, _ := setupTestApp(t)

	upload := func(name, content string) int {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		fw, err := w.CreateFormFile("file", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		req := httptest.NewRequest("POST", "/datasets/inspect/upload?limit=-1", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, 200, upload("rows.json", "{\"id\": 1}\n{\"id\": 2}\n"))
	assert.Equal(t, 422, upload("scalar.json", `"hello"`))
	assert.Equal(t, 415, upload("notes.docx", "x"))
}
