package compare

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"data-reconciler/core/ingest"
	"data-reconciler/core/reconcile"
	"data-reconciler/core/source"
	"data-reconciler/core/storage"
	"data-reconciler/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var defaults = reconcile.Config{SuffixA: "_A", SuffixB: "_B", Indicator: "_merge"}

func setupTestApp(t *testing.T) (*fiber.App, *mocks.Client) {
	t.Helper()
	app := fiber.New()
	mockClient := new(mocks.Client)
	resolver := source.NewResolver(ingest.NewLoader(), source.WithStorage(mockClient, "datasets"))
	cfg := storage.Config{Bucket: "datasets", ExportPrefix: "exports"}
	svc := NewService(resolver, mockClient, cfg, defaults, 10, zap.NewNop())
	NewHandler(svc).RegisterRoutes(app)
	return app, mockClient
}

func serveObject(client *mocks.Client, key, content string) {
	client.On("GetObject", mock.Anything, "datasets", key, mock.Anything).
		Return(func() io.ReadCloser { return io.NopCloser(strings.NewReader(content)) }, nil)
}

func postJSON(t *testing.T, app *fiber.App, body any) (int, map[string]any) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/compare", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestHandleCompare(t *testing.T) {
	app, mockClient := setupTestApp(t)
	serveObject(mockClient, "a.csv", "id,name\n1,alice\n2,bob\n3,carol\n")
	serveObject(mockClient, "b.json", `[{"id": 2, "score": 5}, {"id": 3, "score": 7}, {"id": 4, "score": 9}]`)

	status, body := postJSON(t, app, Request{
		A: "object://a.csv", B: "object://b.json",
		KeysA: []string{"id"}, KeysB: []string{"id"},
	})
	require.Equal(t, 200, status, body)

	summary := body["summary"].(map[string]any)
	assert.Equal(t, 4.0, summary["merged"])
	assert.Equal(t, 2.0, summary["matches"])
	assert.Equal(t, 1.0, summary["left_only"])
	assert.Equal(t, 1.0, summary["right_only"])
	assert.Equal(t, "a.csv :: 3 rows :: 2 columns", body["status_a"])
	assert.Equal(t, []any{"id", "name", "score", "_merge"}, body["columns"])

	views := body["views"].(map[string]any)
	assert.Len(t, views, 4)
	matches := views["matches"].(map[string]any)
	assert.Equal(t, 2.0, matches["row_count"])
}

func TestHandleCompareErrors(t *testing.T) {
	app, mockClient := setupTestApp(t)
	serveObject(mockClient, "a.csv", "id,name\n1,alice\n")
	serveObject(mockClient, "b.csv", "code\n1\n")

	tests := []struct {
		name   string
		req    Request
		status int
		kind   string
	}{
		{"MissingRefs", Request{A: "object://a.csv"}, 400, ""},
		{"LocalPath", Request{A: "/etc/passwd.csv", B: "object://b.csv", KeysA: []string{"id"}, KeysB: []string{"id"}}, 400, ""},
		{"UnknownView", Request{A: "object://a.csv", B: "object://b.csv", Views: []string{"diff"}}, 400, ""},
		{"KeyLengths", Request{A: "object://a.csv", B: "object://b.csv", KeysA: []string{"id"}, KeysB: []string{"id", "region"}}, 400, "invalid_key_spec"},
		{"MissingColumn", Request{A: "object://a.csv", B: "object://b.csv", KeysA: []string{"id"}, KeysB: []string{"id"}}, 400, "missing_column"},
		{"UnsupportedFormat", Request{A: "object://a.docx", B: "object://b.csv", KeysA: []string{"id"}, KeysB: []string{"code"}}, 415, "unsupported_format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := postJSON(t, app, tt.req)
			assert.Equal(t, tt.status, status, body)
			assert.NotEmpty(t, body["error"])
			if tt.kind != "" {
				assert.Equal(t, tt.kind, body["kind"])
			}
		})
	}
}

func TestHandleCompareInvalidBody(t *testing.T) {
	app, _ := setupTestApp(t)
	req := httptest.NewRequest("POST", "/compare", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func multipartRequest(t *testing.T, files map[string][2]string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for field, f := range files {
		fw, err := w.CreateFormFile(field, f[0])
		require.NoError(t, err)
		_, err = fw.Write([]byte(f[1]))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/compare/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHandleCompareUpload(t *testing.T) {
	app, _ := setupTestApp(t)

	req := multipartRequest(t, map[string][2]string{
		"a": {"people.csv", "ID,name\nID1,alice\nID2,bob\n"},
		"b": {"people.tsv", "key\tcity\n id1 \tParis\n"},
	}, map[string]string{
		"keys_a":    "ID",
		"keys_b":    "key",
		"normalize": "true",
		"views":     "matches, left_only",
	})
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var body Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.Summary.Matches)
	assert.Equal(t, 1, body.Summary.LeftOnly)
	assert.Equal(t, "people.tsv :: 1 rows :: 2 columns", body.StatusB)
	assert.Len(t, body.Views, 2)
	assert.Equal(t, []any{"ID1", "alice", " id1 ", "Paris", "both"}, body.Views["matches"].Data[0])
}

func TestHandleCompareUploadMissingFile(t *testing.T) {
	app, _ := setupTestApp(t)
	req := multipartRequest(t, map[string][2]string{"a": {"a.csv", "id\n1\n"}}, map[string]string{"keys_a": "id", "keys_b": "id"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Nil(t, splitList("  "))
	assert.Equal(t, []string{"id", "region"}, splitList("id, region,"))
}
