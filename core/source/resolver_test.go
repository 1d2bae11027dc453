package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"data-reconciler/core/database"
	"data-reconciler/core/errors"
	"data-reconciler/core/ingest"
	"data-reconciler/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func newResolver(client *mocks.Client, opts ...Option) *Resolver {
	opts = append(opts, WithStorage(client, "datasets"), WithLogger(zap.NewNop()))
	return NewResolver(ingest.NewLoader(), opts...)
}

func TestResolveFile(t *testing.T) {
	p := writeFile(t, "people.csv", "id,name\n1,alice\n2,bob\n")
	r := newResolver(new(mocks.Client))

	ds, err := r.Resolve(t.Context(), p)
	require.NoError(t, err)
	assert.Equal(t, "people.csv", ds.Name)
	assert.Equal(t, 2, ds.NumRows())

	_, err = r.Resolve(t.Context(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, errors.ErrFileNotFound)
}

func TestResolveObject(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "datasets", "in/people.json", mock.Anything).
		Return(io.NopCloser(strings.NewReader(`[{"id": 1}, {"id": 2}, {"id": 3}]`)), nil)
	client.On("GetObject", mock.Anything, "archive", "old/people.csv", mock.Anything).
		Return(io.NopCloser(strings.NewReader("id\n1\n")), nil)
	r := newResolver(client)

	ds, err := r.Resolve(t.Context(), "object://in/people.json")
	require.NoError(t, err)
	assert.Equal(t, "people.json", ds.Name)
	assert.Equal(t, 3, ds.NumRows())

	ds, err = r.Resolve(t.Context(), "s3://archive/old/people.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, ds.NumRows())
	client.AssertExpectations(t)
}

func TestResolveObjectErrors(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "datasets", "gone.csv", mock.Anything).
		Return(nil, minio.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist."})
	client.On("GetObject", mock.Anything, "datasets", "broken.csv", mock.Anything).
		Return(nil, assert.AnError)
	client.On("GetObject", mock.Anything, "datasets", "scalar.json", mock.Anything).
		Return(io.NopCloser(strings.NewReader(`"hello"`)), nil)
	r := newResolver(client)

	_, err := r.Resolve(t.Context(), "object://gone.csv")
	assert.ErrorIs(t, err, errors.ErrFileNotFound)

	_, err = r.Resolve(t.Context(), "object://broken.csv")
	assert.ErrorIs(t, err, errors.ErrLoad)
	assert.Contains(t, err.Error(), "object://broken.csv")

	_, err = r.Resolve(t.Context(), "object://scalar.json")
	var ue *errors.UnsupportedJSONStructureError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "object://scalar.json", ue.Path)

	// Unsupported extensions fail before any download.
	_, err = r.Resolve(t.Context(), "object://notes.docx")
	assert.ErrorIs(t, err, errors.ErrUnsupportedFormat)
	client.AssertNotCalled(t, "GetObject", mock.Anything, "datasets", "notes.docx", mock.Anything)

	_, err = NewResolver(nil).Resolve(t.Context(), "object://a.csv")
	assert.ErrorContains(t, err, "object storage is not configured")
}

func TestResolveTable(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE accounts (id INTEGER, owner TEXT)").Error)
	require.NoError(t, db.Exec("INSERT INTO accounts VALUES (1, 'alice'), (2, 'bob')").Error)

	r := newResolver(new(mocks.Client), WithDatabase(db))

	ds, err := r.Resolve(t.Context(), "table://accounts")
	require.NoError(t, err)
	assert.Equal(t, "accounts", ds.Name)
	assert.Equal(t, []string{"id", "owner"}, ds.ColumnNames())

	_, err = r.Resolve(t.Context(), "table://ledger")
	assert.ErrorIs(t, err, errors.ErrFileNotFound)

	_, err = NewResolver(nil).Resolve(t.Context(), "table://accounts")
	assert.ErrorContains(t, err, "database is not configured")
}

func TestResolvePair(t *testing.T) {
	a := writeFile(t, "a.csv", "id\n1\n2\n")
	b := writeFile(t, "b.tsv", "id\tname\n2\tbob\n")
	r := newResolver(new(mocks.Client))

	left, right, err := r.ResolvePair(t.Context(), a, b)
	require.NoError(t, err)
	assert.Equal(t, 2, left.NumRows())
	assert.Equal(t, []string{"id", "name"}, right.ColumnNames())

	_, _, err = r.ResolvePair(t.Context(), a, filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrFileNotFound)
	assert.True(t, strings.HasPrefix(err.Error(), "dataset B:"))
}

func TestResolveSharedLoadOutlivesCancelledCaller(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	seen := make(chan error, 2)
	var once sync.Once
	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "datasets", "slow.csv", mock.Anything).
		Run(func(args mock.Arguments) {
			once.Do(func() { close(started) })
			<-release
			seen <- args.Get(0).(context.Context).Err()
		}).
		Return(func() io.ReadCloser { return io.NopCloser(strings.NewReader("id\n1\n2\n")) }, nil)
	r := newResolver(client)

	ctx, cancel := context.WithCancel(t.Context())
	first := make(chan error, 1)
	go func() {
		_, err := r.Resolve(ctx, "object://slow.csv")
		first <- err
	}()
	<-started
	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)

	type result struct {
		rows int
		err  error
	}
	second := make(chan result, 1)
	go func() {
		ds, err := r.Resolve(t.Context(), "object://slow.csv")
		if err != nil {
			second <- result{err: err}
			return
		}
		second <- result{rows: ds.NumRows()}
	}()
	close(release)

	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, 2, res.rows)
	assert.NoError(t, <-seen, "download context was cancelled with the first caller")
}
