package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
)

// contentTypes maps export extensions to the content type stored with the object.
var contentTypes = map[string]string{
	".csv":  "text/csv",
	".json": "application/json",
	".yaml": "application/yaml",
}

// Download copies the object into w and returns the number of bytes written.
func Download(ctx context.Context, client Client, bucket, key string, w io.Writer) (int64, error) {
	obj, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return 0, fmt.Errorf("failed to get object %s/%s: %w", bucket, key, err)
	}
	defer obj.Close()

	n, err := io.Copy(w, obj)
	if err != nil {
		return n, fmt.Errorf("failed to read object %s/%s: %w", bucket, key, err)
	}
	return n, nil
}

// EnsureBucket creates bucket when it does not exist yet.
func EnsureBucket(ctx context.Context, client Client, bucket, region string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	return nil
}

// Upload stores size bytes from r under key. The content type follows the key's
// extension.
func Upload(ctx context.Context, client Client, bucket, key string, r io.Reader, size int64) (minio.UploadInfo, error) {
	opts := minio.PutObjectOptions{ContentType: "application/octet-stream"}
	if ct, ok := contentTypes[strings.ToLower(path.Ext(key))]; ok {
		opts.ContentType = ct
	}
	info, err := client.PutObject(ctx, bucket, key, r, size, opts)
	if err != nil {
		return info, fmt.Errorf("failed to upload %s/%s: %w", bucket, key, err)
	}
	return info, nil
}

// List returns the sorted keys below prefix. Folder placeholders are skipped.
func List(ctx context.Context, client Client, bucket, prefix string) ([]string, error) {
	var keys []string
	for obj := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s/%s: %w", bucket, prefix, obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		keys = append(keys, obj.Key)
	}
	sort.Strings(keys)
	return keys, nil
}
