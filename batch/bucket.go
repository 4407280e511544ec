/*
Copyright © 2024 the DistCost authors.
This file is part of DistCost.

DistCost is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

DistCost is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with DistCost.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package batch stores evaluated column records in blob storage, one JSON
// document per line, and turns them into datasets and reports.
package batch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob" // gs:// buckets
	"gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob" // s3:// buckets
)

// OpenBucket returns the blob storage bucket specified by bucketURL,
// which must be in the format 'provider://name'. Accepted providers are
// "file" for a local directory (created if necessary), "mem" for an
// in-memory bucket, "gs" for Google Cloud Storage and "s3" for AWS S3.
// Credentials for gs and s3 are read from the environment.
func OpenBucket(ctx context.Context, bucketURL string) (*blob.Bucket, error) {
	u, err := url.Parse(bucketURL)
	if err != nil {
		return nil, fmt.Errorf("batch: opening bucket: %v", err)
	}
	switch u.Scheme {
	case "file":
		dir, err := filepath.Abs(filepath.FromSlash(u.Host + u.Path))
		if err != nil {
			return nil, fmt.Errorf("batch: opening bucket: %v", err)
		}
		return fileblob.OpenBucket(dir, &fileblob.Options{CreateDir: true})
	case "mem":
		return memblob.OpenBucket(nil), nil
	case "gs", "s3":
		return blob.OpenBucket(ctx, bucketURL)
	default:
		return nil, fmt.Errorf("batch: invalid bucket provider %q in %s", u.Scheme, bucketURL)
	}
}

func readBlob(ctx context.Context, bucket *blob.Bucket, key string) ([]byte, error) {
	r, err := bucket.NewReader(ctx, key, nil)
	if err != nil {
		return nil, fmt.Errorf("batch: reading blob %s: %v", key, err)
	}
	defer r.Close()
	var b bytes.Buffer
	if _, err = io.Copy(&b, r); err != nil {
		return nil, fmt.Errorf("batch: reading blob %s: %v", key, err)
	}
	return b.Bytes(), nil
}

func writeBlob(ctx context.Context, bucket *blob.Bucket, key string, data []byte) error {
	w, err := bucket.NewWriter(ctx, key, &blob.WriterOptions{})
	if err != nil {
		return fmt.Errorf("batch: creating writer for blob %s: %v", key, err)
	}
	if _, err = io.Copy(w, bytes.NewReader(data)); err != nil {
		w.Close()
		return fmt.Errorf("batch: copying blob %s: %v", key, err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("batch: writing blob %s: %v", key, err)
	}
	return nil
}
