// Package sink stores downloaded README files, either in a local directory
// or in an S3-compatible bucket.
package sink

import (
	"context"
	"io"
)

// Sink stores one named object and returns where it ended up.
type Sink interface {
	Put(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}
