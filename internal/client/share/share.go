// Package share publishes exported comparison reports, either to a local
// directory or to an S3 bucket.
package share

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
)

// Store saves a named blob and returns where it can be found: a file path
// or a URL.
type Store interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
}

const textContentType = "text/plain; charset=utf-8"

// StampedName inserts a UTC timestamp before the extension of name, so
// repeated exports do not overwrite each other.
func StampedName(name string, now time.Time) string {
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s-%s%s", base, now.UTC().Format("20060102-150405"), ext)
}
