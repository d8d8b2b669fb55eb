// Package objectstore keeps attachment files in an S3 compatible bucket.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Store is what the API needs from an object backend.
type Store interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	URL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Key builds the object key of an attachment:
// {workspace}/{kind}/{noteID}/{uuid}_{filename}.
func Key(workspace, kind string, noteID int64, filename string) string {
	return fmt.Sprintf("%s/%s/%d/%s_%s", workspace, kind, noteID, uuid.NewString(), CleanName(filename))
}

// CleanName strips directories from an uploaded file name.
func CleanName(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == "/" {
		return "arquivo"
	}
	return name
}
