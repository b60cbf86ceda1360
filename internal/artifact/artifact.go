// Package artifact writes the parking map to disk and ships it to object
// storage.
package artifact

import (
	"context"
	"fmt"
	"os"
)

const DefaultFileName = "parking_map.json"

// Uploader copies a local file to a remote bucket under the given key.
type Uploader interface {
	Upload(ctx context.Context, localPath, bucket, key string) error
}

// WriteFile replaces the file at path with data.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write artifact %s: %w", path, err)
	}
	return nil
}
