// Package uploads handles admin image uploads: an Uploader collaborator
// storing bytes on the media host, and a gateway that validates input
// and shields callers from collaborator failures.
package uploads

import "context"

// Uploader stores a named blob and returns its durable public URL.
type Uploader interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (string, error)
}
