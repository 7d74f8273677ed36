package common

const (
	// DocumentCacheKey is the local-cache key holding the serialized
	// content document.
	DocumentCacheKey = "excellence_media_data"

	// LastSavedCacheKey is the local-cache key holding the RFC3339
	// timestamp of the last successful save.
	LastSavedCacheKey = "last_saved"

	// DocumentObjectKey is the fixed well-known object key the document
	// is uploaded under on the remote host.
	DocumentObjectKey = "excellence_media_data.json"

	// PlaceholderImageURL is returned by the upload gateway when the
	// collaborator fails, so articles never end up without an image.
	PlaceholderImageURL = "https://images.unsplash.com/photo-1504711434969-e33886168f5c?w=800&q=80"

	// MaxUploadSize is the hard limit on image uploads (10 MB).
	MaxUploadSize = 10 << 20
)
