package api

// addPressRequest creates a press article. Image is optional; when the
// admin skipped the upload step the store falls back to the
// placeholder.
type addPressRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Image       string `json:"image" validate:"omitempty,url"`
}

// addVideoRequest creates a video entry. URL accepts any recognizable
// YouTube form; it is normalized to the embeddable URL before storage.
type addVideoRequest struct {
	Title string `json:"title" validate:"required"`
	URL   string `json:"url" validate:"required"`
}

// updatePressRequest patches a press article; absent fields are left
// untouched.
type updatePressRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"description" validate:"omitempty,min=1"`
	Image       *string `json:"image" validate:"omitempty,url"`
}

// updateVideoRequest patches a video entry; absent fields are left
// untouched.
type updateVideoRequest struct {
	Title *string `json:"title" validate:"omitempty,min=1"`
	URL   *string `json:"url" validate:"omitempty,min=1"`
}

// reorderRequest carries the complete target ordering of a category.
// Records whose id is omitted here are dropped from the category. The
// pointer distinguishes an absent ids field (rejected) from an explicit
// empty list, which empties the category.
type reorderRequest struct {
	IDs *[]string `json:"ids" validate:"required"`
}

// pageResponse wraps a paginated category listing.
type pageResponse struct {
	Items      any `json:"items"`
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// uploadResponse reports the stored image URL. Placeholder is set when
// the media host was unavailable and the fixed fallback URL was used.
type uploadResponse struct {
	URL         string `json:"url"`
	Placeholder bool   `json:"isPlaceholder"`
}
