package storage

import (
	"context"
	"io"
)

// Object prefixes, one per resource kind.
const (
	PrefixBlogImages     = "blogs"
	PrefixGroupImages    = "group-images"
	PrefixGroupCovers    = "group-covers"
	PrefixFacilityLogos  = "facility_logos"
	PrefixFacilityCovers = "facility_covers"
	PrefixMedicineImages = "medicine_images"
	PrefixProductImages  = "product-images"
	PrefixProfileImages  = "profile_images"
	PrefixUserDocuments  = "user_documents"
)

// Store persists uploaded files and hands back the stored key.
type Store interface {
	Put(ctx context.Context, prefix, filename string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	// Replace deletes oldKey (when set) then stores the new object.
	Replace(ctx context.Context, oldKey, prefix, filename string, body io.Reader, contentType string) (string, error)
	URL(key string) string
}
