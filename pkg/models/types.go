package models

import "time"

// ObjectInfo describes one object returned by a listing
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ETag         string    `json:"etag,omitempty"`
	LastModified time.Time `json:"last_modified,omitempty"`
}

// ListingPage is one page of a bucket listing.
// Objects holds plain keys in backend lexicographic order; CommonPrefixes
// holds grouped prefixes when a delimiter was set. A non-empty
// ContinuationToken means more pages follow.
type ListingPage struct {
	Objects           []ObjectInfo `json:"objects"`
	CommonPrefixes    []string     `json:"common_prefixes,omitempty"`
	ContinuationToken string       `json:"continuation_token,omitempty"`
}

// Keys returns the page's object keys in order
func (p *ListingPage) Keys() []string {
	keys := make([]string, len(p.Objects))
	for i, obj := range p.Objects {
		keys[i] = obj.Key
	}
	return keys
}

// UploadResult is produced by a successful upload finalization
type UploadResult struct {
	Bucket    string `json:"bucket"`
	Key       string `json:"key"`
	ETag      string `json:"etag,omitempty"`
	VersionID string `json:"version_id,omitempty"`
}

// StorageClass hints where the backend should place an object
type StorageClass string

const (
	StorageClassStandard           StorageClass = "STANDARD"
	StorageClassStandardIA         StorageClass = "STANDARD_IA"
	StorageClassIntelligentTiering StorageClass = "INTELLIGENT_TIERING"
	StorageClassGlacier            StorageClass = "GLACIER"
)

// PutObjectParams carries optional upload parameters
type PutObjectParams struct {
	StorageClass StorageClass // empty means backend default
}
