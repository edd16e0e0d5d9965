// models/file.go
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StoredFile records one uploaded blob. The document id doubles as the
// opaque storage reference other ledgers keep; the stored path is never
// exposed, only resolved to a URL on demand.
type StoredFile struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Filename    string             `json:"filename" bson:"filename"`
	Path        string             `json:"-" bson:"path"`
	Thumbnail   string             `json:"-" bson:"thumbnail,omitempty"`
	ContentType string             `json:"content_type,omitempty" bson:"content_type,omitempty"`
	Size        int64              `json:"size" bson:"size"`
	UploadedBy  primitive.ObjectID `json:"uploaded_by,omitempty" bson:"uploaded_by,omitempty"`
	CreatedAt   int64              `json:"created_at" bson:"created_at"`
}

// UploadURLResponse is the first leg of the two-step upload protocol.
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ExpiresIn int64  `json:"expiresIn"`
}

// UploadResponse returns the opaque storage reference after a byte upload.
type UploadResponse struct {
	StorageID string `json:"storageId"`
}

// FileURLResponse resolves a storage reference. URL is null when the
// reference is unknown.
type FileURLResponse struct {
	URL *string `json:"url"`
}
