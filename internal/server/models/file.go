package models

import "time"

// File describes server-side metadata for an uploaded binary payload.
// The blob itself lives in object storage under StorageKey.
type File struct {
	ID           string
	UserID       string
	Filename     string
	OriginalName string
	ContentType  string
	Size         int64
	StorageKey   string
	UploadedAt   time.Time
}
