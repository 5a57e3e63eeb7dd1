package documents

import "time"

// Document is one uploaded file owned by a portal user.
type Document struct {
	ID          string
	UserID      string
	FileName    string
	ServiceType string
	MimeType    string
	SizeBytes   int64
	StorageKey  string
	UploadedAt  time.Time
}

// Year files the document under its upload year.
func (d Document) Year() int {
	return d.UploadedAt.Year()
}
