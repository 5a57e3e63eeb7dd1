package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	DocumentID  string    `json:"documentId"`
	FileName    string    `json:"fileName"`
	ServiceType string    `json:"serviceType"`
	MimeType    string    `json:"mimeType"`
	SizeBytes   int64     `json:"sizeBytes"`
	Year        int       `json:"year"`
	UploadedAt  time.Time `json:"uploadedAt"`
	URL         string    `json:"url,omitempty"`
}

func toResponse(doc Document, url string) DocumentResponse {
	return DocumentResponse{
		DocumentID:  doc.ID,
		FileName:    doc.FileName,
		ServiceType: doc.ServiceType,
		MimeType:    doc.MimeType,
		SizeBytes:   doc.SizeBytes,
		Year:        doc.Year(),
		UploadedAt:  doc.UploadedAt,
		URL:         url,
	}
}
