package models

import (
	"io"
	"time"
)

// Attachment is metadata only; the content lives in the blob store under URL.
type Attachment struct {
	ID          int64     `json:"id"`
	TaskID      int64     `json:"-"`
	FileName    string    `json:"file_name"`
	URL         string    `json:"url"`
	FileSize    int64     `json:"file_size"`
	ContentType string    `json:"content_type"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type AttachmentUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}
