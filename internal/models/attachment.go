package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	FileTypeImage    = "image"
	FileTypeVideo    = "video"
	FileTypeDocument = "document"
)

type Attachment struct {
	ID         uuid.UUID `json:"id"`
	IncidentID uuid.UUID `json:"incident_id"`
	Filename   string    `json:"filename"`
	Filepath   string    `json:"filepath"`
	FileType   string    `json:"file_type"`
	MediaType  string    `json:"media_type"`
	FileSize   int64     `json:"file_size"`
	CreatedAt  time.Time `json:"created_at"`
}

// UploadResult - сохраненное вложение и признак постановки в очередь верификации
type UploadResult struct {
	Attachment         *Attachment `json:"attachment"`
	VerificationQueued bool        `json:"verification_queued"`
}

// IsImage сообщает, подходит ли вложение для анализа изображения
func (a *Attachment) IsImage() bool {
	return a.FileType == FileTypeImage
}
