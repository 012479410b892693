package models

import (
	"errors"
	"time"
)

const (
	FileTypeImage     = "image"
	FileTypeDocument  = "document"
	FileTypeVoiceNote = "voice_note"
)

var ErrInvalidFileType = errors.New("invalid file type")

type Attachment struct {
	ID           string
	TaskID       string
	FileType     string
	StoredName   string
	OriginalName string
	Position     int
	CreatedAt    time.Time
}

func ValidFileType(fileType string) bool {
	switch fileType {
	case FileTypeImage, FileTypeDocument, FileTypeVoiceNote:
		return true
	}
	return false
}
