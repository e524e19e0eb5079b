package blob

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MaxUploadSize is the hard cap for any uploaded file.
const MaxUploadSize = 10 << 20 // 10 MiB

var documentExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".doc":  true,
	".docx": true,
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// UploadError is a field-scoped validation failure, resolved at the API
// boundary before any blob or store I/O happens.
type UploadError struct {
	Field  string
	Reason string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// CheckDocument validates a proof-of-payment style upload.
func CheckDocument(field, filename string, size int64) error {
	return check(field, filename, size, documentExtensions, "pdf, jpg, jpeg, png, doc or docx")
}

// CheckImage validates a product image attachment.
func CheckImage(field, filename string, size int64) error {
	return check(field, filename, size, imageExtensions, "jpg, jpeg or png")
}

func check(field, filename string, size int64, allowed map[string]bool, kinds string) error {
	if size == 0 {
		return &UploadError{Field: field, Reason: "the selected file is empty"}
	}
	if size > MaxUploadSize {
		return &UploadError{Field: field, Reason: "file size must be less than 10MB"}
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowed[ext] {
		return &UploadError{Field: field, Reason: "file type must be " + kinds}
	}
	return nil
}
