package wizard

import (
	"errors"
	"fmt"
)

// AcquisitionMethod is how a slot's document comes into the package.
type AcquisitionMethod string

const (
	MethodUpload   AcquisitionMethod = "upload"
	MethodImport   AcquisitionMethod = "import"
	MethodGenerate AcquisitionMethod = "generate"
)

// Progress of a single slot through submission.
type Progress string

const (
	ProgressPending   Progress = "pending"
	ProgressUploading Progress = "uploading"
	ProgressComplete  Progress = "complete"
	ProgressFailed    Progress = "failed"
)

const MaxFileSize = 50 << 20

var (
	ErrFileTooLarge      = errors.New("file exceeds 50MB limit")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

var allowedContentTypes = map[string]bool{
	"application/pdf": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// FileMeta describes an attached file before it is uploaded.
type FileMeta struct {
	Name        string
	Size        int64
	ContentType string
	StorageKey  string
}

// CheckFile enforces the size and format limits every attachment must pass.
func CheckFile(f FileMeta) error {
	if f.Size > MaxFileSize {
		return fmt.Errorf("%q: %w", f.Name, ErrFileTooLarge)
	}
	if !allowedContentTypes[f.ContentType] {
		return fmt.Errorf("%q (%s): %w", f.Name, f.ContentType, ErrUnsupportedFormat)
	}
	return nil
}

// SlotSpec declares a document slot when the wizard is created.
type SlotSpec struct {
	Name      string
	Mandatory bool
}

// Slot tracks one required or optional document through the wizard.
type Slot struct {
	Name      string            `json:"name"`
	Mandatory bool              `json:"mandatory"`
	Method    AcquisitionMethod `json:"method"`
	File      *FileMeta         `json:"file,omitempty"`
	Progress  Progress          `json:"progress"`
	Err       string            `json:"error,omitempty"`
}

func (s *Slot) attached() bool {
	return s.File != nil
}
