package upload

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

// Limits on a submission.
const (
	MaxFileSize       = 10 * 1024 * 1024
	MaxDescriptionLen = 5000
)

const (
	mimePDF  = "application/pdf"
	mimeText = "text/plain"
)

// Validation messages shown to the user.
const (
	MsgMissingInput  = "Please select a resume file and enter a job description"
	MsgBadType       = "Please select a PDF or TXT file"
	MsgTooLarge      = "File size too large. Please select a file smaller than 10MB"
	MsgUnreadablePDF = "The selected PDF could not be read. Please select another file"
	MsgTooLong       = "Job description is too long. Please keep it under 5000 characters"
	MsgFileSelected  = "File selected successfully"
)

// ErrValidation matches every client-side validation failure.
var ErrValidation = errors.New("upload: invalid input")

// ValidationError is a submission blocked before any request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return "upload: " + e.Message }

// Is makes errors.Is(err, ErrValidation) true.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(msg string) error { return &ValidationError{Message: msg} }

// Form is one upload request.
type Form struct {
	FileName       string
	Resume         []byte
	JobDescription string
	Location       string
}

// Validate checks presence first, then the file, then the description length.
func Validate(f Form) error {
	if len(f.Resume) == 0 || f.FileName == "" || f.JobDescription == "" {
		return invalid(MsgMissingInput)
	}
	if _, err := CheckResume(f.Resume); err != nil {
		return err
	}
	if utf8.RuneCountInString(f.JobDescription) > MaxDescriptionLen {
		return invalid(MsgTooLong)
	}
	return nil
}

// CheckResume verifies size and type and returns the detected MIME type.
func CheckResume(data []byte) (string, error) {
	if len(data) > MaxFileSize {
		return "", invalid(MsgTooLarge)
	}
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		switch {
		case m.Is(mimePDF):
			if err := checkPDF(data); err != nil {
				return "", invalid(MsgUnreadablePDF)
			}
			return mimePDF, nil
		case m.Is(mimeText):
			return mimeText, nil
		}
	}
	return "", invalid(MsgBadType)
}

func checkPDF(data []byte) (err error) {
	// the parser panics on some truncated xref tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parse: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return err
	}
	if r.NumPage() == 0 {
		return errors.New("pdf has no pages")
	}
	return nil
}

// ReadResume loads and checks a resume from disk.
func ReadResume(path string) (Form, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Form{}, fmt.Errorf("stat resume: %w", err)
	}
	if info.Size() > MaxFileSize {
		return Form{}, invalid(MsgTooLarge)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Form{}, fmt.Errorf("read resume: %w", err)
	}
	if _, err := CheckResume(data); err != nil {
		return Form{}, err
	}
	return Form{FileName: filepath.Base(path), Resume: data}, nil
}

// Message returns the user-facing text of a validation error.
func Message(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return strings.TrimPrefix(err.Error(), "upload: ")
}
