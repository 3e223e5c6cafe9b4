package util

import (
	"errors"
	"path"
	"strings"
	"unicode"
)

// MaxFileNameLen bounds archived file names, extension included.
const MaxFileNameLen = 128

// ErrInvalidFileName is returned for names that cannot be archived.
var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName maps a display name onto a single path segment: separators
// become underscores, control characters are dropped and long names are cut
// before the extension. Traversal sequences are rejected.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r == '/' || r == '\\':
			b.WriteByte('_')
		case unicode.IsControl(r):
		default:
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "" {
		return "", ErrInvalidFileName
	}
	if len(s) > MaxFileNameLen {
		ext := path.Ext(s)
		if len(ext) >= MaxFileNameLen {
			ext = ""
		}
		s = strings.ToValidUTF8(s[:MaxFileNameLen-len(ext)], "") + ext
	}
	return s, nil
}
