package util

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"strings"
	"time"
)

// SessionDir returns a short, filesystem-safe directory name for a page session.
func SessionDir(sessionID string) string {
	sum := sha256.Sum256([]byte(sessionID))
	return hex.EncodeToString(sum[:6])
}

// Stamp formats t as a UTC second-resolution timestamp usable in file names,
// e.g. 2024-05-01T10-20-30.
func Stamp(t time.Time) string {
	return strings.ReplaceAll(t.UTC().Format("2006-01-02T15:04:05"), ":", "-")
}

// ArchiveKey joins the session directory and a sanitized file name.
func ArchiveKey(sessionID, name string) (string, error) {
	clean, err := SanitizeFileName(name)
	if err != nil {
		return "", err
	}
	return path.Join(SessionDir(sessionID), clean), nil
}
