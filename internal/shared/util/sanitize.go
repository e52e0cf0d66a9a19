package util

import (
	"errors"
	"regexp"
	"strings"
)

var (
	unsafeChars   = regexp.MustCompile(`[^A-Za-z0-9.-]+`)
	repeatedScore = regexp.MustCompile(`_{2,}`)
)

// SanitizeFileName maps a display file name to a storage-safe name: any run of
// characters outside [A-Za-z0-9.-] becomes a single underscore. The original
// name is kept separately for display.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = unsafeChars.ReplaceAllString(s, "_")
	s = repeatedScore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" || s == "." || s == "-" {
		return "", errors.New("invalid file name")
	}
	return s, nil
}
