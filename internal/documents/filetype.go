package documents

import "strings"

// FileType is the coarse classification driving the extraction strategy.
type FileType string

const (
	FileTypeImage FileType = "image"
	FileTypePDF   FileType = "pdf"
	FileTypeDoc   FileType = "doc"
)

// ClassifyFileType maps a MIME type onto a FileType. Anything that is not an
// image or a PDF falls through to doc, which gets no automated extraction.
func ClassifyFileType(mimeType string) FileType {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if idx := strings.Index(mt, ";"); idx >= 0 {
		mt = strings.TrimSpace(mt[:idx])
	}
	switch {
	case strings.HasPrefix(mt, "image/"):
		return FileTypeImage
	case mt == "application/pdf":
		return FileTypePDF
	default:
		return FileTypeDoc
	}
}
