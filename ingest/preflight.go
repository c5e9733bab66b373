// CLAUDE:SUMMARY Upload preflight: size ceiling, .pdf extension, %PDF- magic, sniffed content type, trailer probe.
package ingest

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

var pdfMagic = []byte("%PDF-")

// FileInfo describes an upload that passed preflight.
type FileInfo struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	SHA256 string `json:"sha256"`
	MIME   string `json:"mime"`
	// HasEOF reports a %%EOF marker in the trailer. Truncated uploads lack it
	// but may still parse, so it is informational only.
	HasEOF bool `json:"has_eof"`
}

// Preflight validates an upload before it reaches the parser.
// maxBytes <= 0 disables the size check.
func Preflight(name string, data []byte, maxBytes int64) (*FileInfo, error) {
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrSizeExceeded, len(data), maxBytes)
	}
	if ext := strings.ToLower(filepath.Ext(name)); ext != ".pdf" {
		return nil, fmt.Errorf("%w: extension %q", ErrUnsupportedType, ext)
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, fmt.Errorf("%w: missing %%PDF- header", ErrUnsupportedType)
	}
	mime := http.DetectContentType(data)
	if mime != "application/pdf" {
		return nil, fmt.Errorf("%w: detected %s", ErrUnsupportedType, mime)
	}

	sum := sha256.Sum256(data)
	return &FileInfo{
		Name:   filepath.Base(name),
		Size:   int64(len(data)),
		SHA256: hex.EncodeToString(sum[:]),
		MIME:   mime,
		HasEOF: hasTrailerEOF(data),
	}, nil
}

// hasTrailerEOF looks for %%EOF in the last KiB.
func hasTrailerEOF(data []byte) bool {
	tail := data
	if len(tail) > 1024 {
		tail = tail[len(tail)-1024:]
	}
	return bytes.Contains(tail, []byte("%%EOF"))
}
