package ingest

import (
	"errors"
	"net/http"

	"github.com/hazyhaar/syllabus/docpipe"
)

var (
	// ErrSizeExceeded is returned when an upload is larger than the configured ceiling.
	ErrSizeExceeded = errors.New("file exceeds size limit")
	// ErrUnsupportedType is returned when an upload is not a PDF.
	ErrUnsupportedType = errors.New("unsupported file type: only PDF documents are accepted")
	// ErrNotFound is returned when a stored record does not exist.
	ErrNotFound = errors.New("syllabus not found")
)

// Error kinds reported to HTTP clients.
const (
	KindTooLarge     = "too_large"
	KindUnsupported  = "unsupported_type"
	KindUnreadable   = "unreadable"
	KindInsufficient = "insufficient_text"
	KindNotFound     = "not_found"
	KindBadRequest   = "bad_request"
	KindInternal     = "internal"
)

// classify maps an ingest or extraction error to an HTTP status and kind.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrSizeExceeded):
		return http.StatusRequestEntityTooLarge, KindTooLarge
	case errors.Is(err, ErrUnsupportedType):
		return http.StatusUnsupportedMediaType, KindUnsupported
	case errors.Is(err, docpipe.ErrInsufficientText):
		return http.StatusUnprocessableEntity, KindInsufficient
	case errors.Is(err, docpipe.ErrUnreadable):
		return http.StatusUnprocessableEntity, KindUnreadable
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, KindNotFound
	default:
		return http.StatusInternalServerError, KindInternal
	}
}
