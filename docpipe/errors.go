// CLAUDE:SUMMARY Engine-level error taxonomy: unreadable document and insufficient text layer.
package docpipe

import "errors"

// ErrorKind classifies a fatal extraction failure.
type ErrorKind string

const (
	KindUnreadable       ErrorKind = "unreadable"
	KindInsufficientText ErrorKind = "insufficient_text"
)

// ErrUnreadable is matched (errors.Is) by every failure to open the source
// document: corrupt, encrypted, or without pages.
var ErrUnreadable = errors.New("docpipe: document cannot be opened")

// ErrInsufficientText is matched (errors.Is) when the document opens but its
// text layer is too small, typically a scan without embedded text.
var ErrInsufficientText = errors.New("docpipe: document has insufficient text")

// ExtractionError carries the kind and a human-readable message.
type ExtractionError struct {
	Kind ErrorKind
	Msg  string
	Err  error // underlying backend error, if any
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ErrorKind reports the kind as a plain string for transports.
func (e *ExtractionError) ErrorKind() string { return string(e.Kind) }

// Is makes errors.Is(err, ErrUnreadable) and errors.Is(err, ErrInsufficientText) work.
func (e *ExtractionError) Is(target error) bool {
	switch target {
	case ErrUnreadable:
		return e.Kind == KindUnreadable
	case ErrInsufficientText:
		return e.Kind == KindInsufficientText
	}
	return false
}

func unreadable(msg string, err error) error {
	return &ExtractionError{Kind: KindUnreadable, Msg: msg, Err: err}
}

func insufficientText(msg string) error {
	return &ExtractionError{Kind: KindInsufficientText, Msg: msg}
}
