package kit

import "errors"

// KindInternal is reported for errors that carry no kind.
const KindInternal = "internal"

// Kinded is implemented by errors that carry a machine-readable kind.
type Kinded interface {
	ErrorKind() string
}

type kindError struct {
	kind string
	err  error
}

func (e *kindError) Error() string     { return e.err.Error() }
func (e *kindError) Unwrap() error     { return e.err }
func (e *kindError) ErrorKind() string { return e.kind }

// WithKind tags err with kind. A nil err stays nil.
func WithKind(kind string, err error) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, err: err}
}

// KindOf returns the kind of the outermost Kinded error in err's chain,
// or KindInternal.
func KindOf(err error) string {
	var k Kinded
	if errors.As(err, &k) {
		return k.ErrorKind()
	}
	return KindInternal
}
