package feeds

import (
	"errors"
	"fmt"
)

// NetworkError is returned when a feed could not be fetched: DNS failures,
// refused connections, timeouts, or a connection dropped mid-body.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// BadStatusError is returned when the server answers with a non-2xx status
type BadStatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *BadStatusError) Error() string {
	return fmt.Sprintf("fetch %s: bad status %s", e.URL, e.Status)
}

// DecodeError is returned when the body is not a well-formed RSS or Atom
// document. Records yielded before the error remain valid.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

var (
	errEmptyDocument = errors.New("document has no root element")
	errUnknownFormat = errors.New("document is neither RSS nor Atom")
)

// Kind names the failure class of err for logs and metrics
func Kind(err error) string {
	var netErr *NetworkError
	var statusErr *BadStatusError
	var decodeErr *DecodeError

	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &netErr):
		return "network_error"
	case errors.As(err, &statusErr):
		return "bad_status"
	case errors.As(err, &decodeErr):
		return "decode_error"
	default:
		return "error"
	}
}
