package catalog

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrBadRequest       = errors.New("bad request")
	ErrUnknownKind      = errors.New("unknown catalog kind")
	ErrStoreUnavailable = errors.New("catalog store unavailable")
)

func IsErrNotFound(err error) bool         { return errors.Is(err, ErrNotFound) }
func IsErrStoreUnavailable(err error) bool { return errors.Is(err, ErrStoreUnavailable) }

// IsErrBadRequest also matches an unknown kind, which only ever comes from
// the request path.
func IsErrBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest) || errors.Is(err, ErrUnknownKind)
}
