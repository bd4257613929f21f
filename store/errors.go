package store

import "errors"

var (
	ErrStoreInit         = errors.New("feed store initialization failed")
	ErrStoreIO           = errors.New("feed store I/O failed")
	ErrInvalidIdentifier = errors.New("feed identifier must not be blank")
)
