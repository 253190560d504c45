package dismissal

import "errors"

var (
	// ErrNoticeIDRequired indicates a dismiss or restore call without a notice id.
	ErrNoticeIDRequired = errors.New("go-notices: notice id required")
	// ErrStoreRequired indicates a resolver built without a dismissal store.
	ErrStoreRequired = errors.New("go-notices: dismissal store required")
)
