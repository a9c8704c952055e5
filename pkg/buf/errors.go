package buf

import "errors"

// Sentinel errors. ErrAllocationFailed is wrapped with context at the call
// site; ErrInsertTooLarge is returned as is.
var (
	// ErrAllocationFailed wraps whatever the Allocator returned.
	ErrAllocationFailed = errors.New("buf: block allocation failed")

	// ErrInsertTooLarge is returned by Insert when size is not smaller
	// than a single block's data area.
	ErrInsertTooLarge = errors.New("buf: insert size must be smaller than block size")
)
