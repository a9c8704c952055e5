package buf

// DefaultBlockSize is the default block size: 16KiB.
const DefaultBlockSize = 16 * 1024

// Debug enables the precondition checks documented throughout this package
// (no live iterator in a dropped range, iterator ownership, etc). They are
// panics, not errors: precondition violations are programmer errors, caught
// in debug builds and trusted not to occur in release ones. Off by default
// so a release build pays nothing for them.
var Debug = false

// Options configures a new Buffer: a plain struct with a DefaultOptions
// constructor, since there is nothing here worth binding to a config file
// or env vars.
type Options struct {
	// BlockSize is the power-of-two size of each block. It must equal
	// Allocator.RealSize() when Allocator is set explicitly.
	BlockSize int
	// Allocator supplies blocks. If nil, NewBuffer creates a private
	// TieredPoolAllocator sized to BlockSize.
	Allocator Allocator
}

// DefaultOptions returns the default configuration: 16KiB blocks from a
// private pool.
func DefaultOptions() Options {
	return Options{BlockSize: DefaultBlockSize}
}
