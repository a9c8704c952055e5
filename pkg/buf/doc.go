// Package buf implements a chunked, append-biased byte buffer backed by a
// pool allocator, with live iterators that survive growth and mid-buffer
// insert/release.
package buf
