package main

import (
	"encoding/binary"
	"fmt"

	"github.com/ssungk/wirebuf/pkg/amf"
	"github.com/ssungk/wirebuf/pkg/buf"
)

// MarshalCommand builds a length-prefixed AMF0 command into a fresh Buffer:
// a 4-byte big-endian length header followed by the AMF0-encoded sequence
// [name, transactionID, args...]. The header is written with
// encoding/binary rather than buf.AddBackValue, since the frame has to be
// big-endian on the wire regardless of host byte order, and AddBackValue
// reinterprets a value's native in-memory layout rather than a chosen one.
func MarshalCommand(opts buf.Options, name string, transactionID float64, args ...any) (*buf.Buffer, error) {
	seq := make([]any, 0, len(args)+2)
	seq = append(seq, name, transactionID)
	seq = append(seq, args...)

	payload, err := amf.EncodeAMF0Sequence(seq...)
	if err != nil {
		return nil, fmt.Errorf("wireclient: encode command %q: %w", name, err)
	}

	b, err := buf.NewBuffer(opts)
	if err != nil {
		return nil, fmt.Errorf("wireclient: new buffer: %w", err)
	}

	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))
	if err := b.AddBack(header[:]); err != nil {
		b.Close()
		return nil, fmt.Errorf("wireclient: write frame header: %w", err)
	}
	if err := b.AddBack(payload); err != nil {
		b.Close()
		return nil, fmt.Errorf("wireclient: write payload: %w", err)
	}

	return b, nil
}
