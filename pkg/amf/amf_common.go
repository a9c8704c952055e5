package amf

import "io"

// AMF0 type markers. Only the ones EncodeAMF0Sequence's value switch
// actually emits are listed; the format defines more (ECMA array,
// reference, typed object, ...) than this encoder needs to produce.
const (
	numberMarker      = 0x00
	booleanMarker     = 0x01
	stringMarker      = 0x02
	objectMarker      = 0x03
	nullMarker        = 0x05
	strictArrayMarker = 0x0A
	dateMarker        = 0x0B
	longStringMarker  = 0x0C
	objectEndMarker   = 0x09
)

func writeByte(w io.Writer, b byte) error {
	_, err := w.Write([]byte{b})
	return err
}
