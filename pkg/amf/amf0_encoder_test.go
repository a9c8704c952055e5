package amf

import (
	"bytes"
	"testing"
)

func TestEncodeAMF0Sequence_Success(t *testing.T) {
	data, err := EncodeAMF0Sequence("connect", 1.0, map[string]any{"app": "live"})
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty encoded data")
	}
}

func TestEncodeAMF0Sequence_Error(t *testing.T) {
	type unsupportedType struct{}
	_, err := EncodeAMF0Sequence(unsupportedType{})
	if err == nil {
		t.Fatal("expected error for unsupported type")
	}
}

func TestEncodeAMF0_Null(t *testing.T) {
	buf := new(bytes.Buffer)
	if err := encodeValue(buf, nil); err != nil {
		t.Fatal(err)
	}

	expected := []byte{nullMarker}
	if !bytes.Equal(buf.Bytes(), expected) {
		t.Errorf("expected %v, got %v", expected, buf.Bytes())
	}
}

func TestEncodeAMF0_Boolean(t *testing.T) {
	cases := []struct {
		value bool
		want  byte
	}{
		{true, 1},
		{false, 0},
	}
	for _, c := range cases {
		buf := new(bytes.Buffer)
		if err := encodeValue(buf, c.value); err != nil {
			t.Fatal(err)
		}
		expected := []byte{booleanMarker, c.want}
		if !bytes.Equal(buf.Bytes(), expected) {
			t.Errorf("encodeValue(%v) = %v, want %v", c.value, buf.Bytes(), expected)
		}
	}
}

func TestEncodeAMF0_NumberMarkerSharedAcrossTypes(t *testing.T) {
	inputs := []any{float64(7), float32(7), int(7), int32(7), int64(7), uint(7), uint32(7), uint64(7)}
	var first []byte
	for _, in := range inputs {
		buf := new(bytes.Buffer)
		if err := encodeValue(buf, in); err != nil {
			t.Fatalf("encodeValue(%T): %v", in, err)
		}
		if buf.Bytes()[0] != numberMarker {
			t.Errorf("encodeValue(%T) marker = %#x, want %#x", in, buf.Bytes()[0], numberMarker)
		}
		if first == nil {
			first = buf.Bytes()
		} else if !bytes.Equal(buf.Bytes(), first) {
			t.Errorf("encodeValue(%T) = %v, want %v (same as float64)", in, buf.Bytes(), first)
		}
	}
}

func TestEncodeAMF0_String(t *testing.T) {
	buf := new(bytes.Buffer)
	if err := encodeValue(buf, "hi"); err != nil {
		t.Fatal(err)
	}
	expected := []byte{stringMarker, 0x00, 0x02, 'h', 'i'}
	if !bytes.Equal(buf.Bytes(), expected) {
		t.Errorf("expected %v, got %v", expected, buf.Bytes())
	}
}

func TestEncodeAMF0_ObjectKeysAreSorted(t *testing.T) {
	obj := map[string]any{"zeta": 1.0, "alpha": 2.0, "mid": 3.0}

	var first []byte
	for i := 0; i < 5; i++ {
		buf := new(bytes.Buffer)
		if err := encodeValue(buf, obj); err != nil {
			t.Fatal(err)
		}
		if first == nil {
			first = buf.Bytes()
		} else if !bytes.Equal(buf.Bytes(), first) {
			t.Fatalf("encoding the same object twice produced different bytes")
		}
	}

	alpha := bytes.Index(first, []byte("alpha"))
	mid := bytes.Index(first, []byte("mid"))
	zeta := bytes.Index(first, []byte("zeta"))
	if !(alpha < mid && mid < zeta) {
		t.Fatalf("keys not in sorted order: alpha@%d mid@%d zeta@%d", alpha, mid, zeta)
	}
}

func TestEncodeAMF0_StrictArray(t *testing.T) {
	buf := new(bytes.Buffer)
	if err := encodeValue(buf, []any{1.0, "x"}); err != nil {
		t.Fatal(err)
	}
	if buf.Bytes()[0] != strictArrayMarker {
		t.Errorf("marker = %#x, want %#x", buf.Bytes()[0], strictArrayMarker)
	}
}
