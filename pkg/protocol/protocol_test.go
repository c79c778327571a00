package protocol

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	buf := new(bytes.Buffer)
	key := Int64Bytes(1000)
	val := []byte("hello")

	if err := Encode(buf, OpFind, key, val); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	pkg, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if pkg.Op != OpFind {
		t.Errorf("got op %v, want %v", pkg.Op, OpFind)
	}
	if !bytes.Equal(pkg.Key, key) {
		t.Errorf("key mismatch: got %v", pkg.Key)
	}
	if !bytes.Equal(pkg.Value, val) {
		t.Errorf("value mismatch: got %q", string(pkg.Value))
	}
}

func TestDecodeInvalidMagic(t *testing.T) {
	buf := bytes.NewReader([]byte{0x00, OpFind, 0, 8, 0, 0, 0, 5, 'h', 'e', 'l', 'l', 'o'})
	_, err := Decode(buf)
	if !errors.Is(err, ErrInvalidMagic) || err.Error() != "invalid magic number" {
		t.Errorf("expected invalid magic error, got %v", err)
	}
}

func TestEncodeDecodeEmptyKeyValue(t *testing.T) {
	buf := new(bytes.Buffer)
	if err := Encode(buf, OpRange, []byte{}, []byte{}); err != nil {
		t.Fatalf("Encode empty failed: %v", err)
	}
	pkg, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if pkg.Op != OpRange || len(pkg.Key) != 0 || len(pkg.Value) != 0 {
		t.Errorf("unexpected result: %+v", pkg)
	}
}

func TestDecodeIncompleteHeader(t *testing.T) {
	r := bytes.NewReader([]byte{MagicNumber, 0x01}) // only 2 bytes
	_, err := Decode(r)
	if err != io.ErrUnexpectedEOF {
		t.Errorf("expected ErrUnexpectedEOF for incomplete header, got %v", err)
	}
}

func TestDecodeRejectsOversizedValue(t *testing.T) {
	r := bytes.NewReader([]byte{MagicNumber, OpQuery, 0, 0, 0xFF, 0xFF, 0xFF, 0xFF})
	if _, err := Decode(r); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("expected ErrFrameTooLarge, got %v", err)
	}
}

func TestEncodeRejectsOversizedKey(t *testing.T) {
	if err := Encode(io.Discard, OpPrefix, make([]byte, 0x10000), nil); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("expected ErrFrameTooLarge, got %v", err)
	}
}
