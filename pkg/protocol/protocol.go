package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	MagicNumber = 0x49

	OpInsert = 0x01
	OpFind   = 0x02
	OpDelete = 0x03
	OpRange  = 0x04
	OpPrefix = 0x05
	OpQuery  = 0x06

	RespOK       = 0x00
	RespVal      = 0x01
	RespNotFound = 0x02
	RespErr      = 0xFF
)

// MaxValueSize bounds a single frame's value so a corrupt length cannot
// make Decode allocate without limit.
const MaxValueSize = 64 << 20

var (
	ErrInvalidMagic  = errors.New("invalid magic number")
	ErrFrameTooLarge = errors.New("frame too large")
)

// [Magic 1B] [Op 1B] [KeyLen 2B] [ValLen 4B] [Key] [Value]
type Packet struct {
	Op    byte
	Key   []byte
	Value []byte
}

func Encode(w io.Writer, op byte, key []byte, value []byte) error {
	if len(key) > 0xFFFF {
		return fmt.Errorf("%w: key of %d bytes", ErrFrameTooLarge, len(key))
	}
	if len(value) > MaxValueSize {
		return fmt.Errorf("%w: value of %d bytes", ErrFrameTooLarge, len(value))
	}

	frame := make([]byte, 8, 8+len(key)+len(value))
	frame[0] = MagicNumber
	frame[1] = op
	binary.BigEndian.PutUint16(frame[2:4], uint16(len(key)))
	binary.BigEndian.PutUint32(frame[4:8], uint32(len(value)))
	frame = append(frame, key...)
	frame = append(frame, value...)

	_, err := w.Write(frame)
	return err
}

func Decode(r io.Reader) (*Packet, error) {
	header := make([]byte, 8)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	if header[0] != MagicNumber {
		return nil, ErrInvalidMagic
	}

	op := header[1]
	kLen := binary.BigEndian.Uint16(header[2:4])
	vLen := binary.BigEndian.Uint32(header[4:8])
	if vLen > MaxValueSize {
		return nil, fmt.Errorf("%w: value of %d bytes", ErrFrameTooLarge, vLen)
	}

	key := make([]byte, kLen)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}

	val := make([]byte, vLen)
	if _, err := io.ReadFull(r, val); err != nil {
		return nil, err
	}

	return &Packet{Op: op, Key: key, Value: val}, nil
}
