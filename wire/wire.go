// Package wire implements the Minecraft wire primitives shared by every
// protocol version: length-prefixed framing, VarInt/VarLong, and the
// fixed set of primitive field encoders used by the version codecs in
// package codec and by packages conn, cipher and transfer.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

var (
	// ErrVarIntTooBig is returned when a VarInt encoding exceeds 5 bytes.
	ErrVarIntTooBig = errors.New("wire: VarInt is too big")
	// ErrVarLongTooBig is returned when a VarLong encoding exceeds 10 bytes.
	ErrVarLongTooBig = errors.New("wire: VarLong is too big")
	// ErrMalformed covers any field whose declared length disagrees with
	// the bytes actually available.
	ErrMalformed = errors.New("wire: malformed field")
	// ErrNeedMore indicates the buffer does not yet contain a full frame.
	ErrNeedMore = errors.New("wire: need more data")
	// ErrOversize indicates a frame's declared length exceeds MaxFrameSize.
	ErrOversize = errors.New("wire: frame too large")
)

// MaxFrameSize bounds the accepted length of a single frame's payload
// after decompression, guarding against decompression bombs.
const MaxFrameSize = 2 * 1024 * 1024

// A Reader is anything primitive decoders can pull single bytes and byte
// runs from. *bufio.Reader and *bytes.Reader both satisfy it.
type Reader interface {
	io.Reader
	io.ByteReader
}

// VarInt encodes a two's-complement signed 32-bit integer in 7-bit
// little-endian groups, continuation flagged by the high bit.
type VarInt int32

// Encode appends the VarInt encoding of v.
func (v VarInt) Encode() []byte {
	n := uint32(v)
	buf := make([]byte, 0, 5)
	for {
		b := byte(n & 0x7F)
		n >>= 7
		if n != 0 {
			b |= 0x80
		}
		buf = append(buf, b)
		if n == 0 {
			return buf
		}
	}
}

// ReadVarInt decodes a VarInt, rejecting encodings longer than 5 bytes.
func ReadVarInt(r Reader) (VarInt, error) {
	var n uint32
	for i := 0; ; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		n |= uint32(b&0x7F) << uint(7*i)
		if b&0x80 == 0 {
			return VarInt(n), nil
		}
		if i >= 4 {
			return 0, ErrVarIntTooBig
		}
	}
}

// VarLong is the 64-bit counterpart of VarInt, up to 10 bytes.
type VarLong int64

func (v VarLong) Encode() []byte {
	n := uint64(v)
	buf := make([]byte, 0, 10)
	for {
		b := byte(n & 0x7F)
		n >>= 7
		if n != 0 {
			b |= 0x80
		}
		buf = append(buf, b)
		if n == 0 {
			return buf
		}
	}
}

func ReadVarLong(r Reader) (VarLong, error) {
	var n uint64
	for i := 0; ; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		n |= uint64(b&0x7F) << uint(7*i)
		if b&0x80 == 0 {
			return VarLong(n), nil
		}
		if i >= 9 {
			return 0, ErrVarLongTooBig
		}
	}
}

// String is a VarInt-length-prefixed UTF-8 string.
type String string

func (s String) Encode() []byte {
	b := []byte(s)
	out := VarInt(len(b)).Encode()
	return append(out, b...)
}

// ReadString reads a length-prefixed string. maxLen counts characters,
// so declared byte lengths above maxLen*4 (four UTF-8 bytes per
// character at most) are rejected; use 0 for "no limit beyond int32".
func ReadString(r Reader, maxLen int) (String, error) {
	n, err := ReadVarInt(r)
	if err != nil {
		return "", err
	}
	if n < 0 || (maxLen > 0 && int(n) > maxLen*4) {
		return "", fmt.Errorf("%w: string length %d", ErrMalformed, n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return String(buf), nil
}

// ByteArray is a VarInt-length-prefixed opaque byte blob, used for NBT
// pass-through per spec §4.4.5.
func EncodeByteArray(b []byte) []byte {
	out := VarInt(len(b)).Encode()
	return append(out, b...)
}

func ReadByteArray(r Reader) ([]byte, error) {
	n, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if n < 0 || n > MaxFrameSize {
		return nil, fmt.Errorf("%w: byte array length %d", ErrMalformed, n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return buf, nil
}

// UUID is the 16-byte big-endian Minecraft UUID representation: two
// big-endian int64 halves.
type UUID [16]byte

func (u UUID) Encode() []byte {
	return u[:]
}

func ReadUUID(r Reader) (UUID, error) {
	var u UUID
	if _, err := io.ReadFull(r, u[:]); err != nil {
		return u, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return u, nil
}

// Bool, Byte, UnsignedByte, Short, Int, Long, Float, Double are
// fixed-width big-endian primitives.

func ReadBool(r Reader) (bool, error) {
	b, err := r.ReadByte()
	return b != 0, err
}

func EncodeBool(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

func ReadInt16(r Reader) (int16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return int16(binary.BigEndian.Uint16(buf[:])), nil
}

func EncodeInt16(v int16) []byte {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], uint16(v))
	return buf[:]
}

func ReadInt32(r Reader) (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return int32(binary.BigEndian.Uint32(buf[:])), nil
}

func EncodeInt32(v int32) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(v))
	return buf[:]
}

func ReadInt64(r Reader) (int64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return int64(binary.BigEndian.Uint64(buf[:])), nil
}

func EncodeInt64(v int64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	return buf[:]
}

func ReadFloat32(r Reader) (float32, error) {
	v, err := ReadInt32(r)
	return math.Float32frombits(uint32(v)), err
}

func EncodeFloat32(v float32) []byte {
	return EncodeInt32(int32(math.Float32bits(v)))
}

func ReadFloat64(r Reader) (float64, error) {
	v, err := ReadInt64(r)
	return math.Float64frombits(uint64(v)), err
}

func EncodeFloat64(v float64) []byte {
	return EncodeInt64(int64(math.Float64bits(v)))
}
