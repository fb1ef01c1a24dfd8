// Package transfer implements the internal schema-tagged record
// protocol carried over the single proxy<->server TCP link (spec §4.6,
// C6): one connection-ID-multiplexed stream standing in for per-player
// traffic between the two processes. Grounded on the teacher's
// in-process BackendRequest/BackendAnswer channel protocol
// (worker/type.go), generalized here into an actual wire format, and on
// bb_transfer's tagged-field framing concept (each field self-describes
// its type so a reader can skip ones it doesn't recognize).
package transfer

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bamboo-mc/bamboo/wire"
)

// Tag identifies a field's wire shape, written immediately before its
// value so an older reader can skip fields it doesn't know about
// instead of desyncing the whole record (spec §4.6 forward-compat
// rule: "consumers ignore unknown trailing fields").
type Tag byte

const (
	TagBool Tag = iota + 1
	TagVarInt
	TagI32
	TagI64
	TagF32
	TagF64
	TagString
	TagBytes
	TagUUID
)

// Writer builds one record's field list in memory before it is
// length-prefixed and written to the link.
type Writer struct {
	buf []byte
}

func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) WriteBool(v bool) {
	w.buf = append(w.buf, byte(TagBool))
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

func (w *Writer) WriteVarInt(v int32) {
	w.buf = append(w.buf, byte(TagVarInt))
	w.buf = append(w.buf, wire.VarInt(v).Encode()...)
}

func (w *Writer) WriteI32(v int32) {
	w.buf = append(w.buf, byte(TagI32))
	w.buf = append(w.buf, wire.EncodeInt32(v)...)
}

func (w *Writer) WriteI64(v int64) {
	w.buf = append(w.buf, byte(TagI64))
	w.buf = append(w.buf, wire.EncodeInt64(v)...)
}

func (w *Writer) WriteF32(v float32) {
	w.buf = append(w.buf, byte(TagF32))
	w.buf = append(w.buf, wire.EncodeFloat32(v)...)
}

func (w *Writer) WriteF64(v float64) {
	w.buf = append(w.buf, byte(TagF64))
	w.buf = append(w.buf, wire.EncodeFloat64(v)...)
}

func (w *Writer) WriteString(v string) {
	w.buf = append(w.buf, byte(TagString))
	w.buf = append(w.buf, wire.String(v).Encode()...)
}

func (w *Writer) WriteBytes(v []byte) {
	w.buf = append(w.buf, byte(TagBytes))
	w.buf = append(w.buf, wire.EncodeByteArray(v)...)
}

func (w *Writer) WriteUUID(v [16]byte) {
	w.buf = append(w.buf, byte(TagUUID))
	w.buf = append(w.buf, v[:]...)
}

// Reader walks a decoded record's field list positionally: each
// Read* call checks the next tag matches what the schema expects and
// errors if a required field is missing, but a schema may stop reading
// early and leave any trailing fields (added by a newer writer)
// unconsumed, satisfying spec §4.6's forward-compat rule without extra
// bookkeeping.
type Reader struct {
	buf []byte
	pos int
}

func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

// More reports whether any bytes remain; used by schema code that
// reads an optional trailing field only if the writer included one.
func (r *Reader) More() bool { return r.pos < len(r.buf) }

func (r *Reader) readTag(want Tag) error {
	if r.pos >= len(r.buf) {
		return fmt.Errorf("transfer: expected tag %d, got EOF", want)
	}
	got := Tag(r.buf[r.pos])
	r.pos++
	if got != want {
		return fmt.Errorf("transfer: expected tag %d, got %d", want, got)
	}
	return nil
}

func (r *Reader) ReadBool() (bool, error) {
	if err := r.readTag(TagBool); err != nil {
		return false, err
	}
	if r.pos >= len(r.buf) {
		return false, io.ErrUnexpectedEOF
	}
	v := r.buf[r.pos] != 0
	r.pos++
	return v, nil
}

func (r *Reader) ReadVarInt() (int32, error) {
	if err := r.readTag(TagVarInt); err != nil {
		return 0, err
	}
	v, n, err := readVarIntAt(r.buf[r.pos:])
	if err != nil {
		return 0, err
	}
	r.pos += n
	return v, nil
}

func (r *Reader) ReadI32() (int32, error) {
	if err := r.readTag(TagI32); err != nil {
		return 0, err
	}
	if r.pos+4 > len(r.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	v := int32(binary.BigEndian.Uint32(r.buf[r.pos:]))
	r.pos += 4
	return v, nil
}

func (r *Reader) ReadI64() (int64, error) {
	if err := r.readTag(TagI64); err != nil {
		return 0, err
	}
	if r.pos+8 > len(r.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	v := int64(binary.BigEndian.Uint64(r.buf[r.pos:]))
	r.pos += 8
	return v, nil
}

func (r *Reader) ReadF32() (float32, error) {
	if err := r.readTag(TagF32); err != nil {
		return 0, err
	}
	v, n, err := readF32At(r.buf[r.pos:])
	if err != nil {
		return 0, err
	}
	r.pos += n
	return v, nil
}

func (r *Reader) ReadF64() (float64, error) {
	if err := r.readTag(TagF64); err != nil {
		return 0, err
	}
	v, n, err := readF64At(r.buf[r.pos:])
	if err != nil {
		return 0, err
	}
	r.pos += n
	return v, nil
}

func (r *Reader) ReadString() (string, error) {
	if err := r.readTag(TagString); err != nil {
		return "", err
	}
	v, n, err := readStringAt(r.buf[r.pos:])
	if err != nil {
		return "", err
	}
	r.pos += n
	return v, nil
}

func (r *Reader) ReadBytes() ([]byte, error) {
	if err := r.readTag(TagBytes); err != nil {
		return nil, err
	}
	v, n, err := readBytesAt(r.buf[r.pos:])
	if err != nil {
		return nil, err
	}
	r.pos += n
	return v, nil
}

func (r *Reader) ReadUUID() ([16]byte, error) {
	var out [16]byte
	if err := r.readTag(TagUUID); err != nil {
		return out, err
	}
	if r.pos+16 > len(r.buf) {
		return out, io.ErrUnexpectedEOF
	}
	copy(out[:], r.buf[r.pos:r.pos+16])
	r.pos += 16
	return out, nil
}

func readVarIntAt(b []byte) (int32, int, error) {
	br := byteSliceReader{b: b}
	v, err := wire.ReadVarInt(&br)
	return int32(v), br.pos, err
}

func readF32At(b []byte) (float32, int, error) {
	br := byteSliceReader{b: b}
	v, err := wire.ReadFloat32(&br)
	return v, br.pos, err
}

func readF64At(b []byte) (float64, int, error) {
	br := byteSliceReader{b: b}
	v, err := wire.ReadFloat64(&br)
	return v, br.pos, err
}

func readStringAt(b []byte) (string, int, error) {
	br := byteSliceReader{b: b}
	v, err := wire.ReadString(&br, 0)
	return string(v), br.pos, err
}

func readBytesAt(b []byte) ([]byte, int, error) {
	br := byteSliceReader{b: b}
	v, err := wire.ReadByteArray(&br)
	return v, br.pos, err
}

// byteSliceReader adapts a plain []byte slice to wire.Reader so the
// primitive decoders in package wire can be reused here without
// introducing an io.Reader allocation per field.
type byteSliceReader struct {
	b   []byte
	pos int
}

func (r *byteSliceReader) ReadByte() (byte, error) {
	if r.pos >= len(r.b) {
		return 0, io.EOF
	}
	b := r.b[r.pos]
	r.pos++
	return b, nil
}

func (r *byteSliceReader) Read(p []byte) (int, error) {
	n := copy(p, r.b[r.pos:])
	r.pos += n
	if n < len(p) {
		return n, io.ErrUnexpectedEOF
	}
	return n, nil
}
