package transfer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/bamboo-mc/bamboo/wire"
)

// Kind identifies a record's schema: the control messages spec §4.6
// adds (NewConnection, RemoveConnection, Heartbeat,
// DisconnectConnection) plus ClientPacket and ServerPacket, which each
// carry one packet's wire ID and encoded body.
type Kind int32

const (
	KindNewConnection Kind = iota + 1
	KindRemoveConnection
	KindHeartbeat
	KindClientPacket
	KindServerPacket
	KindDisconnectConnection
)

// MaxRecordSize bounds a single record's field-list length, guarding
// against a corrupt length prefix pinning the reader on an
// unreasonably large allocation.
const MaxRecordSize = 1 << 20

// ErrUnknownKind is returned by ReadRecord when the kind on the wire
// isn't one this build recognizes. Per spec §4.6, an unknown kind
// closes the link rather than being skipped, since a record's fields
// can't be safely skipped without knowing how many there are.
var ErrUnknownKind = fmt.Errorf("transfer: unknown record kind")

// Record is one length-prefixed `varint length, varint kind, fields…`
// unit on the wire (spec §4.6).
type Record struct {
	Kind   Kind
	Fields []byte
}

// WriteRecord frames and writes one record: `varint length` covering
// everything that follows it, then `varint kind`, then the pre-encoded
// field bytes from a Writer.
func WriteRecord(w io.Writer, kind Kind, fields []byte) error {
	var body bytes.Buffer
	body.Write(wire.VarInt(int32(kind)).Encode())
	body.Write(fields)

	var frame bytes.Buffer
	frame.Write(wire.VarInt(int32(body.Len())).Encode())
	frame.Write(body.Bytes())

	_, err := w.Write(frame.Bytes())
	return err
}

// ReadRecord reads one length-prefixed record off r. Known kinds are
// returned as-is for the caller to decode with the matching message
// type; an unrecognized kind is reported via ErrUnknownKind so the
// caller can close the link per spec §4.6.
func ReadRecord(r wire.Reader) (Record, error) {
	length, err := wire.ReadVarInt(r)
	if err != nil {
		return Record{}, fmt.Errorf("transfer: reading record length: %w", err)
	}
	if length < 0 || int(length) > MaxRecordSize {
		return Record{}, fmt.Errorf("transfer: record length %d exceeds bound", length)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return Record{}, fmt.Errorf("transfer: reading record body: %w", err)
	}

	br := bytes.NewReader(body)
	kindVal, err := wire.ReadVarInt(br)
	if err != nil {
		return Record{}, fmt.Errorf("transfer: reading record kind: %w", err)
	}
	kind := Kind(kindVal)
	if !kindKnown(kind) {
		return Record{}, ErrUnknownKind
	}

	fields := make([]byte, br.Len())
	if _, err := io.ReadFull(br, fields); err != nil && br.Len() > 0 {
		return Record{}, fmt.Errorf("transfer: reading record fields: %w", err)
	}
	return Record{Kind: kind, Fields: fields}, nil
}

func kindKnown(k Kind) bool {
	switch k {
	case KindNewConnection, KindRemoveConnection, KindHeartbeat,
		KindClientPacket, KindServerPacket, KindDisconnectConnection:
		return true
	default:
		return false
	}
}
