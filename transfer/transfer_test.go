package transfer_test

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/bamboo-mc/bamboo/transfer"
)

func TestFieldRoundTrip(t *testing.T) {
	var w transfer.Writer
	w.WriteVarInt(42)
	w.WriteString("hello")
	w.WriteBool(true)
	w.WriteBytes([]byte{1, 2, 3})
	w.WriteUUID([16]byte{0xAA, 0xBB})

	r := transfer.NewReader(w.Bytes())
	n, err := r.ReadVarInt()
	if err != nil || n != 42 {
		t.Fatalf("varint: got %d, %v", n, err)
	}
	s, err := r.ReadString()
	if err != nil || s != "hello" {
		t.Fatalf("string: got %q, %v", s, err)
	}
	b, err := r.ReadBool()
	if err != nil || !b {
		t.Fatalf("bool: got %v, %v", b, err)
	}
	bs, err := r.ReadBytes()
	if err != nil || !bytes.Equal(bs, []byte{1, 2, 3}) {
		t.Fatalf("bytes: got %v, %v", bs, err)
	}
	id, err := r.ReadUUID()
	if err != nil || id[0] != 0xAA || id[1] != 0xBB {
		t.Fatalf("uuid: got %x, %v", id, err)
	}
	if r.More() {
		t.Fatal("expected no trailing fields")
	}
}

func TestWrongTagIsRejected(t *testing.T) {
	var w transfer.Writer
	w.WriteString("oops")

	r := transfer.NewReader(w.Bytes())
	if _, err := r.ReadVarInt(); err == nil {
		t.Fatal("expected tag mismatch error, got nil")
	}
}

func TestRecordRoundTrip(t *testing.T) {
	msg := transfer.NewConnection{
		ConnID:     7,
		UUID:       [16]byte{1, 2, 3, 4},
		Username:   "Notch",
		Version:    47,
		RemoteAddr: "127.0.0.1:54321",
	}

	var buf bytes.Buffer
	if err := transfer.WriteRecord(&buf, transfer.KindNewConnection, msg.Encode()); err != nil {
		t.Fatalf("WriteRecord: %v", err)
	}

	rec, err := transfer.ReadRecord(&buf)
	if err != nil {
		t.Fatalf("ReadRecord: %v", err)
	}
	if rec.Kind != transfer.KindNewConnection {
		t.Fatalf("got kind %d, want KindNewConnection", rec.Kind)
	}
	got, err := transfer.DecodeNewConnection(rec.Fields)
	if err != nil {
		t.Fatalf("DecodeNewConnection: %v", err)
	}
	if got != msg {
		t.Fatalf("got %+v, want %+v", got, msg)
	}
}

func TestUnknownKindClosesLink(t *testing.T) {
	var buf bytes.Buffer
	// A record whose kind (99) is not one ReadRecord recognizes.
	if err := transfer.WriteRecord(&buf, transfer.Kind(99), nil); err != nil {
		t.Fatalf("WriteRecord: %v", err)
	}
	if _, err := transfer.ReadRecord(&buf); err != transfer.ErrUnknownKind {
		t.Fatalf("got err %v, want ErrUnknownKind", err)
	}
}

func TestLinkServeDispatchesEnvelopes(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	proxySide := transfer.NewLink(a)
	serverSide := transfer.NewLink(b)

	received := make(chan transfer.Envelope, 1)
	go func() {
		_ = serverSide.Serve(func(env transfer.Envelope) error {
			received <- env
			return nil
		})
	}()

	want := transfer.NewConnection{ConnID: 1, Username: "Steve", Version: 340}
	if err := proxySide.SendNewConnection(want); err != nil {
		t.Fatalf("SendNewConnection: %v", err)
	}

	select {
	case env := <-received:
		got, ok := env.Message.(transfer.NewConnection)
		if !ok {
			t.Fatalf("got %T, want NewConnection", env.Message)
		}
		if got.ConnID != want.ConnID || got.Username != want.Username || got.Version != want.Version {
			t.Fatalf("got %+v, want %+v", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for envelope")
	}
}

func TestClientPacketRoundTrip(t *testing.T) {
	msg := transfer.ClientPacket{ConnID: 3, WireID: 0x10, Body: []byte{0xDE, 0xAD, 0xBE, 0xEF}}
	got, err := transfer.DecodeClientPacket(msg.Encode())
	if err != nil {
		t.Fatalf("DecodeClientPacket: %v", err)
	}
	if got.ConnID != msg.ConnID || got.WireID != msg.WireID || !bytes.Equal(got.Body, msg.Body) {
		t.Fatalf("got %+v, want %+v", got, msg)
	}
}
